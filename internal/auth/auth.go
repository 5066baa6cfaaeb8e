// Package auth provides authentication for the REST API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthMethod represents the authentication method used.
type AuthMethod string

const (
	// AuthMethodNone indicates no authentication.
	AuthMethodNone AuthMethod = "none"
	// AuthMethodBasic indicates HTTP Basic authentication.
	AuthMethodBasic AuthMethod = "basic"
	// AuthMethodAPIKey indicates API key authentication.
	AuthMethodAPIKey AuthMethod = "apikey"
)

// AuthInfo holds authenticated identity information.
type AuthInfo struct {
	Method  AuthMethod
	Subject string
}

// Authenticator validates a request and returns auth info.
type Authenticator interface {
	Authenticate(r *http.Request) (*AuthInfo, error)
	Method() AuthMethod
}

// Sentinel errors for authentication failures.
var (
	ErrUnauthenticated    = errors.New("unauthenticated: no credentials provided")
	ErrInvalidAPIKey      = errors.New("invalid API key")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// contextKey is the type for context keys in this package.
type contextKey string

// authInfoKey is the context key for AuthInfo.
const authInfoKey contextKey = "auth_info"

// FromContext retrieves AuthInfo from the context.
func FromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(authInfoKey).(*AuthInfo)
	return info, ok
}

// WithAuthInfo stores AuthInfo in the context.
func WithAuthInfo(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, authInfoKey, info)
}

// parseCredentialPairs parses a "left:right,left:right" configuration
// string into a map. Only the first colon in each entry separates the
// two halves, so the right half may itself contain colons (bcrypt
// hashes do not, but nothing here depends on that).
func parseCredentialPairs(config, kind string) (map[string]string, error) {
	trimmed := strings.TrimSpace(config)
	if trimmed == "" {
		return nil, fmt.Errorf("%s: config must not be empty", kind)
	}

	pairs := make(map[string]string)
	for _, entry := range strings.Split(trimmed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		idx := strings.Index(entry, ":")
		if idx < 0 {
			return nil, fmt.Errorf("%s: invalid entry, expected left:right", kind)
		}

		left := strings.TrimSpace(entry[:idx])
		right := strings.TrimSpace(entry[idx+1:])
		if left == "" || right == "" {
			return nil, fmt.Errorf("%s: entry halves must not be empty", kind)
		}

		pairs[left] = right
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s: no valid entries found", kind)
	}

	return pairs, nil
}
