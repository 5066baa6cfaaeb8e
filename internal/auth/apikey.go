package auth

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the HTTP header name for API key authentication.
const APIKeyHeader = "X-API-Key"

// APIKeyAuthenticator authenticates requests using API keys provided in
// the X-API-Key header with constant-time comparison.
type APIKeyAuthenticator struct {
	keys map[string]string // key value -> key name
}

// NewAPIKeyAuthenticator creates a new API key authenticator from a
// configuration string in the format "key1:name1,key2:name2".
func NewAPIKeyAuthenticator(keysConfig string) (*APIKeyAuthenticator, error) {
	keys, err := parseCredentialPairs(keysConfig, "apikey auth")
	if err != nil {
		return nil, err
	}
	return &APIKeyAuthenticator{keys: keys}, nil
}

// Authenticate extracts the API key from the X-API-Key header and
// validates it against the configured keys using constant-time comparison
// to prevent timing attacks.
func (a *APIKeyAuthenticator) Authenticate(r *http.Request) (*AuthInfo, error) {
	apiKey := r.Header.Get(APIKeyHeader)
	if apiKey == "" {
		return nil, ErrUnauthenticated
	}

	for key, name := range a.keys {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
			return &AuthInfo{
				Method:  AuthMethodAPIKey,
				Subject: name,
			}, nil
		}
	}

	return nil, ErrInvalidAPIKey
}

// Method returns the authentication method type.
func (a *APIKeyAuthenticator) Method() AuthMethod {
	return AuthMethodAPIKey
}
