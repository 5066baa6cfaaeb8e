package auth

import (
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthenticator authenticates requests using HTTP Basic authentication
// with bcrypt-hashed passwords.
type BasicAuthenticator struct {
	users map[string]string // username -> bcrypt hash
}

// NewBasicAuthenticator creates a new Basic authenticator from a
// configuration string in the format "user1:hash1,user2:hash2".
func NewBasicAuthenticator(usersConfig string) (*BasicAuthenticator, error) {
	users, err := parseCredentialPairs(usersConfig, "basic auth")
	if err != nil {
		return nil, err
	}
	return &BasicAuthenticator{users: users}, nil
}

// Authenticate extracts Basic auth credentials from the request, looks up
// the user, and verifies the password against the stored bcrypt hash.
func (a *BasicAuthenticator) Authenticate(r *http.Request) (*AuthInfo, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return nil, ErrUnauthenticated
	}

	hash, exists := a.users[username]
	if !exists {
		return nil, fmt.Errorf("%w: unknown user", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
	}

	return &AuthInfo{
		Method:  AuthMethodBasic,
		Subject: username,
	}, nil
}

// Method returns the authentication method type.
func (a *BasicAuthenticator) Method() AuthMethod {
	return AuthMethodBasic
}
