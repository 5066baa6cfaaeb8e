package main

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/avelichko/todoservice/internal/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug level", level: "debug"},
		{name: "info level", level: "info"},
		{name: "warn level", level: "warn"},
		{name: "error level", level: "error"},
		{name: "unknown level falls back to info", level: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			logger, err := initLogger(tt.level)

			// Assert
			if err != nil {
				t.Fatalf("initLogger(%q) unexpected error: %v", tt.level, err)
			}
			if logger == nil {
				t.Fatal("initLogger() returned nil logger")
			}
			_ = logger.Sync()
		})
	}
}

func TestCreateAuthenticator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		wantNil bool
		wantErr bool
	}{
		{
			name:    "mode none returns nil authenticator",
			cfg:     &config.Config{AuthMode: "none"},
			wantNil: true,
		},
		{
			name:    "empty mode returns nil authenticator",
			cfg:     &config.Config{AuthMode: ""},
			wantNil: true,
		},
		{
			name: "basic mode",
			cfg: &config.Config{
				AuthMode:       "basic",
				BasicAuthUsers: "user:hash",
			},
		},
		{
			name: "apikey mode",
			cfg: &config.Config{
				AuthMode: "apikey",
				APIKeys:  "key:name",
			},
		},
		{
			name:    "basic mode without users fails",
			cfg:     &config.Config{AuthMode: "basic"},
			wantErr: true,
		},
		{
			name:    "unknown mode fails",
			cfg:     &config.Config{AuthMode: "oauth"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			authenticator, err := createAuthenticator(tt.cfg, zap.NewNop())

			// Assert
			if tt.wantErr {
				if err == nil {
					t.Error("createAuthenticator() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("createAuthenticator() unexpected error: %v", err)
			}
			if tt.wantNil && authenticator != nil {
				t.Errorf("createAuthenticator() = %v, want nil", authenticator)
			}
			if !tt.wantNil && authenticator == nil {
				t.Error("createAuthenticator() returned nil authenticator")
			}
		})
	}
}

func TestCreateStore_Memory(t *testing.T) {
	// Arrange
	cfg := &config.Config{
		StorageBackend:  "memory",
		ShutdownTimeout: 5 * time.Second,
	}

	// Act
	itemStore, cleanup, err := createStore(cfg, zap.NewNop())

	// Assert
	if err != nil {
		t.Fatalf("createStore() unexpected error: %v", err)
	}
	defer cleanup()

	if itemStore == nil {
		t.Fatal("createStore() returned nil store")
	}
}

func TestCreateStore_UnknownBackend(t *testing.T) {
	// Arrange
	cfg := &config.Config{StorageBackend: "cassandra"}

	// Act
	_, _, err := createStore(cfg, zap.NewNop())

	// Assert
	if err == nil {
		t.Error("createStore() expected error for unknown backend")
	}
}
