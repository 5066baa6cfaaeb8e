package auth_test

import (
	"context"
	"testing"

	"github.com/avelichko/todoservice/internal/auth"
)

func TestAuthInfoContextRoundTrip(t *testing.T) {
	// Arrange
	info := &auth.AuthInfo{
		Method:  auth.AuthMethodBasic,
		Subject: "alice",
	}

	// Act
	ctx := auth.WithAuthInfo(context.Background(), info)
	got, ok := auth.FromContext(ctx)

	// Assert
	if !ok {
		t.Fatal("FromContext() should find stored auth info")
	}
	if got.Method != auth.AuthMethodBasic {
		t.Errorf("Method = %q, want %q", got.Method, auth.AuthMethodBasic)
	}
	if got.Subject != "alice" {
		t.Errorf("Subject = %q, want alice", got.Subject)
	}
}

func TestFromContext_Empty(t *testing.T) {
	// Act
	_, ok := auth.FromContext(context.Background())

	// Assert
	if ok {
		t.Error("FromContext() on empty context should report not found")
	}
}
