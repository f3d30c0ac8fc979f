package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestVerifier(t *testing.T) *StaticVerifier {
	t.Helper()
	v, err := NewStaticVerifier([]byte("test-secret"), "clubhub-test")
	if err != nil {
		t.Fatalf("NewStaticVerifier: %v", err)
	}
	return v
}

func TestStaticVerifierRoundTrip(t *testing.T) {
	v := newTestVerifier(t)

	token, err := v.SignToken("user-42", "user42@example.edu", []string{"Admin", "Member", "admin"}, time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "user-42" {
		t.Fatalf("unexpected subject: %s", id.UserID)
	}
	if id.Email != "user42@example.edu" {
		t.Fatalf("unexpected email: %s", id.Email)
	}
	if len(id.Roles) != 2 || id.Roles[0] != "admin" || id.Roles[1] != "member" {
		t.Fatalf("roles not normalized: %v", id.Roles)
	}
}

func TestStaticVerifierRejectsExpired(t *testing.T) {
	v := newTestVerifier(t)

	now := time.Now().UTC().Add(-2 * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "clubhub-test",
			Subject:   "user-42",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.Verify(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestStaticVerifierRejectsWrongIssuer(t *testing.T) {
	other, err := NewStaticVerifier([]byte("test-secret"), "someone-else")
	if err != nil {
		t.Fatalf("NewStaticVerifier: %v", err)
	}
	token, err := other.SignToken("user-42", "", nil, time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	v := newTestVerifier(t)
	if _, err := v.Verify(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestStaticVerifierRejectsWrongSecret(t *testing.T) {
	other, err := NewStaticVerifier([]byte("other-secret"), "clubhub-test")
	if err != nil {
		t.Fatalf("NewStaticVerifier: %v", err)
	}
	token, err := other.SignToken("user-42", "", nil, time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	v := newTestVerifier(t)
	if _, err := v.Verify(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestStaticVerifierRejectsGarbage(t *testing.T) {
	v := newTestVerifier(t)
	for _, tok := range []string{"", "   ", "not.a.jwt", "a.b"} {
		if _, err := v.Verify(context.Background(), tok); err != ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}
