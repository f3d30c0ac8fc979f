package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newJWKSServer(t *testing.T, kid string, pub *rsa.PublicKey) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signRS256(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestJWKSVerifierAcceptsProviderToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newJWKSServer(t, "key-1", &key.PublicKey)

	v, err := NewJWKSVerifier(srv.URL, "https://idp.example.com/pool", "cognito:groups")
	if err != nil {
		t.Fatalf("NewJWKSVerifier: %v", err)
	}

	now := time.Now().UTC()
	token := signRS256(t, key, "key-1", jwt.MapClaims{
		"iss":              "https://idp.example.com/pool",
		"sub":              "user-7",
		"email":            "user7@example.edu",
		"cognito:username": "user7",
		"cognito:groups":   []string{"Admin"},
		"iat":              now.Unix(),
		"exp":              now.Add(time.Minute).Unix(),
	})

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "user-7" || id.Username != "user7" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if len(id.Roles) != 1 || id.Roles[0] != "admin" {
		t.Fatalf("unexpected roles: %v", id.Roles)
	}

	// Second verification hits the kid cache, no refetch needed.
	if _, err := v.Verify(context.Background(), token); err != nil {
		t.Fatalf("cached Verify: %v", err)
	}
}

func TestJWKSVerifierRejectsUnknownKid(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newJWKSServer(t, "key-1", &key.PublicKey)

	v, err := NewJWKSVerifier(srv.URL, "https://idp.example.com/pool", "groups")
	if err != nil {
		t.Fatalf("NewJWKSVerifier: %v", err)
	}

	now := time.Now().UTC()
	token := signRS256(t, key, "rotated-away", jwt.MapClaims{
		"iss": "https://idp.example.com/pool",
		"sub": "user-7",
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	})

	if _, err := v.Verify(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWKSVerifierRejectsIssuerMismatch(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newJWKSServer(t, "key-1", &key.PublicKey)

	v, err := NewJWKSVerifier(srv.URL, "https://idp.example.com/pool", "groups")
	if err != nil {
		t.Fatalf("NewJWKSVerifier: %v", err)
	}

	now := time.Now().UTC()
	token := signRS256(t, key, "key-1", jwt.MapClaims{
		"iss": "https://evil.example.com",
		"sub": "user-7",
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	})

	if _, err := v.Verify(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
