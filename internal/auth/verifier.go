package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier validates a raw bearer token and extracts the caller's identity.
// Implementations are stateless per request; key material may be cached.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Claims is the token payload understood by the static verifier.
type Claims struct {
	Email    string   `json:"email,omitempty"`
	Username string   `json:"username,omitempty"`
	Groups   []string `json:"groups,omitempty"`
	jwt.RegisteredClaims
}

// StaticVerifier validates HS256 tokens signed with a shared secret. It
// stands in for the hosted identity provider during local development and in
// tests; production deployments use the JWKS verifier.
type StaticVerifier struct {
	secret []byte
	issuer string
}

// NewStaticVerifier constructs a verifier for the given secret and expected
// issuer.
func NewStaticVerifier(secret []byte, issuer string) (*StaticVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth secret is required")
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	return &StaticVerifier{secret: secret, issuer: issuer}, nil
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
		Roles:    normalizeRoles(claims.Groups),
	}, nil
}

// SignToken issues an HS256 token for the given subject. Development and test
// use only; the real provider signs production tokens.
func (v *StaticVerifier) SignToken(userID, email string, groups []string, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("userID is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be greater than zero")
	}

	now := time.Now().UTC()
	claims := Claims{
		Email:    email,
		Username: userID,
		Groups:   normalizeRoles(groups),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
