package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience is the aud claim of minted operator tokens.
const Audience = "gleo-admin"

// TokenLifetime is how long a minted token stays valid.
const TokenLifetime = 5 * time.Minute

// Authenticator decorates an outgoing request with credentials.
type Authenticator interface {
	Authorize(req *http.Request) error
}

// BearerToken sends a fixed token.
type BearerToken string

// Authorize sets the Authorization header; an empty token sends nothing.
func (t BearerToken) Authorize(req *http.Request) error {
	if t != "" {
		req.Header.Set("Authorization", "Bearer "+string(t))
	}
	return nil
}

// JWTSigner mints a short-lived HS256 token per request.
type JWTSigner struct {
	Secret   []byte
	Operator string
	Now      func() time.Time
}

// Token returns a signed token for the operator.
func (s JWTSigner) Token() (string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	issued := now()
	claims := jwt.RegisteredClaims{
		Subject:   s.Operator,
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(TokenLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authorize sets a freshly minted bearer token.
func (s JWTSigner) Authorize(req *http.Request) error {
	token, err := s.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// ParseOperator verifies a token minted by JWTSigner and returns its subject.
func ParseOperator(token string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(Audience))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	return claims.Subject, nil
}
