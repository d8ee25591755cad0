package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuskit/school-service/internal/models"
)

// Claims is the payload carried by a self-issued token. The role claim is
// informational only; authorization always re-reads the stored identity.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens. Pure given the secret and the
// clock; no I/O.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec fails on a missing secret so misconfiguration surfaces at
// startup rather than per request.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token codec: secret is required")
	}
	return &Codec{secret: []byte(secret), issuer: issuer}, nil
}

// Issue signs a token for the subject with the given lifetime.
func (c *Codec) Issue(subjectID string, role models.UserRole, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the signature and expiry and returns the claims.
// ErrExpiredToken for a well-formed but stale token, ErrInvalidToken for
// everything else.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
