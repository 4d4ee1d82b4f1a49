package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mamadbah2/weaver/internal/domain/models"
)

// ErrInvalidToken is returned for malformed, expired or badly signed credentials.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier validates a bearer credential issued by the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
}

// tokenClaims mirrors the claims the identity provider puts in its ID tokens.
type tokenClaims struct {
	Email  string `json:"email,omitempty"`
	Admin  bool   `json:"admin,omitempty"`
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) identity() (models.Identity, error) {
	uid := c.Subject
	if uid == "" {
		uid = c.UserID
	}
	if uid == "" {
		return models.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return models.Identity{UID: uid, Email: c.Email, Admin: c.Admin}, nil
}

// HMACVerifier accepts HS256 tokens signed with a shared secret. It serves
// local development and environments without the hosted provider.
type HMACVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewHMACVerifier builds a verifier for tokens signed with secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), now: time.Now}
}

// Verify parses and validates an HS256 token.
func (v *HMACVerifier) Verify(_ context.Context, raw string) (models.Identity, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}
	return claims.identity()
}

// SignHMAC mints an HS256 token for id valid for ttl from now.
func SignHMAC(secret string, id models.Identity, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("hmac secret must not be empty")
	}
	claims := tokenClaims{
		Email: id.Email,
		Admin: id.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
