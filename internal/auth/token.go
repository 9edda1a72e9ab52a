// Package auth issues and validates the signed bearer tokens used by the API
// and wraps password hashing.
//
// Tokens are stateless: the role claim is trusted until the token expires, so
// a role change in storage only takes effect once the caller obtains a new
// token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"frutolandia/internal/domain"
)

const (
	defaultIssuer  = "frutolandia"
	minSecretBytes = 32
)

// ErrInvalidToken is returned for any token that fails signature, structure,
// issuer or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the claim set carried by an access token. Subject holds the email.
type Claims struct {
	Role   domain.Role `json:"role"`
	UserID int64       `json:"userId"`
	jwt.RegisteredClaims
}

// Email returns the subject the token was issued to.
func (c *Claims) Email() string {
	return c.Subject
}

// TokenConfig is the explicit signing configuration handed to NewTokenService.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("token secret must be at least %d bytes, got %d", minSecretBytes, len(cfg.Secret))
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}

	s := &TokenService{
		key:    []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for user carrying its email, role and id.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	if user == nil || user.Email == "" {
		return "", fmt.Errorf("issue token: user email is required")
	}

	now := s.now()
	claims := &Claims{
		Role:   user.Role,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry of token and returns its claims.
// A token is rejected from its expiry instant onwards.
func (s *TokenService) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: incomplete claims", ErrInvalidToken)
	}
	return claims, nil
}
