package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/settleup/internal/models"
)

// DefaultIssuer is used when TokenConfig.Issuer is empty.
const DefaultIssuer = "settleup"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// TokenConfig configures session tokens.
type TokenConfig struct {
	// Secret is the HS256 signing key.
	Secret string
	// TTL is how long a session token stays valid.
	TTL time.Duration
	// Issuer is stamped on every token and required on validation.
	Issuer string
}

// JWTManager issues and validates HS256 session tokens. The user ID travels
// as the token subject.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Claims is the session identity carried by a token.
type Claims struct {
	// UserID mirrors the subject claim after validation.
	UserID string `json:"-"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTManager builds a manager from cfg.
func NewJWTManager(cfg TokenConfig) (*JWTManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &JWTManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// TTL reports how long issued tokens stay valid.
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

// Issuer reports the issuer stamped on tokens.
func (m *JWTManager) Issuer() string {
	return m.issuer
}

// Generate signs a session token for user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, algorithm, issuer and expiry and returns the claims.
func (m *JWTManager) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	claims.UserID = claims.Subject
	return claims, nil
}
