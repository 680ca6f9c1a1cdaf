package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoKey is returned when neither a public key nor a secret is configured.
	ErrNoKey = errors.New("jwt configuration requires PublicKeyPEM or Secret")
	// ErrInvalidToken wraps every verification failure.
	ErrInvalidToken = errors.New("invalid token")
)

// JWTConfig describes how operator tokens are verified. Tokens are issued
// by the identity provider in front of the back office; lendingd never
// signs any.
type JWTConfig struct {
	// PublicKeyPEM selects RS256 and wins over Secret.
	PublicKeyPEM string
	// Secret selects HS256.
	Secret string

	Issuer   string
	Audience string
	// Leeway tolerates clock skew on exp, nbf and iat.
	Leeway time.Duration
}

// JWTService verifies bearer tokens against a single key.
type JWTService struct {
	key    any
	parser *jwt.Parser
}

// NewJWTService prepares a verifier for cfg.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired(), jwt.WithLeeway(cfg.Leeway)}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	svc := &JWTService{}
	switch {
	case cfg.PublicKeyPEM != "":
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse RSA public key: %w", err)
		}
		svc.key = pub
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	case cfg.Secret != "":
		svc.key = []byte(cfg.Secret)
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	default:
		return nil, ErrNoKey
	}
	svc.parser = jwt.NewParser(opts...)
	return svc, nil
}

// ValidateToken verifies the signature and registered claims of raw and
// returns the operator claims it carries.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return s.key, nil })
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}

// ReadPublicKey loads a PEM-encoded public key for JWTConfig.PublicKeyPEM.
func ReadPublicKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read public key %q: %w", path, err)
	}
	return string(data), nil
}
