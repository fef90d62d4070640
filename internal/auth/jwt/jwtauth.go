package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const (
	RoleClaim = "role"

	RoleAdmin  = "ADMIN"
	RoleSeller = "SELLER"
)

// Config holds the signing secret and lifetime of issued tokens.
type Config struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`
}

// Claims are the parts of a verified token the API relies on.
type Claims struct {
	Subject string
	Role    string
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// New returns an HS256 signer and verifier for c.
func New(c *Config) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(c.JWTSecret), nil)
}

func VerifyToken(jwtAuth *jwtauth.JWTAuth, token string) (Claims, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return Claims{}, err
	}
	claims, err := t.AsMap(context.Background())
	if err != nil {
		return Claims{}, err
	}
	return claimsFromMap(t.Subject(), claims), nil
}

// FromContext returns the claims jwtauth.Verifier stored in ctx.
func FromContext(ctx context.Context) (Claims, error) {
	t, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if t == nil {
		return Claims{}, fmt.Errorf("no token in context")
	}
	return claimsFromMap(t.Subject(), claims), nil
}

// NewToken creates a JWT for subject (a user id) with an optional role claim.
func NewToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, subject, role string) (string, error) {
	claims := map[string]interface{}{
		"exp": time.Now().Add(ttl).Unix(),
	}
	if subject != "" {
		claims["sub"] = subject
	}
	if role != "" {
		claims[RoleClaim] = role
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return ts, err
	}
	return ts, nil
}

func claimsFromMap(subject string, m map[string]interface{}) Claims {
	c := Claims{Subject: subject}
	if role, ok := m[RoleClaim].(string); ok {
		c.Role = role
	}
	return c
}
