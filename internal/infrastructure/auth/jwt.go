// Package auth verifies bearer tokens issued by the external identity
// provider. Tokens are never minted here.
package auth

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parcelco/backoffice/internal/infrastructure/config"
)

// Common errors
var (
	ErrMissingToken     = errors.New("missing bearer token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrForbidden        = errors.New("admin role required")
)

// Claims are the identity provider claims the back office relies on
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether role appears in either the role or roles claim
func (c *Claims) HasRole(role string) bool {
	if role == "" {
		return false
	}
	if strings.EqualFold(c.Role, role) {
		return true
	}
	return slices.ContainsFunc(c.Roles, func(r string) bool {
		return strings.EqualFold(r, role)
	})
}

// Verifier validates HMAC-signed identity provider tokens
type Verifier struct {
	secret    []byte
	issuer    string
	audience  string
	adminRole string
	leeway    time.Duration
	now       func() time.Time
}

// NewVerifier creates a verifier from the auth settings
func NewVerifier(cfg config.AuthConfig) *Verifier {
	adminRole := cfg.AdminRole
	if adminRole == "" {
		adminRole = "admin"
	}
	return &Verifier{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		adminRole: adminRole,
		leeway:    cfg.Leeway,
		now:       time.Now,
	}
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// Verify parses and validates a token and returns its claims
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, ErrInvalidClaims
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// VerifyAdmin verifies the token and requires the configured admin role
func (v *Verifier) VerifyAdmin(tokenString string) (*Claims, error) {
	claims, err := v.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.HasRole(v.adminRole) {
		return claims, ErrForbidden
	}
	return claims, nil
}
