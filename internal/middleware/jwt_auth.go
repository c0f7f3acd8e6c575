package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aurabx/harmony/internal/envelope"
	"github.com/aurabx/harmony/internal/httpctx"
)

// AllowedAlgorithm is the only JWT signing method accepted (prevents
// algorithm confusion attacks).
const AllowedAlgorithm = "HS256"

// NormalizeRole lowercases and trims a role string for consistent
// downstream comparisons.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// JWTAuthConfig holds configuration for a jwt_auth middleware instance.
type JWTAuthConfig struct {
	// Secret is the HS256 signing key.
	Secret []byte
	// Issuer, if non-empty, is required to match the token's iss claim.
	Issuer string
	// Audience, if non-empty, is required to match the token's aud claim.
	Audience string
	// ClockSkew tolerates a leeway around exp/nbf.
	ClockSkew time.Duration
	// Now provides the current time for validation; defaults to time.Now.
	Now func() time.Time
}

// JWTAuth implements the jwt_auth built-in kind: left leg only,
// short-circuits with 401 on a missing, malformed, or invalid token. No
// detail about why validation failed is ever exposed to the caller.
type JWTAuth struct {
	name   string
	cfg    JWTAuthConfig
	parser *jwt.Parser
}

// NewJWTAuth builds a JWTAuth middleware instance named name.
func NewJWTAuth(name string, cfg JWTAuthConfig) *JWTAuth {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{AllowedAlgorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.ClockSkew > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.ClockSkew))
	}

	return &JWTAuth{name: name, cfg: cfg, parser: jwt.NewParser(opts...)}
}

func (m *JWTAuth) Name() string { return m.name }
func (m *JWTAuth) Leg() Leg     { return LegLeft }

func (m *JWTAuth) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	header := req.RequestDetails.Headers["authorization"]
	if header == "" {
		return nil, unauthorized(req, m.name), nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, unauthorized(req, m.name), nil
	}

	claims := &httpctx.Claims{}
	token, err := m.parser.ParseWithClaims(parts[1], claims, func(_ *jwt.Token) (interface{}, error) {
		return m.cfg.Secret, nil
	})
	if err != nil || !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, unauthorized(req, m.name), nil
	}

	req.RequestDetails.Metadata["auth.subject"] = claims.Subject
	req.RequestDetails.Metadata["auth.role"] = NormalizeRole(claims.Role)
	return req, nil, nil
}
