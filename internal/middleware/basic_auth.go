package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/aurabx/harmony/internal/envelope"
)

// BasicAuthConfig holds the static credential set a basic_auth middleware
// instance checks against. Credentials are compared in constant time to
// avoid leaking match progress through timing.
type BasicAuthConfig struct {
	// Credentials maps username to password. Both sides of the comparison
	// come from static configuration, satisfying §4.B's "no hidden global
	// state except cryptographic verification against static keys".
	Credentials map[string]string
}

// BasicAuth implements the basic_auth built-in kind: left leg only,
// short-circuits with 401 on a missing or wrong Authorization header.
type BasicAuth struct {
	name string
	cfg  BasicAuthConfig
}

// NewBasicAuth builds a BasicAuth middleware instance named name.
func NewBasicAuth(name string, cfg BasicAuthConfig) *BasicAuth {
	return &BasicAuth{name: name, cfg: cfg}
}

func (m *BasicAuth) Name() string { return m.name }
func (m *BasicAuth) Leg() Leg     { return LegLeft }

func (m *BasicAuth) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	header := req.RequestDetails.Headers["authorization"]
	if header == "" {
		return nil, unauthorized(req, m.name), nil
	}

	const prefix = "Basic "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return nil, unauthorized(req, m.name), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return nil, unauthorized(req, m.name), nil
	}

	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return nil, unauthorized(req, m.name), nil
	}

	want, exists := m.cfg.Credentials[user]
	if !exists || subtle.ConstantTimeCompare([]byte(want), []byte(pass)) != 1 {
		return nil, unauthorized(req, m.name), nil
	}

	req.RequestDetails.Metadata["auth.subject"] = user
	return req, nil, nil
}
