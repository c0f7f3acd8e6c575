package middleware_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurabx/harmony/internal/envelope"
	"github.com/aurabx/harmony/internal/middleware"
)

func newBasicAuthRequest(header string) *envelope.RequestEnvelope[[]byte] {
	req := &envelope.RequestEnvelope[[]byte]{RequestDetails: envelope.NewRequestDetails()}
	req.RequestDetails.Metadata[envelope.MetaRequestID] = "req-1"
	if header != "" {
		req.RequestDetails.Headers["authorization"] = header
	}
	return req
}

func TestBasicAuth_AllowsCorrectCredentials(t *testing.T) {
	m := middleware.NewBasicAuth("basic", middleware.BasicAuthConfig{
		Credentials: map[string]string{"alice": "s3cret"},
	})

	token := base64.StdEncoding.EncodeToString([]byte("alice:s3cret"))
	req := newBasicAuthRequest("Basic " + token)

	out, short, err := m.ApplyIncoming(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, short)
	require.NotNil(t, out)
	assert.Equal(t, "alice", out.RequestDetails.Metadata["auth.subject"])
}

func TestBasicAuth_RejectsWrongPassword(t *testing.T) {
	m := middleware.NewBasicAuth("basic", middleware.BasicAuthConfig{
		Credentials: map[string]string{"alice": "s3cret"},
	})

	token := base64.StdEncoding.EncodeToString([]byte("alice:wrong"))
	req := newBasicAuthRequest("Basic " + token)

	out, short, err := m.ApplyIncoming(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, out)
	require.NotNil(t, short)
	assert.Equal(t, http.StatusUnauthorized, short.ResponseDetails.Status)
	assert.Equal(t, "req-1", short.ResponseDetails.Metadata[envelope.MetaRequestID])
}

func TestBasicAuth_RejectsMissingHeader(t *testing.T) {
	m := middleware.NewBasicAuth("basic", middleware.BasicAuthConfig{
		Credentials: map[string]string{"alice": "s3cret"},
	})

	req := newBasicAuthRequest("")
	_, short, err := m.ApplyIncoming(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, short)
	assert.Equal(t, http.StatusUnauthorized, short.ResponseDetails.Status)
}

func TestBasicAuth_RejectsMalformedHeader(t *testing.T) {
	m := middleware.NewBasicAuth("basic", middleware.BasicAuthConfig{
		Credentials: map[string]string{"alice": "s3cret"},
	})

	req := newBasicAuthRequest("Bearer sometoken")
	_, short, err := m.ApplyIncoming(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, short)
	assert.Equal(t, http.StatusUnauthorized, short.ResponseDetails.Status)
}

func TestBasicAuth_Leg(t *testing.T) {
	m := middleware.NewBasicAuth("basic", middleware.BasicAuthConfig{})
	assert.Equal(t, middleware.LegLeft, m.Leg())
}
