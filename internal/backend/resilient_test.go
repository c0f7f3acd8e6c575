package backend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aurabx/harmony/internal/backend"
	"github.com/aurabx/harmony/internal/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWrapper implements resilience.ResilienceWrapper by either invoking fn
// once or returning a canned error without invoking it, simulating an open
// circuit breaker or an exhausted retry budget.
type fakeWrapper struct {
	shortCircuitErr error
	lastName        string
}

func (f *fakeWrapper) Execute(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	f.lastName = name
	if f.shortCircuitErr != nil {
		return f.shortCircuitErr
	}
	return fn(ctx)
}

func TestResilient_DelegatesToInnerWhenWrapperAllows(t *testing.T) {
	inner := backend.NewEcho("orders")
	wrapper := &fakeWrapper{}
	b := backend.NewResilient(inner, wrapper)

	req := &envelope.RequestEnvelope[[]byte]{
		RequestDetails: envelope.NewRequestDetails(),
		OriginalData:   []byte("payload"),
	}

	resp, err := b.Invoke(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), resp.OriginalData)
	assert.Equal(t, "orders", wrapper.lastName)
	assert.Equal(t, "orders", b.Name())
}

func TestResilient_PropagatesWrapperShortCircuitError(t *testing.T) {
	inner := backend.NewEcho("orders")
	wrapper := &fakeWrapper{shortCircuitErr: errors.New("circuit open")}
	b := backend.NewResilient(inner, wrapper)

	req := &envelope.RequestEnvelope[[]byte]{RequestDetails: envelope.NewRequestDetails()}

	_, err := b.Invoke(context.Background(), req)

	require.Error(t, err)
	assert.EqualError(t, err, "circuit open")
}
