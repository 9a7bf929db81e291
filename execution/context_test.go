package execution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubContext struct{ props Properties }

func (s *stubContext) Configure(props Properties) error {
	s.props = props
	return nil
}

func (s *stubContext) Connection(context.Context) (Connection, error) { return nil, ErrNotConfigured }

func (s *stubContext) Reset() error { return nil }

func TestContextRegistry(t *testing.T) {
	RegisterContext("stub", func() Context { return &stubContext{} })

	ctx, err := NewContext("stub")
	require.NoError(t, err)
	assert.IsType(t, &stubContext{}, ctx)

	other, err := NewContext("stub")
	require.NoError(t, err)
	assert.NotSame(t, ctx, other)

	assert.Contains(t, ContextNames(), "stub")

	assert.Panics(t, func() { RegisterContext("stub", func() Context { return &stubContext{} }) })
	assert.Panics(t, func() { RegisterContext("nil", nil) })

	_, err = NewContext("jco")
	assert.ErrorIs(t, err, ErrUnknownContext)
	assert.ErrorContains(t, err, "stub")
}

func TestProperties(t *testing.T) {
	props := Properties{
		"http.base_url": "https://example.com",
		"http.timeout":  "1500",
		"http.retry":    "2s",
		"http.blank":    "  ",
		"memory.x":      "y",
	}

	assert.Equal(t, Properties{
		"http.base_url": "https://example.com",
		"http.timeout":  "1500",
		"http.retry":    "2s",
		"http.blank":    "  ",
	}, props.WithPrefix("http."))

	assert.Equal(t, "def", props.Get("http.blank", "def"))
	assert.Equal(t, "y", props.Get("memory.x", "def"))

	d, err := props.Duration("http.timeout", 0)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = props.Duration("http.retry", 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	d, err = props.Duration("http.missing", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	props["http.bad"] = "soon"
	_, err = props.Duration("http.bad", 0)
	assert.Error(t, err)
}
