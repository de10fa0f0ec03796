package interceptors

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/glimte/hookable-go/internal/reliability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryInterceptor(t *testing.T) {
	t.Run("retries until success", func(t *testing.T) {
		s := newService(t)
		s.failFor.Store(2)
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := NewRetryInterceptor(reliability.NewFixedDelay(time.Millisecond, 3)).
			WithLogger(logger).
			Attach(s.builder, "double")
		require.NoError(t, err)

		out, err := s.call("double", 3)
		require.NoError(t, err)
		assert.Equal(t, 6, out)
		assert.Equal(t, int64(3), s.calls.Load())
		assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("method call attempt failed")))
	})

	t.Run("returns the last error when exhausted", func(t *testing.T) {
		s := newService(t)
		s.failFor.Store(10)
		_, err := Retry(s.builder, "double", reliability.NewFixedDelay(time.Millisecond, 2))
		require.NoError(t, err)

		_, err = s.call("double", 3)
		assert.ErrorIs(t, err, errFlaky)
		assert.Equal(t, int64(3), s.calls.Load())
	})
}
