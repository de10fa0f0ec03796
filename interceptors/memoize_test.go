package interceptors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoizeInterceptor(t *testing.T) {
	t.Run("caches per arguments", func(t *testing.T) {
		s := newService(t)
		m, _, err := Memoize(s.builder, "double", 0)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			out, err := s.call("double", 4)
			require.NoError(t, err)
			assert.Equal(t, 8, out)
		}
		out, err := s.call("double", 5)
		require.NoError(t, err)
		assert.Equal(t, 10, out)

		assert.Equal(t, int64(2), s.calls.Load())
		assert.Equal(t, 2, m.Len())
		hits, misses := m.Stats()
		assert.Equal(t, int64(2), hits)
		assert.Equal(t, int64(2), misses)
	})

	t.Run("keys include argument types", func(t *testing.T) {
		s := newService(t)
		m, _, err := Memoize(s.builder, "describe", 0)
		require.NoError(t, err)

		for _, tt := range []struct {
			arg  any
			want string
		}{
			{1, "int"},
			{int64(1), "int64"},
			{1.0, "float64"},
			{"1", "string"},
			{1, "int"},
		} {
			out, err := s.call("describe", tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		}

		assert.Equal(t, int64(4), s.calls.Load())
		assert.Equal(t, 4, m.Len())
	})

	t.Run("does not cache errors", func(t *testing.T) {
		s := newService(t)
		s.failFor.Store(1)
		m, _, err := Memoize(s.builder, "double", 0)
		require.NoError(t, err)

		_, err = s.call("double", 1)
		assert.ErrorIs(t, err, errFlaky)
		assert.Zero(t, m.Len())

		out, err := s.call("double", 1)
		require.NoError(t, err)
		assert.Equal(t, 2, out)
		assert.Equal(t, int64(2), s.calls.Load())
	})

	t.Run("evicts the oldest entry when full", func(t *testing.T) {
		s := newService(t)
		m, _, err := Memoize(s.builder, "double", 2)
		require.NoError(t, err)

		for _, n := range []int{1, 2, 3, 1} {
			_, err := s.call("double", n)
			require.NoError(t, err)
		}

		assert.Equal(t, int64(4), s.calls.Load())
		assert.Equal(t, 2, m.Len())
	})

	t.Run("evicts rejected futures", func(t *testing.T) {
		s := newService(t)
		s.failFor.Store(1)
		m, _, err := Memoize(s.builder, "fetch", 0)
		require.NoError(t, err)

		out, err := s.call("fetch", "a")
		require.NoError(t, err)
		_, err = await(t, out)
		assert.ErrorIs(t, err, errFlaky)
		assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, time.Millisecond)

		out, err = s.call("fetch", "a")
		require.NoError(t, err)
		v, err := await(t, out)
		require.NoError(t, err)
		assert.Equal(t, "fetched a", v)

		again, err := s.call("fetch", "a")
		require.NoError(t, err)
		assert.Same(t, out, again)
		assert.Equal(t, int64(2), s.calls.Load())
	})

	t.Run("reset clears the cache", func(t *testing.T) {
		s := newService(t)
		m, _, err := Memoize(s.builder, "double", 0)
		require.NoError(t, err)

		_, err = s.call("double", 1)
		require.NoError(t, err)
		m.Reset()

		assert.Zero(t, m.Len())
		hits, misses := m.Stats()
		assert.Zero(t, hits)
		assert.Zero(t, misses)
	})
}
