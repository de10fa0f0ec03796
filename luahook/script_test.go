package luahook

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
	}{
		{name: "function", source: `return function(x) return x end`},
		{name: "syntax error", source: `return function(`},
		{name: "runtime error", source: `error("boom")`},
		{name: "no function", source: `return 42`, wantErr: ErrNotFunction},
		{name: "no return", source: `local x = 1`, wantErr: ErrNotFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compile(tt.source)
			if tt.name == "function" {
				require.NoError(t, err)
				s.Close()
				return
			}
			require.Error(t, err)
			assert.Nil(t, s)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSandbox(t *testing.T) {
	s := MustCompile(`return function()
		return type(os), type(io), type(debug), type(dofile), type(load), type(require),
			type(string.upper), type(table.insert), type(math.floor), type(pairs)
	end`)
	defer s.Close()

	out, err := s.Call()
	require.NoError(t, err)
	assert.Equal(t, []any{
		"nil", "nil", "nil", "nil", "nil", "nil",
		"function", "function", "function", "function",
	}, out)
}

func TestCall(t *testing.T) {
	t.Run("multiple results", func(t *testing.T) {
		s := MustCompile(`return function(a, b) return a + b, a * b, a / b end`)
		defer s.Close()

		out, err := s.Call(6, 4)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(10), int64(24), 1.5}, out)
	})

	t.Run("runtime error", func(t *testing.T) {
		s := MustCompile(`return function() error("bad input") end`, WithName("checker"))
		defer s.Close()

		_, err := s.Call()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad input")
		assert.Contains(t, err.Error(), "checker")

		out, err := s.Call1()
		assert.Error(t, err)
		assert.Nil(t, out)
	})

	t.Run("timeout", func(t *testing.T) {
		s := MustCompile(`return function(spin)
			if spin then while true do end end
			return "ok"
		end`, WithCallTimeout(20*time.Millisecond))
		defer s.Close()

		_, err := s.Call(true)
		assert.ErrorIs(t, err, ErrCallTimeout)

		v, err := s.Call1(false)
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
	})

	t.Run("closed", func(t *testing.T) {
		s := MustCompile(`return function() return 1 end`)
		s.Close()
		s.Close()

		_, err := s.Call()
		assert.ErrorIs(t, err, ErrScriptClosed)
	})

	t.Run("state persists between calls", func(t *testing.T) {
		s := MustCompile(`local n = 0
		return function() n = n + 1; return n end`)
		defer s.Close()

		for want := int64(1); want <= 3; want++ {
			v, err := s.Call1()
			require.NoError(t, err)
			assert.Equal(t, want, v)
		}
	})

	t.Run("concurrent calls are serialized", func(t *testing.T) {
		s := MustCompile(`local n = 0
		return function() n = n + 1; return n end`)
		defer s.Close()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Call()
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		v, err := s.Call1()
		require.NoError(t, err)
		assert.Equal(t, int64(51), v)
	})
}

func TestOptions(t *testing.T) {
	s := MustCompile(`return function() end`, WithName("named"), WithCallTimeout(0))
	defer s.Close()

	assert.Equal(t, "named", s.Name())
	assert.Equal(t, DefaultCallTimeout, s.Timeout())
}
