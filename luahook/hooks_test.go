package luahook

import (
	"testing"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/proxy"
	"github.com/glimte/hookable-go/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T) (*hooks.Builder, *proxy.Object) {
	t.Helper()
	typ := contracts.MustNewType("User", nil)
	c := registry.NewContainer()
	r := proxy.NewRecord(map[string]any{
		"name": "ada",
		"add": contracts.Func(func(args ...any) (any, error) {
			var sum int64
			for _, a := range args {
				sum += a.(int64)
			}
			return sum, nil
		}),
	})
	return hooks.MustTo(typ, hooks.WithContainer(c)), proxy.MustNew(r, typ, proxy.WithContainer(c))
}

func TestProperty(t *testing.T) {
	b, o := newUser(t)
	s := MustCompile(`return function(v, key) return string.upper(v) .. "@" .. key end`)
	defer s.Close()

	reg, err := Property(b, "name", s)
	require.NoError(t, err)

	v, err := o.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "ADA@name", v)

	reg.Unregister()
	v, err = o.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "ada", v)
}

func TestParams(t *testing.T) {
	t.Run("replaces arguments", func(t *testing.T) {
		b, o := newUser(t)
		s := MustCompile(`return function(...)
			local out = {}
			for i, v in ipairs({...}) do out[i] = v * 10 end
			local unpack = table.unpack or unpack
			return unpack(out)
		end`)
		defer s.Close()

		_, err := Params(b, "add", s)
		require.NoError(t, err)

		out, err := o.Call("add", int64(1), int64(2))
		require.NoError(t, err)
		assert.Equal(t, int64(30), out)
	})

	t.Run("keeps arguments when nothing is returned", func(t *testing.T) {
		b, o := newUser(t)
		s := MustCompile(`return function(...) end`)
		defer s.Close()

		_, err := Params(b, "add", s)
		require.NoError(t, err)

		out, err := o.Call("add", int64(1), int64(2))
		require.NoError(t, err)
		assert.Equal(t, int64(3), out)
	})
}

func TestResult(t *testing.T) {
	b, o := newUser(t)
	s := MustCompile(`return function(r) return "sum=" .. r end`)
	defer s.Close()

	_, err := Result(b, "add", s)
	require.NoError(t, err)

	out, err := o.Call("add", int64(2), int64(3))
	require.NoError(t, err)
	assert.Equal(t, "sum=5", out)
}

func TestScriptErrorsPropagate(t *testing.T) {
	b, o := newUser(t)
	s := MustCompile(`return function() error("denied") end`)
	defer s.Close()

	_, err := Property(b, "name", s)
	require.NoError(t, err)

	_, err = o.Get("name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestNilScript(t *testing.T) {
	b, _ := newUser(t)

	_, err := Property(b, "name", nil)
	assert.ErrorIs(t, err, contracts.ErrNilListener)
	_, err = Params(b, "add", nil)
	assert.ErrorIs(t, err, contracts.ErrNilListener)
	_, err = Result(b, "add", nil)
	assert.ErrorIs(t, err, contracts.ErrNilListener)
}
