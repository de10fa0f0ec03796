package hookable

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/glimte/hookable-go/config"
	"github.com/glimte/hookable-go/interceptors"
	"github.com/glimte/hookable-go/luahook"
	"github.com/glimte/hookable-go/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greet(self Instance, args ...any) (any, error) {
	g, err := self.Get("greeting")
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%v %v", g, args[0]), nil
}

func newGreeter(t *testing.T, r *Runtime, typ *Type, greeting string) *Object {
	t.Helper()
	o, err := r.Intercept(NewRecord(map[string]any{
		"greeting": greeting,
		"greet":    Method(greet),
	}), typ)
	require.NoError(t, err)
	return o
}

func newRuntime(t *testing.T) *Runtime {
	t.Helper()
	r, err := NewRuntime()
	require.NoError(t, err)
	return r
}

func mustGet(t *testing.T, o *Object, key Key) any {
	t.Helper()
	v, err := o.Get(key)
	require.NoError(t, err)
	return v
}

func mustCall(t *testing.T, o *Object, key Key, args ...any) any {
	t.Helper()
	v, err := o.Call(key, args...)
	require.NoError(t, err)
	return v
}

func appendSuffix(s string, stop bool) ListenerFunc {
	return func(hc *HookCtx) error {
		hc.Value = fmt.Sprintf("%v%s", hc.Value, s)
		if stop {
			hc.Stop()
		}
		return nil
	}
}

func TestHookable(t *testing.T) {
	r := newRuntime(t)
	base := MustNewType("Test", nil)
	extended := MustNewType("Extended", base)

	hook, err := r.HookTo(base)
	require.NoError(t, err)
	extendedHook, err := r.HookTo(extended)
	require.NoError(t, err)

	test := newGreeter(t, r, base, "Hello")
	ext := newGreeter(t, r, extended, "Hi")

	_, err = hook.Get("greeting", appendSuffix(",", false))
	require.NoError(t, err)

	assert.Equal(t, "Hello,", mustGet(t, test, "greeting"))
	assert.Equal(t, "Hi,", mustGet(t, ext, "greeting"))
	assert.Equal(t, "Hello, World", mustCall(t, test, "greet", "World"))
	assert.Equal(t, "Hi, World", mustCall(t, ext, "greet", "World"))

	// priority and unregister
	off, err := extendedHook.Get("greeting", appendSuffix("!", false))
	require.NoError(t, err)

	assert.Equal(t, "Hello, World", mustCall(t, test, "greet", "World"))
	assert.Equal(t, "Hi,! World", mustCall(t, ext, "greet", "World"))

	assert.True(t, off.Unregister())
	assert.Equal(t, "Hi, World", mustCall(t, ext, "greet", "World"))

	// stop, priority, and hooks not leaking to ancestors
	_, err = extendedHook.At(0).Get("greeting", appendSuffix("!", true))
	require.NoError(t, err)

	assert.Equal(t, "Hello, World", mustCall(t, test, "greet", "World"))
	assert.Equal(t, "Hi! World", mustCall(t, ext, "greet", "World"))
}

// plainTarget is a host type with no shared base
type plainTarget struct {
	greeting string
}

func (p *plainTarget) Get(key Key) (any, error) {
	switch key {
	case "greeting":
		return p.greeting, nil
	case "greet":
		return Method(greet), nil
	}
	return nil, nil
}

func (p *plainTarget) Set(key Key, value any) error {
	if key == "greeting" {
		p.greeting = value.(string)
	}
	return nil
}

func TestHookablePlainTarget(t *testing.T) {
	r := newRuntime(t)
	typ := MustNewType("Test", nil)
	hook, err := r.HookTo(typ)
	require.NoError(t, err)

	test, err := r.Intercept(&plainTarget{greeting: "Hello"}, typ)
	require.NoError(t, err)
	assert.True(t, IsIntercepted(test))
	assert.False(t, IsIntercepted(&plainTarget{}))

	_, err = hook.Get("greeting", appendSuffix(",", false))
	require.NoError(t, err)

	assert.Equal(t, "Hello, World", mustCall(t, test, "greet", "World"))
}

func TestHookableIgnoredKeys(t *testing.T) {
	r := newRuntime(t)
	typ := MustNewType("Test", nil, Exclude("greeting"))
	hook, err := r.HookTo(typ)
	require.NoError(t, err)
	test := newGreeter(t, r, typ, "Hello")

	_, err = hook.Get("greeting", appendSuffix(",", false))
	require.NoError(t, err)

	assert.Equal(t, "Hello World", mustCall(t, test, "greet", "World"))
	assert.Equal(t, "Hello", mustGet(t, test, "greeting"))
}

func TestHookableFunctions(t *testing.T) {
	r := newRuntime(t)
	typ := MustNewType("Test", nil)
	hook, err := r.HookTo(typ)
	require.NoError(t, err)
	test := newGreeter(t, r, typ, "Hello")

	_, err = hook.Get("greet", func(hc *HookCtx) error {
		fn := hc.Value.(Func)
		hc.Value = Func(func(...any) (any, error) {
			out, err := fn("World")
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("%v!", out), nil
		})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello World!", mustCall(t, test, "greet", "World"))
}

func TestBaseIsProtected(t *testing.T) {
	_, err := HookTo(Base)
	assert.Error(t, err)
	_, err = Intercept(NewRecord(nil), Base)
	assert.Error(t, err)
	assert.Error(t, Bind(Base, NewContainer()))
}

func TestBind(t *testing.T) {
	c := NewContainer()
	typ := MustNewType("Bound", nil)
	sub := MustNewType("BoundChild", typ)
	require.NoError(t, Bind(typ, c))
	t.Cleanup(func() { _ = Bind(typ, nil) })

	hook := MustHookTo(sub)
	assert.Same(t, c, hook.Container())

	_, err := hook.Property("greeting", func(_ Instance, v any) (any, error) {
		return v.(string) + "?", nil
	})
	require.NoError(t, err)

	o, err := Intercept(NewRecord(map[string]any{"greeting": "Hey"}), sub)
	require.NoError(t, err)
	assert.Equal(t, "Hey?", mustGet(t, o, "greeting"))
	assert.Equal(t, 1, c.Len())
}

func TestRuntimeConfigure(t *testing.T) {
	r := newRuntime(t)
	assert.Equal(t, config.Default(), r.Config())

	cfg := config.Default()
	cfg.LogFormat = "yaml"
	assert.Error(t, r.Configure(cfg, io.Discard))

	var buf bytes.Buffer
	cfg = config.Default()
	cfg.LogLevel = -4
	cfg.LuaCallTimeout = 30 * time.Millisecond
	cfg.MemoizeMaxEntries = 1
	cfg.JournalMaxEntries = 5
	require.NoError(t, r.Configure(cfg, &buf))
	assert.Equal(t, cfg, r.Config())

	typ := MustNewType("Configured", nil)
	hook, err := r.HookTo(typ)
	require.NoError(t, err)
	_, err = hook.Get("x", appendSuffix("", false))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=DEBUG")

	t.Run("lua timeout", func(t *testing.T) {
		s, err := r.CompileLua(`return function() while true do end end`)
		require.NoError(t, err)
		defer s.Close()

		assert.Equal(t, 30*time.Millisecond, s.Timeout())
		_, err = s.Call()
		assert.ErrorIs(t, err, luahook.ErrCallTimeout)
	})

	t.Run("memoize size", func(t *testing.T) {
		calls := 0
		o, err := r.Intercept(NewRecord(map[string]any{
			"id": Func(func(args ...any) (any, error) {
				calls++
				return args[0], nil
			}),
		}), typ)
		require.NoError(t, err)

		m, _, err := r.Memoize(hook, "id")
		require.NoError(t, err)

		for _, n := range []int{1, 1, 2, 1} {
			mustCall(t, o, "id", n)
		}
		assert.Equal(t, 3, calls)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("journal size", func(t *testing.T) {
		j := r.NewJournal()
		o, err := r.Intercept(NewRecord(map[string]any{"name": "a"}), typ)
		require.NoError(t, err)
		_, err = interceptors.Audit(hook, "name", j)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			require.NoError(t, o.Set("name", fmt.Sprint(i)))
		}
		assert.LessOrEqual(t, j.Len(), 5)
	})
}

func TestConfigureFromEnv(t *testing.T) {
	t.Cleanup(func() { _ = Configure(config.Default()) })

	t.Setenv("HOOKABLE_MEMOIZE_MAX_ENTRIES", "7")
	cfg, err := ConfigureFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MemoizeMaxEntries)
	assert.Equal(t, 7, DefaultRuntime().Config().MemoizeMaxEntries)
	assert.Same(t, registry.Default(), DefaultRuntime().Container())

	t.Setenv("HOOKABLE_LOG_FORMAT", "xml")
	_, err = ConfigureFromEnv()
	assert.Error(t, err)
}

func TestAttach(t *testing.T) {
	_, err := Attach(nil, "x")
	assert.Error(t, err)

	r := newRuntime(t)
	typ := MustNewType("Attached", nil)
	hook, err := r.HookTo(typ)
	require.NoError(t, err)

	regs, err := Attach(hook, "greet", interceptors.NewLoggingInterceptor(r.Logger()))
	require.NoError(t, err)
	assert.Len(t, regs, 1)

	_, err = Attach(hook, "greet", interceptors.NewMetricsInterceptor(nil))
	assert.Error(t, err)
}
