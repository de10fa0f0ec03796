package luahook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds a single call into a Script
const DefaultCallTimeout = time.Second

var (
	// ErrNotFunction is returned when a chunk does not return a function
	ErrNotFunction = errors.New("luahook: chunk must return a function")

	// ErrScriptClosed is returned when calling a closed Script
	ErrScriptClosed = errors.New("luahook: script is closed")

	// ErrCallTimeout is returned when a call exceeds the call timeout
	ErrCallTimeout = errors.New("luahook: call timed out")
)

// globals removed from the base library
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// Option configures a Script
type Option func(*Script)

// WithCallTimeout sets the per-call timeout. Zero or negative keeps the default.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Script) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithName sets the chunk name used in Lua error messages
func WithName(name string) Option {
	return func(s *Script) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets the logger for script lifecycle events
func WithLogger(logger *slog.Logger) Option {
	return func(s *Script) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Script is a compiled Lua function. It is safe for concurrent use; calls
// run one at a time.
type Script struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	name    string
	timeout time.Duration
	logger  *slog.Logger
	closed  bool
}

// Compile runs source in a fresh sandboxed state and keeps the function it
// returns.
func Compile(source string, options ...Option) (*Script, error) {
	s := &Script{
		name:    "hook",
		timeout: DefaultCallTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	chunk, err := L.Load(strings.NewReader(source), s.name)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to compile %s: %w", s.name, err)
	}

	L.Push(chunk)
	if err := protect(func() error { return L.PCall(0, 1, nil) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to run %s: %w", s.name, err)
	}

	fn, ok := L.Get(-1).(*lua.LFunction)
	L.Pop(1)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%s: %w", s.name, ErrNotFunction)
	}

	s.L, s.fn = L, fn
	s.logger.Debug("compiled lua hook", "name", s.name, "timeout", s.timeout)
	return s, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(source string, options ...Option) *Script {
	s, err := Compile(source, options...)
	if err != nil {
		panic(err)
	}
	return s
}

// openSafeLibraries opens base, table, string and math and strips the
// loaders from the base library
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// Name returns the chunk name
func (s *Script) Name() string {
	return s.name
}

// Timeout returns the per-call timeout
func (s *Script) Timeout() time.Duration {
	return s.timeout
}

// Call invokes the function with args and returns all of its results
func (s *Script) Call(args ...any) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrScriptClosed
	}

	L := s.L
	top := L.GetTop()
	defer L.SetTop(top)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()

	L.Push(s.fn)
	for _, arg := range args {
		L.Push(toLua(L, arg))
	}

	err := protect(func() error { return L.PCall(len(args), lua.MultRet, nil) })
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w after %s", s.name, ErrCallTimeout, s.timeout)
		}
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}

	n := L.GetTop() - top
	results := make([]any, n)
	for i := 0; i < n; i++ {
		results[i] = toGo(L.Get(top + i + 1))
	}
	return results, nil
}

// Call1 invokes the function and returns its first result
func (s *Script) Call1(args ...any) (any, error) {
	results, err := s.Call(args...)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return results[0], nil
}

// Close releases the Lua state. Closing twice is a no-op.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
	s.logger.Debug("closed lua hook", "name", s.name)
}

func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
