// Copyright 2024 Hookable Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hookable intercepts reads, writes and method calls on objects
// through listeners registered per owning type.
//
//	greeter := hookable.MustNewType("Greeter", nil)
//	hook := hookable.MustHookTo(greeter)
//	hook.Property("greeting", func(_ hookable.Instance, v any) (any, error) {
//		return v.(string) + ",", nil
//	})
//
//	obj, _ := hookable.Intercept(hookable.NewRecord(map[string]any{"greeting": "Hello"}), greeter)
//	v, _ := obj.Get("greeting") // "Hello,"
package hookable

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/glimte/hookable-go/config"
	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/hooks"
	"github.com/glimte/hookable-go/interceptors"
	"github.com/glimte/hookable-go/internal/journal"
	"github.com/glimte/hookable-go/internal/reliability"
	"github.com/glimte/hookable-go/luahook"
	"github.com/glimte/hookable-go/proxy"
	"github.com/glimte/hookable-go/registry"
)

type (
	Type         = contracts.Type
	TypeOption   = contracts.TypeOption
	Kind         = contracts.Kind
	Key          = contracts.Key
	Symbol       = contracts.Symbol
	Instance     = contracts.Instance
	Func         = contracts.Func
	Method       = contracts.Method
	Container    = registry.Container
	Registration = registry.Registration
	HookCtx      = registry.HookCtx
	Listener     = registry.Listener
	ListenerFunc = registry.ListenerFunc
	Builder      = hooks.Builder
	Object       = proxy.Object
	Target       = proxy.Target
	Config       = config.Config

	Journal        = journal.InMemoryJournal
	RetryPolicy    = reliability.RetryPolicy
	CircuitBreaker = reliability.CircuitBreaker
)

// Event kinds
const (
	KindGet    = contracts.KindGet
	KindSet    = contracts.KindSet
	KindParams = contracts.KindParams
	KindMethod = contracts.KindMethod
	KindResult = contracts.KindResult
	KindBefore = contracts.KindBefore
	KindAfter  = contracts.KindAfter
)

// Base is the root owning type. It cannot be hooked or intercepted.
var Base = contracts.Base

var (
	NewSymbol      = contracts.NewSymbol
	Exclude        = contracts.Exclude
	DeclareMethods = contracts.DeclareMethods

	NewRecord   = proxy.NewRecord
	NewStruct   = proxy.NewStruct
	NewDocument = proxy.NewDocument

	NewFixedDelay         = reliability.NewFixedDelay
	NewExponentialBackoff = reliability.NewExponentialBackoff
	NewCircuitBreaker     = reliability.NewCircuitBreaker
)

// Runtime ties a container to the settings used by the helpers that build
// scripts, caches and journals
type Runtime struct {
	mu        sync.RWMutex
	container *registry.Container
	cfg       config.Config
	logger    *slog.Logger
}

// runtimeConfig holds runtime construction settings
type runtimeConfig struct {
	container *registry.Container
	cfg       config.Config
	logger    *slog.Logger
}

// RuntimeOption configures a Runtime
type RuntimeOption func(*runtimeConfig)

// WithLogger sets the logger for all components
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(c *runtimeConfig) {
		c.logger = logger
	}
}

// WithConfig sets the runtime configuration
func WithConfig(cfg config.Config) RuntimeOption {
	return func(c *runtimeConfig) {
		c.cfg = cfg
	}
}

// WithContainer uses c instead of a fresh container
func WithContainer(c *registry.Container) RuntimeOption {
	return func(rc *runtimeConfig) {
		rc.container = c
	}
}

// NewRuntime creates a runtime with its own container
func NewRuntime(options ...RuntimeOption) (*Runtime, error) {
	rc := &runtimeConfig{cfg: config.Default()}
	for _, opt := range options {
		opt(rc)
	}
	if err := rc.cfg.Validate(); err != nil {
		return nil, err
	}
	if rc.logger == nil {
		rc.logger = slog.Default()
	}
	if rc.container == nil {
		rc.container = registry.NewContainer(registry.WithLogger(rc.logger))
	} else {
		rc.container.SetLogger(rc.logger)
	}

	return &Runtime{
		container: rc.container,
		cfg:       rc.cfg,
		logger:    rc.logger,
	}, nil
}

// Container returns the runtime's container
func (r *Runtime) Container() *registry.Container {
	return r.container
}

// Config returns the runtime configuration
func (r *Runtime) Config() config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Logger returns the runtime logger
func (r *Runtime) Logger() *slog.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logger
}

// Configure replaces the configuration and rebuilds the logger writing to w
func (r *Runtime) Configure(cfg config.Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.Logger(w)

	r.mu.Lock()
	r.cfg = cfg
	r.logger = logger
	r.mu.Unlock()

	r.container.SetLogger(logger)
	return nil
}

// Bind routes registrations and dispatch for t and its subtypes to the
// runtime's container
func (r *Runtime) Bind(t *contracts.Type) error {
	return registry.Bind(t, r.container)
}

// HookTo returns a builder for t registering into the runtime's container
func (r *Runtime) HookTo(t *contracts.Type, options ...hooks.Option) (*hooks.Builder, error) {
	opts := append([]hooks.Option{hooks.WithContainer(r.container), hooks.WithLogger(r.Logger())}, options...)
	return hooks.To(t, opts...)
}

// Intercept wraps target as an instance of t dispatching through the
// runtime's container
func (r *Runtime) Intercept(target proxy.Target, t *contracts.Type, options ...proxy.Option) (*proxy.Object, error) {
	opts := append([]proxy.Option{proxy.WithContainer(r.container)}, options...)
	return proxy.New(target, t, opts...)
}

// CompileLua compiles a Lua hook bounded by the configured call timeout
func (r *Runtime) CompileLua(source string, options ...luahook.Option) (*luahook.Script, error) {
	cfg := r.Config()
	opts := append([]luahook.Option{
		luahook.WithCallTimeout(cfg.LuaCallTimeout),
		luahook.WithLogger(r.Logger()),
	}, options...)
	return luahook.Compile(source, opts...)
}

// Memoize attaches a result cache sized by the configuration
func (r *Runtime) Memoize(b *hooks.Builder, key contracts.Key) (*interceptors.MemoizeInterceptor, *registry.Registration, error) {
	return interceptors.Memoize(b, key, r.Config().MemoizeMaxEntries)
}

// NewJournal creates an in-memory journal sized by the configuration
func (r *Runtime) NewJournal() *journal.InMemoryJournal {
	return journal.NewInMemoryJournal(journal.WithMaxEntries(r.Config().JournalMaxEntries))
}

var defaultRuntime = mustRuntime(WithContainer(registry.Default()))

func mustRuntime(options ...RuntimeOption) *Runtime {
	r, err := NewRuntime(options...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRuntime returns the runtime backed by the default container
func DefaultRuntime() *Runtime {
	return defaultRuntime
}

// Configure applies cfg to the default runtime, logging to stderr
func Configure(cfg config.Config) error {
	return defaultRuntime.Configure(cfg, os.Stderr)
}

// ConfigureFromEnv loads the configuration from the environment and applies it
func ConfigureFromEnv() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := Configure(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// NewType declares an owning type. A nil parent derives from Base.
func NewType(name string, parent *contracts.Type, opts ...contracts.TypeOption) (*contracts.Type, error) {
	return contracts.NewType(name, parent, opts...)
}

// MustNewType is like NewType but panics on error
func MustNewType(name string, parent *contracts.Type, opts ...contracts.TypeOption) *contracts.Type {
	return contracts.MustNewType(name, parent, opts...)
}

// NewContainer creates an empty hook registry
func NewContainer(options ...registry.Option) *registry.Container {
	return registry.NewContainer(options...)
}

// Bind routes t and its subtypes to c. A nil c removes the binding.
func Bind(t *contracts.Type, c *registry.Container) error {
	return registry.Bind(t, c)
}

// HookTo returns a builder for t. Without WithContainer it registers into
// the container bound to t.
func HookTo(t *contracts.Type, options ...hooks.Option) (*hooks.Builder, error) {
	return hooks.To(t, options...)
}

// MustHookTo is like HookTo but panics on error
func MustHookTo(t *contracts.Type, options ...hooks.Option) *hooks.Builder {
	return hooks.MustTo(t, options...)
}

// Intercept wraps target as an instance of t
func Intercept(target proxy.Target, t *contracts.Type, options ...proxy.Option) (*proxy.Object, error) {
	return proxy.New(target, t, options...)
}

// IsIntercepted reports whether v is an intercepted instance
func IsIntercepted(v any) bool {
	return proxy.IsIntercepted(v)
}

// Attach attaches interceptors to key in order, rolling back on failure
func Attach(b *hooks.Builder, key contracts.Key, list ...interceptors.Interceptor) (interceptors.Registrations, error) {
	if b == nil {
		return nil, errors.New("hookable: builder cannot be nil")
	}
	regs, err := interceptors.Attach(b, key, list...)
	if err != nil {
		return nil, fmt.Errorf("hookable: %w", err)
	}
	return regs, nil
}
