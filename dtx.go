/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package dtx

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/dtx/apis"
	"dirpx.dev/dtx/builder"
	"dirpx.dev/dtx/catalog"
	"dirpx.dev/dtx/config"
	"dirpx.dev/dtx/logging"
	"dirpx.dev/dtx/serializer"
)

// ErrInitialized is returned when the default context is reconfigured after it was built.
var ErrInitialized = errors.New("dtx: default context already initialized")

// Context bundles a catalog, the registry built from it and a serializer that
// understands its derived types. A Context is immutable and safe for concurrent use.
type Context struct {
	cfg        apis.Config
	catalog    *catalog.Catalog
	registry   apis.Registry
	serializer apis.Serializer
}

// Option configures NewContext.
type Option func(*contextOptions)

type contextOptions struct {
	cfg         apis.Config
	logger      *zap.Logger
	builder     apis.Builder
	catalogOpts []catalog.Option
}

// WithConfig sets the configuration. Defaults to config.DefaultConfig().
func WithConfig(cfg apis.Config) Option {
	return func(o *contextOptions) { o.cfg = cfg }
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *contextOptions) {
		o.logger = logging.OrNop(l)
	}
}

// WithBuilder replaces the builder used to assemble the registry and serializer.
func WithBuilder(b apis.Builder) Option {
	return func(o *contextOptions) {
		if b != nil {
			o.builder = b
		}
	}
}

// WithCatalog adds catalog options (types and derived type declarations).
func WithCatalog(opts ...catalog.Option) Option {
	return func(o *contextOptions) { o.catalogOpts = append(o.catalogOpts, opts...) }
}

// NewContext builds a catalog, a registry and a serializer. The first failure is
// returned and no Context is produced.
func NewContext(opts ...Option) (*Context, error) {
	o := contextOptions{cfg: config.DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.builder == nil {
		o.builder = builder.New(builder.WithLogger(o.logger))
	}

	cat, err := catalog.New(append(o.catalogOpts, catalog.WithLogger(o.logger.Named("catalog")))...)
	if err != nil {
		return nil, err
	}
	reg, err := o.builder.BuildRegistry(o.cfg, cat)
	if err != nil {
		return nil, err
	}
	ser, err := o.builder.BuildSerializer(o.cfg, reg)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("context ready",
		zap.Int("types", len(cat.All())),
		zap.Int("derived_types", reg.Count()),
	)
	return &Context{cfg: o.cfg, catalog: cat, registry: reg, serializer: ser}, nil
}

// Config returns the configuration the context was built with.
func (c *Context) Config() apis.Config { return c.cfg }

// Catalog returns the catalog.
func (c *Context) Catalog() *catalog.Catalog { return c.catalog }

// Registry returns the derived-type registry.
func (c *Context) Registry() apis.Registry { return c.registry }

// Serializer returns the serializer.
func (c *Context) Serializer() apis.Serializer { return c.serializer }

// Marshal encodes v with the context serializer.
func (c *Context) Marshal(v any) ([]byte, error) { return c.serializer.Marshal(v) }

// Unmarshal decodes data into v with the context serializer.
func (c *Context) Unmarshal(data []byte, v any) error { return c.serializer.Unmarshal(data, v) }

// buildMu serializes writers so a partially built context is never published.
var buildMu sync.Mutex

// st is the published default context (nil until first use).
var st atomic.Pointer[state]

// state is an immutable snapshot of the default context or of its build failure.
type state struct {
	ctx *Context
	err error
}

// Declarations collected for the default context; guarded by buildMu.
var (
	pendingCatalog []catalog.Option
	pendingBuilder apis.Builder
)

// Declare adds catalog options to the default context. It fails with
// ErrInitialized once the default context has been built.
func Declare(opts ...catalog.Option) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	if st.Load() != nil {
		return ErrInitialized
	}
	pendingCatalog = append(pendingCatalog, opts...)
	return nil
}

// SetBuilder replaces the builder of the default context. It fails with
// ErrInitialized once the default context has been built.
func SetBuilder(b apis.Builder) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	if st.Load() != nil {
		return ErrInitialized
	}
	pendingBuilder = b
	return nil
}

// Default returns the process-wide context, building it on first use from the
// declarations and the DTX_* environment. The build runs once; its result,
// including a failure, is returned to every caller until Reset.
func Default() (*Context, error) {
	if s := st.Load(); s != nil {
		return s.ctx, s.err
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Re-check under lock in case another goroutine built it meanwhile.
	if s := st.Load(); s != nil {
		return s.ctx, s.err
	}
	ctx, err := buildDefault()
	st.Store(&state{ctx: ctx, err: err})
	return ctx, err
}

func buildDefault() (*Context, error) {
	cfg, logCfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	ctx, err := NewContext(
		WithConfig(cfg),
		WithLogger(logger),
		WithBuilder(pendingBuilder),
		WithCatalog(pendingCatalog...),
	)
	if err != nil {
		logger.Error("default context build failed", zap.Error(err))
		return nil, err
	}
	return ctx, nil
}

// SetDefault publishes ctx as the default context. A nil ctx is ignored.
func SetDefault(ctx *Context) {
	if ctx == nil {
		return
	}
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(&state{ctx: ctx})
}

// Reset drops the default context and all pending declarations.
func Reset() {
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(nil)
	pendingCatalog = nil
	pendingBuilder = nil
}

// Marshal encodes v with the default context.
func Marshal(v any) ([]byte, error) {
	ctx, err := Default()
	if err != nil {
		return nil, err
	}
	return ctx.Marshal(v)
}

// Unmarshal decodes data into v with the default context.
func Unmarshal(data []byte, v any) error {
	ctx, err := Default()
	if err != nil {
		return err
	}
	return ctx.Unmarshal(data, v)
}

// Decode decodes data into a new T with the default context. The zero T is
// returned on any failure.
func Decode[T any](data []byte) (T, error) {
	ctx, err := Default()
	if err != nil {
		var zero T
		return zero, err
	}
	return serializer.Decode[T](ctx.serializer, data)
}
