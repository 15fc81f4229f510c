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

// Package builder assembles registries and serializers from a configuration.
package builder

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"dirpx.dev/dtx/apis"
	"dirpx.dev/dtx/converter"
	"dirpx.dev/dtx/logging"
	"dirpx.dev/dtx/naming"
	"dirpx.dev/dtx/registry"
	"dirpx.dev/dtx/serializer"
)

// ErrNilRegistry is returned by BuildSerializer when no registry is provided.
var ErrNilRegistry = errors.New("dtx(builder): nil registry provided")

// Option configures a builder.
type Option func(*builder)

// WithLogger sets the logger handed to the components. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *builder) {
		b.logger = logging.OrNop(l)
	}
}

// WithConverters appends converters consulted after the derived-type converter.
func WithConverters(extra ...apis.Converter) Option {
	return func(b *builder) {
		b.extra = append(b.extra, extra...)
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// builder carries the options shared by every component it builds.
type builder struct {
	logger *zap.Logger
	extra  []apis.Converter
}

// BuildRegistry scans cat and returns the resulting registry.
func (b *builder) BuildRegistry(cfg apis.Config, cat apis.Catalog) (apis.Registry, error) {
	return registry.New(cat,
		registry.WithConfig(cfg),
		registry.WithLogger(b.logger.Named("registry")),
	)
}

// BuildSerializer returns a serializer whose converter chain starts with the
// derived-type converter for reg, followed by the extra converters.
func (b *builder) BuildSerializer(cfg apis.Config, reg apis.Registry) (apis.Serializer, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	policy, err := naming.FromName(cfg.NamingPolicy)
	if err != nil {
		b.logger.Error("serializer build failed", zap.Error(err))
		return nil, fmt.Errorf("dtx(builder): %w", err)
	}
	chain := append([]apis.Converter{converter.NewDerivedTypes(reg)}, b.extra...)
	b.logger.Debug("serializer built",
		zap.String("naming_policy", policy.Name()),
		zap.Int("converters", len(chain)),
		zap.Int("derived_types", reg.Count()),
	)
	return serializer.New(cfg, policy, chain...), nil
}
