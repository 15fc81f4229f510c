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

package config

import (
	"dirpx.dev/dtx/apis"
)

const (
	// DefaultNamingPolicy represents the default for NamingPolicy.
	// Untagged fields are written in camelCase.
	DefaultNamingPolicy = "camel"
	// DefaultOmitNull represents the default for OmitNull.
	// When true, nil fields are not written.
	DefaultOmitNull = true
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 64 should be sufficient for all practical payloads.
	DefaultMaxDepth = 64
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxDepth is valid.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.NamingPolicy == "" {
		cfg.NamingPolicy = DefaultNamingPolicy
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		NamingPolicy: DefaultNamingPolicy,
		OmitNull:     DefaultOmitNull,
		MaxDepth:     DefaultMaxDepth,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithNamingPolicy sets the NamingPolicy option.
func WithNamingPolicy(name string) Option {
	return func(c *apis.Config) {
		c.NamingPolicy = name
	}
}

// WithOmitNull sets the OmitNull option.
func WithOmitNull(omit bool) Option {
	return func(c *apis.Config) {
		c.OmitNull = omit
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}

// WithSystemPackages appends package path prefixes excluded from target type inference.
func WithSystemPackages(prefixes ...string) Option {
	return func(c *apis.Config) {
		c.SystemPackages = append(append([]string(nil), c.SystemPackages...), prefixes...)
	}
}
