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
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"dirpx.dev/dtx/apis"
)

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string
	// Format: console or json
	Format string
	// Development toggles development-friendly logging options
	Development bool
}

// DefaultLogConfig returns the logger settings used when none are provided.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Format: "console"}
}

// Env is the environment representation of apis.Config and LogConfig.
type Env struct {
	NamingPolicy   string   `env:"DTX_NAMING_POLICY" env-default:"camel" env-description:"property naming policy: camel or default"`
	OmitNull       bool     `env:"DTX_OMIT_NULL" env-default:"true" env-description:"skip nil fields when encoding"`
	MaxDepth       int      `env:"DTX_MAX_DEPTH" env-default:"64" env-description:"maximum encode/decode nesting depth"`
	SystemPackages []string `env:"DTX_SYSTEM_PACKAGES" env-separator:"," env-description:"extra package prefixes excluded from target inference"`

	LogLevel       string `env:"DTX_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFormat      string `env:"DTX_LOG_FORMAT" env-default:"console" env-description:"console or json"`
	LogDevelopment bool   `env:"DTX_LOG_DEVELOPMENT" env-default:"false" env-description:"development logger options"`
}

// LoadEnv reads the DTX_* environment variables.
// Unset variables take their documented defaults.
func LoadEnv() (apis.Config, LogConfig, error) {
	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return apis.Config{}, LogConfig{}, fmt.Errorf("dtx(config): read env: %w", err)
	}

	cfg := NewConfig(
		WithNamingPolicy(strings.ToLower(strings.TrimSpace(env.NamingPolicy))),
		WithOmitNull(env.OmitNull),
		WithMaxDepth(env.MaxDepth),
		WithSystemPackages(trimAll(env.SystemPackages)...),
	)
	log := LogConfig{
		Level:       env.LogLevel,
		Format:      env.LogFormat,
		Development: env.LogDevelopment,
	}
	return cfg, log, nil
}

// Usage returns a description of the supported environment variables.
func Usage() string {
	var env Env
	s, err := cleanenv.GetDescription(&env, nil)
	if err != nil {
		return ""
	}
	return s
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
