package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "FPLSQUAD_"
	EnvConfigPath = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if FPLSQUAD_CONFIG is set
//  3. env (prefix FPLSQUAD_)
//
// The result is validated before it is returned.
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: FPLSQUAD_ADDR, FPLSQUAD_BUDGET, FPLSQUAD_AVOID="12,40"...
	// Keys stay flat snake_case except quotas: FPLSQUAD_QUOTAS_GK -> quotas.gk.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", envValue)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy. List keys replace the defaults instead of
	// overwriting them element by element.
	cfg := *base
	for key, list := range map[string]*[]int{"avoid": &cfg.Avoid, "horizons": &cfg.Horizons} {
		if k.Exists(key) {
			*list = nil
		}
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys hold comma separated env values, e.g. FPLSQUAD_AVOID="12,40".
var listKeys = map[string]bool{"avoid": true, "horizons": true} //nolint:gochecknoglobals // read-only lookup

func envValue(key, value string) (string, interface{}) {
	key = envKey(key)
	if !listKeys[key] {
		return key, value
	}
	parts := []string{}
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return key, parts
}

func envKey(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	if s == "config" {
		return ""
	}
	if rest, ok := strings.CutPrefix(s, "quotas_"); ok {
		return "quotas." + rest
	}
	return s
}
