package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Loaded captures resolved config path, parsed values, secrets, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Secrets  Secrets
	Warnings []Warning
	Exists   bool
}

// Load resolves, reads, parses, and validates the runtime configuration,
// then resolves secrets from the environment and any .env files.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	envWarnings, err := LoadDotEnv(resolvedPath)
	if err != nil {
		return Loaded{}, err
	}

	base := Default()
	content, err := os.ReadFile(resolvedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			warnings := []Warning{{
				Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
			}}
			return Loaded{
				Path:     resolvedPath,
				Config:   base,
				Secrets:  SecretsFromEnv(),
				Warnings: append(warnings, envWarnings...),
				Exists:   false,
			}, nil
		}
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	}

	cfg, warnings, err := Parse(string(content), base)
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
	}

	return Loaded{
		Path:     resolvedPath,
		Config:   cfg,
		Secrets:  SecretsFromEnv(),
		Warnings: append(warnings, envWarnings...),
		Exists:   true,
	}, nil
}

// Parse reads JSONC configuration content layered over base.
// Blank content validates and returns base unchanged.
func Parse(content string, base Config) (Config, []Warning, error) {
	if strings.TrimSpace(content) == "" {
		warnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, warnings, nil
	}
	return parseJSONC(content, base)
}
