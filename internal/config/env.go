package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envGroqAPIKey   = "GROQ_API_KEY"
	envGeminiAPIKey = "GEMINI_API_KEY"
)

// LoadDotEnv loads .env files into the process environment.
//
// The working-directory .env is read first, then monkeyai/.env next to the
// config file. Variables already set in the environment are never overridden,
// and missing files are skipped.
func LoadDotEnv(configPath string) ([]Warning, error) {
	candidates := []string{".env"}
	if strings.TrimSpace(configPath) != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(configPath), ".env"))
	}

	warnings := make([]Warning, 0)
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			abs = candidate
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}

		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			warnings = append(warnings, Warning{Message: fmt.Sprintf("skip env file %q: %v", candidate, err)})
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			return warnings, fmt.Errorf("load env file %q: %w", candidate, err)
		}
	}
	return warnings, nil
}

// SecretsFromEnv reads API credentials from the current environment.
func SecretsFromEnv() Secrets {
	return Secrets{
		GroqAPIKey:   strings.TrimSpace(os.Getenv(envGroqAPIKey)),
		GeminiAPIKey: strings.TrimSpace(os.Getenv(envGeminiAPIKey)),
	}
}

// APIKeyFor returns the credential for the given LLM provider.
func (s Secrets) APIKeyFor(provider string) string {
	if strings.EqualFold(provider, ProviderGemini) {
		return s.GeminiAPIKey
	}
	return s.GroqAPIKey
}

// EnvKeyFor names the environment variable holding the provider credential.
func EnvKeyFor(provider string) string {
	if strings.EqualFold(provider, ProviderGemini) {
		return envGeminiAPIKey
	}
	return envGroqAPIKey
}
