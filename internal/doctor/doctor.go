// Package doctor runs runtime readiness diagnostics for config, keys, tools, audio, and providers.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/rbright/monkeyai/internal/audio"
	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/llm"
)

const probeTimeout = 3 * time.Second

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, loaded config.Loaded) Report {
	cfg := loaded.Config
	checks := []Check{checkConfig(loaded)}

	checks = append(checks, checkAPIKey("llm.api_key", loaded.Secrets, cfg.LLM.Provider))
	checks = append(checks, checkAPIKey("stt.api_key", loaded.Secrets, config.ProviderGroq))
	checks = append(checks, checkCommand(cfg.OpenCmd.Argv, "open_cmd"))
	if cfg.Indicator.Enable {
		checks = append(checks, checkBinary("busctl", "desktop notifications use busctl"))
	}
	checks = append(checks, checkAudioSelection(ctx, cfg))

	client := &http.Client{Timeout: probeTimeout}
	if key := loaded.Secrets.GroqAPIKey; strings.TrimSpace(key) != "" {
		wanted := []string{cfg.STT.Model}
		if strings.EqualFold(cfg.LLM.Provider, config.ProviderGroq) {
			wanted = append(wanted, cfg.LLM.Model)
		}
		checks = append(checks, checkGroqModels(ctx, client, key, cfg.STT.BaseURL, wanted))
	}
	if strings.EqualFold(cfg.LLM.Provider, config.ProviderGemini) && strings.TrimSpace(loaded.Secrets.GeminiAPIKey) != "" {
		checks = append(checks, checkGeminiModel(ctx, client, loaded.Secrets.GeminiAPIKey, cfg.LLM))
	}

	return Report{Checks: checks}
}

func checkConfig(loaded config.Loaded) Check {
	message := fmt.Sprintf("loaded %q", loaded.Path)
	if !loaded.Exists {
		message = fmt.Sprintf("%q not found; using defaults", loaded.Path)
	}
	if n := len(loaded.Warnings); n > 0 {
		message = fmt.Sprintf("%s (%d warning(s))", message, n)
	}
	return Check{Name: "config", Pass: true, Message: message}
}

// checkAPIKey reports whether the credential for provider is present.
func checkAPIKey(name string, secrets config.Secrets, provider string) Check {
	env := config.EnvKeyFor(provider)
	if strings.TrimSpace(secrets.APIKeyFor(provider)) == "" {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s is not set", env)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s is set", env)}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(ctx context.Context, cfg config.Config) Check {
	selection, err := audio.SelectDevice(ctx, cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkGroqModels lists Groq models and confirms the configured ones are served.
func checkGroqModels(ctx context.Context, httpClient *http.Client, apiKey, baseURL string, wanted []string) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	list, err := llm.GroqClient(apiKey, baseURL, httpClient).ListModels(ctx)
	if err != nil {
		return Check{Name: "groq.models", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}

	served := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		served = append(served, model.ID)
	}
	var missing []string
	for _, model := range wanted {
		if !slices.Contains(served, model) {
			missing = append(missing, model)
		}
	}
	if len(missing) > 0 {
		return Check{Name: "groq.models", Pass: false, Message: fmt.Sprintf("model(s) not served: %s", strings.Join(missing, ", "))}
	}
	return Check{Name: "groq.models", Pass: true, Message: fmt.Sprintf("reachable; %s available", strings.Join(wanted, ", "))}
}

// checkGeminiModel fetches metadata for the configured Gemini model.
func checkGeminiModel(ctx context.Context, httpClient *http.Client, apiKey string, cfg config.LLMConfig) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	g, err := llm.NewGemini(ctx, cfg, apiKey, httpClient)
	if err != nil {
		return Check{Name: "gemini.model", Pass: false, Message: err.Error()}
	}
	if err := g.Ping(ctx); err != nil {
		return Check{Name: "gemini.model", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	return Check{Name: "gemini.model", Pass: true, Message: fmt.Sprintf("reachable; %s available", cfg.Model)}
}
