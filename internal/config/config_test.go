package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.ExitReapDelay != 30*time.Second {
		t.Fatalf("ExitReapDelay = %v, want %v", cfg.ExitReapDelay, 30*time.Second)
	}
	if cfg.ProjectMaxTokens != 3000 {
		t.Fatalf("ProjectMaxTokens = %d, want 3000", cfg.ProjectMaxTokens)
	}
	if cfg.ChatMaxTokens != 2000 {
		t.Fatalf("ChatMaxTokens = %d, want 2000", cfg.ChatMaxTokens)
	}
	if cfg.OpenAIModel != "gpt-3.5-turbo" {
		t.Fatalf("OpenAIModel = %q, want %q", cfg.OpenAIModel, "gpt-3.5-turbo")
	}
	if cfg.OpenAITemperature != 0.7 {
		t.Fatalf("OpenAITemperature = %v, want 0.7", cfg.OpenAITemperature)
	}
	if cfg.LLMProvider != "auto" {
		t.Fatalf("LLMProvider = %q, want %q", cfg.LLMProvider, "auto")
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("DatabaseURL = %q, want empty default", cfg.DatabaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_EXIT_REAP_DELAY", "5s")
	t.Setenv("OPENAI_TEMPERATURE", "0.2")
	t.Setenv("LLM_PROJECT_MAX_TOKENS", "1500")
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("APP_ALLOW_ANY_ORIGIN", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ExitReapDelay != 5*time.Second {
		t.Fatalf("ExitReapDelay = %v, want 5s", cfg.ExitReapDelay)
	}
	if cfg.OpenAITemperature != 0.2 {
		t.Fatalf("OpenAITemperature = %v, want 0.2", cfg.OpenAITemperature)
	}
	if cfg.ProjectMaxTokens != 1500 {
		t.Fatalf("ProjectMaxTokens = %d, want 1500", cfg.ProjectMaxTokens)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("OpenAIAPIKey = %q, want trimmed value", cfg.OpenAIAPIKey)
	}
	if !cfg.AllowAnyOrigin {
		t.Fatalf("AllowAnyOrigin = false, want true")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"APP_SESSION_INACTIVITY_TIMEOUT", "1s"},
		{"APP_EXIT_REAP_DELAY", "soon"},
		{"LLM_PROVIDER", "claude"},
		{"OPENAI_TEMPERATURE", "3"},
		{"LLM_CHAT_MAX_TOKENS", "0"},
		{"APP_ALLOW_ANY_ORIGIN", "maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%q expected error", tc.key, tc.value)
			}
		})
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_EXIT_REAP_DELAY",
		"APP_JANITOR_INTERVAL",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"APP_LOG_LEVEL",
		"APP_LOG_FORMAT",
		"LLM_PROVIDER",
		"LLM_TIMEOUT",
		"LLM_PROJECT_MAX_TOKENS",
		"LLM_CHAT_MAX_TOKENS",
		"OPENAI_API_KEY",
		"OPENAI_BASE_URL",
		"OPENAI_MODEL",
		"OPENAI_TEMPERATURE",
		"DATABASE_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
