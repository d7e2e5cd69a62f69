package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:    "8080",
			BaseURL: "http://localhost:8080",
		},
		LLM: LLMConfig{
			Provider:      "ollama",
			OllamaBaseURL: "http://localhost:11434",
		},
		Advisor: AdvisorConfig{
			TokenCeiling:        7500,
			TruncationWindow:    600,
			CompactRecentWindow: 20,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid ollama config",
			mutate: func(c *Config) {},
		},
		{
			name:        "non-numeric port",
			mutate:      func(c *Config) { c.Server.Port = "abc" },
			wantErr:     true,
			errContains: "must be a number",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Server.Port = "70000" },
			wantErr:     true,
			errContains: "between 1 and 65535",
		},
		{
			name:        "zero token ceiling",
			mutate:      func(c *Config) { c.Advisor.TokenCeiling = 0 },
			wantErr:     true,
			errContains: "token ceiling",
		},
		{
			name:        "negative truncation window",
			mutate:      func(c *Config) { c.Advisor.TruncationWindow = -1 },
			wantErr:     true,
			errContains: "truncation window",
		},
		{
			name:        "zero compact window",
			mutate:      func(c *Config) { c.Advisor.CompactRecentWindow = 0 },
			wantErr:     true,
			errContains: "compact recent window",
		},
		{
			name:        "openai selected without key",
			mutate:      func(c *Config) { c.LLM.Provider = "openai" },
			wantErr:     true,
			errContains: "OPENAI_API_KEY",
		},
		{
			name: "openai selected with key",
			mutate: func(c *Config) {
				c.LLM.Provider = "openai"
				c.LLM.OpenAIAPIKey = "sk-test"
			},
		},
		{
			name:        "gemini selected without key",
			mutate:      func(c *Config) { c.LLM.Provider = "gemini" },
			wantErr:     true,
			errContains: "GEMINI_API_KEY",
		},
		{
			// Unrecognized providers fall back to ollama at selection time,
			// so validation does not reject them.
			name:   "unknown provider is accepted",
			mutate: func(c *Config) { c.LLM.Provider = "whatever" },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tc.errContains) {
					t.Errorf("error %q does not contain %q", err, tc.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LLM.Provider != "ollama" {
		t.Errorf("default provider = %q, want ollama", cfg.LLM.Provider)
	}
	if cfg.LLM.OllamaTimeout != 240*time.Second {
		t.Errorf("ollama timeout = %v, want 240s", cfg.LLM.OllamaTimeout)
	}
	if cfg.LLM.OpenAITimeout != 60*time.Second {
		t.Errorf("openai timeout = %v, want 60s", cfg.LLM.OpenAITimeout)
	}
	if cfg.Advisor.TokenCeiling != 7500 {
		t.Errorf("token ceiling = %d, want 7500", cfg.Advisor.TokenCeiling)
	}
	if cfg.Advisor.TruncationWindow != 600 {
		t.Errorf("truncation window = %d, want 600", cfg.Advisor.TruncationWindow)
	}
	if cfg.Advisor.CompactRecentWindow != 20 {
		t.Errorf("compact recent window = %d, want 20", cfg.Advisor.CompactRecentWindow)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ADVISOR_TOKEN_CEILING", "100")
	t.Setenv("ADVISOR_TRUNCATION_WINDOW", "5")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Advisor.TokenCeiling != 100 {
		t.Errorf("token ceiling = %d, want 100", cfg.Advisor.TokenCeiling)
	}
	if cfg.Advisor.TruncationWindow != 5 {
		t.Errorf("truncation window = %d, want 5", cfg.Advisor.TruncationWindow)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.LLM.Provider)
	}
}
