package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUIP_PORT", "")
	t.Setenv("QUIP_PROVIDER", "")
	t.Setenv("QUIP_MODEL_NAME", "")
	t.Setenv("QUIP_MAX_TOKENS", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderOpenAI)
	}
	if cfg.ModelName != "gpt-4" {
		t.Errorf("ModelName = %q, want %q", cfg.ModelName, "gpt-4")
	}
	if cfg.MaxTokens != 400 {
		t.Errorf("MaxTokens = %d, want %d", cfg.MaxTokens, 400)
	}
}

func TestLoadProvider(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want Provider
	}{
		{name: "openai", env: "openai", want: ProviderOpenAI},
		{name: "gemini", env: "gemini", want: ProviderGemini},
		{name: "mock", env: "mock", want: ProviderMock},
		{name: "unknown falls back to openai", env: "anthropic", want: ProviderOpenAI},
		{name: "empty falls back to openai", env: "", want: ProviderOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("QUIP_PROVIDER", tt.env)

			cfg := Load()
			if cfg.Provider != tt.want {
				t.Errorf("Provider = %q, want %q", cfg.Provider, tt.want)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUIP_PORT", "9090")
	t.Setenv("QUIP_MODEL_NAME", "gpt-4o-mini")
	t.Setenv("QUIP_MAX_TOKENS", "150")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.ModelName != "gpt-4o-mini" {
		t.Errorf("ModelName = %q, want %q", cfg.ModelName, "gpt-4o-mini")
	}
	if cfg.MaxTokens != 150 {
		t.Errorf("MaxTokens = %d, want %d", cfg.MaxTokens, 150)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q, want %q", cfg.OpenAIAPIKey, "sk-test")
	}
	if cfg.OpenAIBaseURL != "http://localhost:1234/v1" {
		t.Errorf("OpenAIBaseURL = %q, want %q", cfg.OpenAIBaseURL, "http://localhost:1234/v1")
	}
}

func TestGetIntEnvMalformed(t *testing.T) {
	t.Setenv("QUIP_MAX_TOKENS", "not-a-number")

	cfg := Load()
	if cfg.MaxTokens != 400 {
		t.Errorf("MaxTokens = %d, want default %d on malformed value", cfg.MaxTokens, 400)
	}
}
