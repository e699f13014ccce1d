package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIKey != "${GEMINI_API_KEY}" {
		t.Errorf("api key = %q, want env placeholder", cfg.APIKey)
	}
	if cfg.Cleanup.MinEnglishRatio != 0.7 {
		t.Errorf("min english ratio = %f, want 0.7", cfg.Cleanup.MinEnglishRatio)
	}
	if len(cfg.Models.Fallbacks) == 0 {
		t.Error("expected a default fallback model")
	}
	if cfg.Telemetry.QueueSize <= 0 {
		t.Error("expected a positive telemetry queue size")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		if got := ResolveEnvVars("${TEST_API_KEY}"); got != "secret123" {
			t.Errorf("expected secret123, got %s", got)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		if got := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}"); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		if got := ResolveEnvVars("literal-value"); got != "literal-value" {
			t.Errorf("expected literal-value, got %s", got)
		}
	})
}

func TestConfig_ResolveAPIKey(t *testing.T) {
	os.Setenv("TEST_GEMINI_KEY", "g-key-123")
	defer os.Unsetenv("TEST_GEMINI_KEY")

	cfg := &Config{APIKey: "${TEST_GEMINI_KEY}"}
	if got := cfg.ResolveAPIKey(); got != "g-key-123" {
		t.Errorf("expected g-key-123, got %s", got)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		viper.Reset()
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
api_key: file-key
models:
  default: gemini-2.5-pro
  tasks:
    quiz_generate: gemini-3-pro-preview
cleanup:
  min_english_ratio: 0.8
`
		if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cm, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}

		cfg := cm.Get()
		if cfg.APIKey != "file-key" {
			t.Errorf("api key = %q", cfg.APIKey)
		}
		if cfg.Models.Default != "gemini-2.5-pro" {
			t.Errorf("default model = %q", cfg.Models.Default)
		}
		if cfg.Models.Tasks["quiz_generate"] != "gemini-3-pro-preview" {
			t.Errorf("task override = %q", cfg.Models.Tasks["quiz_generate"])
		}
		if cfg.Cleanup.MinEnglishRatio != 0.8 {
			t.Errorf("min english ratio = %f", cfg.Cleanup.MinEnglishRatio)
		}
	})

	t.Run("comma-separated fallbacks split", func(t *testing.T) {
		viper.Reset()
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
models:
  fallbacks: ["gemini-2.5-flash, gemini-2.5-flash-lite"]
`
		if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cm, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}

		fallbacks := cm.Get().Models.Fallbacks
		if len(fallbacks) != 2 || fallbacks[0] != "gemini-2.5-flash" || fallbacks[1] != "gemini-2.5-flash-lite" {
			t.Errorf("fallbacks = %v", fallbacks)
		}
	})

	t.Run("no config file uses defaults", func(t *testing.T) {
		viper.Reset()
		cm, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if cm.Get().APIKey != "${GEMINI_API_KEY}" {
			t.Errorf("api key = %q, want default placeholder", cm.Get().APIKey)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cm.Get().APIKey != "${GEMINI_API_KEY}" {
		t.Errorf("api key = %q", cm.Get().APIKey)
	}
}
