package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		APIKey: "${GEMINI_API_KEY}",
		Models: ModelsConfig{
			Tasks:     map[string]string{},
			Fallbacks: []string{"gemini-2.5-flash"},
		},
		Cleanup: CleanupConfig{
			MinEnglishRatio: 0.7,
		},
		Telemetry: TelemetryConfig{
			Path:      "telemetry.jsonl",
			QueueSize: 256,
		},
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# StudyForge configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export GEMINI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
