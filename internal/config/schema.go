package config

// Config is the full service configuration. It is loaded once at startup
// and injected into components at construction time; nothing below the
// config package reads the environment directly.
type Config struct {
	// APIKey for the generation service. Supports ${ENV_VAR} references.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// BaseURL overrides the generation service endpoint (tests, proxies).
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`

	Models    ModelsConfig    `mapstructure:"models" yaml:"models"`
	Cleanup   CleanupConfig   `mapstructure:"cleanup" yaml:"cleanup"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// ModelsConfig is the model selection surface. Override precedence is an
// ordered list of named sources: per-task override, then the global
// override, then the hardcoded per-task default.
type ModelsConfig struct {
	// Tasks maps a task type (e.g. "quiz_generate") to a model override.
	Tasks map[string]string `mapstructure:"tasks" yaml:"tasks,omitempty"`

	// Default overrides the model for every task without a task override.
	Default string `mapstructure:"default" yaml:"default,omitempty"`

	// Fallbacks is the ordered list of models tried after the primary.
	Fallbacks []string `mapstructure:"fallbacks" yaml:"fallbacks,omitempty"`
}

// CleanupConfig tunes the document cleanup stage.
type CleanupConfig struct {
	// MinEnglishRatio is the Latin-character ratio below which a page is
	// dropped by the language gate.
	MinEnglishRatio float64 `mapstructure:"min_english_ratio" yaml:"min_english_ratio"`

	// Restructure gates the optional LLM restructuring pass over cleaned
	// text. When off, cleaned text is assembled locally with page
	// separators only.
	Restructure bool `mapstructure:"restructure" yaml:"restructure"`
}

// TelemetryConfig tunes the telemetry sink.
type TelemetryConfig struct {
	// Path of the local JSONL telemetry file used by the CLI runtime.
	Path string `mapstructure:"path" yaml:"path,omitempty"`

	// QueueSize bounds the async sink queue.
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"`
}
