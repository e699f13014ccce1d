// Package pricing holds the static per-model price table used to estimate
// USD cost from token usage. Unknown models yield a nil cost, never an
// error: cost estimation must not be able to fail a request.
package pricing

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prices.yaml
var defaultPricesYAML []byte

// ModelPrice is the USD price per million tokens for one model.
type ModelPrice struct {
	InputPer1M  float64 `yaml:"input_per_1m"`
	OutputPer1M float64 `yaml:"output_per_1m"`
}

// Table maps model IDs to prices. The version string is stamped onto every
// telemetry record so historical cost estimates stay interpretable after a
// price change.
type Table struct {
	Version string                `yaml:"version"`
	Models  map[string]ModelPrice `yaml:"models"`
}

// Load parses a price table from YAML.
func Load(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse price table: %w", err)
	}
	if t.Version == "" {
		return nil, fmt.Errorf("price table missing version")
	}
	return &t, nil
}

// Default returns the embedded price table. Panics only on a corrupt
// embedded file, which is a build defect.
func Default() *Table {
	t, err := Load(defaultPricesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded price table invalid: %v", err))
	}
	return t
}

// Cost estimates USD cost for a call. Returns nil for models not in the
// table. Thinking tokens are billed at the output rate.
func (t *Table) Cost(model string, inputTokens, outputTokens, thinkingTokens int) *float64 {
	price, ok := t.Models[model]
	if !ok {
		return nil
	}
	cost := float64(inputTokens)/1e6*price.InputPer1M +
		float64(outputTokens+thinkingTokens)/1e6*price.OutputPer1M
	return &cost
}
