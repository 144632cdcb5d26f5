package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
	Mode string `toml:"mode"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// SummaryPrompts are fmt templates; each receives one %s with the
// assembled fact sheet (or, for NetworkName, the finished summary).
type SummaryPrompts struct {
	Target      string `toml:"target"`
	Network     string `toml:"network"`
	NetworkName string `toml:"network_name"`
}

type AnalysisConfig struct {
	// Concurrency bounds candidate-scoring fan-out in one analysis run.
	Concurrency int `toml:"concurrency"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	LLM      LLMConfig      `toml:"llm"`
	Summary  SummaryPrompts `toml:"summary"`
	Analysis AnalysisConfig `toml:"analysis"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
