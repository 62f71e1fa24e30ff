// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cloudy-intel/internal/llm"
	"cloudy-intel/internal/state"
)

// DefaultConfigPath is where Load looks when no path is given.
const DefaultConfigPath = "cloudy-intel.yaml"

// Config represents the complete CloudyIntel configuration
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	RAG       RAGConfig       `yaml:"rag"`
	Store     StoreConfig     `yaml:"store"`
	Temporal  TemporalConfig  `yaml:"temporal"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// PipelineConfig holds the design loop settings
type PipelineConfig struct {
	CloudProvider string `yaml:"cloud_provider"`
	MaxIterations int    `yaml:"max_iterations"`
}

// LLMConfig selects the completion provider agents run on
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SearchConfig holds web search credentials
type SearchConfig struct {
	SerperAPIKey string `yaml:"serper_api_key"`
}

// RAGConfig locates the documentation index
type RAGConfig struct {
	IndexPath string `yaml:"index_path"`
}

// StoreConfig locates the checkpoint database
type StoreConfig struct {
	Path string `yaml:"path"`
}

// TemporalConfig holds the workflow cluster connection settings
type TemporalConfig struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// TelemetryConfig controls OTLP trace export
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			CloudProvider: "aws",
			MaxIterations: state.DefaultMaxIterations,
		},
		LLM: LLMConfig{
			Provider:    llm.ProviderOpenAI,
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
		},
		RAG: RAGConfig{
			IndexPath: "cloudy-intel.bleve",
		},
		Store: StoreConfig{
			Path: "cloudy-intel.db",
		},
		Temporal: TemporalConfig{
			HostPort:  "localhost:7233",
			Namespace: "default",
			TaskQueue: "cloudy-intel",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4318",
			ServiceName: "cloudy-intel",
		},
	}
}

// ResolvePath maps a config flag value onto a loadable path. An explicit
// path passes through and must exist. An empty value resolves to
// DefaultConfigPath when that file is present, otherwise to the built-in
// defaults (empty path).
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}

// Load reads configuration from path, layered over the defaults, and applies
// environment credential overrides. An empty path uses defaults plus
// environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("configuration file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills credentials from the environment when the file left them
// blank. The file value wins when both are set.
func (c *Config) applyEnv() {
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case llm.ProviderOpenAI:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case llm.ProviderAnthropic:
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case llm.ProviderGemini:
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if c.Search.SerperAPIKey == "" {
		c.Search.SerperAPIKey = os.Getenv("SERPER_API_KEY")
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Pipeline.CloudProvider) {
	case "aws", "azure":
	default:
		return fmt.Errorf("unsupported cloud provider: %s", c.Pipeline.CloudProvider)
	}

	if c.Pipeline.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive")
	}

	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini, llm.ProviderOllama, llm.ProviderOpenCode:
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("LLM model is required")
	}

	if c.Temporal.HostPort == "" {
		return fmt.Errorf("temporal host port is required")
	}

	if c.Temporal.TaskQueue == "" {
		return fmt.Errorf("temporal task queue is required")
	}

	return nil
}

// LLMClientConfig maps the configuration onto the llm factory input.
func (c *Config) LLMClientConfig() llm.Config {
	return llm.Config{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
	}
}
