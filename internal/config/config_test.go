// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudy-intel/internal/llm"
	"cloudy-intel/internal/state"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloudy-intel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErr     bool
		errContains string
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid configuration file",
			content: `
pipeline:
  cloud_provider: "azure"
  max_iterations: 3

llm:
  provider: "anthropic"
  model: "claude-sonnet-4-5"
  temperature: 0.4
  max_tokens: 8192

search:
  serper_api_key: "file-key"

rag:
  index_path: "/var/lib/cloudy/docs.bleve"

store:
  path: "/var/lib/cloudy/checkpoints.db"

temporal:
  host_port: "temporal.internal:7233"
  namespace: "cloudy"
  task_queue: "cloudy-designs"

metrics:
  addr: ":9101"

telemetry:
  enabled: true
  endpoint: "otel.internal:4318"
  service_name: "cloudy-intel"
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "azure", cfg.Pipeline.CloudProvider)
				assert.Equal(t, 3, cfg.Pipeline.MaxIterations)
				assert.Equal(t, "anthropic", cfg.LLM.Provider)
				assert.Equal(t, "claude-sonnet-4-5", cfg.LLM.Model)
				assert.Equal(t, 0.4, cfg.LLM.Temperature)
				assert.Equal(t, 8192, cfg.LLM.MaxTokens)
				assert.Equal(t, "file-key", cfg.Search.SerperAPIKey)
				assert.Equal(t, "/var/lib/cloudy/docs.bleve", cfg.RAG.IndexPath)
				assert.Equal(t, "/var/lib/cloudy/checkpoints.db", cfg.Store.Path)
				assert.Equal(t, "temporal.internal:7233", cfg.Temporal.HostPort)
				assert.Equal(t, "cloudy", cfg.Temporal.Namespace)
				assert.Equal(t, "cloudy-designs", cfg.Temporal.TaskQueue)
				assert.Equal(t, ":9101", cfg.Metrics.Addr)
				assert.True(t, cfg.Telemetry.Enabled)
			},
		},
		{
			name: "partial file keeps defaults for the rest",
			content: `
pipeline:
  cloud_provider: "aws"
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, state.DefaultMaxIterations, cfg.Pipeline.MaxIterations)
				assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
				assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
				assert.Equal(t, 0.2, cfg.LLM.Temperature)
				assert.Equal(t, "localhost:7233", cfg.Temporal.HostPort)
				assert.Equal(t, "cloudy-intel", cfg.Temporal.TaskQueue)
			},
		},
		{
			name: "invalid yaml syntax",
			content: `
pipeline:
  cloud_provider: "aws"
  invalid yaml syntax here: [
`,
			wantErr:     true,
			errContains: "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			cfg, err := Load(path)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestLoadWithoutPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "aws", cfg.Pipeline.CloudProvider)
	assert.Equal(t, state.DefaultMaxIterations, cfg.Pipeline.MaxIterations)
}

func TestLoadAppliesEnvironmentCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("SERPER_API_KEY", "env-serper")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-openai", cfg.LLM.APIKey)
	assert.Equal(t, "env-serper", cfg.Search.SerperAPIKey)
}

func TestLoadFileCredentialWinsOverEnvironment(t *testing.T) {
	t.Setenv("SERPER_API_KEY", "env-serper")

	path := writeConfig(t, `
search:
  serper_api_key: "file-serper"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-serper", cfg.Search.SerperAPIKey)
}

func TestEnvironmentKeyFollowsProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")

	path := writeConfig(t, `
llm:
  provider: "anthropic"
  model: "claude-sonnet-4-5"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-anthropic", cfg.LLM.APIKey)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "default configuration is valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:   "azure is a supported provider",
			mutate: func(cfg *Config) { cfg.Pipeline.CloudProvider = "AZURE" },
		},
		{
			name:        "unsupported cloud provider",
			mutate:      func(cfg *Config) { cfg.Pipeline.CloudProvider = "gcp" },
			wantErr:     true,
			errContains: "unsupported cloud provider: gcp",
		},
		{
			name:        "zero iteration ceiling",
			mutate:      func(cfg *Config) { cfg.Pipeline.MaxIterations = 0 },
			wantErr:     true,
			errContains: "max iterations must be positive",
		},
		{
			name:        "unsupported LLM provider",
			mutate:      func(cfg *Config) { cfg.LLM.Provider = "bedrock" },
			wantErr:     true,
			errContains: "unsupported LLM provider",
		},
		{
			name:        "missing model",
			mutate:      func(cfg *Config) { cfg.LLM.Model = "" },
			wantErr:     true,
			errContains: "LLM model is required",
		},
		{
			name:        "missing temporal host",
			mutate:      func(cfg *Config) { cfg.Temporal.HostPort = "" },
			wantErr:     true,
			errContains: "temporal host port is required",
		},
		{
			name:        "missing task queue",
			mutate:      func(cfg *Config) { cfg.Temporal.TaskQueue = "" },
			wantErr:     true,
			errContains: "temporal task queue is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLLMClientConfig(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = llm.ProviderOllama
	cfg.LLM.Model = "llama3.3"
	cfg.LLM.BaseURL = "http://ollama.internal:11434"

	got := cfg.LLMClientConfig()
	assert.Equal(t, llm.ProviderOllama, got.Provider)
	assert.Equal(t, "llama3.3", got.Model)
	assert.Equal(t, "http://ollama.internal:11434", got.BaseURL)
}
