package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivan-hilckov/lucidum/pkg/generator"
	"github.com/ivan-hilckov/lucidum/pkg/roles"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"LUCIDUM_API_KEY", "LUCIDUM_PROVIDER", "LUCIDUM_PIPELINE_REPAIR_THRESHOLD",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(body), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `{
  "provider": "openai",
  "api_key": "test-key",
  "models": {"generation": "gpt-4o"},
  "call_timeout": "15s",
  "pipeline": {"role_selection_policy": "simple", "validation_depth": "full"},
  "storage": {"resumes_file": "/tmp/resumes.json"}
}`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("Expected API key test-key, got %s", cfg.APIKey)
	}
	if cfg.CallTimeout != 15*time.Second {
		t.Errorf("Expected call timeout 15s, got %s", cfg.CallTimeout)
	}
	if cfg.MaxTokens.Letter != 800 {
		t.Errorf("Expected default letter max tokens 800, got %d", cfg.MaxTokens.Letter)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default server addr, got %s", cfg.Server.Addr)
	}
	if cfg.GetExtractionModel() != "gpt-4o" {
		t.Errorf("Expected extraction model to follow generation model, got %s", cfg.GetExtractionModel())
	}

	pc, err := cfg.PipelineConfig()
	if err != nil {
		t.Fatalf("Failed to build pipeline config: %v", err)
	}
	if pc.Policy != roles.PolicySimple {
		t.Errorf("Expected simple policy, got %s", pc.Policy)
	}
	if pc.Depth != generator.DepthFull {
		t.Errorf("Expected full depth, got %s", pc.Depth)
	}
	if pc.RepairThreshold != 0.6 || pc.Thresholds.Validity != 0.7 || pc.FallbackScore != 0.7 {
		t.Errorf("Unexpected pipeline thresholds: %+v", pc)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `{"api_key": "file-key"}`)
	t.Setenv("LUCIDUM_API_KEY", "env-key")
	t.Setenv("LUCIDUM_PIPELINE_REPAIR_THRESHOLD", "0.5")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIKey != "env-key" {
		t.Errorf("Expected env API key, got %s", cfg.APIKey)
	}
	if cfg.Pipeline.RepairThreshold != 0.5 {
		t.Errorf("Expected repair threshold 0.5, got %v", cfg.Pipeline.RepairThreshold)
	}
}

func TestLoadProviderKeyFallback(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `{"provider": "gemini"}`)
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.APIKey != "gemini-key" {
		t.Errorf("Expected provider key, got %s", cfg.APIKey)
	}
	if cfg.GetGenerationModel() != "gemini-2.5-flash" {
		t.Errorf("Expected gemini default model, got %s", cfg.GetGenerationModel())
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestLoadMalformed(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `{"api_key": `)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Expected error loading malformed config, got nil")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Provider:    "anthropic",
			APIKey:      "test-key",
			CallTimeout: time.Minute,
			MaxTokens:   MaxTokensConfig{Letter: 800, Fallback: 800},
			Pipeline: PipelineConfig{
				ValidityThreshold: 0.7,
				RepairThreshold:   0.6,
				MinWords:          50,
				FallbackScore:     0.7,
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing API key", mutate: func(c *Config) { c.APIKey = "" }, wantError: true},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "cohere" }, wantError: true},
		{name: "zero timeout", mutate: func(c *Config) { c.CallTimeout = 0 }, wantError: true},
		{name: "threshold above one", mutate: func(c *Config) { c.Pipeline.RepairThreshold = 1.2 }, wantError: true},
		{name: "validity below zero", mutate: func(c *Config) { c.Pipeline.ValidityThreshold = -0.1 }, wantError: true},
		{name: "unknown policy", mutate: func(c *Config) { c.Pipeline.RoleSelectionPolicy = "random" }, wantError: true},
		{name: "unknown depth", mutate: func(c *Config) { c.Pipeline.ValidationDepth = "deep" }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestInitConfig(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.json")

	err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}

	// The generated file must load back as-is.
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}
	if cfg.Defaults.OutputDir == "" {
		t.Error("Default output dir was not set")
	}
	if cfg.Storage.ResumesFile == "" {
		t.Error("Default resumes file was not set")
	}
}

func TestInitConfigAlreadyExists(t *testing.T) {
	configPath := writeConfig(t, "{}")

	err := InitConfig(configPath)
	if err == nil {
		t.Error("Expected error when config already exists, got nil")
	}
}
