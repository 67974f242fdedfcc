package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivan-hilckov/lucidum/pkg/generator"
	"github.com/ivan-hilckov/lucidum/pkg/llm"
	"github.com/ivan-hilckov/lucidum/pkg/roles"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LUCIDUM_API_KEY or
// LUCIDUM_PIPELINE_REPAIR_THRESHOLD.
const EnvPrefix = "LUCIDUM"

// Config represents the application configuration.
type Config struct {
	Provider    string          `mapstructure:"provider"`
	APIKey      string          `mapstructure:"api_key"`
	BaseURL     string          `mapstructure:"base_url"`
	Models      ModelsConfig    `mapstructure:"models"`
	MaxTokens   MaxTokensConfig `mapstructure:"max_tokens"`
	CallTimeout time.Duration   `mapstructure:"call_timeout"`
	Pipeline    PipelineConfig  `mapstructure:"pipeline"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Server      ServerConfig    `mapstructure:"server"`
	Pandoc      PandocConfig    `mapstructure:"pandoc"`
	Defaults    DefaultConfig   `mapstructure:"defaults"`
	LogLevel    string          `mapstructure:"log_level"`
}

// ModelsConfig holds model selection for letters and for analysis calls.
type ModelsConfig struct {
	Generation string `mapstructure:"generation"`
	Extraction string `mapstructure:"extraction"`
}

// MaxTokensConfig bounds each kind of generation request.
type MaxTokensConfig struct {
	Extraction int `mapstructure:"extraction"`
	Letter     int `mapstructure:"letter"`
	Fallback   int `mapstructure:"fallback"`
	Review     int `mapstructure:"review"`
}

// PipelineConfig holds the orchestration thresholds and policies.
type PipelineConfig struct {
	ValidityThreshold   float64 `mapstructure:"validity_threshold"`
	RepairThreshold     float64 `mapstructure:"repair_threshold"`
	MinWords            int     `mapstructure:"min_words"`
	FallbackScore       float64 `mapstructure:"fallback_score"`
	RoleSelectionPolicy string  `mapstructure:"role_selection_policy"`
	ValidationDepth     string  `mapstructure:"validation_depth"`
}

// StorageConfig locates the resume and session stores. A non-empty
// RedisAddr selects Redis for both.
type StorageConfig struct {
	ResumesFile string `mapstructure:"resumes_file"`
	RedisAddr   string `mapstructure:"redis_addr"`
}

// ServerConfig configures the debug HTTP server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// PandocConfig holds pandoc-related configuration. An empty template uses
// the pandoc default.
type PandocConfig struct {
	TemplatePath string `mapstructure:"template_path"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// DefaultPath returns ~/.lucidum/config.json.
func DefaultPath() (path string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".lucidum", "config.json")
	return path, err
}

func newViper() (v *viper.Viper) {
	v = viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	pipeline := generator.DefaultConfig()

	v.SetDefault("provider", string(llm.ProviderAnthropic))
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("models.generation", "")
	v.SetDefault("models.extraction", "")
	v.SetDefault("max_tokens.extraction", 0)
	v.SetDefault("max_tokens.letter", pipeline.LetterMaxTokens)
	v.SetDefault("max_tokens.fallback", pipeline.FallbackMaxTokens)
	v.SetDefault("max_tokens.review", pipeline.ReviewMaxTokens)
	v.SetDefault("call_timeout", pipeline.CallTimeout.String())
	v.SetDefault("pipeline.validity_threshold", pipeline.Thresholds.Validity)
	v.SetDefault("pipeline.repair_threshold", pipeline.RepairThreshold)
	v.SetDefault("pipeline.min_words", pipeline.MinWords)
	v.SetDefault("pipeline.fallback_score", pipeline.FallbackScore)
	v.SetDefault("pipeline.role_selection_policy", string(pipeline.Policy))
	v.SetDefault("pipeline.validation_depth", string(pipeline.Depth))
	v.SetDefault("storage.resumes_file", "")
	v.SetDefault("storage.redis_addr", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("pandoc.template_path", "")
	v.SetDefault("defaults.output_dir", "./letters")
	v.SetDefault("log_level", "info")

	return v
}

// Load reads configuration from file with environment variable overrides.
// A .env file in the working directory is loaded first. A missing file is
// an error only when configPath was given explicitly.
func Load(configPath string) (cfg Config, err error) {
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	v := newViper()
	v.SetConfigFile(path)

	err = v.ReadInConfig()
	if err != nil {
		if !isNotExist(path) {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
		if configPath != "" {
			err = errors.Errorf("config file not found: %s (run 'lucidum init' to create)", path)
			return cfg, err
		}
		err = nil
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode config file: %s", path)
		return cfg, err
	}

	// Provider specific variables, as the SDKs themselves read them.
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(providerKeyEnv(cfg.Provider))
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

func isNotExist(path string) (missing bool) {
	_, err := os.Stat(path)
	missing = os.IsNotExist(err)
	return missing
}

func providerKeyEnv(provider string) (name string) {
	switch llm.Provider(provider) {
	case llm.ProviderOpenAI:
		name = "OPENAI_API_KEY"
	case llm.ProviderGemini:
		name = "GEMINI_API_KEY"
	default:
		name = "ANTHROPIC_API_KEY"
	}
	return name
}

// Validate checks that all required configuration is present and in range.
func (c *Config) Validate() (err error) {
	switch llm.Provider(c.Provider) {
	case llm.ProviderAnthropic, llm.ProviderOpenAI, llm.ProviderGemini:
	default:
		err = errors.Errorf("unknown provider %q (anthropic, openai or gemini)", c.Provider)
		return err
	}

	if c.APIKey == "" {
		err = errors.Errorf("api_key is required (set in config, %s_API_KEY or %s)", EnvPrefix, providerKeyEnv(c.Provider))
		return err
	}

	if c.CallTimeout <= 0 {
		err = errors.Errorf("call_timeout must be positive, got %s", c.CallTimeout)
		return err
	}

	_, err = c.PipelineConfig()
	if err != nil {
		return err
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./letters"
	}

	return err
}

// GetGenerationModel returns the letter model or the provider default.
func (c *Config) GetGenerationModel() (model string) {
	if c.Models.Generation != "" {
		model = c.Models.Generation
		return model
	}
	model = llm.DefaultModel(llm.Provider(c.Provider))
	return model
}

// GetExtractionModel returns the analysis model, defaulting to the
// generation model.
func (c *Config) GetExtractionModel() (model string) {
	if c.Models.Extraction != "" {
		model = c.Models.Extraction
		return model
	}
	model = c.GetGenerationModel()
	return model
}

// ClientConfig returns the provider settings for llm.NewGenerator.
func (c *Config) ClientConfig() (cc llm.ClientConfig) {
	cc = llm.ClientConfig{
		Provider:   llm.Provider(c.Provider),
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		MaxRetries: 2,
	}
	return cc
}

// PipelineConfig converts the file settings into generator settings.
func (c *Config) PipelineConfig() (pc generator.Config, err error) {
	pc = generator.DefaultConfig()
	pc.Model = c.GetGenerationModel()
	pc.ExtractionModel = c.GetExtractionModel()
	pc.ExtractionMaxTokens = c.MaxTokens.Extraction
	pc.LetterMaxTokens = c.MaxTokens.Letter
	pc.FallbackMaxTokens = c.MaxTokens.Fallback
	pc.ReviewMaxTokens = c.MaxTokens.Review
	pc.CallTimeout = c.CallTimeout
	pc.RepairThreshold = c.Pipeline.RepairThreshold
	pc.MinWords = c.Pipeline.MinWords
	pc.FallbackScore = c.Pipeline.FallbackScore
	pc.Thresholds.Validity = c.Pipeline.ValidityThreshold

	pc.Policy, err = roles.ParsePolicy(c.Pipeline.RoleSelectionPolicy)
	if err != nil {
		err = errors.Wrap(err, "pipeline.role_selection_policy")
		return pc, err
	}

	pc.Depth, err = generator.ParseDepth(c.Pipeline.ValidationDepth)
	if err != nil {
		err = errors.Wrap(err, "pipeline.validation_depth")
		return pc, err
	}

	err = pc.Validate()
	return pc, err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	v := newViper()
	v.Set("api_key", "sk-ant-api03-...")
	v.Set("storage.resumes_file", filepath.Join(dir, "resumes.json"))

	err = v.WriteConfigAs(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	err = os.Chmod(path, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to restrict config file permissions: %s", path)
		return err
	}

	return err
}
