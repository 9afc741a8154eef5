// Package config loads the application configuration from a YAML file and
// the environment, with working defaults for every knob.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/babelmark/babelmark/internal/benchmark"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type EmbeddingConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type LimitsConfig struct {
	MaxTextLength   int           `mapstructure:"max_text_length"`
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
}

// MetricConfig enables one metric and sets its fusion weight. A disabled
// metric or a zero weight removes it from the battery entirely.
type MetricConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Weight  float64 `mapstructure:"weight"`
}

type MetricsConfig struct {
	LanguageDetection MetricConfig `mapstructure:"language_detection"`
	LengthRatio       MetricConfig `mapstructure:"length_ratio"`
	Repetition        MetricConfig `mapstructure:"repetition"`
	Preservation      MetricConfig `mapstructure:"preservation"`
	Semantic          MetricConfig `mapstructure:"semantic_similarity"`
	BLEU              MetricConfig `mapstructure:"bleu"`
	ChrF              MetricConfig `mapstructure:"chrf"`
	ReferenceSim      MetricConfig `mapstructure:"reference_similarity"`

	ConfidenceFloor     float64 `mapstructure:"confidence_floor"`
	LengthRatioMin      float64 `mapstructure:"length_ratio_min"`
	LengthRatioMax      float64 `mapstructure:"length_ratio_max"`
	RepetitionThreshold float64 `mapstructure:"repetition_threshold"`
}

type Config struct {
	Server    ServerConfig               `mapstructure:"server"`
	Database  DatabaseConfig             `mapstructure:"database"`
	Embedding EmbeddingConfig            `mapstructure:"embedding"`
	Limits    LimitsConfig               `mapstructure:"limits"`
	Metrics   MetricsConfig              `mapstructure:"metrics"`
	Providers []benchmark.ProviderConfig `mapstructure:"providers"`
}

// Load reads the configuration from path (or ./babelmark.yaml when empty)
// and the BABELMARK_* environment. A missing file is not an error; the
// defaults stand on their own.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("BABELMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("babelmark")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "data/babelmark.db")

	v.SetDefault("embedding.base_url", "http://localhost:11434")
	v.SetDefault("embedding.model", "nomic-embed-text")

	v.SetDefault("limits.max_text_length", 5000)
	v.SetDefault("limits.provider_timeout", 2*time.Minute)

	v.SetDefault("metrics.language_detection.enabled", true)
	v.SetDefault("metrics.language_detection.weight", 0.15)
	v.SetDefault("metrics.length_ratio.enabled", true)
	v.SetDefault("metrics.length_ratio.weight", 0.10)
	v.SetDefault("metrics.repetition.enabled", true)
	v.SetDefault("metrics.repetition.weight", 0.10)
	v.SetDefault("metrics.preservation.enabled", true)
	v.SetDefault("metrics.preservation.weight", 0.15)
	v.SetDefault("metrics.semantic_similarity.enabled", true)
	v.SetDefault("metrics.semantic_similarity.weight", 0.50)
	v.SetDefault("metrics.bleu.enabled", true)
	v.SetDefault("metrics.bleu.weight", 0.25)
	v.SetDefault("metrics.chrf.enabled", true)
	v.SetDefault("metrics.chrf.weight", 0.25)
	v.SetDefault("metrics.reference_similarity.enabled", true)
	v.SetDefault("metrics.reference_similarity.weight", 0.50)

	v.SetDefault("metrics.confidence_floor", 0.8)
	v.SetDefault("metrics.length_ratio_min", 0.5)
	v.SetDefault("metrics.length_ratio_max", 2.0)
	v.SetDefault("metrics.repetition_threshold", 0.3)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Limits.MaxTextLength <= 0 {
		return fmt.Errorf("max_text_length must be positive")
	}
	if c.Limits.ProviderTimeout <= 0 {
		return fmt.Errorf("provider_timeout must be positive")
	}
	if c.Metrics.LengthRatioMin <= 0 || c.Metrics.LengthRatioMax <= c.Metrics.LengthRatioMin {
		return fmt.Errorf("length ratio band [%.2f, %.2f] is invalid",
			c.Metrics.LengthRatioMin, c.Metrics.LengthRatioMax)
	}
	for i, p := range c.Providers {
		if p.Type == "" {
			return fmt.Errorf("provider %d has no type", i)
		}
	}
	return nil
}
