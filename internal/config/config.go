package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds API credentials and model selection.
type OpenAIConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	MaxRetries int    `yaml:"max_retries"`
	TimeoutSec int    `yaml:"timeout"`
}

// TranslationConfig holds the paragraph detection, translation, and
// timestamp redistribution parameters.
type TranslationConfig struct {
	TargetLanguage string `yaml:"target_language"`
	BatchSize      int    `yaml:"batch_size"`

	ParagraphMode            bool    `yaml:"paragraph_mode"`
	ParagraphSilenceThreshold float64 `yaml:"paragraph_silence_threshold"`
	ParagraphMaxDuration     float64 `yaml:"paragraph_max_duration"`
	ParagraphMinDuration     float64 `yaml:"paragraph_min_duration"`

	RedistributeTimestamps bool               `yaml:"redistribute_timestamps"`
	SentenceMinGap         float64            `yaml:"sentence_min_gap"`
	TargetSpeechRate       float64            `yaml:"target_speech_rate"` // characters per minute
	PunctuationPauseWeights map[string]float64 `yaml:"punctuation_pause_weights"`

	MaxConcurrent    int `yaml:"max_concurrent"`
	RateLimitPerMin  int `yaml:"rate_limit_per_min"`
}

// OutputConfig controls the subtitle writers.
type OutputConfig struct {
	Format          string `yaml:"format"` // srt, text, both
	IncludeOriginal bool   `yaml:"include_original"`
}

// ProcessingConfig controls temp files and audio extraction.
type ProcessingConfig struct {
	TempDir       string `yaml:"temp_dir"`
	KeepTempFiles bool   `yaml:"keep_temp_files"`
	SampleRate    int    `yaml:"sample_rate"`
}

// PricingConfig holds API price points for cost reporting.
type PricingConfig struct {
	WhisperPerMinute      float64 `yaml:"whisper_per_minute"`
	InputPerMillionTokens float64 `yaml:"input_per_million_tokens"`
	OutputPerMillionTokens float64 `yaml:"output_per_million_tokens"`
	LastUpdated           string  `yaml:"last_updated"`
}

// Config is the full application configuration, passed explicitly into
// each component's constructor. There is no process-wide singleton.
type Config struct {
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Translation TranslationConfig `yaml:"translation"`
	Output      OutputConfig      `yaml:"output"`
	Processing  ProcessingConfig  `yaml:"processing"`
	Pricing     PricingConfig     `yaml:"pricing"`
}

// Default returns a Config with the stock defaults.
func Default() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model:      "gpt-4o",
			MaxRetries: 3,
			TimeoutSec: 30,
		},
		Translation: TranslationConfig{
			TargetLanguage:            "zh-cn",
			BatchSize:                 10,
			ParagraphMode:             true,
			ParagraphSilenceThreshold: 1.5,
			ParagraphMaxDuration:      30.0,
			ParagraphMinDuration:      3.0,
			RedistributeTimestamps:    true,
			SentenceMinGap:            0.5,
			TargetSpeechRate:          240,
			MaxConcurrent:             3,
			RateLimitPerMin:           30,
		},
		Output: OutputConfig{
			Format:          "both",
			IncludeOriginal: true,
		},
		Processing: ProcessingConfig{
			TempDir:    "./temp",
			SampleRate: 16000,
		},
		Pricing: PricingConfig{
			WhisperPerMinute:       0.006,
			InputPerMillionTokens:  5.0,
			OutputPerMillionTokens: 20.0,
			LastUpdated:            "2025-01-10",
		},
	}
}

// Load reads configuration from a YAML file, layered over the defaults.
// A missing file is not an error: the defaults are returned. The OpenAI
// API key falls back to the OPENAI_API_KEY environment variable.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, nil
}

// ConfigurationError names the setting that is missing or invalid.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Setting, e.Reason)
}

// Validate checks that required credentials and targets are present.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return &ConfigurationError{
			Setting: "openai.api_key",
			Reason:  "not set (use the config file or OPENAI_API_KEY)",
		}
	}
	if c.Translation.TargetLanguage == "" {
		return &ConfigurationError{
			Setting: "translation.target_language",
			Reason:  "not set",
		}
	}
	return nil
}
