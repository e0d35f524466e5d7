package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("model = %q", cfg.OpenAI.Model)
	}
	if cfg.Translation.TargetLanguage != "zh-cn" {
		t.Errorf("target language = %q", cfg.Translation.TargetLanguage)
	}
	if !cfg.Translation.ParagraphMode {
		t.Error("paragraph mode should default on")
	}
	if cfg.Translation.ParagraphSilenceThreshold != 1.5 {
		t.Errorf("silence threshold = %v", cfg.Translation.ParagraphSilenceThreshold)
	}
	if cfg.Translation.ParagraphMaxDuration != 30.0 {
		t.Errorf("max duration = %v", cfg.Translation.ParagraphMaxDuration)
	}
	if cfg.Translation.TargetSpeechRate != 240 {
		t.Errorf("speech rate = %v", cfg.Translation.TargetSpeechRate)
	}
	if cfg.Translation.MaxConcurrent != 3 {
		t.Errorf("max concurrent = %v", cfg.Translation.MaxConcurrent)
	}
	if cfg.Output.Format != "both" {
		t.Errorf("format = %q", cfg.Output.Format)
	}
	if cfg.Processing.SampleRate != 16000 {
		t.Errorf("sample rate = %v", cfg.Processing.SampleRate)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `openai:
  api_key: sk-test
  model: gpt-4o-mini
translation:
  target_language: ja
  paragraph_mode: false
  max_concurrent: 5
output:
  format: srt
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.OpenAI.Model)
	}
	if cfg.Translation.TargetLanguage != "ja" {
		t.Errorf("target language = %q", cfg.Translation.TargetLanguage)
	}
	if cfg.Translation.ParagraphMode {
		t.Error("paragraph mode should be off")
	}
	if cfg.Translation.MaxConcurrent != 5 {
		t.Errorf("max concurrent = %v", cfg.Translation.MaxConcurrent)
	}

	// Untouched keys keep their defaults.
	if cfg.Translation.BatchSize != 10 {
		t.Errorf("batch size = %v, want default 10", cfg.Translation.BatchSize)
	}
	if cfg.Output.Format != "srt" {
		t.Errorf("format = %q", cfg.Output.Format)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Translation.TargetLanguage != "zh-cn" {
		t.Errorf("target language = %q, want default", cfg.Translation.TargetLanguage)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("openai: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_EnvFallbackForAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("api key = %q, want env value", cfg.OpenAI.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error without API key")
	}
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
	if cerr.Setting != "openai.api_key" {
		t.Errorf("setting = %q", cerr.Setting)
	}

	cfg.OpenAI.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	cfg.Translation.TargetLanguage = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without target language")
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"zh-cn", "Simplified Chinese"},
		{"ZH-CN", "Simplified Chinese"},
		{"en", "English"},
		{"ja", "Japanese"},
		{"xx", "xx"},
	}

	for _, tt := range tests {
		if got := LanguageName(tt.code); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
