package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ConfigPath        string  `yaml:"-"`
	InputPath         string  `yaml:"input"`
	OutputDir         string  `yaml:"output_dir"`
	PublicPath        string  `yaml:"public_path"`
	Language          string  `yaml:"language"`
	CorpusPath        string  `yaml:"corpus"`
	ModelDir          string  `yaml:"model_dir"`
	SaveModelDir      string  `yaml:"save_model_dir"`
	EvaluateFolds     int     `yaml:"evaluate_folds"`
	OutlierMultiplier float64 `yaml:"outlier_multiplier"`
	LogLevel          string  `yaml:"log_level"`
	LogFormat         string  `yaml:"log_format"`
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("missing -out")
	}
	if c.OutlierMultiplier <= 0 {
		return errors.New("outlier-multiplier must be > 0")
	}
	if c.EvaluateFolds < 0 || c.EvaluateFolds == 1 {
		return errors.New("evaluate must be 0 or >= 2")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log-format must be text or json, got %q", c.LogFormat)
	}
	switch c.Language {
	case "pt", "en", "es", "fr":
	default:
		return fmt.Errorf("unsupported language %q", c.Language)
	}
	return nil
}

// analyze reports whether a document should be analysed. Evaluation and
// model export run on their own unless an input is named explicitly.
func (c Config) analyze() bool {
	return c.InputPath != "" || (c.EvaluateFolds == 0 && c.SaveModelDir == "")
}

func defaultConfig() Config {
	return Config{
		OutputDir:         filepath.FromSlash("static/generated"),
		PublicPath:        "/static/generated/",
		Language:          "pt",
		OutlierMultiplier: 1.5,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func normalizeConfig(cfg *Config) {
	if cfg.InputPath != "" && cfg.InputPath != "-" {
		cfg.InputPath = filepath.Clean(cfg.InputPath)
	}
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
}
