package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RowanDark/cipherlab/internal/env"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config captures the cipherlab configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	Analysis     AnalysisConfig `yaml:"analysis"`
	CBC          CBCConfig      `yaml:"cbc"`
	ResourcesDir string         `yaml:"resources_dir"`
	RecipesDir   string         `yaml:"recipes_dir"`
	AuditLog     string         `yaml:"audit_log"`
}

// AnalysisConfig controls the repeating-key XOR breaker.
type AnalysisConfig struct {
	MinKeySize int `yaml:"min_key_size"`
	MaxKeySize int `yaml:"max_key_size"`
	Candidates int `yaml:"candidates"`
	// Workers bounds parallel sweeps; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// CBCConfig holds the block size used by the CBC commands.
type CBCConfig struct {
	BlockSize int `yaml:"block_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		Analysis: AnalysisConfig{
			MinKeySize: 2,
			MaxKeySize: 40,
			Candidates: 1,
			Workers:    0,
		},
		CBC: CBCConfig{
			BlockSize: 16,
		},
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		cfg.RecipesDir = filepath.Join(home, ".cipherlab", "recipes")
	}
	return cfg
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. The lookup order for configuration files is:
//  1. ~/.cipherlab/config.yaml
//  2. ./cipherlab.yml
//
// Environment variables prefixed with CIPHERLAB_ (or the legacy CRYPTOPALS_)
// have the highest precedence. The result is validated before it is returned.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the breaker and CBC commands cannot honour.
func (c Config) Validate() error {
	a := c.Analysis
	switch {
	case a.MinKeySize < 2:
		return fmt.Errorf("%w: analysis.min_key_size must be at least 2, got %d", ErrInvalidConfig, a.MinKeySize)
	case a.MaxKeySize <= a.MinKeySize:
		return fmt.Errorf("%w: analysis.max_key_size (%d) must exceed min_key_size (%d)", ErrInvalidConfig, a.MaxKeySize, a.MinKeySize)
	case a.Candidates < 1:
		return fmt.Errorf("%w: analysis.candidates must be at least 1, got %d", ErrInvalidConfig, a.Candidates)
	case a.Workers < 0:
		return fmt.Errorf("%w: analysis.workers must not be negative, got %d", ErrInvalidConfig, a.Workers)
	case c.CBC.BlockSize != 16:
		return fmt.Errorf("%w: cbc.block_size must be 16, got %d", ErrInvalidConfig, c.CBC.BlockSize)
	}
	return nil
}

// YAML renders the resolved configuration.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("determine home directory: %w", err)
	}
	return loadFile(cfg, filepath.Join(home, ".cipherlab", "config.yaml"))
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	return loadFile(cfg, filepath.Join(wd, "cipherlab.yml"))
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type fileConfig struct {
	Analysis     *fileAnalysisConfig `yaml:"analysis"`
	CBC          *fileCBCConfig      `yaml:"cbc"`
	ResourcesDir *string             `yaml:"resources_dir"`
	RecipesDir   *string             `yaml:"recipes_dir"`
	AuditLog     *string             `yaml:"audit_log"`
}

type fileAnalysisConfig struct {
	MinKeySize *int `yaml:"min_key_size"`
	MaxKeySize *int `yaml:"max_key_size"`
	Candidates *int `yaml:"candidates"`
	Workers    *int `yaml:"workers"`
}

type fileCBCConfig struct {
	BlockSize *int `yaml:"block_size"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Analysis != nil {
		setInt(&cfg.Analysis.MinKeySize, fc.Analysis.MinKeySize)
		setInt(&cfg.Analysis.MaxKeySize, fc.Analysis.MaxKeySize)
		setInt(&cfg.Analysis.Candidates, fc.Analysis.Candidates)
		setInt(&cfg.Analysis.Workers, fc.Analysis.Workers)
	}
	if fc.CBC != nil {
		setInt(&cfg.CBC.BlockSize, fc.CBC.BlockSize)
	}
	if fc.ResourcesDir != nil {
		cfg.ResourcesDir = expandHome(strings.TrimSpace(*fc.ResourcesDir))
	}
	if fc.RecipesDir != nil {
		cfg.RecipesDir = expandHome(strings.TrimSpace(*fc.RecipesDir))
	}
	if fc.AuditLog != nil {
		cfg.AuditLog = expandHome(strings.TrimSpace(*fc.AuditLog))
	}
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"MIN_KEY_SIZE", &cfg.Analysis.MinKeySize},
		{"MAX_KEY_SIZE", &cfg.Analysis.MaxKeySize},
		{"CANDIDATES", &cfg.Analysis.Candidates},
		{"WORKERS", &cfg.Analysis.Workers},
		{"BLOCK_SIZE", &cfg.CBC.BlockSize},
	}
	for _, setting := range ints {
		n, ok, err := env.SettingInt(setting.name)
		if err != nil {
			return fmt.Errorf("environment override: %w", err)
		}
		if ok {
			*setting.dst = n
		}
	}

	if val, ok := env.Setting("RESOURCES"); ok {
		cfg.ResourcesDir = expandHome(val)
	}
	if val, ok := env.Setting("RECIPES"); ok {
		cfg.RecipesDir = expandHome(val)
	}
	if val, ok := env.Setting("AUDIT_LOG"); ok {
		cfg.AuditLog = expandHome(val)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
