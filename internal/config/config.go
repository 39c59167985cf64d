// Package config loads tsnorm settings from an optional YAML or TOML file and
// the environment. Command-line flags are applied on top by cmd/tsnorm.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/shpitdev/tsnorm/pkg/pipeline/io/legacy"
)

type Config struct {
	Input        string    `yaml:"input" toml:"input"`
	Output       string    `yaml:"output" toml:"output"`
	Encoding     string    `yaml:"encoding" toml:"encoding"`
	Column       int       `yaml:"column" toml:"column"`
	Header       string    `yaml:"header" toml:"header"`
	Rejects      string    `yaml:"rejects" toml:"rejects"`
	MetricsFile  string    `yaml:"metrics_file" toml:"metrics_file"`
	RateLimitRPS float64   `yaml:"rate_limit_rps" toml:"rate_limit_rps"`
	Log          LogConfig `yaml:"log" toml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default reproduces the behaviour of a bare invocation: stdin to stdout,
// Shift_JIS, timestamp in column 0 after a header row, info logging.
func Default() Config {
	return Config{
		Encoding: legacy.DefaultName,
		Header:   "first",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load starts from Default, overlays the file at path when path is not
// empty, then overlays environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes path into cfg. The format follows the extension: .toml is
// TOML, anything else is YAML. Unknown keys are rejected.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(b), cfg)
		if err != nil {
			return fmt.Errorf("parse config TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parse config TOML: unknown key %q", undecoded[0].String())
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config YAML: %w", err)
		}
	}
	return nil
}

// ApplyEnv overlays the TSNORM_* variables plus the shared RATE_LIMIT_RPS,
// LOG_LEVEL and LOG_FORMAT onto cfg. Unset or blank variables are ignored.
func ApplyEnv(cfg *Config) error {
	cfg.Input = envString("TSNORM_INPUT", cfg.Input)
	cfg.Output = envString("TSNORM_OUTPUT", cfg.Output)
	cfg.Encoding = envString("TSNORM_ENCODING", cfg.Encoding)
	cfg.Header = envString("TSNORM_HEADER", cfg.Header)
	cfg.Rejects = envString("TSNORM_REJECTS", cfg.Rejects)
	cfg.MetricsFile = envString("TSNORM_METRICS_FILE", cfg.MetricsFile)
	cfg.Log.Level = envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envString("LOG_FORMAT", cfg.Log.Format)

	column, err := envInt("TSNORM_COLUMN", cfg.Column)
	if err != nil {
		return err
	}
	cfg.Column = column

	rps, err := envFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	if err != nil {
		return err
	}
	cfg.RateLimitRPS = rps
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Column < 0 {
		return fmt.Errorf("column must be >= 0, got %d", c.Column)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must be >= 0, got %g", c.RateLimitRPS)
	}
	if _, err := legacy.Lookup(c.Encoding); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

func envString(varName, fallback string) string {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(varName string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envFloat(varName string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
