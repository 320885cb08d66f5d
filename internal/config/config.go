// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Transport names accepted by the transport key.
const (
	TransportHTTP   = "http"
	TransportNATS   = "nats"
	TransportDryRun = "dry-run"
)

// Config holds all configuration values for gleo.
type Config struct {
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint"`
	Transport      string `mapstructure:"transport" yaml:"transport"`
	NatsURL        string `mapstructure:"nats_url" yaml:"nats_url"`
	NatsSubject    string `mapstructure:"nats_subject" yaml:"nats_subject"`
	Token          string `mapstructure:"token" yaml:"token,omitempty"`
	JWTSecret      string `mapstructure:"jwt_secret" yaml:"jwt_secret,omitempty"`
	Operator       string `mapstructure:"operator" yaml:"operator"`
	Timeout        int    `mapstructure:"timeout" yaml:"timeout"`
	RefreshDelayMs int    `mapstructure:"refresh_delay_ms" yaml:"refresh_delay_ms"`
	SeedVendors    int    `mapstructure:"seed_vendors" yaml:"seed_vendors"`
	SeedItems      int    `mapstructure:"seed_items" yaml:"seed_items"`
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string `mapstructure:"log_file" yaml:"log_file"`
}

// Defaults returns the configuration used when no file or env var overrides a key.
func Defaults() *Config {
	return &Config{
		Endpoint:       "http://localhost:8080/admin/api/events",
		Transport:      TransportHTTP,
		NatsURL:        "nats://127.0.0.1:4222",
		NatsSubject:    "gleo.admin.events.create",
		Operator:       "admin",
		Timeout:        30,
		RefreshDelayMs: 1500,
		SeedVendors:    1,
		SeedItems:      1,
		DataDir:        ".gleo",
		LogLevel:       "info",
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars (.env included) > project config > XDG global config > defaults
func Load() (*Config, error) {
	// A missing .env is the common case.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("gleo")

	d := Defaults()
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("transport", d.Transport)
	v.SetDefault("nats_url", d.NatsURL)
	v.SetDefault("nats_subject", d.NatsSubject)
	v.SetDefault("token", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("operator", d.Operator)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("refresh_delay_ms", d.RefreshDelayMs)
	v.SetDefault("seed_vendors", d.SeedVendors)
	v.SetDefault("seed_items", d.SeedItems)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("GLEO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env-only keys.
	for _, key := range []string{
		"endpoint", "transport", "nats_url", "nats_subject", "token", "jwt_secret",
		"operator", "timeout", "refresh_delay_ms", "seed_vendors", "seed_items",
		"data_dir", "log_level", "log_file",
	} {
		if err := v.BindEnv(key, "GLEO_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/gleo/gleo.yml or $XDG_CONFIG_HOME/gleo/gleo.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gleo", "gleo.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gleo", "gleo.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "gleo.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Tokens may end up in the file, keep it private.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
