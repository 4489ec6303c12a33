// Package config loads the portal's configuration from a YAML file with
// environment-variable overrides. Credentials and API keys are never
// embedded in code; they come from the environment (optionally via a .env
// file in development).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full portal configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Drive  DriveConfig  `yaml:"drive"`
	LLM    LLMConfig    `yaml:"llm"`
}

// ServerConfig holds the listen ports.
type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metricsPort"`
}

// AuthConfig holds the shared staff credential and the token signing
// secret. All three must come from the environment or the config file.
type AuthConfig struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	JWTSecret string `yaml:"jwtSecret"`
}

// DriveConfig points at the shared cloud folder uploads land in.
type DriveConfig struct {
	Bucket       string `yaml:"bucket"`
	FolderPrefix string `yaml:"folderPrefix"`
}

// LLMConfig selects the hosted model used for file analysis.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	MaxChars int    `yaml:"maxChars"`
}

// Load reads the YAML file at path (missing file is fine; defaults and the
// environment take over) and applies environment overrides.
func Load(path string) (*Config, error) {
	// A .env file is a development convenience only.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{Port: 8080, MetricsPort: 9090},
		LLM:    LLMConfig{Provider: "anthropic", MaxChars: 12000},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Auth.Username == "" || cfg.Auth.Password == "" {
		return nil, fmt.Errorf("portal credentials are required: set PORTAL_USERNAME and PORTAL_PASSWORD")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("token signing secret is required: set PORTAL_JWT_SECRET")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Auth.Username, "PORTAL_USERNAME")
	setString(&cfg.Auth.Password, "PORTAL_PASSWORD")
	setString(&cfg.Auth.JWTSecret, "PORTAL_JWT_SECRET")
	setString(&cfg.Drive.Bucket, "GCS_BUCKET")
	setString(&cfg.Drive.FolderPrefix, "GCS_FOLDER_PREFIX")
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setInt(&cfg.Server.Port, "PORTAL_PORT")
	setInt(&cfg.Server.MetricsPort, "PORTAL_METRICS_PORT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
