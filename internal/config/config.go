package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Paths    PathsConfig    `yaml:"paths"`
	Database DatabaseConfig `yaml:"database"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type PathsConfig struct {
	Uploads string `yaml:"uploads"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type GeminiConfig struct {
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	APIKeyFile string `yaml:"api_key_file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "./uploads"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./transcription_db.sqlite"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "models/gemini-1.5-flash"
	}
	if c.Gemini.APIKeyFile == "" {
		c.Gemini.APIKeyFile = "api_key"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// ResolveAPIKey returns the Gemini API key from the first available source:
// the config value, the GOOGLE_API_KEY environment variable, then the key file.
// An empty result means the inference backend stays unconfigured.
func (c *Config) ResolveAPIKey() string {
	if c.Gemini.APIKey != "" {
		return c.Gemini.APIKey
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		return key
	}
	data, err := os.ReadFile(c.Gemini.APIKeyFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
