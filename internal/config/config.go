package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

type LLMConfig struct {
	Provider     string  `yaml:"provider"`
	BaseURL      string  `yaml:"base_url"`
	Model        string  `yaml:"model"`
	APIKey       string  `yaml:"api_key"`
	Timeout      int     `yaml:"timeout"`
	MaxRetries   int     `yaml:"max_retries"`
	RetryBackoff float64 `yaml:"retry_backoff"`
	Temperature  float64 `yaml:"temperature"`
	NumViews     int     `yaml:"num_views"`
	MaxViews     int     `yaml:"max_views"`
}

type ValidationConfig struct {
	MinSemanticScore     float64 `yaml:"min_semantic_score"`
	DisableSemanticCheck bool    `yaml:"disable_semantic_check"`
	Workers              int     `yaml:"workers"`
}

type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	LLM        LLMConfig        `yaml:"llm"`
	Validation ValidationConfig `yaml:"validation"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	config.applyEnv()

	return &config, nil
}

func (c *Config) applyDefaults() {
	c.Database.Type = normalizeDatabaseType(c.Database.Type)
	if c.Database.Type == "postgres" && c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.BaseURL == "" && c.LLM.Provider == "ollama" {
		c.LLM.BaseURL = "http://localhost:11434"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 180
	}
	if c.LLM.MaxRetries <= 0 {
		c.LLM.MaxRetries = 3
	}
	if c.LLM.RetryBackoff <= 0 {
		c.LLM.RetryBackoff = 2.0
	}
	if c.LLM.NumViews <= 0 {
		c.LLM.NumViews = 5
	}
	if c.LLM.MaxViews <= 0 {
		c.LLM.MaxViews = 20
	}

	if c.Validation.MinSemanticScore <= 0 {
		c.Validation.MinSemanticScore = 0.05
	}
	if c.Validation.Workers <= 0 {
		c.Validation.Workers = 4
	}
}

// applyEnv layers environment overrides on top of the file values. A .env
// file in the working directory is honored when present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("VIEWGEN_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("VIEWGEN_LLM_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("VIEWGEN_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("VIEWGEN_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("VIEWGEN_MIN_SEMANTIC_SCORE"); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil && score > 0 {
			c.Validation.MinSemanticScore = score
		}
	}
	if v := os.Getenv("VIEWGEN_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil && workers > 0 {
			c.Validation.Workers = workers
		}
	}
}

func (c *Config) GetConnectionString() string {
	if c.Database.Type != "" && c.Database.Type != "postgres" {
		return ""
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

func normalizeDatabaseType(dbType string) string {
	dbType = strings.ToLower(strings.TrimSpace(dbType))
	if dbType == "" {
		return "sqlite"
	}

	switch dbType {
	case "postgres", "postgresql":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return dbType
	}
}
