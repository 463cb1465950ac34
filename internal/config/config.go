package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Arbiter/internal/ahp"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type EngineConfig struct {
	Method        string  `yaml:"method"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	Parallel      bool    `yaml:"parallel"`
	StrictScale   bool    `yaml:"strict_scale"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EngineOptions converts the engine section to ahp.Options.
func (c *Config) EngineOptions() ahp.Options {
	return ahp.Options{
		Method:        ahp.Method(c.Engine.Method),
		MaxIterations: c.Engine.MaxIterations,
		Tolerance:     c.Engine.Tolerance,
		Parallel:      c.Engine.Parallel,
	}
}

// Validate rejects settings the engine or logger cannot use.
func (c *Config) Validate() error {
	if err := c.EngineOptions().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server: rate limit must be positive, got %d", c.Server.RateLimit)
	}
	return nil
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Engine: EngineConfig{
			Method:        string(ahp.MethodPower),
			MaxIterations: ahp.DefaultMaxIterations,
			Tolerance:     ahp.DefaultTolerance,
			Parallel:      true,
			StrictScale:   false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ARBITER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ARBITER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ARBITER_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("ARBITER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ARBITER_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("ARBITER_ENGINE_METHOD"); v != "" {
		cfg.Engine.Method = v
	}
	if v := os.Getenv("ARBITER_ENGINE_PARALLEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Engine.Parallel = b
		}
	}
	if v := os.Getenv("ARBITER_STRICT_SCALE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Engine.StrictScale = b
		}
	}
	if v := os.Getenv("ARBITER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ARBITER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
