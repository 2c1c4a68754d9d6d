package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "github.com/Brupez/EletricNET/libs/config"
)

// Config defines the auth service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"AUTH_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"AUTH_DATABASE_DSN"`
	} `yaml:"database"`
	JWT struct {
		Secret    string        `yaml:"secret" env:"AUTH_JWT_SECRET"`
		ExpiresIn time.Duration `yaml:"expiresIn" env:"AUTH_JWT_EXPIRES_IN"`
	} `yaml:"jwt"`
}

// Load reads configuration via the shared loader and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8081"
	cfg.JWT.ExpiresIn = time.Hour

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	return cfg, nil
}

// HTTPAddress returns the :port listen address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8081"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
