package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "github.com/Brupez/EletricNET/libs/config"
)

// Config defines the webapp service configuration.
type Config struct {
	HTTP struct {
		Port          string `yaml:"port" env:"WEBAPP_HTTP_PORT"`
		AllowedOrigin string `yaml:"allowedOrigin" env:"WEBAPP_ALLOWED_ORIGIN"`
	} `yaml:"http"`
	JWT struct {
		Secret string `yaml:"secret" env:"WEBAPP_JWT_SECRET"`
	} `yaml:"jwt"`
	Services struct {
		AuthURL    string `yaml:"authUrl" env:"AUTH_SERVICE_URL"`
		BookingURL string `yaml:"bookingUrl" env:"BOOKING_SERVICE_URL"`
	} `yaml:"services"`
	Geo struct {
		BaseURL string `yaml:"baseUrl" env:"GEO_API_URL"`
		APIKey  string `yaml:"apiKey" env:"GEO_API_KEY"`
	} `yaml:"geo"`
	Redis struct {
		Addr     string `yaml:"addr" env:"WEBAPP_REDIS_ADDR"`
		Password string `yaml:"password" env:"WEBAPP_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"WEBAPP_REDIS_DB"`
	} `yaml:"redis"`
	Session struct {
		TTL time.Duration `yaml:"ttl" env:"WEBAPP_SESSION_TTL"`
	} `yaml:"session"`
	HTTPClient struct {
		Timeout time.Duration `yaml:"timeout" env:"WEBAPP_HTTP_TIMEOUT"`
	} `yaml:"httpClient"`
}

// Load reads configuration via the shared loader and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Session.TTL = 24 * time.Hour
	cfg.HTTPClient.Timeout = 10 * time.Second
	cfg.Geo.BaseURL = "https://maps.googleapis.com"

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if strings.TrimSpace(cfg.Services.AuthURL) == "" {
		return nil, errors.New("config: auth service url required")
	}
	if strings.TrimSpace(cfg.Services.BookingURL) == "" {
		return nil, errors.New("config: booking service url required")
	}
	return cfg, nil
}

// HTTPAddress returns the :port listen address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
