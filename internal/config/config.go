package config

import (
	"fmt"
	"net"

	"github.com/caarlos0/env/v11"
)

// Server holds the duel server configuration.
//
//	PORT                 (default: 5000)
//	DUEL_HOST            (default: all interfaces)
//	DUEL_SEED            (default: 0, time-seeded)
//	DUEL_LOG_LEVEL       (default: info)
//	DUEL_LOG_FORMAT      (default: console; json for structured output)
//	DUEL_ALLOWED_ORIGIN  (default: *)
//	DUEL_STATIC_DIR      (default: none; serve a built frontend from here)
type Server struct {
	Host          string `env:"DUEL_HOST"`
	Port          string `env:"PORT" envDefault:"5000"`
	Seed          int64  `env:"DUEL_SEED"`
	LogLevel      string `env:"DUEL_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"DUEL_LOG_FORMAT" envDefault:"console"`
	AllowedOrigin string `env:"DUEL_ALLOWED_ORIGIN" envDefault:"*"`
	StaticDir     string `env:"DUEL_STATIC_DIR"`
}

// Addr is the listen address.
func (s Server) Addr() string { return net.JoinHostPort(s.Host, s.Port) }

// Client holds the duel CLI configuration.
type Client struct {
	APIBase string `env:"DUEL_API_BASE" envDefault:"http://127.0.0.1:5000"`
}

// LoadServer reads Server from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return Server{}, fmt.Errorf("DUEL_LOG_FORMAT: unknown format %q", cfg.LogFormat)
	}
	return cfg, nil
}

// LoadClient reads Client from the environment.
func LoadClient() (Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
