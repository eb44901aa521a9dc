package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"mindmaps/pkg/logger"
)

// Database holds the PostgreSQL connection fields used by the postgres store backend.
type Database struct {
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME" envDefault:"mindmaps"`
	SSLMode  string `env:"SSLMODE" envDefault:"require"`
}

// DSN renders the connection string understood by lib/pq.
func (d Database) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	DataDir      string `env:"DATA_DIR" envDefault:"./data"`
	// QuotaBytes caps key+value bytes in the persistent store. Zero disables the cap.
	QuotaBytes int64 `env:"STORE_QUOTA_BYTES" envDefault:"5242880"`

	Database Database `envPrefix:"DB_"`

	RemoteBaseURL string        `env:"REMOTE_BASE_URL" envDefault:"http://localhost:3000"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`

	JWTSecret      string   `env:"JWT_SECRET"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads an optional .env file and then parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}
	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.QuotaBytes < 0 {
		return nil, fmt.Errorf("STORE_QUOTA_BYTES must not be negative, got %d", cfg.QuotaBytes)
	}
	return &cfg, nil
}
