// internal/config/config.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from the environment.
// cmd binaries import github.com/joho/godotenv/autoload so a local .env is honored.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	NodeName string `env:"NODE_NAME" envDefault:"node-1"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// TokenTTL of 0 issues tokens without expiry.
	TokenTTL time.Duration `env:"TOKEN_EXPIRE_TIME" envDefault:"0s"`

	Postgres  Postgres
	Redis     Redis
	Historian Historian
}

// Postgres holds database connection settings.
type Postgres struct {
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     string `env:"PG_PORT" envDefault:"5432"`
	Database string `env:"PG_DATABASE" envDefault:"throneroom"`
}

// DSN renders the pgx connection string.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   "/" + p.Database,
	}
	return u.String()
}

// Redis holds cache connection settings.
type Redis struct {
	Addr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DB   int    `env:"REDIS_DB" envDefault:"0"`
}

// Historian holds the match-record queue settings.
type Historian struct {
	QueueName  string        `env:"HISTORIAN_QUEUE_NAME" envDefault:"throneroom_game_records"`
	BatchSize  int           `env:"HISTORIAN_BATCH_SIZE" envDefault:"20"`
	FlushDelay time.Duration `env:"HISTORIAN_FLUSH_INTERVAL" envDefault:"500ms"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
