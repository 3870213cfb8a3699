// Package config loads server configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries every tunable the server reads at startup.
type Config struct {
	Port            int           `envconfig:"PORT" default:"3000"`
	MongoURI        string        `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017/send-it"`
	DBName          string        `envconfig:"DB_NAME" default:"send-it"`
	FrontendURL     string        `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	RateLimitRPM    int           `envconfig:"RATE_LIMIT_RPM" default:"120"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty       bool          `envconfig:"LOG_PRETTY" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads a .env file when present, then parses the environment. A missing
// .env is not an error; every key has a development default.
func Load() (*Config, error) {
	// Ignore the error: in containers there is no .env file and all config
	// comes from real environment variables.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
