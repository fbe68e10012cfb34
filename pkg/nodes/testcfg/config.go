package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for node client acceptance tests
type Config struct {
	NodeURL     string        `env:"NODES_TEST_URL" envDefault:"https://0xcore.orbs.com/services/management-service/status"`
	HTTPTimeout time.Duration `env:"NODES_TEST_HTTP_TIMEOUT" envDefault:"30s"`
}

// parseConfig wraps env.Parse to return (Config, error) for use with env.Must
func parseConfig() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

// New loads test configuration from environment variables
func New() Config {
	return env.Must(parseConfig())
}
