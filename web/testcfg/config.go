package testcfg

import (
	"github.com/caarlos0/env/v11"

	posconfig "github.com/screwyprof/posanalytics/overview/config"
)

// Config holds test-specific configuration for web API acceptance tests.
// Network sources are read from the same POS_* variables the server uses.
type Config struct {
	LogLevel         string `env:"WEB_TEST_LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly bool   `env:"WEB_TEST_LOG_HUMAN_FRIENDLY" envDefault:"true"`
	Pos              posconfig.Config
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
