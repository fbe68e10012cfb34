package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	posconfig "github.com/screwyprof/posanalytics/overview/config"
)

// Config holds all configuration loaded from environment variables
type Config struct {
	Timeout          time.Duration `env:"SNAPSHOT_TIMEOUT" envDefault:"10m"`
	Pretty           bool          `env:"SNAPSHOT_PRETTY" envDefault:"false"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly bool          `env:"LOG_HUMAN_FRIENDLY" envDefault:"true"`
	Pos              posconfig.Config
}

// New loads all configuration from environment variables
func New() Config {
	return env.Must(env.ParseAs[Config]())
}
