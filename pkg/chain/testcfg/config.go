package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for chain reader acceptance tests
type Config struct {
	Endpoint            string        `env:"CHAIN_TEST_ETHEREUM_ENDPOINT,required"`
	StakingContract     string        `env:"CHAIN_TEST_STAKING_CONTRACT" envDefault:"0x01D59Af68E2dcb44e04C50e05F62E7043F2656C3"`
	TokenContract       string        `env:"CHAIN_TEST_TOKEN_CONTRACT" envDefault:"0xff56Cc6b1E6dEd347aA0B7676C85AB0B3D08B0FA"`
	DelegationsContract string        `env:"CHAIN_TEST_DELEGATIONS_CONTRACT,required"`
	Holder              string        `env:"CHAIN_TEST_HOLDER" envDefault:"0x01D59Af68E2dcb44e04C50e05F62E7043F2656C3"`
	LogWindow           uint64        `env:"CHAIN_TEST_LOG_WINDOW" envDefault:"2000"`
	Timeout             time.Duration `env:"CHAIN_TEST_TIMEOUT" envDefault:"60s"`
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
