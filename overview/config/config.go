package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/screwyprof/posanalytics/overview"
	"github.com/screwyprof/posanalytics/pkg/chain"
	"github.com/screwyprof/posanalytics/pkg/nodes"
)

// Config holds the network sources and chain settings shared by every binary
type Config struct {
	NodeURLs          []string      `env:"POS_NODE_URLS,required,notEmpty" envSeparator:","`
	EthereumEndpoint  string        `env:"POS_ETHEREUM_ENDPOINT,required,notEmpty"`
	HTTPClientTimeout time.Duration `env:"POS_HTTP_CLIENT_TIMEOUT" envDefault:"30s"`
	APY               float64       `env:"POS_APY" envDefault:"4000"`

	StakingContract     string `env:"POS_STAKING_CONTRACT" envDefault:"0x01D59Af68E2dcb44e04C50e05F62E7043F2656C3"`
	TokenContract       string `env:"POS_TOKEN_CONTRACT" envDefault:"0xff56Cc6b1E6dEd347aA0B7676C85AB0B3D08B0FA"`
	DelegationsContract string `env:"POS_DELEGATIONS_CONTRACT,required,notEmpty"`

	DelegationStartBlock uint64        `env:"POS_DELEGATION_START_BLOCK" envDefault:"10800000"`
	RefBlockNumber       uint64        `env:"POS_REF_BLOCK_NUMBER" envDefault:"11000000"`
	RefBlockTime         int64         `env:"POS_REF_BLOCK_TIME" envDefault:"1601990000"`
	AvgBlockTime         time.Duration `env:"POS_AVG_BLOCK_TIME" envDefault:"13s"`
	LogChunkSize         uint64        `env:"POS_LOG_CHUNK_SIZE" envDefault:"100000"`
	RPCBatchSize         int           `env:"POS_RPC_BATCH_SIZE" envDefault:"100"`
}

// Parse loads the configuration from environment variables
func Parse() (Config, error) {
	return env.ParseAs[Config]()
}

// New loads the configuration from environment variables and panics on error
func New() Config {
	return env.Must(Parse())
}

// Contracts parses the configured contract addresses
func (c Config) Contracts() (chain.Contracts, error) {
	return chain.ParseContracts(c.StakingContract, c.TokenContract, c.DelegationsContract)
}

// ChainOptions converts the chain settings into reader options
func (c Config) ChainOptions() []chain.Option {
	return []chain.Option{
		chain.WithEstimator(chain.BlockTimeEstimator{
			RefBlock:     c.RefBlockNumber,
			RefTime:      c.RefBlockTime,
			AvgBlockTime: c.AvgBlockTime,
		}),
		chain.WithDelegationStartBlock(c.DelegationStartBlock),
		chain.WithLogChunkSize(c.LogChunkSize),
		chain.WithBatchSize(c.RPCBatchSize),
	}
}

// NewService dials the chain endpoint and wires an overview service around it.
// The returned closer releases the chain connection.
func (c Config) NewService(ctx context.Context, log *slog.Logger) (*overview.Service, func(), error) {
	contracts, err := c.Contracts()
	if err != nil {
		return nil, nil, err
	}

	reader, err := chain.Dial(ctx, c.EthereumEndpoint, contracts, c.ChainOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to ethereum endpoint: %w", err)
	}

	client := nodes.NewClient(&http.Client{Timeout: c.HTTPClientTimeout})
	svc := overview.NewService(client, reader,
		overview.WithAPY(c.APY),
		overview.WithLogger(log),
	)

	return svc, reader.Close, nil
}
