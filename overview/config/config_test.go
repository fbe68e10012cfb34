package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/posanalytics/overview"
	"github.com/screwyprof/posanalytics/overview/config"
	"github.com/screwyprof/posanalytics/pkg/chain"
)

const delegations = "0x0000000000000000000000000000000000000d1e"

func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("POS_NODE_URLS", "http://node-1/status,http://node-2/status")
	t.Setenv("POS_ETHEREUM_ENDPOINT", "http://localhost:8545")
	t.Setenv("POS_DELEGATIONS_CONTRACT", delegations)
}

// Tests in this file use t.Setenv and therefore cannot run in parallel.

func TestParse(t *testing.T) {
	t.Run("it applies defaults", func(t *testing.T) {
		// Arrange
		setRequired(t)

		// Act
		cfg, err := config.Parse()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"http://node-1/status", "http://node-2/status"}, cfg.NodeURLs)
		assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
		assert.Equal(t, float64(overview.DefaultAPY), cfg.APY)
		assert.Equal(t, chain.DefaultDelegationStartBlock, cfg.DelegationStartBlock)
		assert.Equal(t, chain.DefaultLogChunkSize, cfg.LogChunkSize)
		assert.Equal(t, chain.DefaultBatchSize, cfg.RPCBatchSize)
		assert.Equal(t, 13*time.Second, cfg.AvgBlockTime)
	})

	t.Run("it reads overrides", func(t *testing.T) {
		// Arrange
		setRequired(t)
		t.Setenv("POS_APY", "1250.5")
		t.Setenv("POS_LOG_CHUNK_SIZE", "5000")
		t.Setenv("POS_HTTP_CLIENT_TIMEOUT", "2s")

		// Act
		cfg, err := config.Parse()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1250.5, cfg.APY)
		assert.Equal(t, uint64(5000), cfg.LogChunkSize)
		assert.Equal(t, 2*time.Second, cfg.HTTPClientTimeout)
	})

	t.Run("it requires node URLs", func(t *testing.T) {
		// Arrange
		t.Setenv("POS_ETHEREUM_ENDPOINT", "http://localhost:8545")
		t.Setenv("POS_DELEGATIONS_CONTRACT", delegations)
		t.Setenv("POS_NODE_URLS", "")

		// Act
		_, err := config.Parse()

		// Assert
		assert.Error(t, err)
	})
}

func TestConfigContracts(t *testing.T) {
	t.Run("it parses the configured addresses", func(t *testing.T) {
		// Arrange
		setRequired(t)
		cfg, err := config.Parse()
		require.NoError(t, err)

		// Act
		contracts, err := cfg.Contracts()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x01d59af68e2dcb44e04c50e05f62e7043f2656c3"), contracts.Staking)
		assert.Equal(t, common.HexToAddress(delegations), contracts.Delegations)
	})

	t.Run("it refuses to build a service with a bad contract address", func(t *testing.T) {
		// Arrange
		setRequired(t)
		t.Setenv("POS_TOKEN_CONTRACT", "0xnope")
		cfg, err := config.Parse()
		require.NoError(t, err)

		// Act
		_, _, err = cfg.NewService(context.Background(), nil)

		// Assert
		assert.ErrorIs(t, err, chain.ErrInvalidAddress)
	})
}
