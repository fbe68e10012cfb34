package overview_test

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screwyprof/posanalytics/pkg/chain"
	"github.com/screwyprof/posanalytics/pkg/nodes"
)

// payloadFrom decodes a node payload the same way the node client does
func payloadFrom(t *testing.T, raw string) nodes.Payload {
	t.Helper()

	var payload nodes.Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload), "Failed to decode test payload")
	return payload
}

// fakeChain implements ChainReader for deterministic testing
type fakeChain struct {
	mu sync.Mutex

	state    chain.State
	stateErr error

	start       chain.Block
	events      []chain.DelegationEvent
	eventsErr   error
	balances    map[string]float64
	balancesErr error
	stakes      map[string]float64
	stakesErr   error

	eventsFrom     []uint64
	balanceQueries [][]string
	stakeQueries   [][]string
}

func (f *fakeChain) CurrentBlockAndTotalStake(_ context.Context) (chain.State, error) {
	return f.state, f.stateErr
}

func (f *fakeChain) DelegationEvents(_ context.Context, fromBlock uint64) ([]chain.DelegationEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eventsFrom = append(f.eventsFrom, fromBlock)
	return f.events, f.eventsErr
}

func (f *fakeChain) Balances(_ context.Context, addresses []string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceQueries = append(f.balanceQueries, slices.Clone(addresses))
	if f.balancesErr != nil {
		return nil, f.balancesErr
	}
	return pick(f.balances, addresses), nil
}

func (f *fakeChain) Stakes(_ context.Context, addresses []string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stakeQueries = append(f.stakeQueries, slices.Clone(addresses))
	if f.stakesErr != nil {
		return nil, f.stakesErr
	}
	return pick(f.stakes, addresses), nil
}

// EstimateBlockTime maps block n to time n*10 so estimates are easy to assert
func (f *fakeChain) EstimateBlockTime(blockNumber uint64) int64 {
	return int64(blockNumber) * 10
}

func (f *fakeChain) StartOfDelegation() chain.Block {
	return f.start
}

func pick(values map[string]float64, addresses []string) map[string]float64 {
	out := make(map[string]float64, len(addresses))
	for _, a := range addresses {
		if v, ok := values[a]; ok {
			out[a] = v
		}
	}
	return out
}
