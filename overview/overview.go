package overview

import (
	"context"
	"errors"

	"github.com/screwyprof/posanalytics/pkg/chain"
	"github.com/screwyprof/posanalytics/pkg/nodes"
)

// Sentinel errors for failure cases
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrAllSourcesFailed  = errors.New("all sources failed")
	ErrNoSources         = errors.New("no source URLs configured")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrChainQueryFailed  = errors.New("chain query failed")
)

// DefaultAPY is the annual yield reported when none is configured
const DefaultAPY = 4000

// NodeClient fetches a node's payload
// -----------------------------------
type NodeClient interface {
	GetPayload(ctx context.Context, url string) (nodes.Payload, error)
}

// ChainReader exposes the live chain queries the assembly needs
// --------------------------------------------------------------
type ChainReader interface {
	CurrentBlockAndTotalStake(ctx context.Context) (chain.State, error)
	DelegationEvents(ctx context.Context, fromBlock uint64) ([]chain.DelegationEvent, error)
	Balances(ctx context.Context, addresses []string) (map[string]float64, error)
	Stakes(ctx context.Context, addresses []string) (map[string]float64, error)
	EstimateBlockTime(blockNumber uint64) int64
	StartOfDelegation() chain.Block
}

// Member is a committee seat within a slice
type Member struct {
	Name           *string // nil when the address is not a known guardian
	Address        string
	EffectiveStake float64
	Weight         float64
}

// Slice is the committee as of one reference block
type Slice struct {
	BlockNumber         uint64
	BlockTime           int64
	TotalEffectiveStake float64
	TotalWeight         float64
	Members             []Member // descending by effective stake
}

// Overview is the consolidated governance state
type Overview struct {
	BlockNumber uint64
	BlockTime   int64
	TotalStake  float64
	NGuardians  int
	NCommittee  int
	NCandidates int
	APY         float64
	Slices      []Slice // descending by block time
}

// Delegator is an account's current delegation and holdings
type Delegator struct {
	Address         string
	DelegatedTo     string
	Stake           float64
	NonStake        float64
	LastChangeBlock uint64
	LastChangeTime  int64
}

// DelegatorSet maps a lowercase delegator address to its entry
type DelegatorSet map[string]Delegator
