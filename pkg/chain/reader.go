package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Sentinel errors
var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrUnexpectedLog  = errors.New("unexpected log layout")
)

// Default configuration values
const (
	DefaultDelegationStartBlock = uint64(10_800_000)
	DefaultLogChunkSize         = uint64(100_000)
	DefaultBatchSize            = 100
)

// Block identifies a block by number and unix time
type Block struct {
	Number uint64
	Time   int64
}

// State is the live chain state an overview is pinned to
type State struct {
	Block      Block
	TotalStake float64
}

// DelegationEvent is a decoded Delegated log
type DelegationEvent struct {
	From        string
	To          string
	BlockNumber uint64
}

// Option configures the Reader
// ---------------------------
type Option func(*Reader)

// WithEstimator sets the block time estimator
func WithEstimator(e BlockTimeEstimator) Option {
	return func(r *Reader) { r.estimator = e }
}

// WithDelegationStartBlock sets the first block scanned for delegation events
func WithDelegationStartBlock(n uint64) Option {
	return func(r *Reader) { r.startBlock = n }
}

// WithLogChunkSize sets the block span of a single eth_getLogs request
func WithLogChunkSize(n uint64) Option {
	return func(r *Reader) {
		if n > 0 {
			r.logChunkSize = n
		}
	}
}

// WithBatchSize sets the number of eth_call requests per JSON-RPC batch
func WithBatchSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// Reader queries staking state and delegation history over JSON-RPC
// -----------------------------------------------------------------
type Reader struct {
	rpc          *rpc.Client
	eth          *ethclient.Client
	contracts    Contracts
	estimator    BlockTimeEstimator
	startBlock   uint64
	logChunkSize uint64
	batchSize    int
}

// Dial connects to an Ethereum JSON-RPC endpoint
func Dial(ctx context.Context, endpoint string, contracts Contracts, opts ...Option) (*Reader, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", endpoint, err)
	}
	return NewReader(client, contracts, opts...), nil
}

// NewReader wraps an existing RPC client
func NewReader(client *rpc.Client, contracts Contracts, opts ...Option) *Reader {
	r := &Reader{
		rpc:          client,
		eth:          ethclient.NewClient(client),
		contracts:    contracts,
		estimator:    DefaultEstimator(),
		startBlock:   DefaultDelegationStartBlock,
		logChunkSize: DefaultLogChunkSize,
		batchSize:    DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close releases the underlying connection
func (r *Reader) Close() {
	r.rpc.Close()
}

// CurrentBlockAndTotalStake reads the head block and the staking contract's
// total stake at that same block.
func (r *Reader) CurrentBlockAndTotalStake(ctx context.Context) (State, error) {
	header, err := r.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return State{}, fmt.Errorf("reading head block: %w", err)
	}

	data, err := stakingABI.Pack(methodTotalStaked)
	if err != nil {
		return State{}, fmt.Errorf("packing %s: %w", methodTotalStaked, err)
	}

	out, err := r.eth.CallContract(ctx, ethereum.CallMsg{To: &r.contracts.Staking, Data: data}, header.Number)
	if err != nil {
		return State{}, fmt.Errorf("calling %s: %w", methodTotalStaked, err)
	}

	total, err := unpackAmount(stakingABI, methodTotalStaked, out)
	if err != nil {
		return State{}, err
	}

	return State{
		Block: Block{
			Number: header.Number.Uint64(),
			Time:   int64(header.Time),
		},
		TotalStake: total,
	}, nil
}

// DelegationEvents returns every Delegated event from fromBlock to the current
// head, in chain order. The range is scanned in logChunkSize windows.
func (r *Reader) DelegationEvents(ctx context.Context, fromBlock uint64) ([]DelegationEvent, error) {
	head, err := r.eth.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading head block number: %w", err)
	}

	var events []DelegationEvent
	for start := fromBlock; start <= head; start += r.logChunkSize {
		end := min(start+r.logChunkSize-1, head)

		logs, err := r.eth.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(start),
			ToBlock:   new(big.Int).SetUint64(end),
			Addresses: []common.Address{r.contracts.Delegations},
			Topics:    [][]common.Hash{{DelegatedTopic}},
		})
		if err != nil {
			return nil, fmt.Errorf("filtering logs %d-%d: %w", start, end, err)
		}

		for _, l := range logs {
			if l.Removed {
				continue
			}
			event, err := decodeDelegated(l)
			if err != nil {
				return nil, err
			}
			events = append(events, event)
		}
	}

	return events, nil
}

func decodeDelegated(l types.Log) (DelegationEvent, error) {
	if len(l.Topics) < 3 || l.Topics[0] != DelegatedTopic {
		return DelegationEvent{}, fmt.Errorf("%w: tx %s index %d", ErrUnexpectedLog, l.TxHash.Hex(), l.Index)
	}
	return DelegationEvent{
		From:        common.BytesToAddress(l.Topics[1].Bytes()).Hex(),
		To:          common.BytesToAddress(l.Topics[2].Bytes()).Hex(),
		BlockNumber: l.BlockNumber,
	}, nil
}

// Balances returns the token balance of each address, keyed as given
func (r *Reader) Balances(ctx context.Context, addresses []string) (map[string]float64, error) {
	return r.batchAmounts(ctx, r.contracts.Token, erc20ABI, methodBalanceOf, addresses)
}

// Stakes returns the staked amount of each address, keyed as given
func (r *Reader) Stakes(ctx context.Context, addresses []string) (map[string]float64, error) {
	return r.batchAmounts(ctx, r.contracts.Staking, stakingABI, methodStakeBalance, addresses)
}

// EstimateBlockTime returns the estimated unix time of blockNumber
func (r *Reader) EstimateBlockTime(blockNumber uint64) int64 {
	return r.estimator.Estimate(blockNumber)
}

// StartOfDelegation returns the first block scanned for delegation events
func (r *Reader) StartOfDelegation() Block {
	return Block{
		Number: r.startBlock,
		Time:   r.estimator.Estimate(r.startBlock),
	}
}

// batchAmounts issues one eth_call per address, batchSize calls per round trip
func (r *Reader) batchAmounts(ctx context.Context, contract common.Address, parsed abi.ABI, method string, addresses []string) (map[string]float64, error) {
	amounts := make(map[string]float64, len(addresses))

	for start := 0; start < len(addresses); start += r.batchSize {
		chunk := addresses[start:min(start+r.batchSize, len(addresses))]

		elems := make([]rpc.BatchElem, len(chunk))
		results := make([]hexutil.Bytes, len(chunk))
		for i, addr := range chunk {
			if !common.IsHexAddress(addr) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
			}
			data, err := parsed.Pack(method, common.HexToAddress(addr))
			if err != nil {
				return nil, fmt.Errorf("packing %s: %w", method, err)
			}
			elems[i] = rpc.BatchElem{
				Method: "eth_call",
				Args: []any{
					map[string]any{"to": contract, "data": hexutil.Bytes(data)},
					"latest",
				},
				Result: &results[i],
			}
		}

		if err := r.rpc.BatchCallContext(ctx, elems); err != nil {
			return nil, fmt.Errorf("batch %s: %w", method, err)
		}

		for i, elem := range elems {
			if elem.Error != nil {
				return nil, fmt.Errorf("%s(%s): %w", method, chunk[i], elem.Error)
			}
			amount, err := unpackAmount(parsed, method, results[i])
			if err != nil {
				return nil, fmt.Errorf("%s(%s): %w", method, chunk[i], err)
			}
			amounts[chunk[i]] = amount
		}
	}

	return amounts, nil
}
