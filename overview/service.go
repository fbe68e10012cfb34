package overview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/screwyprof/posanalytics/pkg/clock"
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithAPY sets the annual yield reported in every overview
func WithAPY(apy float64) Option {
	return func(s *Service) { s.apy = apy }
}

// WithLogger injects a logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces the clock used to time each assembly
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// Service assembles overviews and delegator sets on demand
// ---------------------------------------------------------
// Nothing is cached: every call fetches fresh data.
type Service struct {
	nodes NodeClient
	chain ChainReader
	apy   float64
	log   *slog.Logger
	clock clock.Clock
}

// NewService constructs a Service with required dependencies and options.
// By default it reports DefaultAPY and logs to slog.Default().
func NewService(nodes NodeClient, chain ChainReader, opts ...Option) *Service {
	s := &Service{
		nodes: nodes,
		chain: chain,
		apy:   DefaultAPY,
		log:   slog.Default(),
		clock: clock.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildOverview fetches the payload from the first responsive node URL and
// combines it with the live chain state.
func (s *Service) BuildOverview(ctx context.Context, nodeURLs []string) (Overview, error) {
	start := s.clock.Now()

	payload, err := FetchFirst(ctx, s.log, nodeURLs, s.nodes.GetPayload)
	if err != nil {
		return Overview{}, err
	}

	state, err := s.chain.CurrentBlockAndTotalStake(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("%w: reading current block and total stake: %w", ErrChainQueryFailed, err)
	}

	ov, err := BuildOverview(payload, state, s.apy)
	if err != nil {
		return Overview{}, err
	}

	s.log.InfoContext(ctx, "Overview built",
		slog.Uint64("blockNumber", ov.BlockNumber),
		slog.Int("slices", len(ov.Slices)),
		slog.Int("guardians", ov.NGuardians),
		slog.Duration("duration", s.clock.Now().Sub(start)),
	)
	return ov, nil
}

// BuildDelegatorSet assembles the current delegator set from chain state
func (s *Service) BuildDelegatorSet(ctx context.Context) (DelegatorSet, error) {
	start := s.clock.Now()

	set, err := AssembleDelegators(ctx, s.chain)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Delegators assembled",
		slog.Int("delegators", len(set)),
		slog.Duration("duration", s.clock.Now().Sub(start)),
	)
	return set, nil
}
