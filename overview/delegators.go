package overview

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// AssembleDelegators builds the current delegator set from on-chain delegation
// events, then fills stake and balance from one batched lookup per kind.
//
// Events are applied in the order returned, so the last event for an address
// wins. Any chain failure aborts the assembly; no partial set is returned.
func AssembleDelegators(ctx context.Context, reader ChainReader) (DelegatorSet, error) {
	start := reader.StartOfDelegation()
	events, err := reader.DelegationEvents(ctx, start.Number)
	if err != nil {
		return nil, fmt.Errorf("%w: reading delegation events: %w", ErrChainQueryFailed, err)
	}

	set := make(DelegatorSet, len(events))
	for _, event := range events {
		address := strings.ToLower(event.From)
		set[address] = Delegator{
			Address:         address,
			DelegatedTo:     strings.ToLower(event.To),
			LastChangeBlock: event.BlockNumber,
		}
	}

	addresses := set.Addresses()

	var balances, stakes map[string]float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balances, err = reader.Balances(gctx, addresses)
		if err != nil {
			return fmt.Errorf("reading balances: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stakes, err = reader.Stakes(gctx, addresses)
		if err != nil {
			return fmt.Errorf("reading stakes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChainQueryFailed, err)
	}

	for address, d := range set {
		d.NonStake = balances[address]
		d.Stake = stakes[address]
		d.LastChangeTime = reader.EstimateBlockTime(d.LastChangeBlock)
		set[address] = d
	}

	return set, nil
}

// Addresses returns the set's keys in ascending order
func (s DelegatorSet) Addresses() []string {
	keys := lo.Keys(s)
	slices.Sort(keys)
	return keys
}
