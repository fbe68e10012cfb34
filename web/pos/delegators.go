package pos

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/screwyprof/posanalytics/overview"
)

// Sentinel errors for delegator criteria construction
var (
	ErrInvalidPerPage = errors.New("invalid per_page")
)

// OverviewBuilder assembles a fresh overview from the given node URLs
type OverviewBuilder interface {
	BuildOverview(ctx context.Context, nodeURLs []string) (overview.Overview, error)
}

// DelegatorsBuilder assembles a fresh delegator set
type DelegatorsBuilder interface {
	BuildDelegatorSet(ctx context.Context) (overview.DelegatorSet, error)
}

// DelegatorsCriteria specifies which delegators to list and which page of them
type DelegatorsCriteria struct {
	DelegatedTo string  // Lowercase delegate address filter. Empty means all
	Page        Page    // 1-based page number
	Size        PerPage // Items per page
}

// ItemsPerPage returns the number of items requested per page
func (c DelegatorsCriteria) ItemsPerPage() uint64 {
	return c.Size.Uint64()
}

// ItemsToSkip returns the number of items to skip for pagination.
// Offsets that do not fit in uint64 saturate, which yields an empty page.
func (c DelegatorsCriteria) ItemsToSkip() uint64 {
	page, size := c.Page.Uint64(), c.Size.Uint64()
	if page <= 1 || size == 0 {
		return 0
	}
	if page-1 > math.MaxUint64/size {
		return math.MaxUint64
	}
	return (page - 1) * size
}

// NewDelegatorsCriteria creates DelegatorsCriteria with validation
func NewDelegatorsCriteria(delegatedTo string, page, perPage uint64) (DelegatorsCriteria, error) {
	pp, err := ParsePerPageFromUint64(perPage)
	if err != nil {
		return DelegatorsCriteria{}, fmt.Errorf("%w: %w", ErrInvalidPerPage, err)
	}

	return DelegatorsCriteria{
		DelegatedTo: strings.ToLower(delegatedTo),
		Page:        ParsePageFromUint64(page),
		Size:        pp,
	}, nil
}

// DelegatorsPage represents a page of delegators with navigation metadata
type DelegatorsPage struct {
	Delegators []overview.Delegator
	Total      int     // Matching delegators across all pages
	HasMore    bool    // True if there are more pages after this one
	Number     Page    // Current page number
	Size       PerPage // Page size
}

// Helper methods for pagination state
func (p *DelegatorsPage) HasNext() bool     { return p.HasMore }
func (p *DelegatorsPage) HasPrevious() bool { return p.Number > 1 }

// PageDelegators filters the set, orders it by stake (largest first, then by
// address) and cuts out the requested page.
func PageDelegators(set overview.DelegatorSet, criteria DelegatorsCriteria) *DelegatorsPage {
	matching := lo.Filter(lo.Values(set), func(d overview.Delegator, _ int) bool {
		return criteria.DelegatedTo == "" || d.DelegatedTo == criteria.DelegatedTo
	})

	slices.SortFunc(matching, func(a, b overview.Delegator) int {
		if c := cmp.Compare(b.Stake, a.Stake); c != 0 {
			return c
		}
		return cmp.Compare(a.Address, b.Address)
	})

	total := uint64(len(matching))
	skip := min(criteria.ItemsToSkip(), total)
	end := skip + min(criteria.ItemsPerPage(), total-skip)

	return &DelegatorsPage{
		Delegators: matching[skip:end],
		Total:      len(matching),
		HasMore:    end < total,
		Number:     criteria.Page,
		Size:       criteria.Size,
	}
}
