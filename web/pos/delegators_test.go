package pos_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/posanalytics/overview"
	"github.com/screwyprof/posanalytics/web/pos"
)

const (
	guardianA = "0xaaaa000000000000000000000000000000000001"
	guardianB = "0xbbbb000000000000000000000000000000000002"
)

func delegatorSet(ds ...overview.Delegator) overview.DelegatorSet {
	set := make(overview.DelegatorSet, len(ds))
	for _, d := range ds {
		set[d.Address] = d
	}
	return set
}

func addresses(ds []overview.Delegator) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Address
	}
	return out
}

func TestNewDelegatorsCriteria(t *testing.T) {
	t.Parallel()

	t.Run("it applies defaults and lowercases the filter", func(t *testing.T) {
		t.Parallel()

		// Act
		criteria, err := pos.NewDelegatorsCriteria("0xAAAA000000000000000000000000000000000001", 0, 0)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, guardianA, criteria.DelegatedTo)
		assert.Equal(t, pos.Page(1), criteria.Page)
		assert.Equal(t, pos.PerPage(pos.DefaultPerPage), criteria.Size)
		assert.Equal(t, uint64(0), criteria.ItemsToSkip())
	})

	t.Run("it computes the offset of later pages", func(t *testing.T) {
		t.Parallel()

		// Act
		criteria, err := pos.NewDelegatorsCriteria("", 3, 20)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, uint64(40), criteria.ItemsToSkip())
		assert.Equal(t, uint64(20), criteria.ItemsPerPage())
	})

	t.Run("it saturates the offset of pages too far out to address", func(t *testing.T) {
		t.Parallel()

		// Act
		criteria, err := pos.NewDelegatorsCriteria("", 4611686018427387905, 4)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), criteria.ItemsToSkip())
	})

	t.Run("it rejects oversized pages", func(t *testing.T) {
		t.Parallel()

		// Act
		_, err := pos.NewDelegatorsCriteria("", 1, pos.MaxPerPage+1)

		// Assert
		assert.ErrorIs(t, err, pos.ErrInvalidPerPage)
		assert.ErrorIs(t, err, pos.ErrPerPageTooLarge)
	})
}

func TestPageDelegators(t *testing.T) {
	t.Parallel()

	set := delegatorSet(
		overview.Delegator{Address: "0x03", DelegatedTo: guardianA, Stake: 10},
		overview.Delegator{Address: "0x01", DelegatedTo: guardianB, Stake: 50},
		overview.Delegator{Address: "0x02", DelegatedTo: guardianA, Stake: 10},
		overview.Delegator{Address: "0x04", DelegatedTo: guardianB, Stake: 0},
		overview.Delegator{Address: "0x05", DelegatedTo: guardianA, Stake: 70},
	)

	t.Run("it orders by stake descending then by address", func(t *testing.T) {
		t.Parallel()

		// Arrange
		criteria, err := pos.NewDelegatorsCriteria("", 1, 10)
		require.NoError(t, err)

		// Act
		page := pos.PageDelegators(set, criteria)

		// Assert
		assert.Equal(t, []string{"0x05", "0x01", "0x02", "0x03", "0x04"}, addresses(page.Delegators))
		assert.Equal(t, 5, page.Total)
		assert.False(t, page.HasNext())
		assert.False(t, page.HasPrevious())
	})

	t.Run("it cuts out the requested page", func(t *testing.T) {
		t.Parallel()

		// Arrange
		criteria, err := pos.NewDelegatorsCriteria("", 2, 2)
		require.NoError(t, err)

		// Act
		page := pos.PageDelegators(set, criteria)

		// Assert
		assert.Equal(t, []string{"0x02", "0x03"}, addresses(page.Delegators))
		assert.True(t, page.HasNext())
		assert.True(t, page.HasPrevious())
	})

	t.Run("it returns an empty page past the end", func(t *testing.T) {
		t.Parallel()

		// Arrange
		criteria, err := pos.NewDelegatorsCriteria("", 9, 2)
		require.NoError(t, err)

		// Act
		page := pos.PageDelegators(set, criteria)

		// Assert
		assert.Empty(t, page.Delegators)
		assert.Equal(t, 5, page.Total)
		assert.False(t, page.HasNext())
	})

	t.Run("it returns an empty page instead of wrapping to the first one", func(t *testing.T) {
		t.Parallel()

		// Arrange
		criteria, err := pos.NewDelegatorsCriteria("", 4611686018427387905, 4)
		require.NoError(t, err)

		// Act
		page := pos.PageDelegators(set, criteria)

		// Assert
		assert.Empty(t, page.Delegators)
		assert.Equal(t, 5, page.Total)
		assert.False(t, page.HasNext())
	})

	t.Run("it filters by delegate", func(t *testing.T) {
		t.Parallel()

		// Arrange
		criteria, err := pos.NewDelegatorsCriteria(guardianA, 1, 10)
		require.NoError(t, err)

		// Act
		page := pos.PageDelegators(set, criteria)

		// Assert
		assert.Equal(t, []string{"0x05", "0x02", "0x03"}, addresses(page.Delegators))
		assert.Equal(t, 3, page.Total)
	})

	t.Run("it handles an empty set", func(t *testing.T) {
		t.Parallel()

		// Arrange
		criteria, err := pos.NewDelegatorsCriteria("", 1, 10)
		require.NoError(t, err)

		// Act
		page := pos.PageDelegators(overview.DelegatorSet{}, criteria)

		// Assert
		assert.Empty(t, page.Delegators)
		assert.Equal(t, 0, page.Total)
	})
}
