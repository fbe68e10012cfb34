package chain

import (
	"math"
	"time"
)

// Default reference point for block time estimation on Ethereum mainnet
const (
	DefaultRefBlockNumber = uint64(11_000_000)
	DefaultRefBlockTime   = int64(1_601_990_000)
	DefaultAvgBlockTime   = 13 * time.Second
)

// BlockTimeEstimator extrapolates block timestamps linearly from a known block
type BlockTimeEstimator struct {
	RefBlock     uint64
	RefTime      int64
	AvgBlockTime time.Duration
}

// DefaultEstimator returns an estimator anchored at the default mainnet reference
func DefaultEstimator() BlockTimeEstimator {
	return BlockTimeEstimator{
		RefBlock:     DefaultRefBlockNumber,
		RefTime:      DefaultRefBlockTime,
		AvgBlockTime: DefaultAvgBlockTime,
	}
}

// Estimate returns the estimated unix time of blockNumber, rounded to the second
func (e BlockTimeEstimator) Estimate(blockNumber uint64) int64 {
	delta := float64(blockNumber) - float64(e.RefBlock)
	return e.RefTime + int64(math.Round(delta*e.AvgBlockTime.Seconds()))
}
