package api

// Member represents a committee seat within a slice
type Member struct {
	Name           *string `json:"name,omitempty"`
	Address        string  `json:"address"`
	EffectiveStake float64 `json:"effective_stake"`
	Weight         float64 `json:"weight"`
}

// Slice represents the committee as of one reference block
type Slice struct {
	BlockNumber         uint64   `json:"block_number"`
	BlockTime           int64    `json:"block_time"`
	TotalEffectiveStake float64  `json:"total_effective_stake"`
	TotalWeight         float64  `json:"total_weight"`
	Data                []Member `json:"data"`
}

// OverviewResponse represents the API response format for GET /pos/overview
type OverviewResponse struct {
	BlockNumber uint64  `json:"block_number"`
	BlockTime   int64   `json:"block_time"`
	TotalStake  float64 `json:"total_stake"`
	NGuardians  int     `json:"n_guardians"`
	NCommittee  int     `json:"n_committee"`
	NCandidates int     `json:"n_candidates"`
	APY         float64 `json:"apy"`
	Slices      []Slice `json:"slices"`
}

// DelegatorsRequest represents the query parameters for GET /pos/delegators
type DelegatorsRequest struct {
	DelegatedTo string `query:"delegated_to"` // Optional delegate address filter
	Page        uint64 `query:"page"`         // Page number for pagination (default: 1)
	PerPage     uint64 `query:"per_page"`     // Number of items per page (default: 50, max: 100)
}

// Delegator represents a single delegator in the API response
type Delegator struct {
	Address         string  `json:"address"`
	DelegatedTo     string  `json:"delegated_to"`
	Stake           float64 `json:"stake"`
	NonStake        float64 `json:"non_stake"`
	LastChangeBlock uint64  `json:"last_change_block"`
	LastChangeTime  int64   `json:"last_change_time"`
}

// DelegatorsResponse represents the API response format for GET /pos/delegators
type DelegatorsResponse struct {
	Data  []Delegator `json:"data"`
	Total int         `json:"total"`
}

// SnapshotResponse is the combined document printed by the snapshot command
type SnapshotResponse struct {
	Overview   OverviewResponse     `json:"overview"`
	Delegators map[string]Delegator `json:"delegators"`
}
