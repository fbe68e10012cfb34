package nodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Payload is the loosely structured governance document published by a node.
// CurrentCommittee and CurrentCandidates are kept raw: only their length is
// consumed, and a missing list must stay distinguishable from an empty one.
type Payload struct {
	Guardians         Guardians        `json:"Guardians"`
	CommitteeEvents   []CommitteeEvent `json:"CommitteeEvents"`
	CurrentCommittee  json.RawMessage  `json:"CurrentCommittee"`
	CurrentCandidates json.RawMessage  `json:"CurrentCandidates"`
}

// Guardian is a registered validator and its display name
type Guardian struct {
	EthAddress string `json:"EthAddress"`
	Name       string `json:"Name"`
}

// Guardians accepts either a JSON array of guardians or an object keyed by
// address. Object values are ordered by key so decoding is deterministic.
type Guardians []Guardian

// UnmarshalJSON implements json.Unmarshaler
func (g *Guardians) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*g = nil
		return nil
	case trimmed[0] == '{':
		var byAddress map[string]Guardian
		if err := json.Unmarshal(trimmed, &byAddress); err != nil {
			return fmt.Errorf("decoding guardians object: %w", err)
		}
		keys := lo.Keys(byAddress)
		slices.Sort(keys)
		*g = lo.Map(keys, func(k string, _ int) Guardian { return byAddress[k] })
		return nil
	default:
		var list []Guardian
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("decoding guardians list: %w", err)
		}
		*g = list
		return nil
	}
}

// CommitteeEvent is one historical committee composition
type CommitteeEvent struct {
	RefBlock  Number            `json:"RefBlock"`
	RefTime   Number            `json:"RefTime"`
	Committee []CommitteeMember `json:"Committee"`
}

// CommitteeMember is a committee seat at the time of an event
type CommitteeMember struct {
	EthAddress     string `json:"EthAddress"`
	EffectiveStake Number `json:"EffectiveStake"`
	Weight         Number `json:"Weight"`
}

// Number is a numeric field that never fails to decode.
// JSON numbers and numeric strings are parsed; null, empty, boolean and
// anything non-numeric decode to zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(parseNumber(data))
	return nil
}

// Float64 returns the value as float64
func (n Number) Float64() float64 {
	return float64(n)
}

// Uint64 returns the value truncated to an unsigned integer, negatives clamp to 0
func (n Number) Uint64() uint64 {
	if n <= 0 {
		return 0
	}
	return uint64(n)
}

// Int64 returns the value truncated to an integer
func (n Number) Int64() int64 {
	return int64(n)
}

func parseNumber(data []byte) float64 {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return 0
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return 0
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return 0
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}

	// Values beyond float64 range are as unusable as non-numeric ones
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
