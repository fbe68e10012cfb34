package overview

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/screwyprof/posanalytics/pkg/chain"
	"github.com/screwyprof/posanalytics/pkg/nodes"
)

var errMissingList = errors.New("missing list")

// BuildOverview turns a node payload and a live chain snapshot into an Overview.
//
// Committee member stakes and weights that are missing or non-numeric count as
// zero. CurrentCommittee is mandatory and its absence is ErrMalformedPayload;
// a missing CurrentCandidates list counts as zero candidates.
func BuildOverview(payload nodes.Payload, state chain.State, apy float64) (Overview, error) {
	nCommittee, err := listLength(payload.CurrentCommittee, true)
	if err != nil {
		return Overview{}, fmt.Errorf("%w: CurrentCommittee: %w", ErrMalformedPayload, err)
	}

	nCandidates, err := listLength(payload.CurrentCandidates, false)
	if err != nil {
		return Overview{}, fmt.Errorf("%w: CurrentCandidates: %w", ErrMalformedPayload, err)
	}

	return Overview{
		BlockNumber: state.Block.Number,
		BlockTime:   state.Block.Time,
		TotalStake:  state.TotalStake,
		NGuardians:  len(payload.Guardians),
		NCommittee:  nCommittee,
		NCandidates: nCandidates,
		APY:         apy,
		Slices:      BuildSlices(payload),
	}, nil
}

// BuildSlices builds one slice per committee event, newest first.
// Ties keep payload order.
func BuildSlices(payload nodes.Payload) []Slice {
	names := make(map[string]string, len(payload.Guardians))
	for _, g := range payload.Guardians {
		names[g.EthAddress] = g.Name
	}

	result := lo.Map(payload.CommitteeEvents, func(event nodes.CommitteeEvent, _ int) Slice {
		return buildSlice(event, names)
	})

	slices.SortStableFunc(result, func(a, b Slice) int {
		return cmp.Compare(b.BlockTime, a.BlockTime)
	})
	return result
}

func buildSlice(event nodes.CommitteeEvent, names map[string]string) Slice {
	slice := Slice{
		BlockNumber: event.RefBlock.Uint64(),
		BlockTime:   event.RefTime.Int64(),
		Members:     make([]Member, 0, len(event.Committee)),
	}

	for _, m := range event.Committee {
		effectiveStake := m.EffectiveStake.Float64()
		weight := m.Weight.Float64()
		slice.TotalEffectiveStake += effectiveStake
		slice.TotalWeight += weight

		member := Member{
			Address:        NormalizeAddress(m.EthAddress),
			EffectiveStake: effectiveStake,
			Weight:         weight,
		}
		if name, ok := names[m.EthAddress]; ok {
			member.Name = &name
		}
		slice.Members = append(slice.Members, member)
	}

	slices.SortStableFunc(slice.Members, func(a, b Member) int {
		return cmp.Compare(b.EffectiveStake, a.EffectiveStake)
	})
	return slice
}

// NormalizeAddress lowercases addr and makes sure it carries exactly one 0x prefix
func NormalizeAddress(addr string) string {
	lower := strings.ToLower(addr)
	if strings.HasPrefix(lower, "0x") {
		return lower
	}
	return "0x" + lower
}

// listLength returns the number of elements of a raw JSON array.
// Absent and null lists fail when required and count as empty otherwise.
func listLength(raw json.RawMessage, required bool) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if required {
			return 0, errMissingList
		}
		return 0, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return 0, fmt.Errorf("not a list: %w", err)
	}
	return len(items), nil
}
