package bind

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/screwyprof/posanalytics/overview"
	"github.com/screwyprof/posanalytics/web/api"
)

// Sentinel errors for request binding
var (
	ErrInvalidDelegatedTo = errors.New("invalid delegated_to parameter")
	ErrInvalidAddress     = errors.New("invalid address parameter")
	ErrInvalidPage        = errors.New("invalid page parameter")
	ErrInvalidPerPage     = errors.New("invalid per_page parameter")

	// Specific address validation errors
	ErrAddressNotHex = errors.New("address must be a 0x-prefixed 20 byte hex string")

	// Specific page validation errors
	ErrPageNotNumeric  = errors.New("page must be numeric")
	ErrPageNotPositive = errors.New("page must be positive")

	// Specific per_page validation errors
	ErrPerPageNotNumeric  = errors.New("per_page must be numeric")
	ErrPerPageNotPositive = errors.New("per_page must be positive")
	ErrPerPageTooLarge    = errors.New("per_page must be between 1 and 100")
)

// GetDelegatorsRequest binds HTTP request to DelegatorsRequest with defaults
func GetDelegatorsRequest(r *http.Request) (api.DelegatorsRequest, error) {
	req := api.DelegatorsRequest{
		DelegatedTo: "", // empty means no filter
		Page:        1,  // Default to first page
		PerPage:     50, // Default pagination size
	}

	query := r.URL.Query()

	if delegatedTo := query.Get("delegated_to"); delegatedTo != "" {
		address, err := parseAddress(delegatedTo)
		if err != nil {
			return req, fmt.Errorf("%w: %w", ErrInvalidDelegatedTo, err)
		}
		req.DelegatedTo = address
	}

	// Parse page parameter
	if pageParam := query.Get("page"); pageParam != "" {
		page, err := parsePageNumber(pageParam)
		if err != nil {
			return req, fmt.Errorf("%w: %w", ErrInvalidPage, err)
		}
		req.Page = page
	}

	// Parse per_page parameter
	if perPageParam := query.Get("per_page"); perPageParam != "" {
		perPage, err := parsePerPageLimit(perPageParam)
		if err != nil {
			return req, fmt.Errorf("%w: %w", ErrInvalidPerPage, err)
		}
		req.PerPage = perPage
	}

	return req, nil
}

// DelegatorAddress binds the {address} path segment to a lowercase address
func DelegatorAddress(r *http.Request) (string, error) {
	address, err := parseAddress(r.PathValue("address"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return address, nil
}

// parseAddress accepts a 0x-prefixed hex address in any letter case
func parseAddress(param string) (string, error) {
	if len(param) != 42 || !common.IsHexAddress(param) {
		return "", ErrAddressNotHex
	}
	return strings.ToLower(param), nil
}

// parsePageNumber validates that the page parameter is a positive integer
func parsePageNumber(pageParam string) (uint64, error) {
	// Must parse as a number
	page, err := strconv.ParseUint(pageParam, 10, 64)
	if err != nil {
		return 0, ErrPageNotNumeric
	}

	// Must be positive
	if page == 0 {
		return 0, ErrPageNotPositive
	}

	return page, nil
}

// parsePerPageLimit validates that the per_page parameter is within acceptable limits
func parsePerPageLimit(perPageParam string) (uint64, error) {
	// Must parse as a number
	perPage, err := strconv.ParseUint(perPageParam, 10, 64)
	if err != nil {
		return 0, ErrPerPageNotNumeric
	}

	// Must be positive and within reasonable limits
	if perPage == 0 {
		return 0, ErrPerPageNotPositive
	}

	if perPage > 100 {
		return 0, ErrPerPageTooLarge
	}

	return perPage, nil
}

// GetOverviewResponse binds a domain overview to API response format
func GetOverviewResponse(ov overview.Overview) api.OverviewResponse {
	return api.OverviewResponse{
		BlockNumber: ov.BlockNumber,
		BlockTime:   ov.BlockTime,
		TotalStake:  ov.TotalStake,
		NGuardians:  ov.NGuardians,
		NCommittee:  ov.NCommittee,
		NCandidates: ov.NCandidates,
		APY:         ov.APY,
		Slices: lo.Map(ov.Slices, func(s overview.Slice, _ int) api.Slice {
			return api.Slice{
				BlockNumber:         s.BlockNumber,
				BlockTime:           s.BlockTime,
				TotalEffectiveStake: s.TotalEffectiveStake,
				TotalWeight:         s.TotalWeight,
				Data: lo.Map(s.Members, func(m overview.Member, _ int) api.Member {
					return api.Member{
						Name:           m.Name,
						Address:        m.Address,
						EffectiveStake: m.EffectiveStake,
						Weight:         m.Weight,
					}
				}),
			}
		}),
	}
}

// GetDelegatorResponse binds a single domain delegator to API response format
func GetDelegatorResponse(d overview.Delegator) api.Delegator {
	return api.Delegator{
		Address:         d.Address,
		DelegatedTo:     d.DelegatedTo,
		Stake:           d.Stake,
		NonStake:        d.NonStake,
		LastChangeBlock: d.LastChangeBlock,
		LastChangeTime:  d.LastChangeTime,
	}
}

// GetDelegatorsResponse binds a page of domain delegators to API response format
func GetDelegatorsResponse(delegators []overview.Delegator, total int) api.DelegatorsResponse {
	return api.DelegatorsResponse{
		Data:  lo.Map(delegators, func(d overview.Delegator, _ int) api.Delegator { return GetDelegatorResponse(d) }),
		Total: total,
	}
}

// GetSnapshotResponse binds an overview and a full delegator set to the snapshot document
func GetSnapshotResponse(ov overview.Overview, set overview.DelegatorSet) api.SnapshotResponse {
	return api.SnapshotResponse{
		Overview:   GetOverviewResponse(ov),
		Delegators: lo.MapValues(set, func(d overview.Delegator, _ string) api.Delegator { return GetDelegatorResponse(d) }),
	}
}
