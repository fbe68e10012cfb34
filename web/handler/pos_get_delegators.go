package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/screwyprof/posanalytics/pkg/httpkit"
	"github.com/screwyprof/posanalytics/web/api"
	"github.com/screwyprof/posanalytics/web/handler/bind"
	"github.com/screwyprof/posanalytics/web/pos"
)

const (
	GetDelegatorsRoute = http.MethodGet + " " + "/pos/delegators"
	GetDelegatorRoute  = http.MethodGet + " " + "/pos/delegators/{address}"
)

// Sentinel errors
var (
	ErrDelegatorNotFound = errors.New("delegator not found")
)

type PosGetDelegators struct {
	builder pos.DelegatorsBuilder
}

func NewPosGetDelegators(builder pos.DelegatorsBuilder) *PosGetDelegators {
	return &PosGetDelegators{
		builder: builder,
	}
}

func (h *PosGetDelegators) AddRoutes(m *http.ServeMux) {
	m.Handle(GetDelegatorsRoute, httpkit.HandlerFunc(h.GetDelegators))
	m.Handle(GetDelegatorRoute, httpkit.HandlerFunc(h.GetDelegator))
}

func (h *PosGetDelegators) GetDelegators(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	// Parse query parameters using bind layer
	req, err := bind.GetDelegatorsRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	// Create domain criteria with validation
	criteria, err := pos.NewDelegatorsCriteria(req.DelegatedTo, req.Page, req.PerPage)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	set, err := h.builder.BuildDelegatorSet(r.Context())
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}

	page := pos.PageDelegators(set, criteria)

	// Build GitHub-style Link header for navigation
	if linkHeader := buildPaginationLinks(page, r.URL); linkHeader != "" {
		w.Header().Set("Link", linkHeader)
	}

	return httpkit.JSON(bind.GetDelegatorsResponse(page.Delegators, page.Total))
}

func (h *PosGetDelegators) GetDelegator(_ http.ResponseWriter, r *http.Request) http.HandlerFunc {
	address, err := bind.DelegatorAddress(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	set, err := h.builder.BuildDelegatorSet(r.Context())
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}

	d, ok := set[address]
	if !ok {
		return httpkit.JsonError(api.NotFound(fmt.Errorf("%w: %s", ErrDelegatorNotFound, address)))
	}

	return httpkit.JSON(bind.GetDelegatorResponse(d))
}

// buildPaginationLinks creates GitHub-style Link header for pagination navigation
func buildPaginationLinks(page *pos.DelegatorsPage, baseURL *url.URL) string {
	var links []string

	// Build base URL with existing query params (like delegated_to filter)
	u := *baseURL
	query := u.Query()

	// Previous page link
	if page.HasPrevious() {
		query.Set("page", fmt.Sprintf("%d", page.Number-1))
		query.Set("per_page", fmt.Sprintf("%d", page.Size))
		u.RawQuery = query.Encode()
		links = append(links, fmt.Sprintf(`<%s>; rel="prev"`, u.String()))
	}

	// Next page link
	if page.HasNext() {
		query.Set("page", fmt.Sprintf("%d", page.Number+1))
		query.Set("per_page", fmt.Sprintf("%d", page.Size))
		u.RawQuery = query.Encode()
		links = append(links, fmt.Sprintf(`<%s>; rel="next"`, u.String()))
	}

	return strings.Join(links, ", ")
}
