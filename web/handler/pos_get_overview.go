package handler

import (
	"net/http"

	"github.com/screwyprof/posanalytics/pkg/httpkit"
	"github.com/screwyprof/posanalytics/web/api"
	"github.com/screwyprof/posanalytics/web/handler/bind"
	"github.com/screwyprof/posanalytics/web/pos"
)

const GetOverviewRoute = http.MethodGet + " " + "/pos/overview"

type PosGetOverview struct {
	builder  pos.OverviewBuilder
	nodeURLs []string
}

func NewPosGetOverview(builder pos.OverviewBuilder, nodeURLs []string) *PosGetOverview {
	return &PosGetOverview{
		builder:  builder,
		nodeURLs: nodeURLs,
	}
}

func (h *PosGetOverview) AddRoutes(m *http.ServeMux) {
	m.Handle(GetOverviewRoute, httpkit.HandlerFunc(h.GetOverview))
}

func (h *PosGetOverview) GetOverview(_ http.ResponseWriter, r *http.Request) http.HandlerFunc {
	ov, err := h.builder.BuildOverview(r.Context(), h.nodeURLs)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}

	return httpkit.JSON(bind.GetOverviewResponse(ov))
}
