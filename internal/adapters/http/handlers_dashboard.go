package web

import (
	"net/http"

	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/application/projections"
)

// handleDashboard renders the summary view.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result := projections.QueryGetDashboard(r.Context(), projections.GetDashboardDeps{
		Collector: collectorOrNil(s.deps.Collector),
	}, middleware.IsAdmin(r.Context()))

	s.renderTemplate(w, r, "dashboard.html", map[string]any{
		"Stats":        result.Stats,
		"Activities":   result.Activities,
		"ShowRequests": result.ShowRequests,
		"RequestCount": result.RequestCount,
		"AvgMillis":    result.AvgMillis,
		"MaxMillis":    result.MaxMillis,
	})
}

// collectorOrNil avoids handing the projection a typed nil pointer wrapped in
// an interface.
func collectorOrNil(c *middleware.Collector) projections.RequestStats {
	if c == nil {
		return nil
	}
	return c
}
