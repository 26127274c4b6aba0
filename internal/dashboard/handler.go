package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/camber-build/camber/pkg/handlers"
	"github.com/camber-build/camber/pkg/routes"
)

// Handler provides HTTP endpoints for dashboard metrics.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "dashboard"),
	}
}

// Routes returns the route group definition for dashboard endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/dashboard",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/metrics", Handler: h.Metrics},
		},
	}
}

// Metrics returns the aggregate snapshot. Optional "from" and "to" query
// parameters bound the window as RFC 3339 timestamps; "group_by" selects
// the grouping dimension (scheme, stage, or reviewer; default scheme).
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	metrics, err := h.sys.Metrics(r.Context(), window, GroupBy(r.URL.Query().Get("group_by")))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, metrics)
}

func windowFromQuery(values url.Values) (Window, error) {
	var window Window

	for name, target := range map[string]**time.Time{
		"from": &window.From,
		"to":   &window.To,
	} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}

		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Window{}, fmt.Errorf("invalid %s timestamp: %w", name, err)
		}
		*target = &parsed
	}

	return window, nil
}
