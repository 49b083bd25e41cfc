package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rkm/sentinel-rfi/internal/signal"
	"github.com/rkm/sentinel-rfi/internal/sites"
	"github.com/rkm/sentinel-rfi/internal/timewindow"
	"github.com/rkm/sentinel-rfi/internal/view"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	controller *view.Controller
	registry   *sites.Registry
	logger     *slog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(controller *view.Controller, registry *sites.Registry, logger *slog.Logger) *Handlers {
	return &Handlers{
		controller: controller,
		registry:   registry,
		logger:     logger,
	}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetView handles GET /view: the current view state snapshot.
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.controller.Snapshot())
}

type clickRequest struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Click handles POST /view/click: a map click at (lon, lat).
func (h *Handlers) Click(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if req.Lon < -180 || req.Lon > 180 {
		WriteInvalidParameter(w, fmt.Sprintf("longitude out of range: %f", req.Lon))
		return
	}
	if req.Lat < -90 || req.Lat > 90 {
		WriteInvalidParameter(w, fmt.Sprintf("latitude out of range: %f", req.Lat))
		return
	}

	h.controller.OnMapClick(r.Context(), signal.Point{Lon: req.Lon, Lat: req.Lat})
	WriteJSON(w, http.StatusOK, h.controller.Snapshot())
}

type granularityRequest struct {
	Granularity string `json:"granularity"`
}

// SetGranularity handles POST /view/granularity.
func (h *Handlers) SetGranularity(w http.ResponseWriter, r *http.Request) {
	var req granularityRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	g, err := timewindow.ParseGranularity(req.Granularity)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}

	if err := h.controller.OnGranularityChange(g); err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.controller.Snapshot())
}

type dateRequest struct {
	Date string `json:"date"`
}

// SetDate handles POST /view/date: a new anchor date.
func (h *Handlers) SetDate(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	anchor, err := parseDate(req.Date)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}

	h.controller.OnDateChange(r.Context(), anchor)
	WriteJSON(w, http.StatusOK, h.controller.Snapshot())
}

type opacityRequest struct {
	Opacity float64 `json:"opacity"`
}

// SetOpacity handles POST /view/opacity.
func (h *Handlers) SetOpacity(w http.ResponseWriter, r *http.Request) {
	var req opacityRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.controller.OnOpacityChange(req.Opacity); err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.controller.Snapshot())
}

type chartPointRequest struct {
	Timestamp string `json:"timestamp"`
}

// ChartPoint handles POST /view/chart-point: a clicked chart point, which
// navigates the map to that acquisition's date.
func (h *Handlers) ChartPoint(w http.ResponseWriter, r *http.Request) {
	var req chartPointRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		WriteInvalidParameter(w, fmt.Sprintf("invalid timestamp: %v", err))
		return
	}

	if err := h.controller.OnChartPointActivated(r.Context(), timestamp); err != nil {
		switch {
		case errors.Is(err, view.ErrNoSeries):
			WriteBadRequest(w, err.Error())
		case errors.Is(err, view.ErrUnknownTimestamp):
			WriteNotFound(w, err.Error())
		default:
			WriteInternalError(w, err.Error())
		}
		return
	}
	WriteJSON(w, http.StatusOK, h.controller.Snapshot())
}

type siteRequest struct {
	Name string `json:"name"`
}

// SelectSite handles POST /view/site: applies an example-site preset.
func (h *Handlers) SelectSite(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.controller.OnExampleSiteSelected(r.Context(), req.Name); err != nil {
		if errors.Is(err, view.ErrSiteNotFound) {
			WriteNotFound(w, err.Error())
			return
		}
		WriteInternalError(w, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.controller.Snapshot())
}

// seriesResponse is the chart's backing data: the retained (timestamp, value)
// pairs plus descriptive statistics.
type seriesResponse struct {
	Point   *signal.Point   `json:"point,omitempty"`
	NoData  bool            `json:"noData"`
	Samples []signal.Sample `json:"samples,omitempty"`
	Summary *signal.Summary `json:"summary,omitempty"`
}

// GetSeries handles GET /series: the current time series.
func (h *Handlers) GetSeries(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()
	WriteJSON(w, http.StatusOK, seriesResponse{
		Point:   snap.Clicked,
		NoData:  snap.SeriesNoData,
		Samples: snap.Series,
		Summary: snap.Summary,
	})
}

// ListSites handles GET /sites: the example-site registry.
func (h *Handlers) ListSites(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"sites": h.registry.All(),
	})
}

// decodeJSON decodes a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseDate parses an anchor date, accepting a bare date or RFC3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}
