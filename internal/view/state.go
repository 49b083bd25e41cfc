// Package view owns the session view state and the controller state machine
// that ties user input to pipeline invocations.
package view

import (
	"errors"
	"time"

	"github.com/rkm/sentinel-rfi/internal/aggregate"
	"github.com/rkm/sentinel-rfi/internal/signal"
	"github.com/rkm/sentinel-rfi/internal/tiles"
	"github.com/rkm/sentinel-rfi/internal/timewindow"
	"github.com/rkm/sentinel-rfi/pkg/geojson"
)

// Transition input errors.
var (
	// ErrSiteNotFound is returned when an example-site name is not registered.
	ErrSiteNotFound = errors.New("example site not found")

	// ErrUnknownTimestamp is returned when a chart point activation references
	// a timestamp absent from the current series.
	ErrUnknownTimestamp = errors.New("timestamp not present in series")

	// ErrNoSeries is returned when a chart point is activated before any
	// series has been extracted.
	ErrNoSeries = errors.New("no series loaded")

	// ErrInvalidOpacity is returned for opacity values outside [0, 1].
	ErrInvalidOpacity = errors.New("opacity must be between 0 and 1")
)

// Viewport is the current map viewport center and zoom.
type Viewport struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Zoom int     `json:"zoom"`
}

// Notice is a persistent, non-blocking operator notice raised by a failed
// external query. The failed transition is retriable by re-triggering it.
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GranularityLayer pairs a granularity's composite with its rendered layer.
// Layer is nil when the composite is an empty placeholder.
type GranularityLayer struct {
	Composite *aggregate.Composite
	Layer     *tiles.Layer
}

// Snapshot is a consistent read-only copy of the view state, produced after
// each completed transition. Readers never observe a partially updated state.
type Snapshot struct {
	Viewport         Viewport               `json:"viewport"`
	Granularity      timewindow.Granularity `json:"granularity"`
	GranularityLabel string                 `json:"granularityLabel"`
	Opacity          float64                `json:"opacity"`
	AnchorDate       time.Time              `json:"anchorDate"`
	DateLabel        string                 `json:"dateLabel"`
	Clicked          *signal.Point          `json:"clicked,omitempty"`
	ActiveSite       string                 `json:"activeSite,omitempty"`
	Annotations      []geojson.Geometry     `json:"annotations,omitempty"`
	Narrative        []string               `json:"narrative,omitempty"`
	Layers           []tiles.Layer          `json:"layers"`
	NoData           bool                   `json:"noData"`
	SeriesNoData     bool                   `json:"seriesNoData"`
	Series           []signal.Sample        `json:"series,omitempty"`
	Summary          *signal.Summary        `json:"summary,omitempty"`
	Notice           *Notice                `json:"notice,omitempty"`
}

// granularityLabel returns the informational label describing the active
// granularity's display mode.
func granularityLabel(g timewindow.Granularity) string {
	switch g {
	case timewindow.Day:
		return "Daily acquisitions"
	case timewindow.Month:
		return "Monthly max composite"
	case timewindow.Year:
		return "Yearly max composite"
	}
	return string(g)
}
