package view

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rkm/sentinel-rfi/internal/archive"
	"github.com/rkm/sentinel-rfi/internal/obs"
	"github.com/rkm/sentinel-rfi/internal/signal"
	"github.com/rkm/sentinel-rfi/internal/sites"
	"github.com/rkm/sentinel-rfi/internal/timewindow"
	"github.com/rkm/sentinel-rfi/pkg/geojson"
)

// Session defaults.
var (
	// DefaultPoint is the initial clicked point, over a known emitter site.
	DefaultPoint = signal.Point{Lon: 49.949916, Lat: 26.606379}

	// DefaultGranularity is the initial aggregation granularity.
	DefaultGranularity = timewindow.Month
)

const (
	// DefaultOpacity is the initial layer opacity.
	DefaultOpacity = 1.0

	// DefaultZoom is the initial viewport zoom.
	DefaultZoom = 11

	// anchorLag keeps the initial anchor one week behind the current time so
	// the archive has ingested imagery by query time.
	anchorLag = 7 * 24 * time.Hour
)

// Controller is the single writer of the session view state. Transition
// handlers mutate it under one mutex; readers receive consistent snapshots.
// External queries run off the interaction path in goroutines; responses
// arriving for a superseded request are discarded (last-request-wins, keyed
// by a monotonic sequence number per request kind).
type Controller struct {
	pipeline Pipeline
	registry *sites.Registry
	logger   *slog.Logger
	now      func() time.Time
	onUpdate func(Snapshot)

	dateSeq  atomic.Uint64
	clickSeq atomic.Uint64
	wg       sync.WaitGroup

	mu           sync.Mutex
	viewport     Viewport
	granularity  timewindow.Granularity
	opacity      float64
	anchor       time.Time
	dateLabel    string
	clicked      *signal.Point
	activeSite   string
	annotations  []geojson.Geometry
	narrative    []string
	layers       map[timewindow.Granularity]*GranularityLayer
	series       *signal.Series
	summary      *signal.Summary
	seriesNoData bool
	notice       *Notice
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the controller's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOnUpdate registers a callback invoked with a snapshot after each
// completed transition.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onUpdate = fn }
}

// NewController creates a controller in its initial state: the default point,
// Month granularity, opacity 1.0 and an anchor one week in the past.
func NewController(pipeline Pipeline, registry *sites.Registry, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		pipeline: pipeline,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	point := DefaultPoint
	anchor := c.now().UTC().Add(-anchorLag)
	c.viewport = Viewport{Lon: point.Lon, Lat: point.Lat, Zoom: DefaultZoom}
	c.granularity = DefaultGranularity
	c.opacity = DefaultOpacity
	c.anchor = anchor
	c.dateLabel = anchor.Format("2006-01-02")
	c.clicked = &point
	return c
}

// Bootstrap issues the initial aggregation and series extraction for the
// default state.
func (c *Controller) Bootstrap(ctx context.Context) {
	c.mu.Lock()
	anchor := c.anchor
	point := *c.clicked
	c.mu.Unlock()

	c.OnDateChange(ctx, anchor)
	c.OnMapClick(ctx, point)
}

// Close waits for in-flight external requests to resolve. The controller has
// no terminal state; this only drains goroutines at shutdown.
func (c *Controller) Close() {
	c.wg.Wait()
}

// OnMapClick sets the clicked point, discards the previous series and
// extracts a new one. At most one point is current: a new click supersedes
// the previous marker, series and chart atomically.
func (c *Controller) OnMapClick(ctx context.Context, point signal.Point) {
	seq := c.clickSeq.Add(1)

	c.mu.Lock()
	c.clicked = &point
	c.series = nil
	c.summary = nil
	c.seriesNoData = false
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		series, summary, err := c.pipeline.ExtractSeries(ctx, point)

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.clickSeq.Load() {
			c.logger.Debug("stale series response discarded",
				slog.Float64("lon", point.Lon),
				slog.Float64("lat", point.Lat),
			)
			return
		}
		switch {
		case errors.Is(err, obs.ErrEmptyCollection):
			// No historical coverage at the point: an explicit "no data"
			// state, not an error.
			c.seriesNoData = true
		case err != nil:
			c.notice = noticeFor(err)
		default:
			c.series = series
			c.summary = summary
			c.notice = nil
		}
		c.notifyLocked()
	}()
}

// OnDateChange re-runs aggregation for all three granularities against the
// new anchor date. The anchor is applied optimistically and rolled back if
// the aggregation fails, so the date label and visible layer always pair up.
func (c *Controller) OnDateChange(ctx context.Context, anchor time.Time) {
	anchor = anchor.UTC()
	seq := c.dateSeq.Add(1)

	c.mu.Lock()
	prevAnchor, prevLabel := c.anchor, c.dateLabel
	c.anchor = anchor
	c.dateLabel = anchor.Format("2006-01-02")
	opacity := c.opacity
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		layers, err := c.pipeline.BuildLayers(ctx, anchor, opacity)

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.dateSeq.Load() {
			c.logger.Debug("stale aggregation response discarded",
				slog.Time("anchor", anchor),
			)
			return
		}
		if err != nil {
			c.anchor = prevAnchor
			c.dateLabel = prevLabel
			c.notice = noticeFor(err)
			c.logger.Error("date change failed",
				slog.Time("anchor", anchor),
				slog.String("error", err.Error()),
			)
			c.notifyLocked()
			return
		}
		c.layers = layers
		c.applyVisibilityLocked()
		c.notice = nil
		c.notifyLocked()
	}()
}

// OnGranularityChange switches which of the three pre-computed layers is
// visible. It never recomputes composites and issues no external query.
func (c *Controller) OnGranularityChange(g timewindow.Granularity) error {
	if !g.Valid() {
		return timewindow.InvalidGranularityError(g)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.granularity = g
	c.applyVisibilityLocked()
	c.notifyLocked()
	return nil
}

// OnOpacityChange applies the opacity uniformly to the current layers.
// Purely cosmetic: no recomputation, no re-render.
func (c *Controller) OnOpacityChange(value float64) error {
	if value < 0 || value > 1 {
		return ErrInvalidOpacity
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.opacity = value
	for _, gl := range c.layers {
		if gl.Layer != nil {
			gl.Layer.SetOpacity(value)
		}
	}
	c.notifyLocked()
	return nil
}

// OnChartPointActivated reverse-maps a chart point's timestamp through the
// current series and navigates the map to that date.
func (c *Controller) OnChartPointActivated(ctx context.Context, timestamp time.Time) error {
	c.mu.Lock()
	series := c.series
	c.mu.Unlock()

	if series == nil {
		return ErrNoSeries
	}
	sample, ok := series.At(timestamp)
	if !ok {
		return ErrUnknownTimestamp
	}

	c.OnDateChange(ctx, sample.Time)
	return nil
}

// OnExampleSiteSelected applies a site preset: viewport, opacity, annotation
// overlay and narrative are replaced wholesale before the call returns, and
// the site's date change and map click are issued together, so the user never
// observes a half-applied site.
func (c *Controller) OnExampleSiteSelected(ctx context.Context, name string) error {
	site, ok := c.registry.Get(name)
	if !ok {
		return ErrSiteNotFound
	}

	c.mu.Lock()
	c.viewport = Viewport{Lon: site.Lon, Lat: site.Lat, Zoom: site.Zoom}
	c.opacity = site.Opacity
	c.activeSite = site.Name
	c.annotations = slices.Clone(site.Annotation)
	c.narrative = slices.Clone(site.Narrative)
	for _, gl := range c.layers {
		if gl.Layer != nil {
			gl.Layer.SetOpacity(site.Opacity)
		}
	}
	c.mu.Unlock()

	c.OnDateChange(ctx, site.AnchorDate)
	c.OnMapClick(ctx, signal.Point{Lon: site.Lon, Lat: site.Lat})
	return nil
}

// Snapshot returns a consistent copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Viewport:         c.viewport,
		Granularity:      c.granularity,
		GranularityLabel: granularityLabel(c.granularity),
		Opacity:          c.opacity,
		AnchorDate:       c.anchor,
		DateLabel:        c.dateLabel,
		ActiveSite:       c.activeSite,
		Annotations:      slices.Clone(c.annotations),
		Narrative:        slices.Clone(c.narrative),
		SeriesNoData:     c.seriesNoData,
	}
	if c.clicked != nil {
		point := *c.clicked
		snap.Clicked = &point
	}
	if c.notice != nil {
		notice := *c.notice
		snap.Notice = &notice
	}
	for _, g := range timewindow.Granularities {
		gl, ok := c.layers[g]
		if !ok {
			continue
		}
		if gl.Layer != nil {
			snap.Layers = append(snap.Layers, *gl.Layer)
		}
		if g == c.granularity {
			snap.NoData = gl.Composite != nil && gl.Composite.Empty
		}
	}
	if c.series != nil {
		snap.Series = c.series.Samples()
	}
	if c.summary != nil {
		summary := *c.summary
		snap.Summary = &summary
	}
	return snap
}

// applyVisibilityLocked makes exactly the active granularity's layer visible.
func (c *Controller) applyVisibilityLocked() {
	for g, gl := range c.layers {
		if gl.Layer != nil {
			gl.Layer.SetVisible(g == c.granularity)
		}
	}
}

// notifyLocked hands a snapshot to the update callback, off the lock path.
func (c *Controller) notifyLocked() {
	if c.onUpdate == nil {
		return
	}
	snap := c.snapshotLocked()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.onUpdate(snap)
	}()
}

// noticeFor classifies a pipeline error into an operator notice.
func noticeFor(err error) *Notice {
	if errors.Is(err, archive.ErrUpstream) {
		return &Notice{
			Code:    "UpstreamServiceError",
			Message: "archive compute service unavailable; retry the last action",
		}
	}
	return &Notice{
		Code:    "ServerError",
		Message: err.Error(),
	}
}
