package view

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rkm/sentinel-rfi/internal/aggregate"
	"github.com/rkm/sentinel-rfi/internal/obs"
	"github.com/rkm/sentinel-rfi/internal/signal"
	"github.com/rkm/sentinel-rfi/internal/tiles"
	"github.com/rkm/sentinel-rfi/internal/timewindow"
)

// Pipeline is the aggregation and signal-extraction pipeline driven by
// controller transitions. All heavy computation runs in the external compute
// service; pipeline calls are blocking round trips invoked from controller
// goroutines, never from the interaction path.
type Pipeline interface {
	// BuildLayers aggregates and renders the composites for all three
	// granularities against one anchor date.
	BuildLayers(ctx context.Context, anchor time.Time, opacity float64) (map[timewindow.Granularity]*GranularityLayer, error)

	// ExtractSeries produces the interference-detection time series and its
	// summary at a point.
	ExtractSeries(ctx context.Context, point signal.Point) (*signal.Series, *signal.Summary, error)
}

// LayerRenderer renders a composite into a displayable tile layer.
type LayerRenderer interface {
	Render(ctx context.Context, req tiles.RenderRequest) (*tiles.Layer, error)
}

// SessionPipeline binds the loaded observation collection to the aggregator,
// extractor and rendering client for one session.
type SessionPipeline struct {
	coll       obs.Collection
	aggregator *aggregate.Aggregator
	extractor  *signal.Extractor
	renderer   LayerRenderer
	logger     *slog.Logger
}

// NewSessionPipeline creates a pipeline over the given archive snapshot.
func NewSessionPipeline(coll obs.Collection, aggregator *aggregate.Aggregator, extractor *signal.Extractor, renderer LayerRenderer, logger *slog.Logger) *SessionPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionPipeline{
		coll:       coll,
		aggregator: aggregator,
		extractor:  extractor,
		renderer:   renderer,
		logger:     logger,
	}
}

// BuildLayers implements Pipeline.
func (p *SessionPipeline) BuildLayers(ctx context.Context, anchor time.Time, opacity float64) (map[timewindow.Granularity]*GranularityLayer, error) {
	composites, err := p.aggregator.AggregateAll(ctx, p.coll, anchor)
	if err != nil {
		return nil, err
	}

	layers := make(map[timewindow.Granularity]*GranularityLayer, len(composites))
	for g, composite := range composites {
		gl := &GranularityLayer{Composite: composite}
		if !composite.Empty {
			layer, err := p.renderer.Render(ctx, renderRequestFor(composite, opacity))
			if err != nil {
				return nil, fmt.Errorf("failed to render %s layer: %w", composite.LayerID(), err)
			}
			gl.Layer = layer
		}
		layers[g] = gl
	}
	return layers, nil
}

// renderRequestFor builds the render request for a composite, applying the
// fixed visualization contract for its granularity.
func renderRequestFor(composite *aggregate.Composite, opacity float64) tiles.RenderRequest {
	req := tiles.RenderRequest{
		Name:    composite.LayerID(),
		Opacity: opacity,
	}
	if composite.Granularity == timewindow.Day {
		req.Stretch = tiles.DailyStretch
		req.ObservationIDs = make([]string, len(composite.DayObservations))
		for i, o := range composite.DayObservations {
			req.ObservationIDs[i] = o.ID
		}
		return req
	}
	req.Stretch = tiles.CompositeStretch
	for i, raster := range composite.Channels {
		req.Channels[i] = raster.Href
	}
	return req
}

// ExtractSeries implements Pipeline. The series is drawn from the full VH
// collection across both orbit directions, unbounded by the display window.
func (p *SessionPipeline) ExtractSeries(ctx context.Context, point signal.Point) (*signal.Series, *signal.Summary, error) {
	series, err := p.extractor.ExtractSeries(ctx, p.coll.SelectBand(obs.VH), point)
	if err != nil {
		return nil, nil, err
	}
	summary, err := signal.Summarize(series)
	if err != nil {
		return nil, nil, err
	}
	return series, summary, nil
}
