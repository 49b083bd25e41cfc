// Package aggregate turns a filtered observation collection, a time window
// and a granularity into composite rasters, one per orbital geometry and
// polarization combination.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rkm/sentinel-rfi/internal/archive"
	"github.com/rkm/sentinel-rfi/internal/obs"
	"github.com/rkm/sentinel-rfi/internal/timewindow"
)

// Composite is a synthetic 3-channel raster aggregated over a time window.
// Channel order is fixed: VH-ascending, VV-merged, VH-descending. Composites
// are ephemeral: recomputed on every window or granularity change, never
// persisted.
type Composite struct {
	Granularity timewindow.Granularity
	Window      timewindow.Window

	// Channels holds the reduced single-band rasters for Month and Year
	// granularities.
	Channels [3]*archive.Raster

	// DayObservations holds the raw windowed observations for Day
	// granularity, which skips reduction: a daily window contains at most a
	// handful of passes, displayed directly.
	DayObservations []obs.Observation

	// Empty marks a placeholder composite produced when the window contains
	// no matching observations. The view layer must signal a "no data" state
	// for it rather than render blank imagery.
	Empty bool
}

// LayerID is the stable identifier the view controller uses to select which
// granularity's layer is visible without recomputing the others.
func (c *Composite) LayerID() string { return string(c.Granularity) }

// RasterReducer executes per-pixel window reductions in the external archive.
type RasterReducer interface {
	ReduceWindow(ctx context.Context, req archive.ReduceRequest) (*archive.Raster, error)
}

// Aggregator builds composites from observation collections.
type Aggregator struct {
	reducer RasterReducer
	logger  *slog.Logger
}

// New creates an Aggregator backed by the given reducer.
func New(reducer RasterReducer, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{reducer: reducer, logger: logger}
}

// Aggregate produces the composite for the canonical window containing
// anchor at the given granularity. When the window holds no matching
// observations it returns a placeholder composite with Empty set, so the
// caller can signal "no data" instead of crashing or rendering blanks.
func (a *Aggregator) Aggregate(ctx context.Context, coll obs.Collection, anchor time.Time, g timewindow.Granularity) (*Composite, error) {
	window, err := timewindow.Containing(anchor, g)
	if err != nil {
		return nil, err
	}

	if g == timewindow.Day {
		return a.aggregateDay(coll, window), nil
	}

	vhAscending := coll.ByOrbit(obs.Ascending).SelectBand(obs.VH).Within(window)
	vhDescending := coll.ByOrbit(obs.Descending).SelectBand(obs.VH).Within(window)
	vvMerged, err := obs.Merge(
		coll.ByOrbit(obs.Ascending).SelectBand(obs.VV).Within(window),
		coll.ByOrbit(obs.Descending).SelectBand(obs.VV).Within(window),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to merge VV collections: %w", err)
	}

	channels := [3]obs.BandCollection{vhAscending, vvMerged, vhDescending}
	composite := &Composite{Granularity: g, Window: window}

	for i, bc := range channels {
		raster, err := a.reduceChannel(ctx, bc)
		if errors.Is(err, obs.ErrEmptyCollection) {
			a.logger.DebugContext(ctx, "empty window, returning placeholder composite",
				slog.String("granularity", string(g)),
				slog.String("window", window.String()),
				slog.String("band", string(bc.Band)),
			)
			return &Composite{Granularity: g, Window: window, Empty: true}, nil
		}
		if err != nil {
			return nil, err
		}
		composite.Channels[i] = raster
	}

	return composite, nil
}

// aggregateDay passes the raw windowed collection through unreduced.
func (a *Aggregator) aggregateDay(coll obs.Collection, window timewindow.Window) *Composite {
	windowed := coll.Within(window)
	composite := &Composite{Granularity: timewindow.Day, Window: window}
	if windowed.Len() == 0 {
		composite.Empty = true
		return composite
	}
	composite.DayObservations = make([]obs.Observation, windowed.Len())
	for i := 0; i < windowed.Len(); i++ {
		composite.DayObservations[i] = *windowed.At(i)
	}
	return composite
}

// reduceChannel reduces one band sub-collection with a per-pixel maximum
// across time.
func (a *Aggregator) reduceChannel(ctx context.Context, bc obs.BandCollection) (*archive.Raster, error) {
	if bc.Len() == 0 {
		return nil, obs.ErrEmptyCollection
	}
	raster, err := a.reducer.ReduceWindow(ctx, archive.ReduceRequest{
		Band:           string(bc.Band),
		ObservationIDs: bc.IDs(),
		Statistic:      archive.StatisticMax,
	})
	if err != nil {
		return nil, fmt.Errorf("window reduction failed for band %s: %w", bc.Band, err)
	}
	return raster, nil
}

// AggregateAll computes the composites for all three granularities against
// one anchor date. All three are computed whenever the anchor changes, so
// switching granularity later never incurs a recomputation delay.
func (a *Aggregator) AggregateAll(ctx context.Context, coll obs.Collection, anchor time.Time) (map[timewindow.Granularity]*Composite, error) {
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		composites = make(map[timewindow.Granularity]*Composite, len(timewindow.Granularities))
		firstErr   error
	)

	for _, g := range timewindow.Granularities {
		wg.Add(1)
		go func(g timewindow.Granularity) {
			defer wg.Done()
			composite, err := a.Aggregate(ctx, coll, anchor, g)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			composites[g] = composite
		}(g)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return composites, nil
}
