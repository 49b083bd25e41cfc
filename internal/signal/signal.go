// Package signal reduces an observation collection to a point-wise time
// series of maximum backscatter, the interference-detection signal behind
// the chart.
package signal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rkm/sentinel-rfi/internal/archive"
	"github.com/rkm/sentinel-rfi/internal/obs"
)

// Point is a clicked map location.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Sample is one (timestamp, value) entry of a time series. The pairing is
// retained through to the rendering boundary so a clicked chart point can be
// mapped back to its acquisition timestamp.
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is the ordered interference-detection time series at a point.
// Read-only once produced; superseded wholesale by the next click.
type Series struct {
	point   Point
	radius  float64
	samples []Sample
	byTime  map[int64]int
}

// NewSeries builds a series from already-extracted samples, given in
// ascending timestamp order.
func NewSeries(point Point, radius float64, samples []Sample) *Series {
	s := &Series{
		point:  point,
		radius: radius,
		byTime: make(map[int64]int, len(samples)),
	}
	for _, sample := range samples {
		s.byTime[sample.Time.UTC().UnixNano()] = len(s.samples)
		s.samples = append(s.samples, sample)
	}
	return s
}

// Point returns the location the series was extracted at.
func (s *Series) Point() Point { return s.point }

// Radius returns the sampling disc radius in archive distance units.
func (s *Series) Radius() float64 { return s.radius }

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.samples) }

// Samples returns the samples in ascending timestamp order.
func (s *Series) Samples() []Sample { return s.samples }

// At reverse-maps a timestamp back to its sample. This backs the chart's
// point-click navigation.
func (s *Series) At(t time.Time) (Sample, bool) {
	i, ok := s.byTime[t.UTC().UnixNano()]
	if !ok {
		return Sample{}, false
	}
	return s.samples[i], true
}

// PointSampler executes per-observation disc reductions in the external
// archive.
type PointSampler interface {
	SamplePoint(ctx context.Context, req archive.SampleRequest) (map[string]archive.PointSample, error)
}

// Extractor produces point time series from observation collections.
type Extractor struct {
	sampler PointSampler
	radius  float64
	logger  *slog.Logger
}

// NewExtractor creates an Extractor with the given sampling disc radius in
// archive distance units.
func NewExtractor(sampler PointSampler, radius float64, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{sampler: sampler, radius: radius, logger: logger}
}

// ExtractSeries reduces each observation in the band collection over a disc
// centered at point, using maximum, and returns the resulting series in
// ascending timestamp order. The collection spans the whole archive, not a
// display window. Observations with no coverage at the point are omitted,
// which keeps "no data" distinguishable from "zero signal". A point with no
// coverage at all yields ErrEmptyCollection.
func (e *Extractor) ExtractSeries(ctx context.Context, bc obs.BandCollection, point Point) (*Series, error) {
	if bc.Len() == 0 {
		return nil, obs.ErrEmptyCollection
	}

	samples, err := e.sampler.SamplePoint(ctx, archive.SampleRequest{
		Band:           string(bc.Band),
		ObservationIDs: bc.IDs(),
		Statistic:      archive.StatisticMax,
		Lon:            point.Lon,
		Lat:            point.Lat,
		Radius:         e.radius,
	})
	if err != nil {
		return nil, fmt.Errorf("point sampling failed: %w", err)
	}

	series := &Series{
		point:  point,
		radius: e.radius,
		byTime: make(map[int64]int),
	}
	for i := 0; i < bc.Len(); i++ {
		o := bc.At(i)
		sample, ok := samples[o.ID]
		if !ok || !sample.Covered {
			continue
		}
		series.byTime[o.Time.UTC().UnixNano()] = len(series.samples)
		series.samples = append(series.samples, Sample{Time: o.Time, Value: sample.Value})
	}

	if len(series.samples) == 0 {
		e.logger.DebugContext(ctx, "no coverage at point",
			slog.Float64("lon", point.Lon),
			slog.Float64("lat", point.Lat),
		)
		return nil, obs.ErrEmptyCollection
	}

	e.logger.DebugContext(ctx, "series extracted",
		slog.Float64("lon", point.Lon),
		slog.Float64("lat", point.Lat),
		slog.Int("sample_count", len(series.samples)),
	)

	return series, nil
}
