package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rkm/sentinel-rfi/internal/archive"
	"github.com/rkm/sentinel-rfi/internal/obs"
)

// stubSampler returns canned per-observation samples.
type stubSampler struct {
	samples  map[string]archive.PointSample
	requests []archive.SampleRequest
	err      error
}

func (s *stubSampler) SamplePoint(ctx context.Context, req archive.SampleRequest) (map[string]archive.PointSample, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.samples, nil
}

func obsAt(id string, t time.Time, orbit obs.OrbitDirection) obs.Observation {
	return obs.Observation{
		ID:            id,
		Time:          t,
		Orbit:         orbit,
		Mode:          obs.ModeIW,
		Polarizations: []obs.Band{obs.VH, obs.VV},
	}
}

func vhCollection() obs.BandCollection {
	return obs.NewCollection([]obs.Observation{
		obsAt("p1", time.Date(2021, 1, 10, 4, 0, 0, 0, time.UTC), obs.Ascending),
		obsAt("p2", time.Date(2021, 2, 3, 17, 0, 0, 0, time.UTC), obs.Descending),
		obsAt("p3", time.Date(2021, 4, 26, 4, 0, 0, 0, time.UTC), obs.Ascending),
		obsAt("p4", time.Date(2021, 5, 8, 17, 0, 0, 0, time.UTC), obs.Descending),
	}).SelectBand(obs.VH)
}

func TestExtractSeries(t *testing.T) {
	sampler := &stubSampler{
		samples: map[string]archive.PointSample{
			"p1": {ObservationID: "p1", Value: -18.5, Covered: true},
			"p2": {ObservationID: "p2", Value: -4.1, Covered: true},
			"p3": {ObservationID: "p3", Covered: false}, // no coverage: omitted
			"p4": {ObservationID: "p4", Value: -17.9, Covered: true},
		},
	}
	extractor := NewExtractor(sampler, 500, nil)

	point := Point{Lon: 49.949916, Lat: 26.606379}
	series, err := extractor.ExtractSeries(context.Background(), vhCollection(), point)
	if err != nil {
		t.Fatalf("ExtractSeries failed: %v", err)
	}

	// p3 lacks coverage and must be absent, not zero-filled.
	if series.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", series.Len())
	}

	samples := series.Samples()
	for i := 1; i < len(samples); i++ {
		if !samples[i].Time.After(samples[i-1].Time) {
			t.Errorf("samples not strictly increasing at index %d", i)
		}
	}
	if samples[1].Value != -4.1 {
		t.Errorf("sample value = %f, want -4.1", samples[1].Value)
	}

	// The request must carry the max statistic and the fixed radius.
	req := sampler.requests[0]
	if req.Statistic != archive.StatisticMax {
		t.Errorf("statistic = %s, want max", req.Statistic)
	}
	if req.Radius != 500 {
		t.Errorf("radius = %f, want 500", req.Radius)
	}
	if req.Band != "VH" {
		t.Errorf("band = %s, want VH", req.Band)
	}
}

func TestExtractSeries_ReverseLookup(t *testing.T) {
	sampler := &stubSampler{
		samples: map[string]archive.PointSample{
			"p1": {ObservationID: "p1", Value: -18.5, Covered: true},
			"p2": {ObservationID: "p2", Value: -4.1, Covered: true},
		},
	}
	extractor := NewExtractor(sampler, 500, nil)

	series, err := extractor.ExtractSeries(context.Background(), vhCollection(), Point{Lon: 50, Lat: 26})
	if err != nil {
		t.Fatalf("ExtractSeries failed: %v", err)
	}

	ts := time.Date(2021, 2, 3, 17, 0, 0, 0, time.UTC)
	sample, ok := series.At(ts)
	if !ok {
		t.Fatalf("reverse lookup failed for %v", ts)
	}
	if sample.Value != -4.1 {
		t.Errorf("value = %f, want -4.1", sample.Value)
	}

	if _, ok := series.At(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)); ok {
		t.Error("reverse lookup should miss for unknown timestamp")
	}
}

func TestExtractSeries_NoCoverageAnywhere(t *testing.T) {
	sampler := &stubSampler{
		samples: map[string]archive.PointSample{
			"p1": {ObservationID: "p1", Covered: false},
			"p2": {ObservationID: "p2", Covered: false},
		},
	}
	extractor := NewExtractor(sampler, 500, nil)

	_, err := extractor.ExtractSeries(context.Background(), vhCollection(), Point{Lon: 0, Lat: 0})
	if !errors.Is(err, obs.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
}

func TestExtractSeries_EmptyCollection(t *testing.T) {
	extractor := NewExtractor(&stubSampler{}, 500, nil)

	empty := obs.NewCollection(nil).SelectBand(obs.VH)
	_, err := extractor.ExtractSeries(context.Background(), empty, Point{Lon: 0, Lat: 0})
	if !errors.Is(err, obs.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
}

func TestExtractSeries_SamplerError(t *testing.T) {
	sampler := &stubSampler{err: archive.ErrUpstream}
	extractor := NewExtractor(sampler, 500, nil)

	_, err := extractor.ExtractSeries(context.Background(), vhCollection(), Point{Lon: 0, Lat: 0})
	if !errors.Is(err, archive.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	sampler := &stubSampler{
		samples: map[string]archive.PointSample{
			"p1": {ObservationID: "p1", Value: -20, Covered: true},
			"p2": {ObservationID: "p2", Value: -18, Covered: true},
			"p3": {ObservationID: "p3", Value: -4, Covered: true},
			"p4": {ObservationID: "p4", Value: -18, Covered: true},
		},
	}
	extractor := NewExtractor(sampler, 500, nil)

	series, err := extractor.ExtractSeries(context.Background(), vhCollection(), Point{Lon: 50, Lat: 26})
	if err != nil {
		t.Fatalf("ExtractSeries failed: %v", err)
	}

	summary, err := Summarize(series)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Count != 4 {
		t.Errorf("Count = %d, want 4", summary.Count)
	}
	if summary.Min != -20 {
		t.Errorf("Min = %f, want -20", summary.Min)
	}
	if summary.Max != -4 {
		t.Errorf("Max = %f, want -4", summary.Max)
	}
	if summary.Mean != -15 {
		t.Errorf("Mean = %f, want -15", summary.Mean)
	}
	if summary.StdDev <= 0 {
		t.Errorf("StdDev = %f, want positive", summary.StdDev)
	}
}

func TestSummarize_EmptySeries(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, obs.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
}
