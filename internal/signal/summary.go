package signal

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/rkm/sentinel-rfi/internal/obs"
)

// Summary holds descriptive statistics for a series, shown alongside the
// chart so an analyst can judge a spike against the point's background level.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	P95    float64 `json:"p95"`
}

// Summarize computes descriptive statistics over the series values.
func Summarize(s *Series) (*Summary, error) {
	if s == nil || s.Len() == 0 {
		return nil, obs.ErrEmptyCollection
	}

	values := make(stats.Float64Data, s.Len())
	for i, sample := range s.Samples() {
		values[i] = sample.Value
	}

	min, err := values.Min()
	if err != nil {
		return nil, fmt.Errorf("failed to compute min: %w", err)
	}
	max, err := values.Max()
	if err != nil {
		return nil, fmt.Errorf("failed to compute max: %w", err)
	}
	mean, err := values.Mean()
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean: %w", err)
	}
	stdDev, err := values.StandardDeviation()
	if err != nil {
		return nil, fmt.Errorf("failed to compute stddev: %w", err)
	}
	p95, err := values.Percentile(95)
	if err != nil {
		// Percentile needs more than one sample; fall back to the max.
		p95 = max
	}

	return &Summary{
		Count:  s.Len(),
		Min:    min,
		Max:    max,
		Mean:   mean,
		StdDev: stdDev,
		P95:    p95,
	}, nil
}
