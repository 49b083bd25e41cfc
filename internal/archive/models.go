package archive

import (
	gostac "github.com/planetlabs/go-stac"
)

// StatisticMax is the per-pixel maximum reduction statistic. It is the only
// statistic the pipeline uses: interference shows up as abnormally high
// backscatter, and max-compositing preserves transient spikes that a mean
// would wash out.
const StatisticMax = "max"

// searchResponse is the archive's STAC ItemCollection search response.
type searchResponse struct {
	Type     string         `json:"type"` // "FeatureCollection"
	Features []*gostac.Item `json:"features"`
}

// ReduceRequest asks the archive to reduce a set of observations' band
// rasters into one synthetic raster, per pixel, across time.
type ReduceRequest struct {
	Band           string   `json:"band"`
	ObservationIDs []string `json:"observationIds"`
	Statistic      string   `json:"statistic"`
	// Scale is the reduction scale in archive distance units. Zero means the
	// archive's native resolution.
	Scale float64 `json:"scale,omitempty"`
}

// Raster is a synthetic single-band raster produced by a window reduction.
// The payload stays in the archive; Href references it for rendering.
type Raster struct {
	ID    string `json:"id"`
	Band  string `json:"band"`
	Href  string `json:"href"`
	Count int    `json:"count"` // number of observations reduced
}

// SampleRequest asks the archive to reduce each observation's band raster
// over a disc centered at a point, producing one scalar per observation.
type SampleRequest struct {
	Band           string   `json:"band"`
	ObservationIDs []string `json:"observationIds"`
	Statistic      string   `json:"statistic"`
	Lon            float64  `json:"lon"`
	Lat            float64  `json:"lat"`
	// Radius is the sampling disc radius in archive distance units.
	Radius float64 `json:"radius"`
}

// PointSample is the reduction result for a single observation at a point.
type PointSample struct {
	ObservationID string  `json:"observationId"`
	Value         float64 `json:"value"`
	// Covered is false when the observation's footprint does not cover the
	// sampled point. Such samples carry no meaningful value.
	Covered bool `json:"covered"`
}

// sampleResponse is the archive's point sampling response.
type sampleResponse struct {
	Samples []PointSample `json:"samples"`
}
