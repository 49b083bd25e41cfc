package tiles

// Stretch holds the per-channel display stretch for a 3-band composite, in
// channel order VH-ascending, VV-merged, VH-descending. Values are
// backscatter intensities in dB.
type Stretch struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Fixed visualization contract. These values must match across
// implementations so renderings stay comparable.
var (
	// DailyStretch applies to raw daily-windowed observations.
	DailyStretch = Stretch{
		Min: [3]float64{-25, -20, -25},
		Max: [3]float64{0, 10, 0},
	}

	// CompositeStretch applies to monthly and yearly max composites.
	CompositeStretch = Stretch{
		Min: [3]float64{-25, -20, -25},
		Max: [3]float64{-10, 0, -10},
	}
)

// DefaultCompositeOpacity is the fixed default opacity for composite layers.
const DefaultCompositeOpacity = 0.8

// SampleRadius is the fixed point-extraction sampling radius in archive
// distance units.
const SampleRadius = 500.0
