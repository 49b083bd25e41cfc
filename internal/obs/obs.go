// Package obs models SAR observations and filterable observation collections.
// Observations are owned by the external archive; this package only provides
// immutable views over them. Every collection member satisfies the fixed
// ingest invariant: dual polarization (VH and VV) and interferometric
// wide-swath instrument mode.
package obs

import (
	"fmt"
	"sort"
	"time"

	"github.com/rkm/sentinel-rfi/internal/timewindow"
	"github.com/rkm/sentinel-rfi/pkg/geojson"
)

// OrbitDirection is the satellite pass direction.
type OrbitDirection string

const (
	Ascending  OrbitDirection = "ascending"
	Descending OrbitDirection = "descending"
)

// Band is a SAR polarization band name.
type Band string

const (
	VH Band = "VH"
	VV Band = "VV"
)

// ModeIW is the interferometric wide-swath instrument mode. Only IW
// observations are admitted into collections.
const ModeIW = "IW"

// Observation is a single satellite pass. Immutable once ingested.
type Observation struct {
	ID            string
	Time          time.Time
	Orbit         OrbitDirection
	Mode          string
	Polarizations []Band
	// Rasters references the raster payload per band, keyed by band name.
	// The value is an opaque archive asset reference.
	Rasters map[Band]string
	// Footprint is the observation's coverage geometry, when known.
	Footprint *geojson.Geometry
}

// HasBand reports whether the observation carries the given polarization band.
func (o *Observation) HasBand(b Band) bool {
	for _, p := range o.Polarizations {
		if p == b {
			return true
		}
	}
	return false
}

// Collection is an ordered-by-time, filterable view over observations.
// Derived sub-collections share the backing slice; no observation is ever
// copied or mutated.
type Collection struct {
	base []Observation
	idx  []int
}

// NewCollection applies the fixed ingest filter (dual polarization + IW mode)
// to the given observations and returns a time-ordered collection over the
// survivors. Observations failing the invariant are dropped, matching the
// archive-side filter the collection mirrors.
func NewCollection(observations []Observation) Collection {
	base := make([]Observation, 0, len(observations))
	for _, o := range observations {
		if o.Mode != ModeIW {
			continue
		}
		if !o.HasBand(VH) || !o.HasBand(VV) {
			continue
		}
		base = append(base, o)
	}
	sort.SliceStable(base, func(i, j int) bool {
		return base[i].Time.Before(base[j].Time)
	})
	idx := make([]int, len(base))
	for i := range idx {
		idx[i] = i
	}
	return Collection{base: base, idx: idx}
}

// Len returns the number of observations in the collection view.
func (c Collection) Len() int { return len(c.idx) }

// At returns the i-th observation in time order.
func (c Collection) At(i int) *Observation { return &c.base[c.idx[i]] }

// IDs returns the observation IDs in time order.
func (c Collection) IDs() []string {
	ids := make([]string, len(c.idx))
	for i, j := range c.idx {
		ids[i] = c.base[j].ID
	}
	return ids
}

// ByOrbit returns the direction-restricted view of the collection.
// The returned collection shares the backing slice.
func (c Collection) ByOrbit(d OrbitDirection) Collection {
	idx := make([]int, 0, len(c.idx))
	for _, j := range c.idx {
		if c.base[j].Orbit == d {
			idx = append(idx, j)
		}
	}
	return Collection{base: c.base, idx: idx}
}

// Within restricts the collection to observations inside the half-open window.
func (c Collection) Within(w timewindow.Window) Collection {
	idx := make([]int, 0, len(c.idx))
	for _, j := range c.idx {
		if w.Contains(c.base[j].Time) {
			idx = append(idx, j)
		}
	}
	return Collection{base: c.base, idx: idx}
}

// SelectBand projects the collection onto a single polarization band.
func (c Collection) SelectBand(b Band) BandCollection {
	return BandCollection{Band: b, base: c.base, idx: append([]int(nil), c.idx...)}
}

// BandCollection is a single-band projection of a Collection. It remains a
// view over the shared backing slice.
type BandCollection struct {
	Band Band
	base []Observation
	idx  []int
}

// Len returns the number of observations in the band collection.
func (bc BandCollection) Len() int { return len(bc.idx) }

// At returns the i-th observation in time order.
func (bc BandCollection) At(i int) *Observation { return &bc.base[bc.idx[i]] }

// IDs returns the observation IDs in time order.
func (bc BandCollection) IDs() []string {
	ids := make([]string, len(bc.idx))
	for i, j := range bc.idx {
		ids[i] = bc.base[j].ID
	}
	return ids
}

// Within restricts the band collection to the half-open window.
func (bc BandCollection) Within(w timewindow.Window) BandCollection {
	idx := make([]int, 0, len(bc.idx))
	for _, j := range bc.idx {
		if w.Contains(bc.base[j].Time) {
			idx = append(idx, j)
		}
	}
	return BandCollection{Band: bc.Band, base: bc.base, idx: idx}
}

// Merge concatenates two same-band collections over the same backing archive,
// preserving time order. Used to combine ascending and descending VV before
// reduction.
func Merge(a, b BandCollection) (BandCollection, error) {
	if a.Band != b.Band {
		return BandCollection{}, fmt.Errorf("cannot merge band %s with band %s", a.Band, b.Band)
	}
	if a.Len() == 0 {
		return b, nil
	}
	if b.Len() == 0 {
		return a, nil
	}
	if &a.base[0] != &b.base[0] {
		return BandCollection{}, fmt.Errorf("cannot merge collections over different archives")
	}
	// Both index lists are in time order over the same backing slice.
	merged := make([]int, 0, len(a.idx)+len(b.idx))
	i, j := 0, 0
	for i < len(a.idx) && j < len(b.idx) {
		if a.base[a.idx[i]].Time.Before(b.base[b.idx[j]].Time) {
			merged = append(merged, a.idx[i])
			i++
		} else {
			merged = append(merged, b.idx[j])
			j++
		}
	}
	merged = append(merged, a.idx[i:]...)
	merged = append(merged, b.idx[j:]...)
	return BandCollection{Band: a.Band, base: a.base, idx: merged}, nil
}
