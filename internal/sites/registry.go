// Package sites provides the static registry of example sites: named presets
// that reconfigure the view to a location and date where radar interference
// is visible.
package sites

import (
	"fmt"
	"time"

	"github.com/rkm/sentinel-rfi/pkg/geojson"
)

// Site is an immutable example-site record. The registry is read-only at
// runtime.
type Site struct {
	Name       string             `json:"name"`
	Lon        float64            `json:"lon"`
	Lat        float64            `json:"lat"`
	Zoom       int                `json:"zoom"`
	AnchorDate time.Time          `json:"anchorDate"`
	Opacity    float64            `json:"opacity"`
	Annotation []geojson.Geometry `json:"annotation,omitempty"`
	Narrative  []string           `json:"narrative"`
}

// Registry is a static lookup from display name to Site.
type Registry struct {
	ordered []Site
	byName  map[string]*Site
}

// New builds a registry from the given sites, validating each record.
func New(sites []Site) (*Registry, error) {
	r := &Registry{
		ordered: sites,
		byName:  make(map[string]*Site, len(sites)),
	}
	for i := range sites {
		s := &sites[i]
		if err := validate(s); err != nil {
			return nil, fmt.Errorf("invalid site %q: %w", s.Name, err)
		}
		if _, exists := r.byName[s.Name]; exists {
			return nil, fmt.Errorf("duplicate site name %q", s.Name)
		}
		r.byName[s.Name] = s
	}
	return r, nil
}

func validate(s *Site) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Lon < -180 || s.Lon > 180 {
		return fmt.Errorf("longitude out of range: %f", s.Lon)
	}
	if s.Lat < -90 || s.Lat > 90 {
		return fmt.Errorf("latitude out of range: %f", s.Lat)
	}
	if s.Zoom < 1 || s.Zoom > 20 {
		return fmt.Errorf("zoom out of range: %d", s.Zoom)
	}
	if s.AnchorDate.IsZero() {
		return fmt.Errorf("anchor date is required")
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return fmt.Errorf("opacity out of range: %f", s.Opacity)
	}
	if len(s.Narrative) == 0 {
		return fmt.Errorf("narrative is required")
	}
	return nil
}

// Get returns the site with the given display name. O(1).
func (r *Registry) Get(name string) (*Site, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names returns the site display names in registry order, for the selection
// dropdown.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i := range r.ordered {
		names[i] = r.ordered[i].Name
	}
	return names
}

// All returns all sites in registry order.
func (r *Registry) All() []Site {
	return r.ordered
}

// Count returns the number of registered sites.
func (r *Registry) Count() int { return len(r.ordered) }
