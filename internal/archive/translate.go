package archive

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gostac "github.com/planetlabs/go-stac"

	"github.com/rkm/sentinel-rfi/internal/obs"
	"github.com/rkm/sentinel-rfi/pkg/geojson"
)

// Archive timestamp formats observed in STAC item responses.
var archiveTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05",
}

// ParseArchiveTime parses an archive timestamp string into a UTC time.Time.
func ParseArchiveTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}

	var lastErr error
	for _, format := range archiveTimeFormats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("failed to parse archive time %q: %w", s, lastErr)
}

// itemToObservation converts a STAC item into an Observation. The archive
// exposes acquisition metadata through the SAR and satellite STAC extensions.
func itemToObservation(item *gostac.Item) (obs.Observation, error) {
	if item == nil || item.Id == "" {
		return obs.Observation{}, fmt.Errorf("item has no id")
	}

	datetime, ok := item.Properties["datetime"].(string)
	if !ok || datetime == "" {
		return obs.Observation{}, fmt.Errorf("item %s has no datetime", item.Id)
	}
	acquired, err := ParseArchiveTime(datetime)
	if err != nil {
		return obs.Observation{}, fmt.Errorf("item %s: %w", item.Id, err)
	}

	orbit, err := parseOrbitState(item.Properties["sat:orbit_state"])
	if err != nil {
		return obs.Observation{}, fmt.Errorf("item %s: %w", item.Id, err)
	}

	mode, _ := item.Properties["sar:instrument_mode"].(string)

	polarizations := parsePolarizations(item.Properties["sar:polarizations"])

	rasters := make(map[obs.Band]string, len(polarizations))
	for _, band := range polarizations {
		asset, ok := item.Assets[strings.ToLower(string(band))]
		if !ok || asset == nil {
			continue
		}
		rasters[band] = asset.Href
	}

	o := obs.Observation{
		ID:            item.Id,
		Time:          acquired,
		Orbit:         orbit,
		Mode:          strings.ToUpper(mode),
		Polarizations: polarizations,
		Rasters:       rasters,
	}

	if item.Geometry != nil {
		if footprint, err := convertGeometry(item.Geometry); err == nil {
			o.Footprint = footprint
		}
	}

	return o, nil
}

// parseOrbitState maps the sat:orbit_state property to an orbit direction.
func parseOrbitState(v any) (obs.OrbitDirection, error) {
	s, _ := v.(string)
	switch strings.ToLower(s) {
	case "ascending":
		return obs.Ascending, nil
	case "descending":
		return obs.Descending, nil
	}
	return "", fmt.Errorf("invalid orbit state %q", s)
}

// parsePolarizations extracts band names from the sar:polarizations property,
// which decodes as a []any of strings.
func parsePolarizations(v any) []obs.Band {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	bands := make([]obs.Band, 0, len(raw))
	for _, p := range raw {
		if s, ok := p.(string); ok {
			bands = append(bands, obs.Band(strings.ToUpper(s)))
		}
	}
	return bands
}

// convertGeometry converts a decoded STAC item geometry (a generic JSON
// value) into a geojson.Geometry.
func convertGeometry(v any) (*geojson.Geometry, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode geometry: %w", err)
	}
	var geom geojson.Geometry
	if err := json.Unmarshal(raw, &geom); err != nil {
		return nil, fmt.Errorf("failed to decode geometry: %w", err)
	}
	if geom.Type == "" {
		return nil, fmt.Errorf("geometry has no type")
	}
	return &geom, nil
}
