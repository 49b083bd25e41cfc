package archive

import (
	"net/url"
	"strconv"
	"time"
)

// SearchParams represents parameters for archive observation searches.
type SearchParams struct {
	// InstrumentMode filters by SAR beam mode (e.g., "IW").
	InstrumentMode string

	// Polarizations filters to observations carrying all listed bands.
	Polarizations []string

	// OrbitDirection filters by pass direction ("ascending" or "descending").
	// Empty matches both.
	OrbitDirection string

	// Temporal filters (half-open: start inclusive, end exclusive).
	Start *time.Time
	End   *time.Time

	// MaxResults limits the number of returned observations. Zero means the
	// archive's default limit.
	MaxResults int
}

// ToQueryString converts SearchParams to a URL query string.
func (p *SearchParams) ToQueryString() string {
	return p.ToURLValues().Encode()
}

// ToURLValues converts SearchParams to url.Values for query string building.
func (p *SearchParams) ToURLValues() url.Values {
	values := url.Values{}

	if p.InstrumentMode != "" {
		values.Set("instrumentMode", p.InstrumentMode)
	}

	for _, pol := range p.Polarizations {
		values.Add("polarization", pol)
	}

	if p.OrbitDirection != "" {
		values.Set("orbitDirection", p.OrbitDirection)
	}

	if p.Start != nil {
		values.Set("start", formatArchiveTime(p.Start))
	}
	if p.End != nil {
		values.Set("end", formatArchiveTime(p.End))
	}

	if p.MaxResults > 0 {
		values.Set("maxResults", strconv.Itoa(p.MaxResults))
	}

	return values
}

// formatArchiveTime formats a time.Time for archive queries.
// The archive expects ISO 8601 format: YYYY-MM-DDTHH:MM:SSZ.
func formatArchiveTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
