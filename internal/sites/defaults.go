package sites

import (
	"time"

	"github.com/rkm/sentinel-rfi/pkg/geojson"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// defaultSites is the built-in example-site catalog. Coordinates point at
// known ground-based air-defence radar positions whose C-band emissions
// interfere with Sentinel-1 acquisitions.
var defaultSites = []Site{
	{
		Name:       "Dammam, Saudi Arabia",
		Lon:        49.949916,
		Lat:        26.606379,
		Zoom:       11,
		AnchorDate: date(2021, time.April, 26),
		Opacity:    0.8,
		Annotation: []geojson.Geometry{
			*geojson.NewRectangle(49.90, 26.56, 50.00, 26.65),
		},
		Narrative: []string{
			"The bright cross-shaped artifact centered here is interference from a Patriot battery's MPQ-53/65 radar near Dammam.",
			"Click the peak in the chart to jump the map to an acquisition where the radar was emitting.",
		},
	},
	{
		Name:       "White Sands Missile Range, USA",
		Lon:        -106.336,
		Lat:        32.380,
		Zoom:       10,
		AnchorDate: date(2021, time.December, 14),
		Opacity:    0.8,
		Annotation: []geojson.Geometry{
			*geojson.NewRectangle(-106.48, 32.28, -106.20, 32.48),
		},
		Narrative: []string{
			"White Sands hosts frequent air-defence radar tests; interference streaks appear across the range on test days.",
			"The December 2021 monthly composite shows emissions from multiple positions inside the range boundary.",
		},
	},
	{
		Name:       "Kaliningrad, Russia",
		Lon:        20.295,
		Lat:        54.767,
		Zoom:       10,
		AnchorDate: date(2022, time.February, 26),
		Opacity:    0.8,
		Annotation: []geojson.Geometry{
			*geojson.NewRectangle(20.18, 54.70, 20.42, 54.84),
		},
		Narrative: []string{
			"S-400 batteries around the Kaliningrad exclave produce persistent interference bands visible in most monthly composites.",
			"Compare ascending and descending channels: the streak direction flips with viewing geometry.",
		},
	},
	{
		Name:       "Mykolaiv, Ukraine",
		Lon:        31.996,
		Lat:        46.959,
		Zoom:       10,
		AnchorDate: date(2022, time.March, 14),
		Opacity:    0.8,
		Annotation: []geojson.Geometry{
			*geojson.NewRectangle(31.88, 46.90, 32.12, 47.02),
		},
		Narrative: []string{
			"Air-defence radars defending Mykolaiv became intermittently active from late February 2022.",
			"Step the date selector through March 2022 at Day granularity to see individual activation days.",
		},
	},
}

// Default returns the built-in registry. The catalog is static data validated
// at startup; a validation failure is a programming error.
func Default() *Registry {
	r, err := New(defaultSites)
	if err != nil {
		panic(err)
	}
	return r
}
