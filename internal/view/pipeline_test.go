package view

import (
	"testing"
	"time"

	"github.com/rkm/sentinel-rfi/internal/aggregate"
	"github.com/rkm/sentinel-rfi/internal/archive"
	"github.com/rkm/sentinel-rfi/internal/obs"
	"github.com/rkm/sentinel-rfi/internal/tiles"
	"github.com/rkm/sentinel-rfi/internal/timewindow"
)

func TestRenderRequestFor_Composite(t *testing.T) {
	window, _ := timewindow.Containing(time.Date(2021, 4, 26, 0, 0, 0, 0, time.UTC), timewindow.Month)
	composite := &aggregate.Composite{
		Granularity: timewindow.Month,
		Window:      window,
		Channels: [3]*archive.Raster{
			{Href: "vh-asc.tif"},
			{Href: "vv-merged.tif"},
			{Href: "vh-desc.tif"},
		},
	}

	req := renderRequestFor(composite, 0.8)

	if req.Stretch != tiles.CompositeStretch {
		t.Errorf("stretch = %+v, want the composite contract", req.Stretch)
	}
	if req.Channels != [3]string{"vh-asc.tif", "vv-merged.tif", "vh-desc.tif"} {
		t.Errorf("channels = %v, want VH-ascending, VV-merged, VH-descending order", req.Channels)
	}
	if len(req.ObservationIDs) != 0 {
		t.Errorf("composite request carries raw observation IDs: %v", req.ObservationIDs)
	}
	if req.Opacity != 0.8 {
		t.Errorf("opacity = %v, want 0.8", req.Opacity)
	}
}

func TestRenderRequestFor_Day(t *testing.T) {
	window, _ := timewindow.Containing(time.Date(2021, 4, 26, 0, 0, 0, 0, time.UTC), timewindow.Day)
	composite := &aggregate.Composite{
		Granularity: timewindow.Day,
		Window:      window,
		DayObservations: []obs.Observation{
			{ID: "S1A_0426_asc"},
			{ID: "S1B_0426_desc"},
		},
	}

	req := renderRequestFor(composite, 1.0)

	if req.Stretch != tiles.DailyStretch {
		t.Errorf("stretch = %+v, want the daily contract", req.Stretch)
	}
	want := []string{"S1A_0426_asc", "S1B_0426_desc"}
	if len(req.ObservationIDs) != 2 || req.ObservationIDs[0] != want[0] || req.ObservationIDs[1] != want[1] {
		t.Errorf("observation IDs = %v, want %v", req.ObservationIDs, want)
	}
	if req.Channels != [3]string{} {
		t.Errorf("daily request carries composite channels: %v", req.Channels)
	}
}
