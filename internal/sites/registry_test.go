package sites

import (
	"testing"
	"time"
)

func TestDefault_ValidCatalog(t *testing.T) {
	r := Default()

	if r.Count() == 0 {
		t.Fatal("default registry is empty")
	}
	if len(r.Names()) != r.Count() {
		t.Errorf("Names() length %d != Count() %d", len(r.Names()), r.Count())
	}
}

func TestDefault_WhiteSands(t *testing.T) {
	r := Default()

	site, ok := r.Get("White Sands Missile Range, USA")
	if !ok {
		t.Fatal("White Sands site missing from registry")
	}
	if site.Zoom != 10 {
		t.Errorf("zoom = %d, want 10", site.Zoom)
	}
	want := time.Date(2021, 12, 14, 0, 0, 0, 0, time.UTC)
	if !site.AnchorDate.Equal(want) {
		t.Errorf("anchor date = %v, want %v", site.AnchorDate, want)
	}
	if site.Opacity != 0.8 {
		t.Errorf("opacity = %f, want 0.8", site.Opacity)
	}
	if len(site.Narrative) != 2 {
		t.Errorf("narrative labels = %d, want 2", len(site.Narrative))
	}
}

func TestGet_UnknownName(t *testing.T) {
	r := Default()

	if _, ok := r.Get("Atlantis"); ok {
		t.Error("lookup of unknown site should miss")
	}
}

func TestNew_Validation(t *testing.T) {
	valid := Site{
		Name:       "Somewhere",
		Lon:        10,
		Lat:        50,
		Zoom:       10,
		AnchorDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Opacity:    0.8,
		Narrative:  []string{"a note"},
	}

	tests := []struct {
		name   string
		mutate func(*Site)
	}{
		{"missing name", func(s *Site) { s.Name = "" }},
		{"longitude out of range", func(s *Site) { s.Lon = 200 }},
		{"latitude out of range", func(s *Site) { s.Lat = -95 }},
		{"zoom out of range", func(s *Site) { s.Zoom = 0 }},
		{"zero anchor date", func(s *Site) { s.AnchorDate = time.Time{} }},
		{"opacity out of range", func(s *Site) { s.Opacity = 1.5 }},
		{"missing narrative", func(s *Site) { s.Narrative = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if _, err := New([]Site{s}); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}

	if _, err := New([]Site{valid}); err != nil {
		t.Errorf("valid site rejected: %v", err)
	}
}

func TestNew_RejectsDuplicateNames(t *testing.T) {
	s := Site{
		Name:       "Twice",
		Lon:        0,
		Lat:        0,
		Zoom:       5,
		AnchorDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Opacity:    0.5,
		Narrative:  []string{"x"},
	}
	if _, err := New([]Site{s, s}); err == nil {
		t.Fatal("expected error for duplicate site names")
	}
}
