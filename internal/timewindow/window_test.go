package timewindow

import (
	"testing"
	"time"
)

func TestContaining(t *testing.T) {
	tests := []struct {
		name        string
		anchor      time.Time
		granularity Granularity
		wantStart   time.Time
		wantEnd     time.Time
	}{
		{
			name:        "day mid-day anchor",
			anchor:      time.Date(2021, 4, 26, 15, 30, 0, 0, time.UTC),
			granularity: Day,
			wantStart:   time.Date(2021, 4, 26, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2021, 4, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "month mid-month anchor",
			anchor:      time.Date(2021, 12, 14, 0, 0, 0, 0, time.UTC),
			granularity: Month,
			wantStart:   time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "year mid-year anchor",
			anchor:      time.Date(2018, 6, 10, 0, 0, 0, 0, time.UTC),
			granularity: Year,
			wantStart:   time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "anchor exactly at month boundary belongs to the window it starts",
			anchor:      time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
			granularity: Month,
			wantStart:   time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "february month length",
			anchor:      time.Date(2020, 2, 29, 12, 0, 0, 0, time.UTC),
			granularity: Month,
			wantStart:   time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "december month rolls into next year",
			anchor:      time.Date(2021, 12, 31, 23, 59, 59, 0, time.UTC),
			granularity: Month,
			wantStart:   time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "non-UTC anchor normalized to UTC",
			anchor:      time.Date(2021, 4, 26, 23, 30, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			granularity: Day,
			wantStart:   time.Date(2021, 4, 26, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2021, 4, 27, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Containing(tt.anchor, tt.granularity)
			if err != nil {
				t.Fatalf("Containing failed: %v", err)
			}
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", w.Start, tt.wantStart)
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", w.End, tt.wantEnd)
			}
			if w.Granularity != tt.granularity {
				t.Errorf("Granularity = %v, want %v", w.Granularity, tt.granularity)
			}
			if !w.Contains(tt.anchor) {
				t.Errorf("window %v should contain anchor %v", w, tt.anchor)
			}
		})
	}
}

func TestContaining_InvalidGranularity(t *testing.T) {
	_, err := Containing(time.Now(), Granularity("Week"))
	if err == nil {
		t.Fatal("expected error for invalid granularity")
	}
}

func TestWindow_HalfOpen(t *testing.T) {
	w, err := Containing(time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), Month)
	if err != nil {
		t.Fatalf("Containing failed: %v", err)
	}

	if !w.Contains(w.Start) {
		t.Error("window must contain its start instant")
	}
	if w.Contains(w.End) {
		t.Error("window must not contain its end instant")
	}
	if w.Contains(w.End.Add(-time.Nanosecond)) != true {
		t.Error("window must contain the instant just before its end")
	}
	if w.Contains(w.Start.Add(-time.Nanosecond)) {
		t.Error("window must not contain the instant just before its start")
	}
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		input       string
		want        Granularity
		expectError bool
	}{
		{input: "day", want: Day},
		{input: "Day", want: Day},
		{input: "MONTH", want: Month},
		{input: " year ", want: Year},
		{input: "week", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g, err := ParseGranularity(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGranularity failed: %v", err)
			}
			if g != tt.want {
				t.Errorf("got %v, want %v", g, tt.want)
			}
		})
	}
}

func TestWindow_Label(t *testing.T) {
	anchor := time.Date(2021, 12, 14, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		granularity Granularity
		want        string
	}{
		{Day, "2021-12-14"},
		{Month, "2021-12"},
		{Year, "2021"},
	}

	for _, tt := range tests {
		w, err := Containing(anchor, tt.granularity)
		if err != nil {
			t.Fatalf("Containing failed: %v", err)
		}
		if got := w.Label(); got != tt.want {
			t.Errorf("Label() for %s = %q, want %q", tt.granularity, got, tt.want)
		}
	}
}
