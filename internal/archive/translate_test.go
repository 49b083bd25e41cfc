package archive

import (
	"testing"
	"time"
)

func TestParseArchiveTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        time.Time
		expectError bool
	}{
		{
			name:  "RFC3339",
			input: "2021-04-26T15:00:00Z",
			want:  time.Date(2021, 4, 26, 15, 0, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 with offset",
			input: "2021-04-26T17:00:00+02:00",
			want:  time.Date(2021, 4, 26, 15, 0, 0, 0, time.UTC),
		},
		{
			name:  "microseconds without zone",
			input: "2021-04-26T15:00:00.000000",
			want:  time.Date(2021, 4, 26, 15, 0, 0, 0, time.UTC),
		},
		{
			name:  "no zone",
			input: "2021-04-26T15:00:00",
			want:  time.Date(2021, 4, 26, 15, 0, 0, 0, time.UTC),
		},
		{
			name:        "empty",
			input:       "",
			expectError: true,
		},
		{
			name:        "garbage",
			input:       "yesterday",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArchiveTime(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseArchiveTime failed: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOrbitState(t *testing.T) {
	tests := []struct {
		input       any
		want        string
		expectError bool
	}{
		{input: "ascending", want: "ascending"},
		{input: "DESCENDING", want: "descending"},
		{input: "geostationary", expectError: true},
		{input: nil, expectError: true},
		{input: 42, expectError: true},
	}

	for _, tt := range tests {
		got, err := parseOrbitState(tt.input)
		if tt.expectError {
			if err == nil {
				t.Errorf("expected error for %v", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseOrbitState(%v) failed: %v", tt.input, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("parseOrbitState(%v) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParsePolarizations(t *testing.T) {
	bands := parsePolarizations([]any{"vh", "VV"})
	if len(bands) != 2 {
		t.Fatalf("expected 2 bands, got %d", len(bands))
	}
	if string(bands[0]) != "VH" || string(bands[1]) != "VV" {
		t.Errorf("bands = %v", bands)
	}

	if got := parsePolarizations(nil); got != nil {
		t.Errorf("expected nil for missing property, got %v", got)
	}
	if got := parsePolarizations("VH"); got != nil {
		t.Errorf("expected nil for non-array property, got %v", got)
	}
}
