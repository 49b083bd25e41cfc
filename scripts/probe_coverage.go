// Script to probe archive coverage for a site before pointing the browser at
// it: prints acquisition counts per orbit direction over the last year.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultArchiveURL = "https://archive.example.com"

// Dammam, Saudi Arabia: a known emitter site with dense coverage.
var (
	siteLon = 49.949916
	siteLat = 26.606379
)

func main() {
	baseURL := os.Getenv("ARCHIVE_BASE_URL")
	if baseURL == "" {
		baseURL = defaultArchiveURL
	}

	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)

	fmt.Println("=== Archive Coverage Probe ===")
	fmt.Printf("Site: (%.6f, %.6f)\n", siteLon, siteLat)
	fmt.Printf("Date range: %s to %s\n\n", start.Format("2006-01-02"), end.Format("2006-01-02"))

	for _, direction := range []string{"ascending", "descending"} {
		count, err := countObservations(baseURL, direction, start, end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", direction, err)
			os.Exit(1)
		}
		fmt.Printf("%-10s  %d acquisitions\n", direction, count)
	}
}

func countObservations(baseURL, direction string, start, end time.Time) (int, error) {
	params := url.Values{}
	params.Set("instrumentMode", "IW")
	params.Add("polarization", "VV")
	params.Add("polarization", "VH")
	params.Set("orbitDirection", direction)
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	params.Set("maxResults", "5000")

	resp, err := http.Get(baseURL + "/search?" + params.Encode())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var result struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	return len(result.Features), nil
}
