// Package archive provides the client for the external geospatial compute
// service that stores the Sentinel-1 observation archive and executes
// filtering, compositing and reduction server-side.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rkm/sentinel-rfi/internal/obs"
)

// Client handles communication with the archive compute service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new archive client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// QueryObservations executes an observation metadata search against the
// archive's STAC search endpoint.
func (c *Client) QueryObservations(ctx context.Context, params SearchParams) ([]obs.Observation, error) {
	searchURL, err := c.buildSearchURL(params)
	if err != nil {
		return nil, fmt.Errorf("failed to build search URL: %w", err)
	}

	c.logger.DebugContext(ctx, "executing archive search",
		slog.String("url", searchURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json")
	req.Header.Set("User-Agent", userAgent)

	var result searchResponse
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}

	observations := make([]obs.Observation, 0, len(result.Features))
	for _, item := range result.Features {
		o, err := itemToObservation(item)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping unparseable observation",
				slog.String("item_id", item.Id),
				slog.String("error", err.Error()),
			)
			continue
		}
		observations = append(observations, o)
	}

	c.logger.DebugContext(ctx, "archive search completed",
		slog.Int("observation_count", len(observations)),
	)

	return observations, nil
}

// Load queries the archive with the fixed ingest filter (dual polarization,
// IW instrument mode) and returns the resulting collection.
func (c *Client) Load(ctx context.Context, maxResults int) (obs.Collection, error) {
	observations, err := c.QueryObservations(ctx, SearchParams{
		InstrumentMode: obs.ModeIW,
		Polarizations:  []string{string(obs.VH), string(obs.VV)},
		MaxResults:     maxResults,
	})
	if err != nil {
		return obs.Collection{}, err
	}
	return obs.NewCollection(observations), nil
}

// ReduceWindow requests a per-pixel reduction of the given observations'
// band rasters into a single synthetic raster.
func (c *Client) ReduceWindow(ctx context.Context, reduceReq ReduceRequest) (*Raster, error) {
	if len(reduceReq.ObservationIDs) == 0 {
		return nil, obs.ErrEmptyCollection
	}
	if reduceReq.Statistic == "" {
		reduceReq.Statistic = StatisticMax
	}

	c.logger.DebugContext(ctx, "executing window reduction",
		slog.String("band", reduceReq.Band),
		slog.String("statistic", reduceReq.Statistic),
		slog.Int("observation_count", len(reduceReq.ObservationIDs)),
	)

	req, err := c.newJSONRequest(ctx, "/reduce", reduceReq)
	if err != nil {
		return nil, err
	}

	var raster Raster
	if err := c.do(ctx, req, &raster); err != nil {
		return nil, err
	}
	return &raster, nil
}

// SamplePoint requests a reduction of the given observations' band rasters
// over a disc centered at a point, one scalar per observation. Observations
// whose footprint does not cover the point come back with Covered=false.
// Results are keyed by observation ID.
func (c *Client) SamplePoint(ctx context.Context, sampleReq SampleRequest) (map[string]PointSample, error) {
	if len(sampleReq.ObservationIDs) == 0 {
		return nil, obs.ErrEmptyCollection
	}
	if sampleReq.Statistic == "" {
		sampleReq.Statistic = StatisticMax
	}

	c.logger.DebugContext(ctx, "executing point sampling",
		slog.String("band", sampleReq.Band),
		slog.Float64("lon", sampleReq.Lon),
		slog.Float64("lat", sampleReq.Lat),
		slog.Float64("radius", sampleReq.Radius),
		slog.Int("observation_count", len(sampleReq.ObservationIDs)),
	)

	req, err := c.newJSONRequest(ctx, "/sample", sampleReq)
	if err != nil {
		return nil, err
	}

	var result sampleResponse
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}

	samples := make(map[string]PointSample, len(result.Samples))
	for _, s := range result.Samples {
		samples[s.ObservationID] = s
	}
	return samples, nil
}

const userAgent = "sentinel-rfi/1.0"

// newJSONRequest builds a POST request with a JSON body against the given path.
func (c *Client) newJSONRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	base.Path = path

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// do executes the request and decodes a JSON response into out. Transport
// failures and non-200 statuses are wrapped in ErrUpstream so callers can
// classify them as external service errors.
func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "archive request failed",
			slog.String("error", err.Error()),
			slog.String("url", req.URL.String()),
		)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "archive returned non-200 status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)),
		)
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.ErrorContext(ctx, "failed to decode archive response",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to decode archive response: %w", err)
	}
	return nil
}

// buildSearchURL constructs the full search URL with query parameters.
func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	base.Path = "/search"
	base.RawQuery = params.ToQueryString()
	return base.String(), nil
}
