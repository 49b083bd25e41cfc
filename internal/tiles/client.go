// Package tiles provides the client for the external rendering/tiling
// service that turns composites into displayable map layers.
package tiles

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

	"github.com/rkm/sentinel-rfi/internal/archive"
)

// Layer is a displayable map layer handle returned by the rendering service.
// Visibility and opacity are session-local metadata: mutating them does not
// re-render tiles.
type Layer struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	TileURL string  `json:"tileUrl"`
	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`
}

// SetOpacity mutates the layer's display opacity. Purely cosmetic.
func (l *Layer) SetOpacity(v float64) { l.Opacity = v }

// SetVisible mutates the layer's visibility. Purely cosmetic.
func (l *Layer) SetVisible(v bool) { l.Visible = v }

// RenderRequest asks the rendering service to build a tile layer from a
// 3-channel composite.
type RenderRequest struct {
	Name string `json:"name"`
	// Channels references the reduced single-band rasters in fixed order:
	// VH-ascending, VV-merged, VH-descending.
	Channels [3]string `json:"channels,omitempty"`
	// ObservationIDs is set instead of Channels for raw daily display.
	ObservationIDs []string `json:"observationIds,omitempty"`
	Stretch        Stretch  `json:"stretch"`
	Opacity        float64  `json:"opacity"`
}

// Client handles communication with the rendering service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new rendering service client.
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

// Render submits a composite to the rendering service and returns the layer
// handle for it.
func (c *Client) Render(ctx context.Context, renderReq RenderRequest) (*Layer, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	base.Path = "/layers"

	payload, err := json.Marshal(renderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode render request: %w", err)
	}

	c.logger.DebugContext(ctx, "rendering layer",
		slog.String("name", renderReq.Name),
		slog.Float64("opacity", renderReq.Opacity),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "render request failed",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", archive.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "rendering service returned non-200 status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)),
		)
		return nil, fmt.Errorf("%w: status %d: %s", archive.ErrUpstream, resp.StatusCode, string(body))
	}

	var layer Layer
	if err := json.NewDecoder(resp.Body).Decode(&layer); err != nil {
		return nil, fmt.Errorf("failed to decode render response: %w", err)
	}

	layer.Name = renderReq.Name
	layer.Opacity = renderReq.Opacity
	return &layer, nil
}
