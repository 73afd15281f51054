package linesheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
)

// DefaultGenerateTimeout bounds one generation call. Spreadsheet rendering
// for large catalogs can take a while upstream.
const DefaultGenerateTimeout = 2 * time.Minute

// Generator is the remote generation call the orchestrator drives.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (ResponseMeta, error)
}

// ClientConfig contains configuration for the generation service client.
type ClientConfig struct {
	// BaseURL of the linesheet backend.
	BaseURL string

	// RequestTimeout for one generation call. Zero uses DefaultGenerateTimeout.
	RequestTimeout time.Duration
}

// Client calls the remote generation endpoint.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a generation service client.
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("linesheet base URL is required")
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultGenerateTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		logger:  logger,
	}, nil
}

// Generate posts the request and returns the raw response parts for
// delivery resolution. Non-2xx statuses fail here so resolution only ever
// sees successful payloads.
func (c *Client) Generate(ctx context.Context, genReq domain.GenerationRequest) (ResponseMeta, error) {
	const op = "linesheet.Generate"

	payload, err := json.Marshal(genReq)
	if err != nil {
		return ResponseMeta{}, domain.Internal(err, op, "Failed to encode generation request.")
	}

	url := c.baseURL + "/api/generate-linesheet"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return ResponseMeta{}, domain.Internal(err, op, "Failed to build generation request.")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return ResponseMeta{}, domain.Wrap(err, domain.EGENERATION, op, "Error generating linesheet: network error")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ResponseMeta{}, domain.GenerationFailed(op, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResponseMeta{}, domain.Wrap(err, domain.EGENERATION, op, "Error generating linesheet: truncated response")
	}

	c.logger.Info("linesheet generated",
		"output_type", genReq.OutputType,
		"catalogs", len(genReq.CatalogIDs),
		"bytes", len(body),
		"content_type", resp.Header.Get("Content-Type"),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return ResponseMeta{
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		Body:               body,
	}, nil
}
