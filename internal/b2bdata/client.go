// Package b2bdata fetches the buyer's company and catalog data from the
// linesheet backend and normalizes it into the canonical domain shape,
// merging the remote records with the storefront-supplied identity.
package b2bdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
)

// DefaultRequestTimeout bounds one data fetch when no client is supplied.
const DefaultRequestTimeout = 30 * time.Second

// Cache is an optional read-through cache for location data. Implementations
// must degrade gracefully: a cache failure never fails a load.
type Cache interface {
	Get(ctx context.Context, locationID string) (*domain.BusinessData, bool)
	Set(ctx context.Context, locationID string, data *domain.BusinessData)
}

// Config contains configuration for the data client.
type Config struct {
	// BaseURL of the linesheet backend, e.g.
	// "https://b2b-linesheet-generator-service.vercel.app".
	BaseURL string

	// RequestTimeout for one fetch. Zero uses DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Client loads B2B data for a company location.
type Client struct {
	baseURL string
	client  *http.Client
	cache   Cache
	logger  *slog.Logger
}

// NewClient creates a data client. cache may be nil.
func NewClient(cfg Config, cache Cache, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("b2bdata base URL is required")
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		cache:   cache,
		logger:  logger,
	}, nil
}

// =============================================================================
// Wire Types
// =============================================================================

// payload is the raw response of GET /api/location/{id}/b2b-data.
type payload struct {
	Company  companyPayload   `json:"company"`
	Location *locationPayload `json:"location"`
	Catalogs []domain.Catalog `json:"catalogs"`
}

type companyPayload struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ExternalID string          `json:"externalId"`
	Contact    *contactPayload `json:"contact"`
}

type contactPayload struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type locationPayload struct {
	Address *domain.Address `json:"address"`
}

// =============================================================================
// Load
// =============================================================================

// Load fetches and normalizes the company and catalogs for the identity's
// location. It fails before any network call when the identity carries no
// location reference. All remote failures surface as one uniform error shape
// (code EREMOTE) carrying the underlying detail.
func (c *Client) Load(ctx context.Context, identity domain.Identity) (*domain.BusinessData, error) {
	const op = "b2bdata.Load"

	if identity.LocationID == "" {
		return nil, domain.MissingIdentity(op)
	}

	if c.cache != nil {
		if data, ok := c.cache.Get(ctx, identity.LocationID); ok {
			c.logger.Debug("b2b data cache hit", "location_id", identity.LocationID)
			return data, nil
		}
	}

	url := fmt.Sprintf("%s/api/location/%s/b2b-data", c.baseURL, identity.LocationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to build data request.")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.Remote(err, op, "network error")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := fmt.Sprintf("Server returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return nil, domain.Remote(nil, op, detail)
	}

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.Remote(err, op, "invalid response body")
	}

	data := &domain.BusinessData{
		Company:  mergeCompany(body, identity),
		Catalogs: body.Catalogs,
	}
	// Never propagate a nil catalog list upward.
	if data.Catalogs == nil {
		data.Catalogs = []domain.Catalog{}
	}

	if c.cache != nil {
		c.cache.Set(ctx, identity.LocationID, data)
	}

	c.logger.Info("b2b data loaded",
		"location_id", identity.LocationID,
		"company_id", data.Company.ID,
		"catalogs", len(data.Catalogs),
	)

	return data, nil
}

// mergeCompany builds the canonical Company from the remote payload with
// identity fallbacks. Remote fields win field-by-field; contact fields fall
// back independently; the address is taken wholesale from the remote
// location when present, else synthesized from identity fields.
func mergeCompany(body payload, identity domain.Identity) domain.Company {
	company := domain.Company{
		ID:         body.Company.ID,
		Name:       body.Company.Name,
		ExternalID: body.Company.ExternalID,
	}
	if company.ID == "" {
		company.ID = identity.CompanyID
	}
	if company.Name == "" {
		company.Name = identity.CompanyName
	}

	company.Email = identity.Email
	company.Phone = identity.Phone
	if body.Company.Contact != nil {
		if body.Company.Contact.Email != "" {
			company.Email = body.Company.Contact.Email
		}
		if body.Company.Contact.Phone != "" {
			company.Phone = body.Company.Contact.Phone
		}
	}

	if body.Location != nil && body.Location.Address != nil {
		company.Address = *body.Location.Address
	} else {
		company.Address = domain.Address{
			Address1: identity.Address1,
			Address2: identity.Address2,
			City:     identity.City,
			Zip:      identity.Zip,
			Country:  identity.Country,
		}
	}

	return company
}
