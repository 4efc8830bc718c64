package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/apex/log"
)

// DefaultBaseURL is the public French administrative geocoding API.
const DefaultBaseURL = "https://geo.api.gouv.fr"

const (
	defaultTimeout     = 10 * time.Second
	defaultSearchLimit = 5
	communeFields      = "nom,code,codesPostaux"
)

// ErrNoCommune signals that no commune matched the query.
var ErrNoCommune = errors.New("geo: no commune found")

// Commune is one resolved municipality.
type Commune struct {
	Name        string   `json:"nom"`
	Code        string   `json:"code"`
	PostalCodes []string `json:"codesPostaux"`
}

// Client resolves free-text and coordinate queries to commune codes.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a geocoding client. An empty baseURL selects the public API.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
	}
}

// Search returns communes matching a name prefix, most populous first.
func (c *Client) Search(ctx context.Context, name string, limit int) ([]Commune, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	rawURL := fmt.Sprintf("%s/communes?nom=%s&fields=%s&boost=population&limit=%d",
		c.baseURL, url.QueryEscape(name), communeFields, limit)
	return c.fetchCommunes(ctx, rawURL)
}

// Reverse resolves coordinates to the commune containing them.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (Commune, error) {
	rawURL := fmt.Sprintf("%s/communes?lat=%f&lon=%f&fields=%s", c.baseURL, lat, lon, communeFields)
	communes, err := c.fetchCommunes(ctx, rawURL)
	if err != nil {
		return Commune{}, err
	}
	if len(communes) == 0 {
		return Commune{}, ErrNoCommune
	}
	return communes[0], nil
}

func (c *Client) fetchCommunes(ctx context.Context, rawURL string) ([]Commune, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request communes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geo api: unexpected status %s", resp.Status)
	}

	var communes []Commune
	if err := json.NewDecoder(resp.Body).Decode(&communes); err != nil {
		return nil, fmt.Errorf("decode communes: %w", err)
	}

	log.Debugf("geo: %d communes for %s", len(communes), rawURL)
	return communes, nil
}
