package hubeau

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/apex/log"
)

// DefaultBaseURL is the public Hub'Eau drinking-water quality API root.
const DefaultBaseURL = "https://hubeau.eaufrance.fr/api/v1/qualite_eau_potable"

const (
	networksPageSize = 100
	resultsPageSize  = 500

	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	defaultTimeout    = 30 * time.Second
)

// transientStatus lists the upstream statuses worth retrying.
var transientStatus = map[int]bool{
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// UpstreamError reports a terminal Hub'Eau failure: retries exhausted on a
// transient status or transport error, or a non-retryable failure status.
// Distinct from "no data", which is never an error.
type UpstreamError struct {
	Endpoint string
	Status   int // 0 when the failure was transport-level
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("hubeau %s: upstream status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("hubeau %s: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Client queries the Hub'Eau qualite_eau_potable API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	retryDelay time.Duration
}

// New creates a client for the given API root. An empty baseURL selects the
// public Hub'Eau endpoint.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

// fetchWithRetry performs a GET against endpoint, retrying transient statuses
// and transport errors with exponential backoff (retryDelay * 2^attempt), up
// to maxRetries additional attempts. Responses with any other status are
// returned as-is; the caller decides their semantics. The backoff wait is a
// timer select, so a cancelled context cuts it short.
func (c *Client) fetchWithRetry(ctx context.Context, endpoint, rawURL string) (*http.Response, error) {
	var lastErr error
	lastStatus := 0

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			lastErr = err
			lastStatus = 0
		case !transientStatus[resp.StatusCode]:
			return resp, nil
		default:
			lastStatus = resp.StatusCode
			lastErr = fmt.Errorf("upstream status %d", resp.StatusCode)
			resp.Body.Close()
		}

		if attempt >= c.maxRetries {
			return nil, &UpstreamError{Endpoint: endpoint, Status: lastStatus, Err: lastErr}
		}

		delay := c.retryDelay << uint(attempt)
		log.Debugf("hubeau %s attempt %d/%d failed (%v), retrying in %s", endpoint, attempt+1, c.maxRetries+1, lastErr, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Networks returns the distribution networks serving a commune, deduplicated
// by network code with first occurrence winning. The endpoint is advisory:
// any terminal failure degrades to an empty list rather than failing the
// chain. A commune served by zero networks is a normal outcome.
func (c *Client) Networks(ctx context.Context, communeCode string) []Network {
	rawURL := fmt.Sprintf("%s/communes_udi?code_commune=%s&size=%d",
		c.baseURL, url.QueryEscape(communeCode), networksPageSize)

	resp, err := c.fetchWithRetry(ctx, "communes_udi", rawURL)
	if err != nil {
		log.WithError(err).Warnf("communes_udi failed for commune %s", communeCode)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warnf("communes_udi returned status %d for commune %s", resp.StatusCode, communeCode)
		return nil
	}

	var payload networksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.WithError(err).Warn("communes_udi payload decode failed")
		return nil
	}

	seen := make(map[string]bool, len(payload.Data))
	networks := make([]Network, 0, len(payload.Data))
	for _, n := range payload.Data {
		if n.Code == "" || seen[n.Code] {
			continue
		}
		seen[n.Code] = true
		if n.Name == "" {
			n.Name = "Réseau inconnu"
		}
		networks = append(networks, n)
	}

	log.Debugf("communes_udi: %d unique networks for commune %s", len(networks), communeCode)
	return networks
}

// Results fetches one page of analysis rows, scoped by network when
// networkCode is set (smaller, faster, and excludes unrelated communes on
// shared networks), otherwise by commune code. A 404 means no rows and is
// not an error. Any other terminal failure surfaces as *UpstreamError.
func (c *Client) Results(ctx context.Context, communeCode, networkCode string) (FetchResult, error) {
	rawURL := fmt.Sprintf("%s/resultats_dis?size=%d", c.baseURL, resultsPageSize)
	if networkCode != "" {
		rawURL += "&code_reseau=" + url.QueryEscape(networkCode)
	} else {
		rawURL += "&code_commune=" + url.QueryEscape(communeCode)
	}

	resp, err := c.fetchWithRetry(ctx, "resultats_dis", rawURL)
	if err != nil {
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return FetchResult{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FetchResult{}, &UpstreamError{Endpoint: "resultats_dis", Status: resp.StatusCode}
	}

	var payload resultsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return FetchResult{}, &UpstreamError{Endpoint: "resultats_dis", Err: fmt.Errorf("decode payload: %w", err)}
	}

	log.Debugf("resultats_dis: %d rows (commune=%s network=%s)", len(payload.Data), communeCode, networkCode)
	return FetchResult{
		Rows:      payload.Data,
		Truncated: len(payload.Data) == resultsPageSize,
	}, nil
}
