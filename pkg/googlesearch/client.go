// Package googlesearch is a minimal client for the Google Custom Search
// JSON API, covering only the query shape the retrieval pipeline needs.
package googlesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

	// maxPageSize is the API's hard per-request result cap.
	maxPageSize = 10
)

// Client performs web searches.
type Client interface {
	Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error)
}

// SearchOptions tunes a single search call.
type SearchOptions struct {
	// RestrictToDomains limits results to the given domains via site:
	// operators. Empty means unrestricted.
	RestrictToDomains []string

	// MaxResults caps the number of returned items (API maximum 10).
	MaxResults int

	// DateRestrictDays limits results to documents published within the
	// last N days. Zero means no restriction.
	DateRestrictDays int
}

// SearchResponse is the provider's answer to one query.
type SearchResponse struct {
	Items             []RawHit
	TotalResults      int64
	SearchTimeSeconds float64
}

// RawHit is one unclassified search result.
type RawHit struct {
	Title   string
	Link    string
	Snippet string

	// Metadata carries flattened page metatags (og:*, article:*) when the
	// provider surfaces them.
	Metadata map[string]string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing queries per second.
func WithRateLimit(qps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
}

type httpClient struct {
	apiKey   string
	engineID string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a Custom Search client. The API key and search engine
// ID are both required credentials.
func NewClient(apiKey, engineID string, opts ...Option) (Client, error) {
	if apiKey == "" {
		return nil, eris.New("googlesearch: missing API key")
	}
	if engineID == "" {
		return nil, eris.New("googlesearch: missing search engine ID")
	}
	c := &httpClient{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// apiResponse mirrors the JSON API response shape.
type apiResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Pagemap struct {
			Metatags []map[string]string `json:"metatags"`
		} `json:"pagemap"`
	} `json:"items"`
	SearchInformation struct {
		TotalResults string  `json:"totalResults"`
		SearchTime   float64 `json:"searchTime"`
	} `json:"searchInformation"`
}

func (c *httpClient) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "googlesearch: rate limit wait")
	}

	num := opts.MaxResults
	if num <= 0 || num > maxPageSize {
		num = maxPageSize
	}

	q := query
	if len(opts.RestrictToDomains) > 0 {
		q = fmt.Sprintf("%s (%s)", query, siteFilter(opts.RestrictToDomains))
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", q)
	params.Set("num", strconv.Itoa(num))
	if opts.DateRestrictDays > 0 {
		params.Set("dateRestrict", fmt.Sprintf("d%d", opts.DateRestrictDays))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "googlesearch: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "googlesearch: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "googlesearch: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("googlesearch: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, eris.Wrap(err, "googlesearch: unmarshal response")
	}

	result := &SearchResponse{
		SearchTimeSeconds: apiResp.SearchInformation.SearchTime,
	}
	if total, err := strconv.ParseInt(apiResp.SearchInformation.TotalResults, 10, 64); err == nil {
		result.TotalResults = total
	}

	for _, item := range apiResp.Items {
		hit := RawHit{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		}
		if len(item.Pagemap.Metatags) > 0 {
			hit.Metadata = item.Pagemap.Metatags[0]
		}
		result.Items = append(result.Items, hit)
	}

	return result, nil
}

// siteFilter renders a domain allow-list as an OR'd site: expression.
func siteFilter(domains []string) string {
	parts := make([]string, len(domains))
	for i, d := range domains {
		parts[i] = "site:" + d
	}
	return strings.Join(parts, " OR ")
}
