// Package wiki resolves a company name to an encyclopedia summary, with a
// title-search fallback when the direct lookup misses.
package wiki

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://en.wikipedia.org"

	// Each step of the fallback chain gets its own budget.
	requestTimeout = 5 * time.Second

	maxBodyBytes = 256 * 1024
)

// Summary is the result of an encyclopedia lookup. Ticker is opportunistic:
// scanned from the extract text, empty when no exchange prefix was found.
type Summary struct {
	Title   string
	Extract string
	PageURL string
	Ticker  string
}

// Client looks up page summaries. All methods are best-effort and bounded.
type Client struct {
	httpc     *http.Client
	baseURL   string
	userAgent string
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the default encyclopedia base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(base, "/") }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// NewClient creates a summary client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpc:     &http.Client{Timeout: requestTimeout},
		baseURL:   defaultBaseURL,
		userAgent: "IntelBot/1.0 (company research)",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// titleStrategy resolves a candidate page title for the summary lookup.
// Strategies are tried in order; the first whose summary lookup succeeds wins.
type titleStrategy struct {
	name    string
	resolve func(ctx context.Context, companyName string) (string, error)
}

func (c *Client) strategies() []titleStrategy {
	return []titleStrategy{
		{name: "direct", resolve: func(_ context.Context, name string) (string, error) {
			return name, nil
		}},
		{name: "opensearch", resolve: c.searchTitle},
	}
}

// FetchSummary resolves a company name to a summary article. Returns an error
// when every strategy failed; callers treat that as "absent", not fatal.
func (c *Client) FetchSummary(ctx context.Context, companyName string) (*Summary, error) {
	var lastErr error
	for _, st := range c.strategies() {
		title, err := st.resolve(ctx, companyName)
		if err != nil {
			zap.L().Debug("wiki: title strategy failed",
				zap.String("strategy", st.name),
				zap.String("company", companyName),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		sum, err := c.summaryByTitle(ctx, title)
		if err != nil {
			lastErr = err
			continue
		}
		sum.Ticker = ScanTicker(sum.Extract)
		return sum, nil
	}
	return nil, eris.Wrap(lastErr, "wiki: all lookup strategies failed")
}

// summaryByTitle calls the REST summary endpoint for an exact title.
func (c *Client) summaryByTitle(ctx context.Context, title string) (*Summary, error) {
	endpoint := c.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Title       string `json:"title"`
		Extract     string `json:"extract"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrap(err, "wiki: unmarshal summary")
	}
	if payload.Extract == "" {
		return nil, eris.Errorf("wiki: empty extract for title %q", title)
	}

	return &Summary{
		Title:   payload.Title,
		Extract: payload.Extract,
		PageURL: payload.ContentURLs.Desktop.Page,
	}, nil
}

// searchTitle runs an opensearch title query and returns the top hit.
func (c *Client) searchTitle(ctx context.Context, companyName string) (string, error) {
	q := url.Values{}
	q.Set("action", "opensearch")
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("search", companyName)
	endpoint := c.baseURL + "/w/api.php?" + q.Encode()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}

	// Opensearch responses are a positional array: [query, titles, descs, urls].
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) < 2 {
		return "", eris.Wrap(err, "wiki: unmarshal opensearch")
	}
	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return "", eris.Wrap(err, "wiki: unmarshal opensearch titles")
	}
	if len(titles) == 0 {
		return "", eris.Errorf("wiki: no search results for %q", companyName)
	}
	return titles[0], nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "wiki: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "wiki: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("wiki: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

var tickerRe = regexp.MustCompile(`\b(NYSE|NASDAQ|TSX|LSE|ASX)\s*:\s*([A-Z]{1,6})\b`)

// ScanTicker finds an exchange-prefixed ticker symbol in free text, seeding
// ticker resolution without a dedicated request.
func ScanTicker(text string) string {
	m := tickerRe.FindStringSubmatch(text)
	if len(m) == 3 {
		return m[2]
	}
	return ""
}
