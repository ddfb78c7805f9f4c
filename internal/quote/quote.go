// Package quote fetches best-effort intraday equity snapshots.
package quote

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/intel-engine/internal/model"
)

const (
	defaultBaseURL = "https://financialmodelingprep.com/api/v3"

	requestTimeout = 4 * time.Second
)

// Client fetches a quote snapshot for a ticker symbol.
type Client interface {
	FetchQuote(ctx context.Context, ticker string) (*model.QuoteSnapshot, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the provider base URL.
func WithBaseURL(base string) Option {
	return func(c *httpClient) { c.baseURL = strings.TrimSuffix(base, "/") }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.httpc = hc }
}

type httpClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewClient creates a quote provider client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// providerQuote mirrors the provider's intraday quote payload.
type providerQuote struct {
	Symbol        string   `json:"symbol"`
	Exchange      string   `json:"exchange"`
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previousClose"`
	Currency      string   `json:"currency"`
}

// FetchQuote issues one bounded request. It returns an error rather than a
// partial snapshot when price or previous close is missing: a snapshot, when
// present, always has a computable change percent.
func (c *httpClient) FetchQuote(ctx context.Context, ticker string) (*model.QuoteSnapshot, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, eris.New("quote: empty ticker")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	endpoint := c.baseURL + "/quote/" + url.PathEscape(ticker)
	if c.apiKey != "" {
		endpoint += "?apikey=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "quote: create request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "quote: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("quote: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, eris.Wrap(err, "quote: read body")
	}

	var quotes []providerQuote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, eris.Wrap(err, "quote: unmarshal")
	}
	if len(quotes) == 0 {
		return nil, eris.Errorf("quote: no data for %s", ticker)
	}

	q := quotes[0]
	if q.Price == nil || q.PreviousClose == nil || *q.PreviousClose == 0 {
		return nil, eris.Errorf("quote: incomplete data for %s", ticker)
	}

	change := (*q.Price - *q.PreviousClose) / *q.PreviousClose * 100
	currency := q.Currency
	if currency == "" {
		currency = "USD"
	}

	return &model.QuoteSnapshot{
		Ticker:        ticker,
		Exchange:      q.Exchange,
		Price:         *q.Price,
		ChangePercent: math.Round(change*100) / 100,
		Currency:      currency,
	}, nil
}
