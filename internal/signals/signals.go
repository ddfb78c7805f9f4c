// Package signals talks to the sales-signal generation collaborator. Its
// internals are out of scope here; this client only owns the wire contract.
package signals

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultMaxSignals = 5

	requestTimeout = 5 * time.Second
)

// Request identifies the company to generate signals for.
type Request struct {
	CompanyName  string `json:"companyName"`
	Domain       string `json:"domain,omitempty"`
	LocationHint string `json:"locationHint,omitempty"`
	MaxSignals   int    `json:"maxSignals"`
}

// Response carries the generated signals plus collaborator debug data.
type Response struct {
	Signals []string       `json:"signals"`
	Debug   map[string]any `json:"debug,omitempty"`
}

// Client generates recent company-relevant sales signals.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.httpc = hc }
}

type httpClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewClient creates a signal-generator client for the given collaborator
// endpoint. An empty baseURL yields a disabled client that always errors,
// which the aggregator degrades to "no signals".
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: requestTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Generate(ctx context.Context, req Request) (*Response, error) {
	if c.baseURL == "" {
		return nil, eris.New("signals: no endpoint configured")
	}
	if req.MaxSignals <= 0 {
		req.MaxSignals = defaultMaxSignals
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "signals: marshal request")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/v1/signals", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "signals: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "signals: send request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, eris.Wrap(err, "signals: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("signals: unexpected status %d", resp.StatusCode)
	}

	var result Response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "signals: unmarshal response")
	}
	return &result, nil
}
