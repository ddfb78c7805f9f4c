// Package website fetches a small fixed set of pages from a validated company
// domain and turns them into bounded plaintext snippets for LLM extraction.
package website

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"

	"github.com/sells-group/intel-engine/internal/domains"
	"github.com/sells-group/intel-engine/internal/model"
)

const (
	// Per-request budget. A slow path is skipped, never retried.
	requestTimeout = 5500 * time.Millisecond

	maxBodyBytes    = 512 * 1024
	maxExcerptChars = 2200
	minExcerptChars = 140
	maxSocialLinks  = 8

	defaultUserAgent = "Mozilla/5.0 (compatible; IntelBot/1.0)"
	defaultMaxPaths  = 3
)

// DefaultPaths is the standard candidate set for a first enrichment pass.
var DefaultPaths = []string{"/", "/about", "/products", "/company", "/services"}

// BoostPaths is the extended candidate set used by the boost pass.
var BoostPaths = []string{"/", "/about", "/products", "/team", "/customers", "/pricing", "/news", "/contact"}

// Fetcher retrieves and sanitizes website content. Every failure is local to
// one path candidate; a fetcher never returns an error, only fewer snippets.
type Fetcher struct {
	client       *http.Client
	limiter      *rate.Limiter
	userAgent    string
	maxPaths     int
	baseOverride string // test hook: replaces https://<domain>
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) { f.client = hc }
}

// WithUserAgent overrides the declared user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithMaxPaths overrides how many path candidates are attempted per fetch.
func WithMaxPaths(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPaths = n
		}
	}
}

// WithBaseURL points all requests at a fixed base URL instead of
// https://<domain>. Used by tests against httptest servers.
func WithBaseURL(base string) Option {
	return func(f *Fetcher) { f.baseOverride = strings.TrimSuffix(base, "/") }
}

// NewFetcher creates a Fetcher with sensible defaults and a per-fetcher
// politeness limiter of two requests per second.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: requestTimeout},
		limiter:   rate.NewLimiter(rate.Limit(2), 1),
		userAgent: defaultUserAgent,
		maxPaths:  defaultMaxPaths,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// FetchContent fetches up to maxPaths candidates from the domain and returns
// one snippet per page that yielded enough text. The domain is re-validated
// defensively; an invalid domain yields nil without any network call.
func (f *Fetcher) FetchContent(ctx context.Context, domain string, paths []string) []model.SourceSnippet {
	if !domains.IsValid(domain) {
		zap.L().Debug("website: skipping invalid domain", zap.String("domain", domain))
		return nil
	}
	host := domains.Normalize(domain)

	if len(paths) > f.maxPaths {
		paths = paths[:f.maxPaths]
	}

	var snippets []model.SourceSnippet
	for _, p := range paths {
		pageURL := f.pageURL(host, p)
		snip, err := f.fetchOne(ctx, host, p, pageURL)
		if err != nil {
			// Partial failure is expected, not escalated.
			zap.L().Debug("website: path skipped",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			continue
		}
		if snip != nil {
			snippets = append(snippets, *snip)
		}
	}
	return snippets
}

func (f *Fetcher) pageURL(host, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if f.baseOverride != "" {
		return f.baseOverride + path
	}
	return "https://" + host + path
}

// fetchOne fetches a single path candidate. A nil, nil return means the page
// responded but carried too little text to be useful.
func (f *Fetcher) fetchOne(ctx context.Context, host, path, pageURL string) (*model.SourceSnippet, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "website: limiter wait")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "website: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "website: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("website: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "website: read body")
	}

	body := decodeCharset(raw, resp.Header.Get("Content-Type"))

	// The social scan runs over the raw body: profile links usually live in
	// markup attributes that sanitization removes.
	social := ScanSocialLinks(body)

	excerpt := truncateRunes(StripMarkup(body), maxExcerptChars)
	if len(excerpt) < minExcerptChars {
		return nil, nil
	}
	if len(social) > 0 {
		excerpt += "\n\nSocial links found: " + strings.Join(social, ", ")
	}

	title := extractTitle(body)
	if title == "" {
		title = host + path
	}

	return &model.SourceSnippet{
		SourceTitle: title,
		URL:         fmt.Sprintf("https://%s%s", host, path),
		TextExcerpt: excerpt,
	}, nil
}

// decodeCharset converts a response body to UTF-8 based on the Content-Type
// charset parameter. Unknown or missing charsets pass through unchanged.
func decodeCharset(body []byte, contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}
	cs := strings.ToLower(params["charset"])
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return string(body)
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
