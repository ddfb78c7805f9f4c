// Package intel orchestrates the independent source fetchers into one
// IntelligenceRecord. Every source failure degrades that contributor to
// absent; the only terminal outcomes are a populated record or an empty
// record with Error set.
package intel

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/intel-engine/internal/domains"
	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/internal/signals"
	"github.com/sells-group/intel-engine/internal/wiki"
)

// ErrBoostPrecondition is returned when Boost is invoked without an existing
// record or a domain. This is programmer error and does propagate, unlike
// source failures.
var ErrBoostPrecondition = eris.New("intel: boost requires an existing record and a domain")

// noSignalError marks a record produced from zero snippets and zero signals.
const noSignalError = "insufficient data: no source returned content"

// Request identifies the company to enrich. CompanyName is required; the
// rest is best-effort context. ContactRole is accepted for interface parity
// with callers but no current source consumes it.
type Request struct {
	CompanyName    string `json:"company_name"`
	Domain         string `json:"domain,omitempty"`
	ContactRole    string `json:"contact_role,omitempty"`
	ContactAddress string `json:"contact_address,omitempty"`
}

// SummarySource yields an encyclopedia summary for a company name.
type SummarySource interface {
	FetchSummary(ctx context.Context, companyName string) (*wiki.Summary, error)
}

// SiteFetcher yields sanitized snippets from a validated domain.
type SiteFetcher interface {
	FetchContent(ctx context.Context, domain string, paths []string) []model.SourceSnippet
}

// SignalSource yields recent company-relevant sales signals.
type SignalSource interface {
	Generate(ctx context.Context, req signals.Request) (*signals.Response, error)
}

// QuoteSource yields an intraday quote snapshot for a ticker.
type QuoteSource interface {
	FetchQuote(ctx context.Context, ticker string) (*model.QuoteSnapshot, error)
}

// FactExtractor turns snippets into validated structured facts.
type FactExtractor interface {
	Extract(ctx context.Context, companyName, domain string, snippets []model.SourceSnippet) model.ExtractedFacts
}

// Deps wires the aggregator's collaborators. Wiki, Signals, Quotes and
// Extractor are required; Site and BoostSite may be nil to disable website
// fetching (BoostSite falls back to Site).
type Deps struct {
	Wiki      SummarySource
	Site      SiteFetcher
	BoostSite SiteFetcher
	Signals   SignalSource
	Quotes    QuoteSource
	Extractor FactExtractor

	Paths      []string
	BoostPaths []string
	MaxSignals int
}

// Aggregator runs the enrichment flow.
type Aggregator struct {
	deps Deps
	now  func() time.Time // injectable for testing
}

// New creates an Aggregator.
func New(deps Deps) *Aggregator {
	if deps.BoostSite == nil {
		deps.BoostSite = deps.Site
	}
	return &Aggregator{deps: deps, now: time.Now}
}

// WithNow sets a fixed clock for testing.
func (a *Aggregator) WithNow(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Aggregate enriches one company. It returns an error only for invalid input;
// source unavailability is absorbed into the record itself.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*model.IntelligenceRecord, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, eris.New("intel: company name is required")
	}
	return a.run(ctx, req, a.deps.Site, a.deps.Paths, false), nil
}

// Boost re-runs a deeper fetch/extraction pass scoped to a now-known domain.
// It requires a pre-existing record and a domain and performs no network call
// when the precondition fails.
func (a *Aggregator) Boost(ctx context.Context, existing *model.IntelligenceRecord, domain string) (*model.IntelligenceRecord, error) {
	if existing == nil || strings.TrimSpace(domain) == "" || strings.TrimSpace(existing.CompanyName) == "" {
		return nil, ErrBoostPrecondition
	}
	req := Request{CompanyName: existing.CompanyName, Domain: domain}
	return a.run(ctx, req, a.deps.BoostSite, a.deps.BoostPaths, true), nil
}

func (a *Aggregator) run(ctx context.Context, req Request, site SiteFetcher, paths []string, boosted bool) *model.IntelligenceRecord {
	norm := domains.Normalize(req.Domain)

	var (
		summary   *wiki.Summary
		siteSnips []model.SourceSnippet
		sigs      []string
	)

	// Independent sources fan out concurrently; each writes its own slot and
	// never fails the group.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sum, err := a.deps.Wiki.FetchSummary(gctx, req.CompanyName)
		if err != nil {
			zap.L().Debug("intel: encyclopedia unavailable",
				zap.String("company", req.CompanyName),
				zap.Error(err),
			)
			return nil
		}
		summary = sum
		return nil
	})

	g.Go(func() error {
		resp, err := a.deps.Signals.Generate(gctx, signals.Request{
			CompanyName:  req.CompanyName,
			Domain:       norm,
			LocationHint: req.ContactAddress,
			MaxSignals:   a.deps.MaxSignals,
		})
		if err != nil {
			zap.L().Debug("intel: signals unavailable",
				zap.String("company", req.CompanyName),
				zap.Error(err),
			)
			return nil
		}
		sigs = resp.Signals
		return nil
	})

	if site != nil && domains.IsValid(norm) {
		g.Go(func() error {
			siteSnips = site.FetchContent(gctx, norm, paths)
			return nil
		})
	}

	_ = g.Wait()

	var snippets []model.SourceSnippet
	if summary != nil {
		snippets = append(snippets, snippetFromSummary(summary))
	}
	snippets = append(snippets, siteSnips...)

	website := norm
	if website == "" {
		website = req.Domain
	}

	rec := &model.IntelligenceRecord{
		CompanyName: req.CompanyName,
		Website:     website,
		GeneratedAt: a.now().UTC(),
		Boosted:     boosted,
		Sources:     []model.SourceCitation{},
	}

	// Early exit: nothing at all came back. No extractor or quote call.
	if len(snippets) == 0 && len(sigs) == 0 {
		rec.Error = noSignalError
		rec.LinkedInURL = linkedInSearchURL(req.CompanyName)
		return rec
	}

	facts := a.deps.Extractor.Extract(ctx, req.CompanyName, norm, snippets)

	// Ticker precedence: extractor, then encyclopedia scan.
	ticker := facts.TickerSymbol
	if ticker == "" && summary != nil {
		ticker = summary.Ticker
	}
	if ticker != "" && a.deps.Quotes != nil {
		q, err := a.deps.Quotes.FetchQuote(ctx, ticker)
		if err != nil {
			zap.L().Debug("intel: quote unavailable",
				zap.String("ticker", ticker),
				zap.Error(err),
			)
		} else {
			rec.Quote = q
		}
	}

	a.merge(rec, facts, snippets, summary != nil)
	rec.Signals = sigs
	for _, s := range snippets {
		rec.Sources = append(rec.Sources, s.Citation())
	}
	return rec
}

// merge folds extracted facts into the record. LLM-extracted fields win;
// the regex headcount parse runs only when the extractor returned no bucket.
func (a *Aggregator) merge(rec *model.IntelligenceRecord, facts model.ExtractedFacts, snippets []model.SourceSnippet, haveWiki bool) {
	rec.Summary = facts.Summary
	rec.Industry = facts.Industry
	rec.Founded = facts.Founded
	rec.FounderOrLeader = facts.FounderOrLeader
	rec.Competitors = facts.Competitors

	rec.TwitterURL = facts.Social.Twitter
	rec.FacebookURL = facts.Social.Facebook
	rec.InstagramURL = facts.Social.Instagram

	// LinkedIn is never absent: validated extraction, else a search link.
	rec.LinkedInURL = facts.Social.LinkedIn
	if rec.LinkedInURL == "" {
		rec.LinkedInURL = linkedInSearchURL(rec.CompanyName)
	}

	defaultCitation := func() string {
		if haveWiki {
			return "Wikipedia"
		}
		if len(snippets) > 0 {
			return snippets[0].SourceTitle
		}
		return ""
	}

	if facts.HeadcountBucket != "" {
		rec.Headcount = &model.HeadcountInfo{
			Bucket:         facts.HeadcountBucket,
			SourceCitation: defaultCitation(),
		}
	} else if bucket, citation := headcountFromSnippets(snippets); bucket != "" {
		rec.Headcount = &model.HeadcountInfo{Bucket: bucket, SourceCitation: citation}
	}

	if facts.Headquarters != nil {
		rec.Headquarters = &model.HeadquartersInfo{
			City:           facts.Headquarters.City,
			Country:        facts.Headquarters.Country,
			SourceCitation: defaultCitation(),
		}
	}
}

// snippetFromSummary adapts an encyclopedia summary to the snippet shape the
// extractor consumes, bounded like any other snippet.
func snippetFromSummary(sum *wiki.Summary) model.SourceSnippet {
	extract := sum.Extract
	if r := []rune(extract); len(r) > 2200 {
		extract = string(r[:2200])
	}
	return model.SourceSnippet{
		SourceTitle: "Wikipedia: " + sum.Title,
		URL:         sum.PageURL,
		TextExcerpt: extract,
	}
}

// linkedInSearchURL builds a company-search link; a fabricated profile URL is
// never emitted.
func linkedInSearchURL(companyName string) string {
	return "https://www.linkedin.com/search/results/companies/?keywords=" + url.QueryEscape(companyName)
}
