// Package model defines the data types shared across the intelligence engine.
package model

import "time"

// SourceSnippet is a bounded, attributed excerpt of text gathered from one
// external source. Snippets are ephemeral: produced by fetchers, consumed by
// the fact extractor within a single aggregation call, never persisted.
type SourceSnippet struct {
	SourceTitle string `json:"source_title"`
	URL         string `json:"url"`
	TextExcerpt string `json:"text_excerpt"`
}

// Citation records the provenance of a snippet as a {title, url} pair.
func (s SourceSnippet) Citation() SourceCitation {
	return SourceCitation{Title: s.SourceTitle, URL: s.URL}
}

// SourceCitation establishes provenance for a derived fact.
type SourceCitation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Headquarters is a city/country pair extracted from source text.
type Headquarters struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Competitor is a suggested or extracted competitor. Description is optional
// and intentionally short.
type Competitor struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SocialURLs holds platform profile URLs. An empty string means absent; a
// non-empty value has been verified to contain its platform's domain.
type SocialURLs struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// ExtractedFacts is the strictly validated output of the LLM fact extractor.
// Every field is independently optional; partial extraction is normal.
type ExtractedFacts struct {
	Headquarters    *Headquarters `json:"headquarters,omitempty"`
	HeadcountBucket string        `json:"headcount_bucket,omitempty"`
	Industry        string        `json:"industry,omitempty"`
	Summary         string        `json:"summary,omitempty"`
	Founded         string        `json:"founded,omitempty"`
	FounderOrLeader string        `json:"founder_or_leader,omitempty"`
	TickerSymbol    string        `json:"ticker_symbol,omitempty"`
	Social          SocialURLs    `json:"social_urls"`
	Competitors     []Competitor  `json:"competitors,omitempty"`
}

// IsEmpty reports whether no field at all was extracted.
func (f ExtractedFacts) IsEmpty() bool {
	return f.Headquarters == nil &&
		f.HeadcountBucket == "" &&
		f.Industry == "" &&
		f.Summary == "" &&
		f.Founded == "" &&
		f.FounderOrLeader == "" &&
		f.TickerSymbol == "" &&
		f.Social == (SocialURLs{}) &&
		len(f.Competitors) == 0
}

// QuoteSnapshot is a best-effort intraday equity quote. A snapshot is only
// constructed when both price and previous close were available, so
// ChangePercent is always computable when a snapshot exists.
type QuoteSnapshot struct {
	Ticker        string  `json:"ticker"`
	Exchange      string  `json:"exchange,omitempty"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Currency      string  `json:"currency"`
}

// HeadcountInfo is a headcount bucket with the citation it came from.
type HeadcountInfo struct {
	Bucket         string `json:"bucket"`
	SourceCitation string `json:"source_citation"`
}

// HeadquartersInfo is a headquarters location with the citation it came from.
type HeadquartersInfo struct {
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	SourceCitation string `json:"source_citation"`
}

// IntelligenceRecord is the engine's output, owned by the caller after
// return. Error is set if and only if no snippet and no signal was obtained;
// in that case every enrichment field is absent and LinkedInURL carries a
// generated search link.
type IntelligenceRecord struct {
	CompanyName     string            `json:"company_name"`
	Website         string            `json:"website,omitempty"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Summary         string            `json:"summary,omitempty"`
	Industry        string            `json:"industry,omitempty"`
	Founded         string            `json:"founded,omitempty"`
	FounderOrLeader string            `json:"founder_or_leader,omitempty"`
	LinkedInURL     string            `json:"linkedin_url"`
	TwitterURL      string            `json:"twitter_url,omitempty"`
	FacebookURL     string            `json:"facebook_url,omitempty"`
	InstagramURL    string            `json:"instagram_url,omitempty"`
	Headcount       *HeadcountInfo    `json:"headcount,omitempty"`
	Headquarters    *HeadquartersInfo `json:"headquarters,omitempty"`
	Quote           *QuoteSnapshot    `json:"quote,omitempty"`
	Competitors     []Competitor      `json:"competitors,omitempty"`
	Signals         []string          `json:"signals,omitempty"`
	Sources         []SourceCitation  `json:"sources"`
	Boosted         bool              `json:"boosted"`
	Error           string            `json:"error,omitempty"`
}
