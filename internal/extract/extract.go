// Package extract turns gathered source snippets into strictly validated
// structured facts via an LLM completion call.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/pkg/anthropic"
)

const systemText = "You are a company research analyst extracting structured data from source snippets. Return a single valid JSON object matching the requested schema. Use null for any field the snippets do not directly support."

// The competitors exception is deliberate: competitor suggestions are
// lower-stakes than factual fields, so generic industry-based suggestions
// are allowed there and only there.
const promptTemplate = `Extract facts about the company below from the source snippets.

Company: %s
%s
Rules:
- Only report fields directly supported by the snippets. Never guess or infer unsupported facts; use null instead.
- Exception: for "competitors" you may suggest 2-4 well-known companies in the same industry even if the snippets do not mention them. Keep descriptions short and non-specific.
- "headcount" must be exactly one of: %s.
- Social URLs must be real profile URLs found in the snippets.

Return only a JSON object with this schema:
{
  "headquarters": {"city": "<city or null>", "country": "<country or null>"},
  "headcount": "<bucket or null>",
  "industry": "<industry or null>",
  "summary": "<one-paragraph company summary or null>",
  "founded": "<founding year or null>",
  "founder_or_leader": "<name or null>",
  "ticker": "<stock ticker or null>",
  "social_urls": {"linkedin": null, "twitter": null, "facebook": null, "instagram": null},
  "competitors": [{"name": "<name>", "description": "<short description>"}]
}

Source snippets:
%s`

// Extractor sends snippet text to the LLM and validates the response
// field-by-field. A nil client means extraction is switched off, not broken.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewExtractor creates an Extractor. client may be nil when no LLM credential
// is configured; Extract then short-circuits to an all-absent result.
func NewExtractor(client anthropic.Client, llmModel string, maxTokens int64) *Extractor {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Extractor{client: client, model: llmModel, maxTokens: maxTokens}
}

// Extract runs one completion over the full snippet set. Extraction failure
// is never fatal: any call or parse error degrades to the all-absent result.
func (e *Extractor) Extract(ctx context.Context, companyName, domain string, snippets []model.SourceSnippet) model.ExtractedFacts {
	if e.client == nil || len(snippets) == 0 {
		return model.ExtractedFacts{}
	}

	prompt := buildPrompt(companyName, domain, snippets)

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System:    systemText,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		zap.L().Warn("extract: completion failed",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return model.ExtractedFacts{}
	}
	resp.Usage.LogCost(e.model, "extract")

	facts, err := parseFacts(resp.Text())
	if err != nil {
		zap.L().Warn("extract: unparseable response",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return model.ExtractedFacts{}
	}
	return facts
}

func buildPrompt(companyName, domain string, snippets []model.SourceSnippet) string {
	domainLine := ""
	if domain != "" {
		domainLine = "Domain: " + domain + "\n"
	}

	var b strings.Builder
	for _, s := range snippets {
		fmt.Fprintf(&b, "--- %s (%s) ---\n%s\n\n", s.SourceTitle, s.URL, s.TextExcerpt)
	}

	return fmt.Sprintf(promptTemplate,
		companyName,
		domainLine,
		strings.Join(model.HeadcountBuckets, ", "),
		strings.TrimSpace(b.String()),
	)
}

// rawFacts mirrors the schema requested from the model, before validation.
type rawFacts struct {
	Headquarters *struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"headquarters"`
	Headcount       string `json:"headcount"`
	Industry        string `json:"industry"`
	Summary         string `json:"summary"`
	Founded         string `json:"founded"`
	FounderOrLeader string `json:"founder_or_leader"`
	Ticker          string `json:"ticker"`
	SocialURLs      struct {
		LinkedIn  string `json:"linkedin"`
		Twitter   string `json:"twitter"`
		Facebook  string `json:"facebook"`
		Instagram string `json:"instagram"`
	} `json:"social_urls"`
	Competitors []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"competitors"`
}

// parseFacts parses and validates a model response. Every field passes the
// nullish normalizer; enumerated and platform-bound fields are additionally
// checked against their allowed domains and discarded otherwise.
func parseFacts(text string) (model.ExtractedFacts, error) {
	var raw rawFacts
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return model.ExtractedFacts{}, err
	}

	facts := model.ExtractedFacts{
		Industry:        nullish(raw.Industry),
		Summary:         nullish(raw.Summary),
		Founded:         nullish(raw.Founded),
		FounderOrLeader: nullish(raw.FounderOrLeader),
		TickerSymbol:    strings.ToUpper(nullish(raw.Ticker)),
	}

	if raw.Headquarters != nil {
		city := nullish(raw.Headquarters.City)
		country := nullish(raw.Headquarters.Country)
		if city != "" || country != "" {
			facts.Headquarters = &model.Headquarters{City: city, Country: country}
		}
	}

	if b := nullish(raw.Headcount); model.ValidHeadcountBucket(b) {
		facts.HeadcountBucket = b
	}

	facts.Social = model.SocialURLs{
		LinkedIn:  validSocialURL(raw.SocialURLs.LinkedIn, "linkedin.com"),
		Twitter:   validSocialURL(raw.SocialURLs.Twitter, "twitter.com", "x.com"),
		Facebook:  validSocialURL(raw.SocialURLs.Facebook, "facebook.com"),
		Instagram: validSocialURL(raw.SocialURLs.Instagram, "instagram.com"),
	}

	for _, c := range raw.Competitors {
		name := nullish(c.Name)
		if name == "" {
			continue
		}
		facts.Competitors = append(facts.Competitors, model.Competitor{
			Name:        name,
			Description: nullish(c.Description),
		})
		if len(facts.Competitors) == maxCompetitors {
			break
		}
	}

	return facts, nil
}

// cleanJSON strips markdown fences and surrounding prose from a model
// response, keeping the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
