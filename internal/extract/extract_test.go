package extract

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/pkg/anthropic"
)

// fakeClient returns a canned response (or error) and records the request.
type fakeClient struct {
	resp    string
	err     error
	lastReq anthropic.MessageRequest
	calls   int
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.resp}},
	}, nil
}

var testSnippets = []model.SourceSnippet{
	{SourceTitle: "Acme Corp (Wikipedia)", URL: "https://en.wikipedia.org/wiki/Acme_Corp", TextExcerpt: "Acme Corp is an anvil maker."},
	{SourceTitle: "About Acme", URL: "https://acme.com/about", TextExcerpt: "We employ 180 people."},
}

const fullResponse = "```json\n" + `{
  "headquarters": {"city": "Tucson", "country": "USA"},
  "headcount": "51-200",
  "industry": "Manufacturing",
  "summary": "Acme makes anvils.",
  "founded": "1952",
  "founder_or_leader": "Wile E. Coyote",
  "ticker": "acme",
  "social_urls": {
    "linkedin": "https://www.linkedin.com/company/acme",
    "twitter": "https://x.com/acme",
    "facebook": "null",
    "instagram": "https://evil.example.com/acme"
  },
  "competitors": [
    {"name": "Globex", "description": "diversified conglomerate"},
    {"name": "  "},
    {"name": "Initech"},
    {"name": "Umbrella"},
    {"name": "Hooli"},
    {"name": "Stark Industries"}
  ]
}` + "\n```"

func TestExtract_FullResponse(t *testing.T) {
	fc := &fakeClient{resp: fullResponse}
	e := NewExtractor(fc, "claude-haiku-4-5-20251001", 0)

	facts := e.Extract(context.Background(), "Acme Corp", "acme.com", testSnippets)

	require.NotNil(t, facts.Headquarters)
	assert.Equal(t, "Tucson", facts.Headquarters.City)
	assert.Equal(t, "USA", facts.Headquarters.Country)
	assert.Equal(t, "51-200", facts.HeadcountBucket)
	assert.Equal(t, "Manufacturing", facts.Industry)
	assert.Equal(t, "1952", facts.Founded)
	assert.Equal(t, "Wile E. Coyote", facts.FounderOrLeader)
	assert.Equal(t, "ACME", facts.TickerSymbol, "ticker is upper-cased")

	assert.Equal(t, "https://www.linkedin.com/company/acme", facts.Social.LinkedIn)
	assert.Equal(t, "https://x.com/acme", facts.Social.Twitter)
	assert.Empty(t, facts.Social.Facebook, "nullish literal discarded")
	assert.Empty(t, facts.Social.Instagram, "wrong-platform URL discarded")

	// Blank-name competitor dropped, list capped at 4.
	require.Len(t, facts.Competitors, 4)
	assert.Equal(t, "Globex", facts.Competitors[0].Name)
	assert.Equal(t, "Initech", facts.Competitors[1].Name)

	// Prompt carries company identity and snippet text.
	prompt := fc.lastReq.Messages[0].Content
	assert.Contains(t, prompt, "Acme Corp")
	assert.Contains(t, prompt, "Domain: acme.com")
	assert.Contains(t, prompt, "anvil maker")
	assert.Contains(t, prompt, "10k+", "bucket enumeration is spelled out")
}

func TestExtract_NilClientShortCircuits(t *testing.T) {
	e := NewExtractor(nil, "claude-haiku-4-5-20251001", 1024)
	facts := e.Extract(context.Background(), "Acme", "acme.com", testSnippets)
	assert.True(t, facts.IsEmpty())
}

func TestExtract_NoSnippets(t *testing.T) {
	fc := &fakeClient{resp: fullResponse}
	e := NewExtractor(fc, "m", 1024)
	facts := e.Extract(context.Background(), "Acme", "", nil)
	assert.True(t, facts.IsEmpty())
	assert.Zero(t, fc.calls, "no completion without snippets")
}

func TestExtract_CallErrorDegrades(t *testing.T) {
	fc := &fakeClient{err: eris.New("rate limited")}
	e := NewExtractor(fc, "m", 1024)
	facts := e.Extract(context.Background(), "Acme", "", testSnippets)
	assert.True(t, facts.IsEmpty())
}

func TestExtract_UnparseableDegrades(t *testing.T) {
	fc := &fakeClient{resp: "Sorry, I cannot help with that."}
	e := NewExtractor(fc, "m", 1024)
	facts := e.Extract(context.Background(), "Acme", "", testSnippets)
	assert.True(t, facts.IsEmpty())
}

func TestParseFacts_OutOfEnumBucketDiscarded(t *testing.T) {
	facts, err := parseFacts(`{"headcount": "5000-10000", "industry": "Retail"}`)
	require.NoError(t, err)
	assert.Empty(t, facts.HeadcountBucket)
	assert.Equal(t, "Retail", facts.Industry)
}

func TestParseFacts_NullishNormalizer(t *testing.T) {
	facts, err := parseFacts(`{
		"industry": "N/A",
		"summary": "  ",
		"founded": "Unknown",
		"founder_or_leader": "none",
		"ticker": "null"
	}`)
	require.NoError(t, err)
	assert.True(t, facts.IsEmpty())
}

func TestParseFacts_NullishHeadquartersDropped(t *testing.T) {
	facts, err := parseFacts(`{"headquarters": {"city": "null", "country": "n/a"}}`)
	require.NoError(t, err)
	assert.Nil(t, facts.Headquarters)
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`Here you go: {"a":1} hope that helps`, `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanJSON(tc.in))
	}
}

func TestValidSocialURL(t *testing.T) {
	assert.Equal(t, "https://x.com/acme", validSocialURL("https://x.com/acme", "twitter.com", "x.com"))
	assert.Equal(t, "https://twitter.com/acme", validSocialURL("https://twitter.com/acme", "twitter.com", "x.com"))
	assert.Empty(t, validSocialURL("https://fake.example.com/acme", "twitter.com", "x.com"))
	assert.Empty(t, validSocialURL("null", "linkedin.com"))
	assert.Empty(t, validSocialURL("", "linkedin.com"))
}
