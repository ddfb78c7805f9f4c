package extract

import "strings"

// maxCompetitors caps the competitor list regardless of what the model emits.
const maxCompetitors = 4

// nullishValues are literal strings models emit instead of omitting a field.
var nullishValues = map[string]bool{
	"null":    true,
	"none":    true,
	"n/a":     true,
	"na":      true,
	"unknown": true,
}

// nullish normalizes a model-emitted string: placeholder literals and
// whitespace-only values become empty (absent).
func nullish(s string) string {
	s = strings.TrimSpace(s)
	if nullishValues[strings.ToLower(s)] {
		return ""
	}
	return s
}

// validSocialURL accepts a URL only when it provably belongs to one of the
// platform's domains; anything else from the model is discarded, not trusted.
func validSocialURL(rawURL string, platformDomains ...string) string {
	u := nullish(rawURL)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	for _, d := range platformDomains {
		if strings.Contains(lower, d) {
			return u
		}
	}
	return ""
}
