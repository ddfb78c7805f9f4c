package website

import (
	"regexp"
	"strings"
)

var (
	titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	wsRe    = regexp.MustCompile(`\s+`)

	// Content inside these elements is noise, not text.
	blockRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<!--.*?-->`),
	}

	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// StripMarkup removes every tag and attribute from an HTML body and collapses
// the remaining text to single-spaced plaintext. Denylist-by-default: no tag
// is ever passed through to the caller.
func StripMarkup(html string) string {
	for _, re := range blockRes {
		html = re.ReplaceAllString(html, " ")
	}
	html = tagRe.ReplaceAllString(html, " ")
	html = entityReplacer.Replace(html)
	return strings.TrimSpace(wsRe.ReplaceAllString(html, " "))
}

func extractTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if len(m) > 1 {
		return strings.TrimSpace(StripMarkup(m[1]))
	}
	return ""
}

var socialRes = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/(?:company|in)/[A-Za-z0-9_.%-]+`),
	regexp.MustCompile(`https?://(?:www\.)?(?:twitter\.com|x\.com)/[A-Za-z0-9_]+`),
	regexp.MustCompile(`https?://(?:www\.)?facebook\.com/[A-Za-z0-9_.-]+`),
	regexp.MustCompile(`https?://(?:www\.)?instagram\.com/[A-Za-z0-9_.]+`),
}

// ScanSocialLinks extracts social-profile URLs from a raw HTML body, deduped
// in discovery order and capped at maxSocialLinks.
func ScanSocialLinks(body string) []string {
	var links []string
	seen := make(map[string]bool)
	for _, re := range socialRes {
		for _, m := range re.FindAllString(body, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			links = append(links, m)
			if len(links) >= maxSocialLinks {
				return links
			}
		}
	}
	return links
}
