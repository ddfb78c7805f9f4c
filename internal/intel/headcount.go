package intel

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/intel-engine/internal/model"
)

// headcountRes match employee-count mentions in free text. Ordered: the
// explicit "N employees" form beats the softer "employs N" form.
var headcountRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+|\d{1,7})\s*\+?\s*(?:employees|staff members)\b`),
	regexp.MustCompile(`(?i)employs\s+(?:over|about|around|roughly|approximately|more than|nearly)?\s*(\d{1,3}(?:,\d{3})+|\d{1,7})\b`),
}

// headcountFromSnippets scans snippet text for a numeric headcount mention
// and maps it into the bucket enumeration. Returns the citation of the
// snippet the match came from.
func headcountFromSnippets(snippets []model.SourceSnippet) (bucket, citation string) {
	for _, s := range snippets {
		for _, re := range headcountRes {
			m := re.FindStringSubmatch(s.TextExcerpt)
			if len(m) < 2 {
				continue
			}
			n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
			if err != nil {
				continue
			}
			if b := model.BucketForHeadcount(n); b != "" {
				return b, s.SourceTitle
			}
		}
	}
	return "", ""
}
