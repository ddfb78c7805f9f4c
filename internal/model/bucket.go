package model

// HeadcountBuckets is the fixed enumeration of coarse headcount ranges.
// Any value outside this set is discarded, never stored.
var HeadcountBuckets = []string{
	"1-10",
	"11-50",
	"51-200",
	"201-500",
	"501-1k",
	"1k-5k",
	"5k-10k",
	"10k+",
}

// ValidHeadcountBucket reports whether s is a member of the enumeration.
func ValidHeadcountBucket(s string) bool {
	for _, b := range HeadcountBuckets {
		if s == b {
			return true
		}
	}
	return false
}

// BucketForHeadcount maps an exact employee count into the enumeration.
func BucketForHeadcount(n int) string {
	switch {
	case n <= 0:
		return ""
	case n <= 10:
		return "1-10"
	case n <= 50:
		return "11-50"
	case n <= 200:
		return "51-200"
	case n <= 500:
		return "201-500"
	case n <= 1000:
		return "501-1k"
	case n <= 5000:
		return "1k-5k"
	case n <= 10000:
		return "5k-10k"
	default:
		return "10k+"
	}
}
