package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidHeadcountBucket(t *testing.T) {
	for _, b := range HeadcountBuckets {
		assert.True(t, ValidHeadcountBucket(b), b)
	}
	assert.False(t, ValidHeadcountBucket("5000-10000"))
	assert.False(t, ValidHeadcountBucket(""))
	assert.False(t, ValidHeadcountBucket("10K+"))
}

func TestBucketForHeadcount(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, ""},
		{-3, ""},
		{1, "1-10"},
		{10, "1-10"},
		{11, "11-50"},
		{200, "51-200"},
		{500, "201-500"},
		{501, "501-1k"},
		{1000, "501-1k"},
		{4999, "1k-5k"},
		{10000, "5k-10k"},
		{10001, "10k+"},
		{250000, "10k+"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BucketForHeadcount(tc.n), "n=%d", tc.n)
	}
	// Every non-empty mapping lands inside the enumeration.
	for n := 1; n < 20000; n += 37 {
		assert.True(t, ValidHeadcountBucket(BucketForHeadcount(n)), "n=%d", n)
	}
}

func TestExtractedFactsIsEmpty(t *testing.T) {
	assert.True(t, ExtractedFacts{}.IsEmpty())
	assert.False(t, ExtractedFacts{Industry: "Software"}.IsEmpty())
	assert.False(t, ExtractedFacts{Social: SocialURLs{Twitter: "https://x.com/acme"}}.IsEmpty())
	assert.False(t, ExtractedFacts{Competitors: []Competitor{{Name: "Globex"}}}.IsEmpty())
}
