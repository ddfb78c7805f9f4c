package website

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aboutHTML = `<html><head><title>Acme Corp — About</title>
<script>var tracking = "ignore me entirely";</script>
<style>.hero { color: red; }</style></head>
<body>
<h1>About Acme</h1>
<p>Acme Corp builds industrial-grade rocket skates, portable holes, and
earthquake pills for discerning coyotes worldwide. Founded in 1952, the
company employs over 3,500 people across twelve countries.</p>
<a href="https://www.linkedin.com/company/acme-corp">LinkedIn</a>
<a href="https://x.com/acmecorp">X</a>
<a href="https://x.com/acmecorp">X again</a>
</body></html>`

func TestFetchContent_SanitizesAndFindsSocialLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/about" {
			http.NotFound(w, r)
			return
		}
		assert.Contains(t, r.Header.Get("User-Agent"), "IntelBot")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(aboutHTML))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	snippets := f.FetchContent(context.Background(), "example.com", []string{"/about"})
	require.Len(t, snippets, 1)

	s := snippets[0]
	assert.Equal(t, "Acme Corp — About", s.SourceTitle)
	assert.Equal(t, "https://example.com/about", s.URL)
	assert.Contains(t, s.TextExcerpt, "rocket skates")
	assert.NotContains(t, s.TextExcerpt, "<")
	assert.NotContains(t, s.TextExcerpt, "ignore me entirely")
	assert.NotContains(t, s.TextExcerpt, "color: red")
	assert.Contains(t, s.TextExcerpt, "Social links found: ")
	assert.Contains(t, s.TextExcerpt, "https://www.linkedin.com/company/acme-corp")
	// Deduped: the duplicate x.com link appears once.
	assert.Equal(t, 1, strings.Count(s.TextExcerpt, "https://x.com/acmecorp"))
}

func TestFetchContent_SkipsFailuresAndContinues(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Path {
		case "/":
			w.WriteHeader(http.StatusInternalServerError)
		case "/about":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(aboutHTML))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	snippets := f.FetchContent(context.Background(), "example.com", []string{"/", "/about", "/products"})
	require.Len(t, snippets, 1)
	assert.Equal(t, 3, hits)
	assert.Contains(t, snippets[0].TextExcerpt, "About Acme")
}

func TestFetchContent_AllPathsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	snippets := f.FetchContent(context.Background(), "example.com", []string{"/", "/about", "/products"})
	assert.Empty(t, snippets)
}

func TestFetchContent_InvalidDomainNoops(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	for _, d := range []string{"localhost", "192.168.1.5", "not-a-domain", ""} {
		assert.Nil(t, f.FetchContent(context.Background(), d, []string{"/"}), d)
	}
	assert.Zero(t, hits, "invalid domains must never reach the network")
}

func TestFetchContent_CapsAtThreePaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	f.FetchContent(context.Background(), "example.com", []string{"/", "/a", "/b", "/c", "/d"})
	assert.Equal(t, []string{"/", "/a", "/b"}, paths)
}

func TestFetchContent_SkipsThinPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>Too short.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	assert.Empty(t, f.FetchContent(context.Background(), "example.com", []string{"/"}))
}

func TestFetchContent_TruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("lorem ipsum dolor sit amet ", 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	snippets := f.FetchContent(context.Background(), "example.com", []string{"/"})
	require.Len(t, snippets, 1)
	assert.LessOrEqual(t, len([]rune(snippets[0].TextExcerpt)), maxExcerptChars+100,
		"excerpt stays near the cap (social suffix aside)")
}

func TestStripMarkup(t *testing.T) {
	in := `<div class="x"><b>Bold</b> &amp; <i>italic</i><!-- hidden --></div>`
	assert.Equal(t, "Bold & italic", StripMarkup(in))
}

func TestScanSocialLinks_CapsAtEight(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString(`<a href="https://twitter.com/user` + string(rune('a'+i)) + `">t</a>`)
	}
	links := ScanSocialLinks(b.String())
	assert.Len(t, links, 8)
}
