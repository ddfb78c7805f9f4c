// Package domains validates and normalizes caller-supplied hostnames before
// any network call touches them. This is the sole SSRF barrier in front of
// the website fetcher: loopback, private, and link-local targets are rejected
// here, not at the transport layer.
package domains

import "strings"

// privatePrefixes match loopback, RFC1918, link-local, and the zero network.
var privatePrefixes = []string{
	"localhost",
	"10.",
	"192.168.",
	"169.254.",
	"0.",
}

// Normalize strips scheme, "www." and any path/query from a raw domain value
// and lower-cases the remainder. It performs no validation.
func Normalize(raw string) string {
	d := strings.TrimSpace(strings.ToLower(raw))
	for _, scheme := range []string{"https://", "http://"} {
		d = strings.TrimPrefix(d, scheme)
	}
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	return d
}

// IsValid reports whether raw normalizes to a hostname that is safe to fetch.
// Pure function: no side effects, no DNS, no network.
func IsValid(raw string) bool {
	d := Normalize(raw)
	if d == "" || len(d) < 4 {
		return false
	}
	if !strings.Contains(d, ".") {
		return false
	}
	for _, p := range privatePrefixes {
		if strings.HasPrefix(d, p) {
			return false
		}
	}
	// 172.16.0.0/12
	if strings.HasPrefix(d, "172.") {
		rest := strings.TrimPrefix(d, "172.")
		if i := strings.Index(rest, "."); i > 0 {
			if n, ok := atoi(rest[:i]); ok && n >= 16 && n <= 31 {
				return false
			}
		}
	}
	if isIPv4Literal(d) {
		return false
	}
	for _, r := range d {
		if !isAlnum(r) && r != '.' && r != '-' {
			return false
		}
	}
	if !isAlnum(rune(d[0])) || !isAlnum(rune(d[len(d)-1])) {
		return false
	}
	return true
}

// isIPv4Literal reports whether d is a dotted-quad IPv4 address.
func isIPv4Literal(d string) bool {
	parts := strings.Split(d, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		n, ok := atoi(p)
		if !ok || n > 255 {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// atoi parses a small non-negative decimal without pulling in strconv error
// values for the common non-numeric case.
func atoi(s string) (int, bool) {
	if s == "" || len(s) > 3 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
