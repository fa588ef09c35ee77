// Package frontier collects candidate post URLs from search-engine
// results: a canonicalized, deduplicated set that the extraction stage
// consumes as a finite input sequence.
package frontier

import "strings"

// Canonicalize strips the query string (everything from '?') and
// surrounding whitespace from a harvested href.
func Canonicalize(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	return href
}

// Frontier is a set of canonical post URLs. Insertion order is preserved
// so runs process posts deterministically.
type Frontier struct {
	seen map[string]struct{}
	urls []string
}

// New creates an empty frontier.
func New() *Frontier {
	return &Frontier{seen: make(map[string]struct{})}
}

// Add canonicalizes and inserts a URL, reporting whether it was new.
func (f *Frontier) Add(href string) bool {
	u := Canonicalize(href)
	if u == "" {
		return false
	}
	if _, dup := f.seen[u]; dup {
		return false
	}
	f.seen[u] = struct{}{}
	f.urls = append(f.urls, u)
	return true
}

// URLs returns the collected URLs in insertion order.
func (f *Frontier) URLs() []string {
	return f.urls
}

// Len returns the number of distinct URLs collected.
func (f *Frontier) Len() int {
	return len(f.urls)
}
