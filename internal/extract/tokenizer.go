package extract

import (
	"regexp"
	"strings"

	"github.com/commentpilot/commentpilot/internal/types"
)

// Rules holds the platform-specific lexical classifiers for fragment
// streams. Username and Timestamp must both be set for ScanFragments.
type Rules struct {
	// Username matches the platform's handle grammar.
	Username *regexp.Regexp
	// Timestamp matches an isolated relative-time fragment ("7w", "45 m").
	Timestamp *regexp.Regexp
	// ExtraNoise extends the shared boilerplate blocklist with
	// platform-specific entries (lowercase exact matches).
	ExtraNoise []string
	// FallbackName is used when author cleanup yields nothing.
	FallbackName string
}

// baseNoise is UI boilerplate common to every platform.
var baseNoise = map[string]struct{}{
	"reply":    {},
	"like":     {},
	"likes":    {},
	"share":    {},
	"follow":   {},
	"view all": {},
	"save":     {},
	"report":   {},
	"award":    {},
	"upvote":   {},
	"downvote": {},
}

var (
	digitsOnlyRE = regexp.MustCompile(`^\d+$`)
	likeCountRE  = regexp.MustCompile(`^\d+\s+likes?$`)
	dupCountRE   = regexp.MustCompile(`^(\d+)\s+(\d+)$`)
)

// IsNoise reports whether a fragment is UI boilerplate rather than
// comment content.
func (r Rules) IsNoise(frag string) bool {
	s := strings.TrimSpace(frag)
	if s == "" {
		return true
	}
	l := strings.ToLower(s)
	if _, ok := baseNoise[l]; ok {
		return true
	}
	for _, extra := range r.ExtraNoise {
		if l == extra {
			return true
		}
	}
	if strings.HasPrefix(s, "©") {
		return true
	}
	if digitsOnlyRE.MatchString(s) || likeCountRE.MatchString(l) {
		return true
	}
	if m := dupCountRE.FindStringSubmatch(s); m != nil && m[1] == m[2] {
		return true
	}
	return false
}

// IsUsername reports whether a fragment matches the handle grammar and is
// not boilerplate.
func (r Rules) IsUsername(frag string) bool {
	s := strings.TrimSpace(frag)
	return s != "" && r.Username.MatchString(s) && !r.IsNoise(s)
}

// IsTimestamp reports whether a fragment is an isolated relative-time
// token.
func (r Rules) IsTimestamp(frag string) bool {
	return r.Timestamp.MatchString(strings.TrimSpace(frag))
}

func isBullet(frag string) bool {
	s := strings.TrimSpace(frag)
	return s == "" || s == "•" || s == "·"
}

// ScanFragments runs a single left-to-right pass over a fragment stream,
// assembling comments from (username, timestamp, body...) sequences. A
// username with no immediately following timestamp is abandoned without
// emitting a partial record; scanning resumes at the fragment that failed
// the timestamp test. Noise fragments between body lines are dropped.
// Every emitted comment has a non-empty author, a timestamp, and a
// cleaned body of at least MinBodyLen characters.
func ScanFragments(rules Rules, postURL string, frags []string) []types.Comment {
	var out []types.Comment
	i := 0
	for i < len(frags) {
		if !rules.IsUsername(frags[i]) {
			i++
			continue
		}
		author := strings.TrimSpace(frags[i])
		i++

		for i < len(frags) && isBullet(frags[i]) {
			i++
		}

		if i >= len(frags) || !rules.IsTimestamp(frags[i]) {
			// No timestamp right after the candidate: discard it and
			// rescan from the current fragment.
			continue
		}
		timeRaw := CanonicalTimeToken(frags[i])
		i++

		var body []string
		for i < len(frags) {
			f := strings.TrimSpace(frags[i])
			if rules.IsUsername(f) || rules.IsTimestamp(f) {
				break // boundary of the next comment
			}
			if rules.IsNoise(f) {
				i++
				continue
			}
			body = append(body, f)
			i++
		}

		if c, ok := assemble(postURL, author, strings.Join(body, " "), timeRaw, rules.FallbackName, -1); ok {
			out = append(out, c)
		}
	}
	return out
}
