// Package extract recovers structured comment records from the noisy,
// inconsistently delimited text fragments a page scan produces. No
// platform exposes reliable structural markers, so classification is
// lexical: handle grammars, relative-time tokens, and a boilerplate
// blocklist.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/commentpilot/commentpilot/internal/types"
)

// MinBodyLen is the minimum cleaned body length for a comment to be kept.
const MinBodyLen = 5

var (
	urlRE        = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]*://\S+`)
	likeDupRE    = regexp.MustCompile(`(?i)\bLike\b\s*\bLike\b`)
	actionWordRE = regexp.MustCompile(`(?i)\b(Like|Reply|Edited)\b`)
	numRunRE     = regexp.MustCompile(`\b\d+(?:\s+\d+)+\b`)
	followDupRE  = regexp.MustCompile(`·\s*Follow\s*·?\s*Follow`)
	spaceRE      = regexp.MustCompile(`\s+`)
	anonRE       = regexp.MustCompile(`(?:Anonymous participant\s*\d*\s*)+`)
	relTimeRE    = regexp.MustCompile(`(?i)\b(\d+)\s*(m|h|d|w|y)\b`)
)

// CleanBody strips URLs, duplicated action words, duplicated reaction
// counts, and connector artifacts from an assembled comment body, then
// normalizes whitespace. The pipeline is run to a fixpoint so cleaning is
// idempotent: clean(clean(x)) == clean(x).
func CleanBody(s string) string {
	for {
		next := cleanBodyOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func cleanBodyOnce(s string) string {
	s = urlRE.ReplaceAllString(s, "")
	s = likeDupRE.ReplaceAllString(s, "")
	s = actionWordRE.ReplaceAllString(s, " ")
	s = numRunRE.ReplaceAllStringFunc(s, collapseDupCounts)
	s = followDupRE.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = spaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// collapseDupCounts removes adjacent duplicated numbers ("2 2") from a
// run of whitespace-separated counts, leftmost pair first. Both members
// of the pair go; duplicated reaction counts are pure UI residue.
func collapseDupCounts(run string) string {
	toks := strings.Fields(run)
	var out []string
	for i := 0; i < len(toks); {
		if i+1 < len(toks) && toks[i] == toks[i+1] {
			i += 2
			continue
		}
		out = append(out, toks[i])
		i++
	}
	return strings.Join(out, " ")
}

// CleanUsername reduces a raw author string to a short display name. The
// returned name is never empty: when nothing usable remains, fallback is
// returned instead.
func CleanUsername(raw, fallback string) string {
	s := anonRE.ReplaceAllString(raw, "Anonymous participant")
	s = strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
	if s == "" {
		return fallback
	}
	if strings.HasPrefix(s, "Anonymous participant") {
		return "Anonymous participant"
	}
	parts := strings.Fields(s)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, " ")
}

// HoursAgo converts a platform-displayed relative timestamp ("3h", "2 d",
// "45m") to hours. Nil when no relative-time token is present; parsing
// never fails loudly.
func HoursAgo(raw string) *float64 {
	m := relTimeRE.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	value := float64(n)
	var hours float64
	switch strings.ToLower(m[2]) {
	case "m":
		hours = value / 60
	case "h":
		hours = value
	case "d":
		hours = value * 24
	case "w":
		hours = value * 168
	case "y":
		hours = value * 8760
	}
	return &hours
}

// CanonicalTimeToken reduces a raw timestamp fragment to its compact
// "<n><unit>" form, e.g. "45 m" -> "45m". Empty when no token is found.
func CanonicalTimeToken(raw string) string {
	m := relTimeRE.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1] + strings.ToLower(m[2])
}

// assemble builds a Comment from classified parts, applying the cleaning
// pipeline and the minimum-body invariant. ok is false when the record
// must be discarded.
func assemble(postURL, author, body, timeRaw, fallbackName string, containerIndex int) (types.Comment, bool) {
	cleaned := CleanBody(body)
	if len(cleaned) < MinBodyLen {
		return types.Comment{}, false
	}
	name := CleanUsername(author, fallbackName)
	return types.Comment{
		PostURL:        postURL,
		Author:         name,
		Body:           cleaned,
		TimeRaw:        timeRaw,
		HoursAgo:       HoursAgo(timeRaw),
		ContainerIndex: containerIndex,
	}, true
}
