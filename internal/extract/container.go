package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/commentpilot/commentpilot/internal/types"
)

// metaLineRE matches "username • 2h" style metadata lines that container
// text dumps interleave with the comment body.
var metaLineRE = regexp.MustCompile(`^\S+\s*[•·]\s*\d+\s*[A-Za-z]+`)

// RawContainer is the unparsed data scanned out of one per-comment DOM
// container. Err carries any structural lookup failure reported by the
// page-side scan; such containers are counted and skipped, never fatal.
type RawContainer struct {
	Index   int    `json:"index"`
	Author  string `json:"author"`
	Body    string `json:"body"`
	TimeRaw string `json:"timeRaw"`
	Err     string `json:"err,omitempty"`
}

// ErrMalformed marks a container whose structural lookup failed.
var ErrMalformed = errors.New("malformed container")

// ErrBodyTooShort marks a container whose cleaned body is below MinBodyLen.
var ErrBodyTooShort = errors.New("comment body too short")

// FromContainer normalizes one raw container into a Comment. An empty
// author falls back to the rules' sentinel name rather than failing.
func FromContainer(rules Rules, postURL string, rc RawContainer) (types.Comment, error) {
	if rc.Err != "" {
		return types.Comment{}, fmt.Errorf("%w: %s", ErrMalformed, rc.Err)
	}
	timeRaw := CanonicalTimeToken(rc.TimeRaw)
	body := filterBodyLines(rules, rc.Author, rc.Body)
	c, ok := assemble(postURL, rc.Author, body, timeRaw, rules.FallbackName, rc.Index)
	if !ok {
		return types.Comment{}, ErrBodyTooShort
	}
	return c, nil
}

// filterBodyLines drops UI boilerplate, metadata, and timestamp-only
// lines from a container's text dump before body cleaning.
func filterBodyLines(rules Rules, author, body string) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		l := strings.TrimSpace(line)
		if l == "" || l == author {
			continue
		}
		if rules.IsNoise(l) || rules.IsTimestamp(l) || metaLineRE.MatchString(l) {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, " ")
}

// FromContainers filters a batch of raw containers to its parseable
// comments, returning the failure count alongside. One bad container
// never aborts the batch.
func FromContainers(rules Rules, postURL string, raw []RawContainer) (comments []types.Comment, failed int) {
	for _, rc := range raw {
		c, err := FromContainer(rules, postURL, rc)
		if err != nil {
			failed++
			continue
		}
		comments = append(comments, c)
	}
	return comments, failed
}
