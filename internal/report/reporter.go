// Package report implements the line-oriented progress protocol the
// calling process consumes: marker-prefixed JSON progress events on
// stdout, then exactly one terminal result object.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/commentpilot/commentpilot/internal/types"
)

// Marker prefixes every progress line so the caller can split progress
// events from ordinary output.
const Marker = "PROGRESS:"

// Status is the coarse phase of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSearching Status = "searching"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Event is one progress line.
type Event struct {
	Status        Status `json:"status"`
	Progress      int    `json:"progress"`
	TotalComments int    `json:"totalComments"`
	TotalReplies  int    `json:"totalReplies"`
	Message       string `json:"message"`
}

// Reporter emits progress events and the terminal result. Progress values
// are clamped so the emitted sequence is monotonically non-decreasing
// even when callers report out of order.
type Reporter struct {
	w    io.Writer
	last int
}

// New creates a reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Progress emits one progress event. Values below the previous progress
// are raised to it; values above 100 are capped.
func (r *Reporter) Progress(status Status, progress, totalComments, totalReplies int, message string) {
	if progress < r.last {
		progress = r.last
	}
	if progress > 100 {
		progress = 100
	}
	r.last = progress

	data, err := json.Marshal(Event{
		Status:        status,
		Progress:      progress,
		TotalComments: totalComments,
		TotalReplies:  totalReplies,
		Message:       message,
	})
	if err != nil {
		return
	}
	fmt.Fprintf(r.w, "%s%s\n", Marker, data)
}

// Result emits the single terminal result object on its own line. Nil
// comment and reply lists are emitted as empty arrays, never null, so
// the caller can index them unconditionally.
func (r *Reporter) Result(res types.RunResult) error {
	if res.Comments == nil {
		res.Comments = []types.Comment{}
	}
	if res.Replies == nil {
		res.Replies = []types.ReplyAttempt{}
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}
	_, err = fmt.Fprintf(r.w, "%s\n", data)
	return err
}

// Fail emits the failure progress event for a fatal error. The progress
// value holds at its last reported level so the sequence stays
// non-decreasing.
func (r *Reporter) Fail(totalComments, totalReplies int, message string) {
	r.Progress(StatusFailed, r.last, totalComments, totalReplies, message)
}
