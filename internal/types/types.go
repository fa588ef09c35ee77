package types

// Comment is one normalized comment recovered from a post's thread.
// Comments are immutable after normalization; the scheduler references
// them by value.
type Comment struct {
	PostURL string `json:"post_url"`
	Author  string `json:"username"`
	Body    string `json:"comment"`
	TimeRaw string `json:"time,omitempty"`

	// HoursAgo is the normalized age derived from TimeRaw. Nil when the
	// platform showed no parseable relative timestamp; such comments are
	// excluded from the recency stats but kept in the comment list.
	HoursAgo *float64 `json:"-"`

	// ContainerIndex records the DOM position of the comment's container
	// at extraction time so the reply step can re-locate it without
	// matching by author text. -1 for fragment-stream platforms.
	ContainerIndex int `json:"-"`
}

// ReplyAttempt records one dispatched reply, successful or not. At most
// one entry per distinct author carries Success=true in a run.
type ReplyAttempt struct {
	Username  string `json:"username"`
	ReplyText string `json:"reply_text"`
	Success   bool   `json:"success"`
}

// Stats holds recency counts and the failed-reply tally for a run.
type Stats struct {
	Last1h  int `json:"last_1h"`
	Last24h int `json:"last_24h"`
	Failed  int `json:"failed"`
}

// RunResult is the single terminal object emitted when a run ends. It is
// produced once by the orchestration root and never mutated afterwards.
type RunResult struct {
	Success       bool           `json:"success"`
	JobID         string         `json:"jobId,omitempty"`
	Platform      string         `json:"platform"`
	TotalComments int            `json:"totalComments"`
	TotalReplies  int            `json:"totalReplies"`
	Comments      []Comment      `json:"comments"`
	Replies       []ReplyAttempt `json:"replies"`
	Stats         *Stats         `json:"stats,omitempty"`
}
