// Package job defines the immutable per-run engagement job value that is
// threaded through every pipeline component.
package job

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Platform identifies which site variant a run targets.
type Platform string

const (
	Facebook  Platform = "FACEBOOK"
	Instagram Platform = "INSTAGRAM"
	LinkedIn  Platform = "LINKEDIN"
	Reddit    Platform = "REDDIT"
	Twitter   Platform = "TWITTER"
)

// ParsePlatform maps a user-supplied platform name to its enum value.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FACEBOOK", "FB":
		return Facebook, nil
	case "INSTAGRAM", "IG":
		return Instagram, nil
	case "LINKEDIN":
		return LinkedIn, nil
	case "REDDIT":
		return Reddit, nil
	case "TWITTER", "X":
		return Twitter, nil
	default:
		return "", fmt.Errorf("unknown platform: %q", s)
	}
}

// Job holds the parameters of one engagement run. Immutable for the
// lifetime of the run.
type Job struct {
	ID            string
	Keyword       string
	ReplyLimit    int
	PageScanCount int
	Platform      Platform
	Headless      bool
	APIKey        string
}

// New validates the parameters and assigns a generated ID when the caller
// supplied none.
func New(id, keyword string, replyLimit, pageScanCount int, platform Platform, headless bool, apiKey string) (Job, error) {
	if strings.TrimSpace(keyword) == "" {
		return Job{}, fmt.Errorf("keyword must not be empty")
	}
	if replyLimit < 0 {
		return Job{}, fmt.Errorf("reply limit must be >= 0, got %d", replyLimit)
	}
	if pageScanCount < 0 {
		return Job{}, fmt.Errorf("page scan count must be >= 0, got %d", pageScanCount)
	}
	switch platform {
	case Facebook, Instagram, LinkedIn, Reddit, Twitter:
	default:
		return Job{}, fmt.Errorf("unknown platform: %q", platform)
	}
	if id == "" {
		id = uuid.NewString()
	}
	return Job{
		ID:            id,
		Keyword:       strings.TrimSpace(keyword),
		ReplyLimit:    replyLimit,
		PageScanCount: pageScanCount,
		Platform:      platform,
		Headless:      headless,
		APIKey:        apiKey,
	}, nil
}
