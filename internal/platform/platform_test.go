package platform

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commentpilot/commentpilot/internal/job"
)

func TestForKnowsEveryPlatform(t *testing.T) {
	for _, p := range []job.Platform{job.Facebook, job.Instagram, job.LinkedIn, job.Reddit, job.Twitter} {
		v, err := For(p)
		require.NoError(t, err, p)
		assert.Equal(t, p, v.Platform)
		assert.NotNil(t, v.Rules.Username, p)
		assert.NotNil(t, v.Rules.Timestamp, p)
		assert.NotNil(t, v.SearchQuery, p)
		assert.NotNil(t, v.AcceptLink, p)
		assert.NotNil(t, v.Fallback, p)
		assert.NotNil(t, v.Prompt, p)
		assert.NotEmpty(t, v.LoginURL, p)
		assert.Greater(t, v.MaxPosts, 0, p)
	}

	_, err := For(job.Platform("MYSPACE"))
	assert.Error(t, err)
}

func TestReplyDelayFloors(t *testing.T) {
	floors := map[job.Platform]time.Duration{
		job.Facebook:  30 * time.Second,
		job.Instagram: 40 * time.Second,
		job.LinkedIn:  45 * time.Second,
		job.Reddit:    45 * time.Second,
		job.Twitter:   60 * time.Second,
	}
	for p, floor := range floors {
		v, err := For(p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v.ReplyDelay, floor, p)
		assert.Greater(t, v.RecoveryDelay, time.Duration(0), p)
		assert.Less(t, v.RecoveryDelay, v.ReplyDelay, p)
	}
}

func TestSearchQueriesScopeToPlatform(t *testing.T) {
	scopes := map[job.Platform]string{
		job.Facebook:  "facebook.com",
		job.Instagram: "instagram.com",
		job.LinkedIn:  "linkedin.com",
		job.Reddit:    "reddit.com",
		job.Twitter:   "x.com",
	}
	for p, scope := range scopes {
		v, err := For(p)
		require.NoError(t, err)
		q := v.SearchQuery("specialty coffee")
		assert.Contains(t, q, scope, p)
		assert.Contains(t, q, "specialty coffee", p)
	}
}

func TestAcceptLinkFilters(t *testing.T) {
	t.Run("instagram", func(t *testing.T) {
		v, err := For(job.Instagram)
		require.NoError(t, err)
		assert.True(t, v.AcceptLink("https://www.instagram.com/p/abc123/"))
		assert.False(t, v.AcceptLink("https://www.instagram.com/someprofile/"))
	})

	t.Run("reddit", func(t *testing.T) {
		v, err := For(job.Reddit)
		require.NoError(t, err)
		assert.True(t, v.AcceptLink("https://www.reddit.com/r/coffee/comments/xyz/post_title/"))
		assert.False(t, v.AcceptLink("https://www.reddit.com/r/coffee/"))
	})
}

func TestExpandAffordances(t *testing.T) {
	// LinkedIn's load-more button has a stable class, so it is located by
	// selector alone; Facebook's has none and is found by label.
	li, err := For(job.LinkedIn)
	require.NoError(t, err)
	assert.NotEmpty(t, li.Selectors.ExpandSel)
	assert.Empty(t, li.Selectors.ExpandText)

	fb, err := For(job.Facebook)
	require.NoError(t, err)
	assert.NotEmpty(t, fb.Selectors.ExpandSel)
	assert.NotEmpty(t, fb.Selectors.ExpandText)
}

func TestFallbackMentionsAuthor(t *testing.T) {
	for _, v := range All() {
		text := v.Fallback("jane")
		assert.Contains(t, text, "jane", v.Platform)
	}
}

func TestPromptIncludesComment(t *testing.T) {
	for _, v := range All() {
		p := v.Prompt("jane", "love this post")
		assert.Contains(t, p, "jane", v.Platform)
		assert.Contains(t, p, "love this post", v.Platform)
		assert.False(t, strings.Contains(p, "%s"), v.Platform)
	}
}
