package extract

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() Rules {
	return Rules{
		Username:     regexp.MustCompile(`^[A-Za-z0-9._]+$`),
		Timestamp:    regexp.MustCompile(`^(?i)\d+\s*[mhdwy]$`),
		ExtraNoise:   []string{"see translation"},
		FallbackName: "Unknown",
	}
}

func TestScanFragments(t *testing.T) {
	rules := testRules()

	t.Run("assembles username timestamp body sequences", func(t *testing.T) {
		frags := []string{
			"jane.doe", "7w", "This is a wonderful product, I use it daily",
			"bob_99", "3h", "Where can I buy one of these?",
		}
		got := ScanFragments(rules, "https://p", frags)
		require.Len(t, got, 2)

		assert.Equal(t, "jane.doe", got[0].Author)
		assert.Equal(t, "7w", got[0].TimeRaw)
		assert.Equal(t, "This is a wonderful product, I use it daily", got[0].Body)
		assert.Equal(t, "https://p", got[0].PostURL)

		assert.Equal(t, "bob_99", got[1].Author)
		assert.Equal(t, "3h", got[1].TimeRaw)
	})

	t.Run("discards username without timestamp", func(t *testing.T) {
		frags := []string{
			"orphan.handle", "some text that is not a timestamp",
			"jane.doe", "2d", "Actually a real comment here",
		}
		got := ScanFragments(rules, "https://p", frags)
		require.Len(t, got, 1)
		assert.Equal(t, "jane.doe", got[0].Author)
	})

	t.Run("drops noise fragments inside the body", func(t *testing.T) {
		frags := []string{
			"jane.doe", "1d",
			"Part one of the comment", "Reply", "42 likes", "see translation", "and part two",
		}
		got := ScanFragments(rules, "https://p", frags)
		require.Len(t, got, 1)
		assert.Equal(t, "Part one of the comment and part two", got[0].Body)
	})

	t.Run("skips bullet separators between username and timestamp", func(t *testing.T) {
		frags := []string{"jane.doe", "•", "5h", "A comment that survives the bullets"}
		got := ScanFragments(rules, "https://p", frags)
		require.Len(t, got, 1)
		assert.Equal(t, "5h", got[0].TimeRaw)
	})

	t.Run("discards bodies shorter than the minimum", func(t *testing.T) {
		frags := []string{"jane.doe", "2h", "ok"}
		got := ScanFragments(rules, "https://p", frags)
		assert.Empty(t, got)
	})

	t.Run("canonicalizes spaced timestamps", func(t *testing.T) {
		frags := []string{"jane.doe", "45 m", "A recent comment on the post"}
		got := ScanFragments(rules, "https://p", frags)
		require.Len(t, got, 1)
		assert.Equal(t, "45m", got[0].TimeRaw)
		require.NotNil(t, got[0].HoursAgo)
		assert.InDelta(t, 0.75, *got[0].HoursAgo, 1e-9)
	})

	t.Run("every emitted comment is complete", func(t *testing.T) {
		frags := []string{
			"©2024", "Like", "17", "jane.doe", "1w", "Great stuff as always friend",
			"noise without structure", "bob_99",
		}
		got := ScanFragments(rules, "https://p", frags)
		for _, c := range got {
			assert.NotEmpty(t, c.Author)
			assert.NotEmpty(t, c.TimeRaw)
			assert.GreaterOrEqual(t, len(c.Body), MinBodyLen)
		}
	})
}

func TestRulesClassifiers(t *testing.T) {
	rules := testRules()

	t.Run("noise", func(t *testing.T) {
		for _, frag := range []string{"Reply", "like", "42", "3 likes", "7 7", "© Meta", "see translation", "  "} {
			assert.True(t, rules.IsNoise(frag), "expected noise: %q", frag)
		}
		assert.False(t, rules.IsNoise("genuine comment text"))
		assert.False(t, rules.IsNoise("3 4"))
	})

	t.Run("username excludes boilerplate", func(t *testing.T) {
		assert.True(t, rules.IsUsername("jane.doe"))
		assert.False(t, rules.IsUsername("Reply"))
		assert.False(t, rules.IsUsername("two words"))
	})

	t.Run("timestamp", func(t *testing.T) {
		assert.True(t, rules.IsTimestamp("7w"))
		assert.True(t, rules.IsTimestamp("45 m"))
		assert.False(t, rules.IsTimestamp("week ago"))
	})
}
