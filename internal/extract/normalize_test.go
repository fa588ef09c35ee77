package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanBody(t *testing.T) {
	t.Run("strips URLs", func(t *testing.T) {
		got := CleanBody("check this out https://example.com/post?x=1 amazing")
		assert.Equal(t, "check this out amazing", got)
	})

	t.Run("strips duplicated action words", func(t *testing.T) {
		got := CleanBody("Great product Like Like")
		assert.Equal(t, "Great product", got)
	})

	t.Run("strips standalone action words", func(t *testing.T) {
		got := CleanBody("Totally agree with this Reply")
		assert.Equal(t, "Totally agree with this", got)
	})

	t.Run("removes duplicated reaction counts entirely", func(t *testing.T) {
		got := CleanBody("nice photo 12 12")
		assert.Equal(t, "nice photo", got)
	})

	t.Run("removes nested duplicate counts via fixpoint", func(t *testing.T) {
		// "2 2" disappears first, then the surrounding "1 1" pair.
		assert.Equal(t, "", CleanBody("1 2 2 1"))
		assert.Equal(t, "3", CleanBody("3 4 4"))
	})

	t.Run("keeps genuine numbers", func(t *testing.T) {
		got := CleanBody("ordered 2 bags and 3 mugs")
		assert.Equal(t, "ordered 2 bags and 3 mugs", got)
	})

	t.Run("collapses duplicated Follow connectors", func(t *testing.T) {
		got := CleanBody("love it · Follow · Follow")
		assert.Equal(t, "love it", got)
	})

	t.Run("flattens newlines and runs of space", func(t *testing.T) {
		got := CleanBody("first line\nsecond   line")
		assert.Equal(t, "first line second line", got)
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{
			"check https://a.io Like Like 3 3 hello\nworld",
			"Edited something 1 2 2 1",
			"plain text stays plain",
		}
		for _, in := range inputs {
			once := CleanBody(in)
			assert.Equal(t, once, CleanBody(once), "input %q", in)
		}
	})
}

func TestCleanUsername(t *testing.T) {
	t.Run("collapses repeated anonymous markers", func(t *testing.T) {
		got := CleanUsername("Anonymous participant Anonymous participant 2", "Unknown")
		assert.Equal(t, "Anonymous participant", got)
	})

	t.Run("keeps at most three words", func(t *testing.T) {
		got := CleanUsername("Jane Q Public Esq III", "Unknown")
		assert.Equal(t, "Jane Q Public", got)
	})

	t.Run("falls back when empty", func(t *testing.T) {
		got := CleanUsername("   ", "Unknown")
		assert.Equal(t, "Unknown", got)
	})
}

func TestHoursAgo(t *testing.T) {
	cases := []struct {
		raw   string
		hours float64
	}{
		{"45m", 0.75},
		{"3h", 3},
		{"2d", 48},
		{"1w", 168},
		{"1y", 8760},
		{"posted 5 h ago", 5},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := HoursAgo(tc.raw)
			require.NotNil(t, got)
			assert.InDelta(t, tc.hours, *got, 1e-9)
		})
	}

	t.Run("nil when no token", func(t *testing.T) {
		assert.Nil(t, HoursAgo("yesterday"))
		assert.Nil(t, HoursAgo(""))
	})
}

func TestCanonicalTimeToken(t *testing.T) {
	assert.Equal(t, "45m", CanonicalTimeToken("45 m"))
	assert.Equal(t, "7w", CanonicalTimeToken("7w"))
	assert.Equal(t, "3h", CanonicalTimeToken("3H"))
	assert.Equal(t, "", CanonicalTimeToken("just now"))
}

func TestAssemble(t *testing.T) {
	t.Run("discards short bodies", func(t *testing.T) {
		_, ok := assemble("https://p", "alice", "hey", "3h", "Unknown", -1)
		assert.False(t, ok)
	})

	t.Run("builds a full record", func(t *testing.T) {
		c, ok := assemble("https://p", "alice", "really love this one", "3h", "Unknown", 4)
		require.True(t, ok)
		assert.Equal(t, "alice", c.Author)
		assert.Equal(t, "really love this one", c.Body)
		assert.Equal(t, "3h", c.TimeRaw)
		require.NotNil(t, c.HoursAgo)
		assert.InDelta(t, 3, *c.HoursAgo, 1e-9)
		assert.Equal(t, 4, c.ContainerIndex)
	})
}
