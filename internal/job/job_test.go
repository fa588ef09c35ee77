package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	cases := map[string]Platform{
		"facebook":  Facebook,
		"FB":        Facebook,
		"Instagram": Instagram,
		"ig":        Instagram,
		"linkedin":  LinkedIn,
		"reddit":    Reddit,
		"twitter":   Twitter,
		"x":         Twitter,
		" TWITTER ": Twitter,
	}
	for in, want := range cases {
		got, err := ParsePlatform(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParsePlatform("myspace")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Run("generates an ID when empty", func(t *testing.T) {
		j, err := New("", "coffee", 5, 1, Instagram, true, "")
		require.NoError(t, err)
		assert.NotEmpty(t, j.ID)
	})

	t.Run("keeps a caller-supplied ID", func(t *testing.T) {
		j, err := New("job-7", "coffee", 5, 1, Instagram, true, "")
		require.NoError(t, err)
		assert.Equal(t, "job-7", j.ID)
	})

	t.Run("trims the keyword", func(t *testing.T) {
		j, err := New("", "  coffee  ", 5, 1, Reddit, true, "")
		require.NoError(t, err)
		assert.Equal(t, "coffee", j.Keyword)
	})

	t.Run("rejects empty keyword", func(t *testing.T) {
		_, err := New("", "   ", 5, 1, Instagram, true, "")
		assert.Error(t, err)
	})

	t.Run("rejects negative limits", func(t *testing.T) {
		_, err := New("", "coffee", -1, 1, Instagram, true, "")
		assert.Error(t, err)
		_, err = New("", "coffee", 5, -1, Instagram, true, "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown platform", func(t *testing.T) {
		_, err := New("", "coffee", 5, 1, Platform("MYSPACE"), true, "")
		assert.Error(t, err)
	})
}
