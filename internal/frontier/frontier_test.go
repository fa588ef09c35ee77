package frontier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "https://x.com/p/1", Canonicalize("https://x.com/p/1?utm_source=share"))
	assert.Equal(t, "https://x.com/p/1", Canonicalize("  https://x.com/p/1  "))
	assert.Equal(t, "", Canonicalize("   "))
}

func TestFrontierDeduplicates(t *testing.T) {
	f := New()

	assert.True(t, f.Add("https://x.com/p/1"))
	assert.False(t, f.Add("https://x.com/p/1?utm_source=share")) // same after canonicalization
	assert.True(t, f.Add("https://x.com/p/2"))
	assert.False(t, f.Add(""))

	assert.Equal(t, 2, f.Len())
	assert.Equal(t, []string{"https://x.com/p/1", "https://x.com/p/2"}, f.URLs())
}

func TestFrontierPreservesInsertionOrder(t *testing.T) {
	f := New()
	in := []string{"https://a/3", "https://a/1", "https://a/2"}
	for _, u := range in {
		f.Add(u)
	}
	assert.Equal(t, in, f.URLs())
}
