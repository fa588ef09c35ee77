package engage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commentpilot/commentpilot/internal/platform"
	"github.com/commentpilot/commentpilot/internal/report"
	"github.com/commentpilot/commentpilot/internal/types"
)

type fakeGenerator struct {
	text string
	err  error
}

func (g *fakeGenerator) Reply(ctx context.Context, prompt string) (string, error) {
	return g.text, g.err
}

type fakePoster struct {
	posted []string
	fail   map[string]bool
}

func (p *fakePoster) Post(ctx context.Context, c types.Comment, text string) error {
	p.posted = append(p.posted, c.Author)
	if p.fail[c.Author] {
		return errors.New("editor not found")
	}
	return nil
}

func testVariant() platform.Variant {
	return platform.Variant{
		ReplyDelay:    time.Millisecond,
		RecoveryDelay: time.Millisecond,
		Fallback:      func(author string) string { return "Thanks, " + author + "!" },
		Prompt: func(author, comment string) string {
			return fmt.Sprintf("reply to %s: %s", author, comment)
		},
	}
}

func newTestScheduler(v platform.Variant, gen *fakeGenerator, poster *fakePoster) *Scheduler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := New(v, nil, poster, report.New(io.Discard), log.WithField("test", true))
	if gen != nil {
		s.gen = gen
	}
	return s
}

func comment(author string) types.Comment {
	return types.Comment{Author: author, Body: "some comment body", PostURL: "https://p"}
}

func TestRunStopsAtLimit(t *testing.T) {
	poster := &fakePoster{}
	s := newTestScheduler(testVariant(), nil, poster)

	comments := []types.Comment{comment("a"), comment("b"), comment("c"), comment("d")}
	out := s.Run(context.Background(), comments, 2)

	assert.Equal(t, 2, out.Successes)
	assert.Equal(t, 0, out.Failures)
	assert.Len(t, out.Attempts, 2)
	assert.Equal(t, []string{"a", "b"}, poster.posted)
}

func TestRunDeduplicatesAuthors(t *testing.T) {
	poster := &fakePoster{}
	s := newTestScheduler(testVariant(), nil, poster)

	comments := []types.Comment{comment("a"), comment("a"), comment("b")}
	out := s.Run(context.Background(), comments, 5)

	require.Len(t, out.Attempts, 2)
	assert.Equal(t, "a", out.Attempts[0].Username)
	assert.Equal(t, "b", out.Attempts[1].Username)
	assert.Equal(t, []string{"a", "b"}, poster.posted)
}

func TestRunRecordsFailuresAndContinues(t *testing.T) {
	poster := &fakePoster{fail: map[string]bool{"a": true}}
	s := newTestScheduler(testVariant(), nil, poster)

	comments := []types.Comment{comment("a"), comment("b")}
	out := s.Run(context.Background(), comments, 5)

	require.Len(t, out.Attempts, 2)
	assert.False(t, out.Attempts[0].Success)
	assert.True(t, out.Attempts[1].Success)
	assert.Equal(t, 1, out.Successes)
	assert.Equal(t, 1, out.Failures)
}

func TestRunFailedAuthorStaysEligible(t *testing.T) {
	poster := &fakePoster{fail: map[string]bool{"a": true}}
	s := newTestScheduler(testVariant(), nil, poster)

	// The first attempt on "a" fails, so a later comment by "a" is
	// attempted again rather than skipped.
	comments := []types.Comment{comment("a"), comment("a")}
	out := s.Run(context.Background(), comments, 5)

	assert.Equal(t, []string{"a", "a"}, poster.posted)
	assert.Len(t, out.Attempts, 2)
}

func TestGenerateFallsBackOnError(t *testing.T) {
	poster := &fakePoster{}
	gen := &fakeGenerator{err: errors.New("service unavailable")}
	s := newTestScheduler(testVariant(), gen, poster)

	out := s.Run(context.Background(), []types.Comment{comment("a")}, 1)

	require.Len(t, out.Attempts, 1)
	assert.Equal(t, "Thanks, a!", out.Attempts[0].ReplyText)
	assert.True(t, out.Attempts[0].Success)
}

func TestGenerateUsesServiceText(t *testing.T) {
	poster := &fakePoster{}
	gen := &fakeGenerator{text: "What a lovely comment."}
	s := newTestScheduler(testVariant(), gen, poster)

	out := s.Run(context.Background(), []types.Comment{comment("a")}, 1)

	require.Len(t, out.Attempts, 1)
	assert.Equal(t, "What a lovely comment.", out.Attempts[0].ReplyText)
}

func TestRunZeroLimit(t *testing.T) {
	poster := &fakePoster{}
	s := newTestScheduler(testVariant(), nil, poster)

	out := s.Run(context.Background(), []types.Comment{comment("a")}, 0)

	assert.Empty(t, out.Attempts)
	assert.Empty(t, poster.posted)
}
