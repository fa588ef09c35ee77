// Package engage turns a normalized comment list into a bounded,
// deduplicated, strictly paced sequence of reply attempts. Processing is
// single-pass and sequential; per-candidate failures never abort the run.
package engage

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/commentpilot/commentpilot/internal/platform"
	"github.com/commentpilot/commentpilot/internal/reply"
	"github.com/commentpilot/commentpilot/internal/report"
	"github.com/commentpilot/commentpilot/internal/types"
)

// Poster dispatches one reply through the platform UI.
type Poster interface {
	Post(ctx context.Context, c types.Comment, text string) error
}

// Outcome aggregates what one scheduler pass produced.
type Outcome struct {
	Attempts  []types.ReplyAttempt
	Successes int
	Failures  int
}

// Scheduler walks the comment list in collection order, replying to at
// most one comment per distinct author and at most limit comments
// overall, with a fixed pacing floor between successful posts.
type Scheduler struct {
	variant  platform.Variant
	gen      reply.Generator
	poster   Poster
	reporter *report.Reporter
	log      *logrus.Entry

	// limiter enforces the per-platform reply delay floor. The interval
	// is fixed by the variant and deliberately not configurable.
	limiter *rate.Limiter
	// sleep is swappable in tests; the failure recovery delay goes
	// through it.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a scheduler for one run.
func New(v platform.Variant, gen reply.Generator, poster Poster, reporter *report.Reporter, log *logrus.Entry) *Scheduler {
	limiter := rate.NewLimiter(rate.Every(v.ReplyDelay), 1)
	// Drain the initial token so the first post-success wait still honors
	// the full delay floor.
	limiter.Allow()
	return &Scheduler{
		variant:  v,
		gen:      gen,
		poster:   poster,
		reporter: reporter,
		log:      log,
		limiter:  limiter,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Run processes candidates until limit successes or the list is
// exhausted. Every attempted candidate is appended exactly once to the
// outcome; duplicate-author candidates are skipped without an entry.
func (s *Scheduler) Run(ctx context.Context, comments []types.Comment, limit int) Outcome {
	var out Outcome
	replied := make(map[string]struct{})

	for _, c := range comments {
		if out.Successes >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			break
		}
		if _, done := replied[c.Author]; done {
			continue
		}

		text := s.generate(ctx, c)
		err := s.poster.Post(ctx, c, text)
		success := err == nil

		out.Attempts = append(out.Attempts, types.ReplyAttempt{
			Username:  c.Author,
			ReplyText: text,
			Success:   success,
		})

		if success {
			replied[c.Author] = struct{}{}
			out.Successes++
			s.log.WithField("author", c.Author).Info("Reply posted")
			s.reporter.Progress(report.StatusRunning,
				70+out.Successes*30/max(limit, 1),
				len(comments), out.Successes,
				"Engaged with "+c.Author)
			// The limiter holds the line on the reply delay floor before
			// the next candidate is evaluated.
			if err := s.limiter.Wait(ctx); err != nil {
				break
			}
		} else {
			out.Failures++
			s.log.WithField("author", c.Author).WithError(err).Warn("Reply failed")
			s.sleep(ctx, s.variant.RecoveryDelay)
		}
	}
	return out
}

// generate asks the text-generation service for a reply and substitutes
// the platform's static template on any failure. Never raises past this
// boundary.
func (s *Scheduler) generate(ctx context.Context, c types.Comment) string {
	if s.gen == nil {
		return s.variant.Fallback(c.Author)
	}
	text, err := s.gen.Reply(ctx, s.variant.Prompt(c.Author, c.Body))
	if err != nil {
		s.log.WithError(err).Debug("Generation failed, using fallback reply")
		return s.variant.Fallback(c.Author)
	}
	return text
}
