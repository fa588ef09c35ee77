// Package app wires the full engagement pipeline: harvest post URLs,
// collect and normalize comments, then schedule replies, reporting
// progress on stdout throughout.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/commentpilot/commentpilot/internal/auth"
	"github.com/commentpilot/commentpilot/internal/collect"
	"github.com/commentpilot/commentpilot/internal/config"
	"github.com/commentpilot/commentpilot/internal/engage"
	"github.com/commentpilot/commentpilot/internal/frontier"
	"github.com/commentpilot/commentpilot/internal/job"
	"github.com/commentpilot/commentpilot/internal/platform"
	"github.com/commentpilot/commentpilot/internal/reply"
	"github.com/commentpilot/commentpilot/internal/report"
	"github.com/commentpilot/commentpilot/internal/session"
	"github.com/commentpilot/commentpilot/internal/store"
	"github.com/commentpilot/commentpilot/internal/types"
)

// maxReportedComments bounds the comment list embedded in the terminal
// result so stdout stays parseable for the caller.
const maxReportedComments = 100

// App runs engagement jobs end to end.
type App struct {
	cfg      *config.Config
	reporter *report.Reporter
	log      *logrus.Logger
}

// New creates an App.
func New(cfg *config.Config, reporter *report.Reporter, log *logrus.Logger) *App {
	return &App{cfg: cfg, reporter: reporter, log: log}
}

// Run executes one job. The terminal result line is always emitted, with
// success=false on fatal errors, and the browser session is closed before
// returning.
func (a *App) Run(ctx context.Context, j job.Job) error {
	startedAt := time.Now()

	res, err := a.run(ctx, j)
	if err != nil {
		a.log.WithError(err).Error("run failed")
		a.reporter.Fail(res.TotalComments, res.TotalReplies, err.Error())
	}

	a.archive(j, res, startedAt)

	if rerr := a.reporter.Result(res); rerr != nil {
		a.log.WithError(rerr).Error("failed to emit result")
	}
	return err
}

func (a *App) run(ctx context.Context, j job.Job) (types.RunResult, error) {
	res := types.RunResult{JobID: j.ID, Platform: strings.ToLower(string(j.Platform))}
	variant, err := platform.For(j.Platform)
	if err != nil {
		return res, err
	}
	log := a.log.WithFields(logrus.Fields{"job": j.ID, "platform": j.Platform})

	a.reporter.Progress(report.StatusRunning, 5, 0, 0, "Starting browser session")

	profileDir, err := a.cfg.ProfileDir()
	if err != nil {
		return res, fmt.Errorf("failed to resolve browser profile: %w", err)
	}

	sess, err := session.New(ctx, session.Options{
		Headless:   j.Headless,
		ProfileDir: profileDir,
	})
	if err != nil {
		return res, fmt.Errorf("failed to start browser session: %w", err)
	}
	defer sess.Close()

	a.restoreCookies(sess, variant, profileDir, log)

	// Phase 1: harvest candidate post URLs from search results.
	f := frontier.New()
	harvester := frontier.NewHarvester(sess, variant, a.reporter, log)
	if err := harvester.Harvest(ctx, j.Keyword, j.PageScanCount, f); err != nil {
		return res, fmt.Errorf("search harvesting failed: %w", err)
	}

	urls := f.URLs()
	if len(urls) > variant.MaxPosts {
		urls = urls[:variant.MaxPosts]
	}
	log.WithField("posts", len(urls)).Info("harvested post URLs")

	// Phase 2: collect comments from each post.
	collector := collect.New(sess, variant, log)
	var comments []types.Comment
	for i, u := range urls {
		got, failed, err := collector.Collect(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.WithField("url", u).WithError(err).Warn("skipping post")
		}
		if failed > 0 {
			log.WithFields(logrus.Fields{"url": u, "failed": failed}).Warn("some containers failed to parse")
		}
		comments = append(comments, got...)

		a.reporter.Progress(report.StatusRunning,
			30+(i+1)*40/len(urls),
			len(comments), 0,
			fmt.Sprintf("Found %d total comments", len(comments)),
		)
	}
	res.TotalComments = len(comments)
	res.Comments = comments
	if len(res.Comments) > maxReportedComments {
		res.Comments = res.Comments[:maxReportedComments]
	}
	a.reporter.Progress(report.StatusRunning, 70, len(comments), 0, "Comment collection complete")

	// Phase 3: schedule replies.
	gen := a.generator(j, log)
	poster := platform.NewPoster(sess, variant, log)
	outcome := engage.New(variant, gen, poster, a.reporter, log).Run(ctx, comments, j.ReplyLimit)

	res.TotalReplies = outcome.Successes
	res.Replies = outcome.Attempts
	res.Stats = stats(comments, outcome.Failures)
	res.Success = true

	a.reporter.Progress(report.StatusCompleted, 100, res.TotalComments, res.TotalReplies, "Done")
	return res, ctx.Err()
}

// restoreCookies loads any saved platform cookies into the session.
// Missing or stale cookies are not fatal; the persistent profile may
// still carry a valid login.
func (a *App) restoreCookies(sess *session.Session, v platform.Variant, profileDir string, log *logrus.Entry) {
	path, err := auth.CookieStorePath(v.Platform)
	if err != nil {
		return
	}
	manager := auth.NewManager(v, auth.NewCookieStore(path), profileDir)
	if !manager.IsAuthenticated() {
		return
	}
	cookies, err := manager.GetCookies()
	if err != nil {
		log.WithError(err).Warn("failed to load saved cookies")
		return
	}
	if err := sess.SetCookies(cookies); err != nil {
		log.WithError(err).Warn("failed to restore saved cookies")
		return
	}
	log.WithField("cookies", len(cookies)).Debug("restored saved cookies")
}

// generator builds the LLM reply generator, or nil when no API key is
// configured so the engage scheduler falls back to static templates.
func (a *App) generator(j job.Job, log *logrus.Entry) reply.Generator {
	if j.APIKey == "" {
		log.Info("no API key configured, using template replies")
		return nil
	}
	gen, err := reply.NewGroqGenerator(j.APIKey, a.cfg.LLM.BaseURL, a.cfg.LLM.Model)
	if err != nil {
		log.WithError(err).Warn("failed to initialize reply generator, using template replies")
		return nil
	}
	return gen
}

// archive saves the finished run to the local database. Failures are
// logged and ignored; the archive never affects the result.
func (a *App) archive(j job.Job, res types.RunResult, startedAt time.Time) {
	if !a.cfg.Archive.Enabled {
		return
	}
	dbPath, err := a.cfg.ArchivePath()
	if err != nil {
		a.log.WithError(err).Warn("failed to resolve archive path")
		return
	}
	s, err := store.Open(dbPath)
	if err != nil {
		a.log.WithError(err).Warn("failed to open run archive")
		return
	}
	defer s.Close()

	if err := s.SaveRun(j, res, startedAt); err != nil {
		a.log.WithError(err).Warn("failed to archive run")
	}
}

func stats(comments []types.Comment, failedReplies int) *types.Stats {
	st := &types.Stats{Failed: failedReplies}
	for _, c := range comments {
		if c.HoursAgo == nil {
			continue
		}
		if *c.HoursAgo <= 1 {
			st.Last1h++
		}
		if *c.HoursAgo <= 24 {
			st.Last24h++
		}
	}
	return st
}
