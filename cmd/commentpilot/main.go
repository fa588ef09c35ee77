// Command commentpilot runs one engagement job: it searches for posts
// matching a keyword, collects their comment threads, and posts rate
// limited replies, emitting progress events and a final JSON result on
// stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/commentpilot/commentpilot/internal/app"
	"github.com/commentpilot/commentpilot/internal/config"
	"github.com/commentpilot/commentpilot/internal/job"
	"github.com/commentpilot/commentpilot/internal/logging"
	"github.com/commentpilot/commentpilot/internal/report"
	"github.com/commentpilot/commentpilot/internal/scheduler"
)

func main() {
	// .env is optional; flags and real env vars win.
	_ = godotenv.Load()

	var (
		keyword    = flag.String("keyword", "", "search keyword (required)")
		platformID = flag.String("platform", "", "target platform: facebook, instagram, linkedin, reddit or twitter (required)")
		replyLimit = flag.Int("reply-limit", 5, "maximum successful replies per run")
		pages      = flag.Int("pages", 1, "number of search result pages to scan")
		headless   = flag.Bool("headless", true, "run the browser headless")
		jobID      = flag.String("job-id", "", "external job identifier (optional, generated when empty)")
		apiKey     = flag.String("api-key", "", "LLM API key (defaults to GROQ_API_KEY)")
		every      = flag.Int("every", 0, "repeat the run every N hours instead of running once")
	)
	flag.Parse()

	log := logging.New()

	key := *apiKey
	if key == "" {
		key = os.Getenv("GROQ_API_KEY")
	}

	p, err := job.ParsePlatform(*platformID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid job: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	j, err := job.New(*jobID, *keyword, *replyLimit, *pages, p, *headless, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid job: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		if os.IsNotExist(err) {
			// First run - create default config
			cfg = config.Default()
			if err := cfg.Save(); err != nil {
				log.WithError(err).Warn("could not save default config")
			} else {
				path, _ := config.ConfigPath()
				log.WithField("path", path).Info("created default config")
			}
		} else {
			log.WithError(err).Warn("could not load config, using defaults")
			cfg = config.Default()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, report.New(os.Stdout), log)

	if *every > 0 {
		runRecurring(ctx, a, j, *every, log)
		return
	}

	if err := a.Run(ctx, j); err != nil {
		os.Exit(1)
	}
}

// runRecurring executes the job immediately, then again on a fixed cron
// interval until interrupted.
func runRecurring(ctx context.Context, a *app.App, j job.Job, hours int, log *logrus.Logger) {
	sched := scheduler.New(log)
	err := sched.AddEngagementJob(hours, func(ctx context.Context) error {
		return a.Run(ctx, j)
	})
	if err != nil {
		log.Fatalf("failed to schedule job: %v", err)
	}

	// Run once up front so the first engagement does not wait for the
	// next cron tick.
	_ = a.Run(ctx, j)

	sched.Start()
	for _, info := range sched.ListJobs() {
		log.WithFields(logrus.Fields{
			"job":      info.Name,
			"next_run": info.NextRun.Format(time.RFC3339),
		}).Info("next scheduled run")
	}
	<-ctx.Done()
	<-sched.Stop().Done()
}
