package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job represents a scheduled task
type Job func(ctx context.Context) error

// Scheduler manages recurring engagement runs.
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]cron.EntryID
	log  *logrus.Logger
}

// New creates a new scheduler in the local timezone.
func New(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.Local)),
		jobs: make(map[string]cron.EntryID),
		log:  log,
	}
}

// AddJob adds a job with a cron schedule
// schedule format: "0 7 * * *" (at 7:00 AM daily)
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		s.log.WithField("job", name).Info("starting scheduled run")
		start := time.Now()

		if err := job(ctx); err != nil {
			s.log.WithField("job", name).WithError(err).Error("scheduled run failed")
		} else {
			s.log.WithFields(logrus.Fields{
				"job":      name,
				"duration": time.Since(start).Round(time.Second),
			}).Info("scheduled run completed")
		}
	})

	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.log.WithFields(logrus.Fields{"job": name, "schedule": schedule}).Info("job scheduled")

	return nil
}

// AddEngagementJob schedules a recurring engagement run every intervalHours.
func (s *Scheduler) AddEngagementJob(intervalHours int, job Job) error {
	if intervalHours < 1 {
		return fmt.Errorf("interval must be at least 1 hour, got %d", intervalHours)
	}
	schedule := fmt.Sprintf("0 */%d * * *", intervalHours)
	return s.AddJob("engage", schedule, job)
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// ListJobs returns info about scheduled jobs
func (s *Scheduler) ListJobs() []JobInfo {
	entries := s.cron.Entries()
	infos := make([]JobInfo, 0, len(entries))

	for name, entryID := range s.jobs {
		for _, entry := range entries {
			if entry.ID == entryID {
				infos = append(infos, JobInfo{
					Name:    name,
					NextRun: entry.Next,
					LastRun: entry.Prev,
				})
				break
			}
		}
	}

	return infos
}

// JobInfo contains information about a scheduled job
type JobInfo struct {
	Name    string
	NextRun time.Time
	LastRun time.Time
}
