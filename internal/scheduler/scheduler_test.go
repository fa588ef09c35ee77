package scheduler

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *Scheduler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log)
}

func TestAddEngagementJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddEngagementJob(6, func(ctx context.Context) error { return nil }))

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	assert.Equal(t, "engage", infos[0].Name)
}

func TestAddEngagementJobRejectsBadInterval(t *testing.T) {
	s := newTestScheduler()

	assert.Error(t, s.AddEngagementJob(0, func(ctx context.Context) error { return nil }))
	assert.Error(t, s.AddEngagementJob(-3, func(ctx context.Context) error { return nil }))
	assert.Empty(t, s.ListJobs())
}

func TestListJobsAfterStart(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob("nightly", "0 3 * * *", func(ctx context.Context) error { return nil }))

	s.Start()
	defer func() { <-s.Stop().Done() }()

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	assert.Equal(t, "nightly", infos[0].Name)
	assert.False(t, infos[0].NextRun.IsZero())
}
