// Package jobs runs periodic maintenance in the background.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"gullak/observability"
)

// Purger removes history older than the retention period.
type Purger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// RetentionJob purges old calculation history on a cron schedule.
type RetentionJob struct {
	purger    Purger
	retention time.Duration
	timeout   time.Duration
	metrics   *observability.Metrics
	log       *logrus.Logger
	cron      *cron.Cron
}

func NewRetentionJob(purger Purger, retention time.Duration, metrics *observability.Metrics, log *logrus.Logger) *RetentionJob {
	return &RetentionJob{
		purger:    purger,
		retention: retention,
		timeout:   time.Minute,
		metrics:   metrics,
		log:       log,
		cron:      cron.New(),
	}
}

// Start schedules the job. The schedule accepts standard five-field specs and
// descriptors such as "@daily".
func (j *RetentionJob) Start(schedule string) error {
	if j.retention <= 0 {
		return fmt.Errorf("history retention must be positive, got %s", j.retention)
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.Run(context.Background()) }); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	j.cron.Start()
	j.log.WithFields(logrus.Fields{
		"schedule":  schedule,
		"retention": j.retention.String(),
	}).Info("history retention job scheduled")
	return nil
}

// Stop stops scheduling and waits for a running purge to finish or ctx to end.
func (j *RetentionJob) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Run purges once and returns the number of removed entries.
func (j *RetentionJob) Run(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	n, err := j.purger.Purge(ctx, j.retention)
	if err != nil {
		j.log.WithError(err).Error("history purge failed")
		return 0
	}
	j.metrics.ObservePurge(n)
	j.log.WithField("removed", n).Info("history purged")
	return n
}
