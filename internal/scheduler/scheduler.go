package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Refresher is the aggregator-side entry point the scheduler triggers.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler fires refresh cycles on a fixed interval. It never pipelines
// cycles; the refresher's own single-flight guard drops a trigger that
// lands while a cycle is still running.
type Scheduler struct {
	interval  time.Duration
	refresher Refresher
	logger    *logrus.Entry
}

func New(interval time.Duration, refresher Refresher, logger *logrus.Entry) *Scheduler {
	return &Scheduler{
		interval:  interval,
		refresher: refresher,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.WithField("interval", s.interval).Info("Refresh job scheduled")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Refresh job stopped")
			return
		case <-ticker.C:
			if err := s.refresher.Refresh(ctx); err != nil {
				s.logger.WithError(err).Error("Scheduled refresh failed")
			}
		}
	}
}
