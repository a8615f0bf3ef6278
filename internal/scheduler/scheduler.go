// Package scheduler runs the nightly status recalculation on a cron spec.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

// StatusSyncer is the job the scheduler triggers.
type StatusSyncer interface {
	RecalculateAll(ctx context.Context) (*domain.SyncSummary, error)
}

type Scheduler struct {
	cron    *cron.Cron
	syncer  StatusSyncer
	timeout time.Duration
	logger  *logger.Logger
}

// New registers the status sync under spec, a six-field cron expression
// (seconds first) evaluated in loc. timeout bounds a single run; zero means
// no bound.
func New(spec string, loc *time.Location, syncer StatusSyncer, timeout time.Duration, log *logger.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithLogger(log.Cron()),
		cron.WithChain(cron.Recover(log.Cron()), cron.SkipIfStillRunning(log.Cron())),
	)

	s := &Scheduler{cron: c, syncer: syncer, timeout: timeout, logger: log}
	if _, err := c.AddFunc(spec, s.RunStatusSync); err != nil {
		return nil, apperrors.WrapValidation("invalid status sync schedule: "+spec, err)
	}
	return s, nil
}

// RunStatusSync performs one sweep. A run skipped because another process
// holds the lock is logged at info level.
func (s *Scheduler) RunStatusSync() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Infow("running status sync job")
	summary, err := s.syncer.RecalculateAll(ctx)
	if err != nil {
		if apperrors.IsConflict(err) {
			s.logger.Infow("status sync skipped", "reason", err.Error())
			return
		}
		s.logger.Errorw("status sync job failed", "error", err)
		return
	}
	s.logger.Infow("status sync job completed",
		"total", summary.Total,
		"updated", summary.Updated,
		"errors", summary.Errors,
	)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warnw("scheduler stopped before the running job finished")
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
