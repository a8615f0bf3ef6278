package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

type countingSyncer struct {
	calls       atomic.Int32
	err         error
	hadDeadline atomic.Bool
}

func (c *countingSyncer) RecalculateAll(ctx context.Context) (*domain.SyncSummary, error) {
	c.calls.Add(1)
	_, ok := ctx.Deadline()
	c.hadDeadline.Store(ok)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.SyncSummary{}, nil
}

func TestNew_RejectsInvalidSpec(t *testing.T) {
	_, err := New("every night", time.UTC, &countingSyncer{}, 0, logger.NewNop())

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestNew_RegistersJob(t *testing.T) {
	s, err := New("0 0 0 * * *", time.UTC, &countingSyncer{}, 0, logger.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())
}

func TestRunStatusSync(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		timeout time.Duration
	}{
		{name: "success with timeout", timeout: time.Minute},
		{name: "already running", err: apperrors.WrapSyncInProgress()},
		{name: "failure", err: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &countingSyncer{err: tt.err}
			s, err := New("0 0 0 * * *", time.UTC, syncer, tt.timeout, logger.NewNop())
			require.NoError(t, err)

			s.RunStatusSync()

			assert.Equal(t, int32(1), syncer.calls.Load())
			assert.Equal(t, tt.timeout > 0, syncer.hadDeadline.Load())
		})
	}
}

func TestSchedulerFiresOnSpec(t *testing.T) {
	syncer := &countingSyncer{}
	s, err := New("* * * * * *", time.UTC, syncer, 0, logger.NewNop())
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return syncer.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
