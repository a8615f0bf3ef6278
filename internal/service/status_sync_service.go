package service

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/lock"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/policy"
	"github.com/segyhp/isp-admin/internal/repository"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

// StatusSyncLockKey is the Redis key guarding the sweep across processes.
const StatusSyncLockKey = "isp-admin:lock:status-sync"

// StatusSyncService recomputes the stored payment status of every account and
// every installation payment config.
type StatusSyncService struct {
	AccountRepo      repository.AccountRepository
	PaymentRepo      repository.PaymentRepository
	InstallationRepo repository.InstallationRepository
	Now              Clock

	tx       repository.Transactor
	locker   lock.Locker
	lockTTL  time.Duration
	location *time.Location
	logger   *logger.Logger
	running  atomic.Bool
}

// NewStatusSyncService builds the sweep. locker may be nil, in which case
// only runs inside this process are serialized.
func NewStatusSyncService(
	accountRepo repository.AccountRepository,
	paymentRepo repository.PaymentRepository,
	installationRepo repository.InstallationRepository,
	tx repository.Transactor,
	locker lock.Locker,
	lockTTL time.Duration,
	location *time.Location,
	logger *logger.Logger,
) *StatusSyncService {
	if location == nil {
		location = time.Local
	}
	return &StatusSyncService{
		AccountRepo:      accountRepo,
		PaymentRepo:      paymentRepo,
		InstallationRepo: installationRepo,
		Now:              time.Now,
		tx:               tx,
		locker:           locker,
		lockTTL:          lockTTL,
		location:         location,
		logger:           logger,
	}
}

// RecalculateAll sweeps every account, then every installation payment
// config. A failing record is counted and logged; the sweep goes on.
// Returns ErrSyncInProgress when another run holds the guard.
func (s *StatusSyncService) RecalculateAll(ctx context.Context) (*domain.SyncSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, apperrors.WrapSyncInProgress()
	}
	defer s.running.Store(false)

	if s.locker != nil {
		lease, err := s.locker.TryAcquire(ctx, StatusSyncLockKey, s.lockTTL)
		if err != nil {
			return nil, apperrors.WrapCacheError(err)
		}
		if lease == nil {
			return nil, apperrors.WrapSyncInProgress()
		}
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warnw("failed to release status sync lock", "error", err)
			}
		}()
	}

	started := s.Now()
	today := started.In(s.location)
	summary := &domain.SyncSummary{StartedAt: started}

	ids, err := s.AccountRepo.ListIDs(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	summary.Total = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			summary.Duration = s.Now().Sub(started)
			return summary, err
		}

		changed, err := s.syncAccount(ctx, id, today)
		if err != nil {
			summary.Errors++
			s.logger.Errorw("status sync failed for account", "account_id", id, "error", err)
			continue
		}
		if changed {
			summary.Updated++
		}
	}

	summary.Installations = s.syncPaymentConfigs(ctx, today)
	summary.Duration = s.Now().Sub(started)

	s.logger.Infow("status sync finished",
		"total", summary.Total,
		"updated", summary.Updated,
		"errors", summary.Errors,
		"installations_updated", summary.Installations.Updated,
		"installations_errors", summary.Installations.Errors,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (s *StatusSyncService) syncAccount(ctx context.Context, id uuid.UUID, today time.Time) (bool, error) {
	var changed bool
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		// A replayed transaction starts over.
		changed = false
		account, err := s.AccountRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.WrapAccountNotFound(id)
			}
			return err
		}

		latest, err := s.PaymentRepo.GetLatestValid(ctx, id)
		if err != nil {
			return err
		}

		if !policy.ApplyAccountStatus(account, deriveAccountStatus(account, latest, today)) {
			return nil
		}
		if err := s.AccountRepo.Update(ctx, account); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (s *StatusSyncService) syncPaymentConfigs(ctx context.Context, today time.Time) domain.SyncResult {
	var result domain.SyncResult

	configs, err := s.InstallationRepo.ListPaymentConfigs(ctx)
	if err != nil {
		s.logger.Errorw("status sync could not list installation payment configs", "error", err)
		result.Errors++
		return result
	}
	result.Total = len(configs)

	for _, cfg := range configs {
		status := deriveConfigStatus(cfg, today)
		if status == cfg.PaymentStatus {
			continue
		}
		cfg.PaymentStatus = status
		if err := s.InstallationRepo.UpsertPaymentConfig(ctx, cfg); err != nil {
			result.Errors++
			s.logger.Errorw("status sync failed for installation", "installation_id", cfg.InstallationID, "error", err)
			continue
		}
		result.Updated++
	}
	return result
}
