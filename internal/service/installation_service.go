package service

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository"
	"github.com/segyhp/isp-admin/internal/storage"
)

// FileStore persists uploaded images.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*storage.StoredFile, error)
	Delete(name string) error
}

type InstallationService struct {
	InstallationRepo repository.InstallationRepository
	AccountRepo      repository.AccountRepository
	PlanRepo         repository.PlanRepository
	SectorRepo       repository.SectorRepository
	Now              Clock

	files  FileStore
	tx     repository.Transactor
	logger *logger.Logger
}

func NewInstallationService(
	installationRepo repository.InstallationRepository,
	accountRepo repository.AccountRepository,
	planRepo repository.PlanRepository,
	sectorRepo repository.SectorRepository,
	files FileStore,
	tx repository.Transactor,
	logger *logger.Logger,
) *InstallationService {
	return &InstallationService{
		InstallationRepo: installationRepo,
		AccountRepo:      accountRepo,
		PlanRepo:         planRepo,
		SectorRepo:       sectorRepo,
		Now:              time.Now,
		files:            files,
		tx:               tx,
		logger:           logger,
	}
}

func (s *InstallationService) Create(ctx context.Context, req *domain.CreateInstallationRequest) (*domain.Installation, error) {
	var installation *domain.Installation

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.AccountRepo.GetByID(ctx, req.AccountID); err != nil {
			return lookupError(err, "Account", req.AccountID)
		}
		if _, err := s.PlanRepo.GetByID(ctx, req.PlanID); err != nil {
			return lookupError(err, "Plan", req.PlanID)
		}
		if _, err := s.SectorRepo.GetByID(ctx, req.SectorID); err != nil {
			return lookupError(err, "Sector", req.SectorID)
		}

		now := s.Now()
		installation = &domain.Installation{
			ID:          uuid.New(),
			AccountID:   req.AccountID,
			PlanID:      req.PlanID,
			SectorID:    req.SectorID,
			Address:     req.Address,
			Reference:   req.Reference,
			IPAddress:   req.IPAddress,
			InstalledAt: req.InstalledAt.TimePtr(),
			Status:      domain.InstallationStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.InstallationRepo.Create(ctx, installation); err != nil {
			return storeError(err)
		}

		if req.PaymentConfig != nil {
			config, err := s.savePaymentConfig(ctx, installation.ID, nil, req.PaymentConfig)
			if err != nil {
				return err
			}
			installation.PaymentConfig = config
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("installation created", "installation_id", installation.ID, "account_id", installation.AccountID)
	return installation, nil
}

func (s *InstallationService) Get(ctx context.Context, id uuid.UUID) (*domain.Installation, error) {
	installation, err := s.InstallationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Installation", id)
	}
	config, err := s.InstallationRepo.GetPaymentConfig(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	installation.PaymentConfig = config
	return installation, nil
}

func (s *InstallationService) List(ctx context.Context, filter *domain.InstallationFilter) (*domain.Page[*domain.Installation], error) {
	filter.Normalize()
	installations, total, err := s.InstallationRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return &domain.Page[*domain.Installation]{Items: installations, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *InstallationService) ListByAccount(ctx context.Context, accountID uuid.UUID, page domain.ListFilter) (*domain.Page[*domain.Installation], error) {
	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, lookupError(err, "Account", accountID)
	}
	return s.List(ctx, &domain.InstallationFilter{ListFilter: page, AccountID: &accountID})
}

func (s *InstallationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInstallationRequest) (*domain.Installation, error) {
	installation, err := s.InstallationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Installation", id)
	}

	if req.PlanID != nil {
		if _, err := s.PlanRepo.GetByID(ctx, *req.PlanID); err != nil {
			return nil, lookupError(err, "Plan", *req.PlanID)
		}
		installation.PlanID = *req.PlanID
	}
	if req.SectorID != nil {
		if _, err := s.SectorRepo.GetByID(ctx, *req.SectorID); err != nil {
			return nil, lookupError(err, "Sector", *req.SectorID)
		}
		installation.SectorID = *req.SectorID
	}
	if req.Address != nil {
		installation.Address = *req.Address
	}
	if req.Reference != nil {
		installation.Reference = req.Reference
	}
	if req.IPAddress != nil {
		installation.IPAddress = req.IPAddress
	}
	if req.InstalledAt != nil {
		installation.InstalledAt = req.InstalledAt.TimePtr()
	}
	if req.Status != nil {
		installation.Status = *req.Status
	}

	if err := s.InstallationRepo.Update(ctx, installation); err != nil {
		return nil, storeError(err)
	}
	return installation, nil
}

// UpdatePaymentConfig creates or edits the installation's payment cadence and
// re-derives its status with the installation policy.
func (s *InstallationService) UpdatePaymentConfig(ctx context.Context, id uuid.UUID, req *domain.PaymentConfigRequest) (*domain.PaymentConfig, error) {
	var config *domain.PaymentConfig

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.InstallationRepo.GetByID(ctx, id); err != nil {
			return lookupError(err, "Installation", id)
		}
		existing, err := s.InstallationRepo.GetPaymentConfig(ctx, id)
		if err != nil {
			return storeError(err)
		}
		config, err = s.savePaymentConfig(ctx, id, existing, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return config, nil
}

func (s *InstallationService) savePaymentConfig(ctx context.Context, installationID uuid.UUID, config *domain.PaymentConfig, req *domain.PaymentConfigRequest) (*domain.PaymentConfig, error) {
	now := s.Now()
	if config == nil {
		config = &domain.PaymentConfig{
			ID:             uuid.New(),
			InstallationID: installationID,
			CreatedAt:      now,
		}
	}

	if req.InitialPaymentDate != nil {
		config.InitialPaymentDate = req.InitialPaymentDate.TimePtr()
		if config.PaymentDate == nil {
			config.PaymentDate = config.InitialPaymentDate
		}
	}
	if req.PaymentDate != nil {
		config.PaymentDate = req.PaymentDate.TimePtr()
	}
	if req.AdvancePayment != nil {
		config.AdvancePayment = req.AdvancePayment.Bool()
	}
	config.PaymentStatus = deriveConfigStatus(config, now)

	if err := s.InstallationRepo.UpsertPaymentConfig(ctx, config); err != nil {
		return nil, storeError(err)
	}
	return config, nil
}

// UploadReferenceImage stores a photo of the site and replaces any previous one.
func (s *InstallationService) UploadReferenceImage(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (*domain.Installation, error) {
	installation, err := s.InstallationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Installation", id)
	}

	file, err := s.files.Save(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	previous := installation.ReferenceImage
	installation.ReferenceImage = &file.URL
	if err := s.InstallationRepo.Update(ctx, installation); err != nil {
		_ = s.files.Delete(file.Name)
		return nil, storeError(err)
	}

	if previous != nil {
		if err := s.files.Delete(path.Base(*previous)); err != nil {
			s.logger.Warnw("failed to remove replaced reference image", "installation_id", id, "file", *previous, "error", err)
		}
	}
	return installation, nil
}

func (s *InstallationService) Delete(ctx context.Context, id uuid.UUID) error {
	installation, err := s.InstallationRepo.GetByID(ctx, id)
	if err != nil {
		return lookupError(err, "Installation", id)
	}
	if err := s.InstallationRepo.Delete(ctx, id); err != nil {
		return lookupError(err, "Installation", id)
	}
	if installation.ReferenceImage != nil {
		if err := s.files.Delete(path.Base(*installation.ReferenceImage)); err != nil {
			s.logger.Warnw("failed to remove reference image", "installation_id", id, "error", err)
		}
	}
	return nil
}

var _ FileStore = (*storage.DiskStore)(nil)
