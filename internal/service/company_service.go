package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

// CompanyService manages the single row of business metadata.
type CompanyService struct {
	CompanyRepo repository.CompanyRepository
	Now         Clock

	files  FileStore
	logger *logger.Logger
}

func NewCompanyService(companyRepo repository.CompanyRepository, files FileStore, logger *logger.Logger) *CompanyService {
	return &CompanyService{
		CompanyRepo: companyRepo,
		Now:         time.Now,
		files:       files,
		logger:      logger,
	}
}

func (s *CompanyService) Get(ctx context.Context) (*domain.Company, error) {
	company, err := s.CompanyRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewBusinessError(apperrors.ErrCodeNotFound, "Company has not been configured", apperrors.ErrNotFound)
		}
		return nil, storeError(err)
	}
	return company, nil
}

// Upsert creates the company row on first call and updates it afterwards.
func (s *CompanyService) Upsert(ctx context.Context, req *domain.CompanyRequest) (*domain.Company, error) {
	company, err := s.CompanyRepo.Get(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		company = &domain.Company{ID: uuid.New(), CreatedAt: s.Now()}
	} else if err != nil {
		return nil, storeError(err)
	}

	company.Name = req.Name
	company.TaxID = req.TaxID
	company.Address = req.Address
	company.Phone = req.Phone
	company.Email = req.Email
	company.Website = req.Website
	company.Currency = req.Currency

	if err := s.CompanyRepo.Upsert(ctx, company); err != nil {
		return nil, storeError(err)
	}
	return company, nil
}

// UploadLogo stores a new logo for an already configured company.
func (s *CompanyService) UploadLogo(ctx context.Context, filename string, r io.Reader) (*domain.Company, error) {
	company, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	file, err := s.files.Save(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	previous := company.Logo
	company.Logo = &file.URL
	if err := s.CompanyRepo.Upsert(ctx, company); err != nil {
		_ = s.files.Delete(file.Name)
		return nil, storeError(err)
	}

	if previous != nil {
		if err := s.files.Delete(path.Base(*previous)); err != nil {
			s.logger.Warnw("failed to remove replaced logo", "file", *previous, "error", err)
		}
	}
	return company, nil
}
