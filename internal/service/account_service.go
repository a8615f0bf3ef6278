package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/policy"
	"github.com/segyhp/isp-admin/internal/repository"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

type AccountService struct {
	AccountRepo repository.AccountRepository
	PaymentRepo repository.PaymentRepository
	PlanRepo    repository.PlanRepository
	SectorRepo  repository.SectorRepository
	Now         Clock

	tx     repository.Transactor
	logger *logger.Logger
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	paymentRepo repository.PaymentRepository,
	planRepo repository.PlanRepository,
	sectorRepo repository.SectorRepository,
	tx repository.Transactor,
	logger *logger.Logger,
) *AccountService {
	return &AccountService{
		AccountRepo: accountRepo,
		PaymentRepo: paymentRepo,
		PlanRepo:    planRepo,
		SectorRepo:  sectorRepo,
		Now:         time.Now,
		tx:          tx,
		logger:      logger,
	}
}

// Create signs up a client. The first due date is the initial payment date.
func (s *AccountService) Create(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error) {
	var account *domain.Account

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ensureDocumentFree(ctx, req.DocumentID, uuid.Nil); err != nil {
			return err
		}
		if err := s.ensureReferences(ctx, req.PlanID, req.SectorID); err != nil {
			return err
		}

		now := s.Now()
		initial := req.InitialPaymentDate.TimePtr()
		account = &domain.Account{
			ID:                 uuid.New(),
			FirstName:          req.FirstName,
			LastName:           req.LastName,
			DocumentID:         req.DocumentID,
			Email:              req.Email,
			Phone:              req.Phone,
			Address:            req.Address,
			PlanID:             req.PlanID,
			SectorID:           req.SectorID,
			PaymentDate:        initial,
			InitialPaymentDate: initial,
			AdvancePayment:     req.AdvancePayment.Bool(),
			Status:             domain.AccountStatusActive,
			Description:        req.Description,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		policy.ApplyAccountStatus(account, deriveAccountStatus(account, nil, now))

		if err := s.AccountRepo.Create(ctx, account); err != nil {
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("account created", "account_id", account.ID, "payment_status", account.PaymentStatus)
	return account, nil
}

// Get returns the stored account together with the status derived right now.
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*domain.AccountResponse, error) {
	account, err := s.getAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	latest, err := s.PaymentRepo.GetLatestValid(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	today := s.Now()
	resp := &domain.AccountResponse{
		Account:              account,
		DerivedPaymentStatus: deriveAccountStatus(account, latest, today),
	}
	if account.PaymentDate != nil {
		days := policy.DaysUntil(*account.PaymentDate, today)
		resp.DaysUntilDue = &days
	}
	return resp, nil
}

func (s *AccountService) List(ctx context.Context, filter *domain.AccountFilter) (*domain.Page[*domain.Account], error) {
	filter.Normalize()
	accounts, total, err := s.AccountRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return &domain.Page[*domain.Account]{Items: accounts, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *AccountService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAccountRequest) (*domain.Account, error) {
	var account *domain.Account

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if account, err = s.getAccount(ctx, id); err != nil {
			return err
		}

		if req.DocumentID != nil && *req.DocumentID != account.DocumentID {
			if err := s.ensureDocumentFree(ctx, *req.DocumentID, id); err != nil {
				return err
			}
			account.DocumentID = *req.DocumentID
		}
		if err := s.ensureReferences(ctx, req.PlanID, req.SectorID); err != nil {
			return err
		}

		if req.FirstName != nil {
			account.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			account.LastName = *req.LastName
		}
		if req.Email != nil {
			account.Email = req.Email
		}
		if req.Phone != nil {
			account.Phone = req.Phone
		}
		if req.Address != nil {
			account.Address = req.Address
		}
		if req.PlanID != nil {
			account.PlanID = req.PlanID
		}
		if req.SectorID != nil {
			account.SectorID = req.SectorID
		}
		if req.Description != nil {
			account.Description = req.Description
		}

		recompute := false
		if req.PaymentDate != nil {
			account.PaymentDate = req.PaymentDate.TimePtr()
			recompute = true
		}
		if req.InitialPaymentDate != nil {
			account.InitialPaymentDate = req.InitialPaymentDate.TimePtr()
		}
		if req.AdvancePayment != nil {
			account.AdvancePayment = req.AdvancePayment.Bool()
			recompute = true
		}
		if recompute {
			latest, err := s.PaymentRepo.GetLatestValid(ctx, id)
			if err != nil {
				return storeError(err)
			}
			policy.ApplyAccountStatus(account, deriveAccountStatus(account, latest, s.Now()))
		}

		if err := s.AccountRepo.Update(ctx, account); err != nil {
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateStatus applies an explicit administrative transition, including the
// manual reconnect from SUSPENDED back to ACTIVE.
func (s *AccountService) UpdateStatus(ctx context.Context, id uuid.UUID, req *domain.UpdateAccountStatusRequest) (*domain.Account, error) {
	if !req.Status.IsValid() {
		return nil, apperrors.WrapValidation("invalid account status", nil)
	}

	account, err := s.getAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := account.Status
	account.Status = req.Status
	if err := s.AccountRepo.Update(ctx, account); err != nil {
		return nil, storeError(err)
	}

	s.logger.Infow("account status changed", "account_id", id, "from", previous, "to", account.Status)
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.AccountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapAccountNotFound(id)
		}
		return storeError(err)
	}
	s.logger.Infow("account deleted", "account_id", id)
	return nil
}

func (s *AccountService) getAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.AccountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapAccountNotFound(id)
		}
		return nil, storeError(err)
	}
	return account, nil
}

// ensureDocumentFree fails with a conflict when another account owns documentID.
func (s *AccountService) ensureDocumentFree(ctx context.Context, documentID string, self uuid.UUID) error {
	existing, err := s.AccountRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return storeError(err)
	}
	if existing.ID != self {
		return apperrors.WrapDuplicateDocument(documentID)
	}
	return nil
}

func (s *AccountService) ensureReferences(ctx context.Context, planID, sectorID *uuid.UUID) error {
	if planID != nil {
		if _, err := s.PlanRepo.GetByID(ctx, *planID); err != nil {
			return lookupError(err, "Plan", *planID)
		}
	}
	if sectorID != nil {
		if _, err := s.SectorRepo.GetByID(ctx, *sectorID); err != nil {
			return lookupError(err, "Sector", *sectorID)
		}
	}
	return nil
}
