package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/segyhp/isp-admin/internal/config"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/policy"
	"github.com/segyhp/isp-admin/internal/repository"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
	"github.com/segyhp/isp-admin/pkg/utils"
	"github.com/shopspring/decimal"
)

// PaymentService records, edits and voids ledger entries and keeps the
// owning account's billing cycle in step with them.
type PaymentService struct {
	AccountRepo repository.AccountRepository
	PaymentRepo repository.PaymentRepository
	PlanRepo    repository.PlanRepository
	Now         Clock

	tx     repository.Transactor
	config *config.Config
	logger *logger.Logger
}

func NewPaymentService(
	accountRepo repository.AccountRepository,
	paymentRepo repository.PaymentRepository,
	planRepo repository.PlanRepository,
	tx repository.Transactor,
	config *config.Config,
	logger *logger.Logger,
) *PaymentService {
	return &PaymentService{
		AccountRepo: accountRepo,
		PaymentRepo: paymentRepo,
		PlanRepo:    planRepo,
		Now:         time.Now,
		tx:          tx,
		config:      config,
		logger:      logger,
	}
}

// CreatePayment records a payment against an account. When both dates are
// given the account's next due date moves one month past the paid due date.
func (s *PaymentService) CreatePayment(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.Payment, error) {
	var payment *domain.Payment

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		account, err := s.AccountRepo.GetByID(ctx, req.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.WrapAccountNotFound(req.AccountID)
			}
			return storeError(err)
		}

		if account.PlanID == nil {
			return apperrors.WrapPlanNotAssigned(account.ID)
		}
		plan, err := s.PlanRepo.GetByID(ctx, *account.PlanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.WrapPlanNotAssigned(account.ID)
			}
			return storeError(err)
		}

		fee := decimal.Zero
		if req.Reconnection.Bool() {
			fee = s.config.GetReconnectionFee()
		}
		amount := plan.Price.Add(fee).Sub(req.Discount)
		if req.Amount != nil {
			amount = *req.Amount
		}
		if amount.IsNegative() {
			return apperrors.WrapValidation("discount exceeds the payment amount", nil)
		}

		count, err := s.PaymentRepo.CountByAccount(ctx, account.ID)
		if err != nil {
			return storeError(err)
		}

		now := s.Now()
		dueDate := req.DueDate.TimePtr()
		paymentDate := req.PaymentDate.TimePtr()
		payment = &domain.Payment{
			ID:              uuid.New(),
			AccountID:       account.ID,
			Code:            utils.PaymentCode(account.FirstName, account.LastName, count+1),
			Amount:          amount,
			BaseAmount:      plan.Price,
			ReconnectionFee: fee,
			Discount:        req.Discount,
			DueDate:         dueDate,
			PaymentDate:     paymentDate,
			State:           policy.DerivePaymentState(dueDate, paymentDate),
			Reference:       req.Reference,
			PaymentMethod:   req.PaymentMethod,
			Description:     req.Description,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.PaymentRepo.Create(ctx, payment); err != nil {
			return storeError(err)
		}

		if dueDate != nil && paymentDate != nil {
			next := utils.AddOneMonthPreservingDay(*dueDate)
			account.PaymentDate = &next
			account.PaymentStatus = domain.PaymentStatusPaid
			// A received payment is the explicit reconnect path.
			if account.Status == domain.AccountStatusSuspended {
				account.Status = domain.AccountStatusActive
			}
			if err := s.AccountRepo.Update(ctx, account); err != nil {
				return storeError(err)
			}
		}

		return s.appendHistory(ctx, payment, domain.PaymentHistoryCreated, payment.Reference)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("payment created",
		"payment_id", payment.ID,
		"account_id", payment.AccountID,
		"code", payment.Code,
		"amount", payment.Amount.String(),
		"state", payment.State,
	)
	return payment, nil
}

// UpdatePayment edits a non-voided payment. When it is the account's latest
// valid payment the account's due date and status follow the new dates.
func (s *PaymentService) UpdatePayment(ctx context.Context, id uuid.UUID, req *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	var payment *domain.Payment

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.PaymentRepo.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "Payment", id)
		}
		if payment.IsVoided {
			return apperrors.WrapAlreadyVoided(id)
		}

		if req.DueDate != nil {
			payment.DueDate = req.DueDate.TimePtr()
		}
		if req.PaymentDate != nil {
			payment.PaymentDate = req.PaymentDate.TimePtr()
		}
		if req.Discount != nil {
			payment.Discount = *req.Discount
			payment.Amount = payment.BaseAmount.Add(payment.ReconnectionFee).Sub(payment.Discount)
		}
		if req.Amount != nil {
			payment.Amount = *req.Amount
		}
		if payment.Amount.IsNegative() {
			return apperrors.WrapValidation("discount exceeds the payment amount", nil)
		}
		payment.Reference = lo.Ternary(req.Reference != nil, req.Reference, payment.Reference)
		payment.PaymentMethod = lo.Ternary(req.PaymentMethod != nil, req.PaymentMethod, payment.PaymentMethod)
		payment.Description = lo.Ternary(req.Description != nil, req.Description, payment.Description)
		payment.State = policy.DerivePaymentState(payment.DueDate, payment.PaymentDate)

		if err := s.PaymentRepo.Update(ctx, payment); err != nil {
			return storeError(err)
		}

		latest, err := s.PaymentRepo.GetLatestValid(ctx, payment.AccountID)
		if err != nil {
			return storeError(err)
		}
		if latest != nil && latest.ID == payment.ID && payment.DueDate != nil && payment.PaymentDate != nil {
			account, err := s.AccountRepo.GetByID(ctx, payment.AccountID)
			if err != nil {
				return lookupError(err, "Account", payment.AccountID)
			}
			next := utils.AddOneMonthPreservingDay(*payment.DueDate)
			account.PaymentDate = &next
			policy.ApplyAccountStatus(account, deriveAccountStatus(account, latest, s.Now()))
			if err := s.AccountRepo.Update(ctx, account); err != nil {
				return storeError(err)
			}
		}

		return s.appendHistory(ctx, payment, domain.PaymentHistoryUpdated, payment.Reference)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("payment updated", "payment_id", payment.ID, "account_id", payment.AccountID, "state", payment.State)
	return payment, nil
}

// VoidPayment flags a payment as voided and rolls the account's next due date
// back to what the remaining valid payments justify.
func (s *PaymentService) VoidPayment(ctx context.Context, id uuid.UUID, req *domain.VoidPaymentRequest) (*domain.Payment, error) {
	var payment *domain.Payment

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.PaymentRepo.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "Payment", id)
		}
		if payment.IsVoided {
			return apperrors.WrapAlreadyVoided(id)
		}

		now := s.Now()
		payment.IsVoided = true
		payment.State = domain.PaymentStateVoided
		payment.VoidedAt = &now
		payment.VoidReason = lo.ToPtr(req.Reason)
		if err := s.PaymentRepo.Update(ctx, payment); err != nil {
			return storeError(err)
		}

		account, err := s.AccountRepo.GetByID(ctx, payment.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.WrapAccountNotFound(payment.AccountID)
			}
			return storeError(err)
		}

		latest, err := s.PaymentRepo.GetLatestValid(ctx, account.ID)
		if err != nil {
			return storeError(err)
		}
		account.PaymentDate = NextDueDateAfterVoid(latest, account.InitialPaymentDate, now)
		policy.ApplyAccountStatus(account, deriveAccountStatus(account, latest, now))
		if err := s.AccountRepo.Update(ctx, account); err != nil {
			return storeError(err)
		}

		reference := domain.VoidedReferencePrefix + req.Reason
		if payment.Reference != nil {
			reference = domain.VoidedReferencePrefix + *payment.Reference
		}
		return s.appendHistory(ctx, payment, domain.PaymentHistoryVoided, &reference)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("payment voided", "payment_id", payment.ID, "account_id", payment.AccountID, "reason", req.Reason)
	return payment, nil
}

// NextDueDateAfterVoid is one month past the latest remaining valid payment's
// due date. Without one it is the first cycle date after today counted from
// the initial payment date. Nil when neither exists.
func NextDueDateAfterVoid(latest *domain.Payment, initial *time.Time, today time.Time) *time.Time {
	if latest != nil && latest.DueDate != nil {
		next := utils.AddOneMonthPreservingDay(*latest.DueDate)
		return &next
	}
	if initial == nil {
		return nil
	}
	next := utils.AddMonthsPreservingDay(*initial, utils.WholeMonthsBetween(*initial, today)+1)
	return &next
}

func (s *PaymentService) appendHistory(ctx context.Context, payment *domain.Payment, action string, reference *string) error {
	entry := &domain.PaymentHistory{
		ID:          uuid.New(),
		PaymentID:   payment.ID,
		AccountID:   payment.AccountID,
		Action:      action,
		Amount:      payment.Amount,
		Discount:    payment.Discount,
		DueDate:     payment.DueDate,
		PaymentDate: payment.PaymentDate,
		State:       payment.State,
		Reference:   reference,
		CreatedAt:   s.Now(),
	}
	if err := s.PaymentRepo.CreateHistory(ctx, entry); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	payment, err := s.PaymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Payment", id)
	}
	return payment, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, filter *domain.PaymentFilter) (*domain.Page[*domain.Payment], error) {
	filter.Normalize()
	payments, total, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return &domain.Page[*domain.Payment]{Items: payments, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// ListAccountPayments lists an account's payments, voided ones included.
func (s *PaymentService) ListAccountPayments(ctx context.Context, accountID uuid.UUID, page domain.ListFilter) (*domain.Page[*domain.Payment], error) {
	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapAccountNotFound(accountID)
		}
		return nil, storeError(err)
	}
	return s.ListPayments(ctx, &domain.PaymentFilter{
		ListFilter:    page,
		AccountID:     &accountID,
		IncludeVoided: true,
	})
}

func (s *PaymentService) ListPaymentHistory(ctx context.Context, paymentID uuid.UUID) ([]*domain.PaymentHistory, error) {
	if _, err := s.PaymentRepo.GetByID(ctx, paymentID); err != nil {
		return nil, lookupError(err, "Payment", paymentID)
	}
	history, err := s.PaymentRepo.ListHistory(ctx, paymentID)
	if err != nil {
		return nil, storeError(err)
	}
	return history, nil
}

func (s *PaymentService) ListAccountHistory(ctx context.Context, accountID uuid.UUID) ([]*domain.PaymentHistory, error) {
	history, err := s.PaymentRepo.ListAccountHistory(ctx, accountID)
	if err != nil {
		return nil, storeError(err)
	}
	return history, nil
}
