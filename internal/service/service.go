package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/policy"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

// Clock returns the current time. Services read "today" through it.
type Clock func() time.Time

// storeError passes business errors through and wraps everything else as a
// database failure.
func storeError(err error) error {
	var be *apperrors.BusinessError
	if apperrors.As(err, &be) {
		return err
	}
	return apperrors.WrapDatabaseError(err)
}

// lookupError maps sql.ErrNoRows to a not-found error for entity.
func lookupError(err error, entity string, id interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.WrapNotFound(entity, id)
	}
	return storeError(err)
}

// deriveAccountStatus runs the account policy against the account's current
// due date and its latest valid payment.
func deriveAccountStatus(account *domain.Account, latest *domain.Payment, today time.Time) domain.PaymentStatus {
	return policy.AccountStatusPolicy{}.Derive(policy.AccountStatusInput{
		DueDate:         account.PaymentDate,
		Today:           today,
		AdvancePayment:  account.AdvancePayment,
		LastPaymentLate: latest != nil && latest.State == domain.PaymentStateLatePayment,
	})
}

func deriveConfigStatus(config *domain.PaymentConfig, today time.Time) domain.PaymentStatus {
	return policy.InstallationStatusPolicy{}.Derive(policy.InstallationStatusInput{
		DueDate:        config.PaymentDate,
		Today:          today,
		AdvancePayment: config.AdvancePayment,
	})
}
