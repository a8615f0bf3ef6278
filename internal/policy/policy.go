// Package policy derives billing standing from due dates. Everything here is
// pure: callers pass "today" explicitly and persist the result themselves.
package policy

import (
	"time"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/pkg/utils"
)

const (
	// ExpiringWindowDays is the look-ahead in which a due date counts as expiring.
	ExpiringWindowDays = 7

	// AccountSuspendAfterDays is how far overdue an account may go before it is suspended.
	AccountSuspendAfterDays = 30

	// InstallationSuspendAfterDays is the installation-level equivalent.
	InstallationSuspendAfterDays = 7
)

// DaysUntil returns whole calendar days from today to due; negative when overdue.
func DaysUntil(due, today time.Time) int {
	return utils.DaysBetween(today, due)
}

// AccountStatusInput is everything the account policy looks at.
type AccountStatusInput struct {
	DueDate         *time.Time
	Today           time.Time
	AdvancePayment  bool
	LastPaymentLate bool
}

// AccountStatusPolicy is the account-level status policy: EXPIRED as soon as
// the due date passes, SUSPENDED beyond 30 days overdue.
type AccountStatusPolicy struct{}

func (AccountStatusPolicy) Derive(in AccountStatusInput) domain.PaymentStatus {
	if in.DueDate == nil {
		return domain.PaymentStatusExpiring
	}

	days := DaysUntil(*in.DueDate, in.Today)
	switch {
	case days < -AccountSuspendAfterDays:
		return domain.PaymentStatusSuspended
	case days < 0 || in.LastPaymentLate:
		return domain.PaymentStatusExpired
	case days <= ExpiringWindowDays:
		return domain.PaymentStatusExpiring
	default:
		return domain.PaymentStatusPaid
	}
}

// ApplyAccountStatus stores status on the account and cascades SUSPENDED onto
// the administrative status. It never reactivates a suspended account.
// Reports whether anything changed.
func ApplyAccountStatus(account *domain.Account, status domain.PaymentStatus) bool {
	changed := false
	if account.PaymentStatus != status {
		account.PaymentStatus = status
		changed = true
	}
	if status == domain.PaymentStatusSuspended && account.Status != domain.AccountStatusSuspended {
		account.Status = domain.AccountStatusSuspended
		changed = true
	}
	return changed
}

// InstallationStatusInput is everything the installation policy looks at.
type InstallationStatusInput struct {
	DueDate        *time.Time
	Today          time.Time
	AdvancePayment bool
}

// InstallationStatusPolicy is the per-installation payment config policy.
// Its thresholds differ from AccountStatusPolicy: EXPIRED between 1 and 7 days
// overdue, SUSPENDED past 7.
type InstallationStatusPolicy struct{}

func (InstallationStatusPolicy) Derive(in InstallationStatusInput) domain.PaymentStatus {
	if in.DueDate == nil {
		return domain.PaymentStatusExpiring
	}

	days := DaysUntil(*in.DueDate, in.Today)

	// Overdue advance payments fall through to the general rule.
	if in.AdvancePayment && days >= 0 {
		if days > ExpiringWindowDays {
			return domain.PaymentStatusPaid
		}
		return domain.PaymentStatusExpiring
	}

	switch {
	case days > ExpiringWindowDays:
		return domain.PaymentStatusPaid
	case days >= 0:
		return domain.PaymentStatusExpiring
	case days >= -InstallationSuspendAfterDays:
		return domain.PaymentStatusExpired
	default:
		return domain.PaymentStatusSuspended
	}
}

// DerivePaymentState classifies a ledger entry from its dates.
func DerivePaymentState(dueDate, paymentDate *time.Time) domain.PaymentState {
	if paymentDate == nil {
		return domain.PaymentStatePending
	}
	if dueDate != nil && utils.DaysBetween(*dueDate, *paymentDate) > 0 {
		return domain.PaymentStateLatePayment
	}
	return domain.PaymentStatePaymentDaily
}
