package domain

// AccountStatus is the administrative state of a client account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusInactive  AccountStatus = "INACTIVE"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusInactive:
		return true
	}
	return false
}

// PaymentStatus is the billing standing of an account or installation.
// The stored value is a cache of the status policy's output.
type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusExpiring  PaymentStatus = "EXPIRING"
	PaymentStatusExpired   PaymentStatus = "EXPIRED"
	PaymentStatusSuspended PaymentStatus = "SUSPENDED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusExpiring, PaymentStatusExpired, PaymentStatusSuspended:
		return true
	}
	return false
}

// PaymentState describes a single ledger entry.
type PaymentState string

const (
	PaymentStatePending      PaymentState = "PENDING"
	PaymentStatePaymentDaily PaymentState = "PAYMENT_DAILY"
	PaymentStateLatePayment  PaymentState = "LATE_PAYMENT"
	PaymentStateVoided       PaymentState = "VOIDED"
)
