package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentHistoryCreated = "CREATED"
	PaymentHistoryUpdated = "UPDATED"
	PaymentHistoryVoided  = "VOIDED"

	// VoidedReferencePrefix tags the reference of the history row a void appends.
	VoidedReferencePrefix = "VOIDED - "

	// ReferenceMaxLength bounds payment references and void reasons.
	ReferenceMaxLength = 255
	// HistoryReferenceMaxLength is the width of payment_histories.reference,
	// which must hold a prefixed reference.
	HistoryReferenceMaxLength = ReferenceMaxLength + len(VoidedReferencePrefix)
)

// Payment is a ledger entry. Rows are never deleted; voiding flags them.
type Payment struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	AccountID       uuid.UUID       `json:"account_id" db:"account_id"`
	Code            string          `json:"code" db:"code"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	BaseAmount      decimal.Decimal `json:"base_amount" db:"base_amount"`
	ReconnectionFee decimal.Decimal `json:"reconnection_fee" db:"reconnection_fee"`
	Discount        decimal.Decimal `json:"discount" db:"discount"`
	DueDate         *time.Time      `json:"due_date,omitempty" db:"due_date"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	State           PaymentState    `json:"state" db:"state"`
	Reference       *string         `json:"reference,omitempty" db:"reference"`
	PaymentMethod   *string         `json:"payment_method,omitempty" db:"payment_method"`
	Description     *string         `json:"description,omitempty" db:"description"`
	IsVoided        bool            `json:"is_voided" db:"is_voided"`
	VoidedAt        *time.Time      `json:"voided_at,omitempty" db:"voided_at"`
	VoidReason      *string         `json:"void_reason,omitempty" db:"void_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PaymentHistory is the append-only audit trail of ledger mutations
type PaymentHistory struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	PaymentID   uuid.UUID       `json:"payment_id" db:"payment_id"`
	AccountID   uuid.UUID       `json:"account_id" db:"account_id"`
	Action      string          `json:"action" db:"action"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Discount    decimal.Decimal `json:"discount" db:"discount"`
	DueDate     *time.Time      `json:"due_date,omitempty" db:"due_date"`
	PaymentDate *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	State       PaymentState    `json:"state" db:"state"`
	Reference   *string         `json:"reference,omitempty" db:"reference"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type PaymentFilter struct {
	ListFilter
	AccountID     *uuid.UUID    `json:"account_id,omitempty"`
	State         *PaymentState `json:"state,omitempty"`
	IncludeVoided bool          `json:"include_voided"`
	DueFrom       *time.Time    `json:"due_from,omitempty"`
	DueTo         *time.Time    `json:"due_to,omitempty"`
}

// DTOs for requests and responses

type CreatePaymentRequest struct {
	AccountID     uuid.UUID        `json:"account_id" validate:"required"`
	DueDate       *Date            `json:"due_date,omitempty"`
	PaymentDate   *Date            `json:"payment_date,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,decimal_gte0"`
	Discount      decimal.Decimal  `json:"discount" validate:"decimal_gte0"`
	Reconnection  FlexBool         `json:"reconnection"`
	Reference     *string          `json:"reference,omitempty" validate:"omitempty,max=255"`
	PaymentMethod *string          `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdatePaymentRequest struct {
	DueDate       *Date            `json:"due_date,omitempty"`
	PaymentDate   *Date            `json:"payment_date,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,decimal_gte0"`
	Discount      *decimal.Decimal `json:"discount,omitempty" validate:"omitempty,decimal_gte0"`
	Reference     *string          `json:"reference,omitempty" validate:"omitempty,max=255"`
	PaymentMethod *string          `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=500"`
}

type VoidPaymentRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}
