package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an ISP client
type Account struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	FirstName          string        `json:"first_name" db:"first_name"`
	LastName           string        `json:"last_name" db:"last_name"`
	DocumentID         string        `json:"document_id" db:"document_id"`
	Email              *string       `json:"email,omitempty" db:"email"`
	Phone              *string       `json:"phone,omitempty" db:"phone"`
	Address            *string       `json:"address,omitempty" db:"address"`
	PlanID             *uuid.UUID    `json:"plan_id,omitempty" db:"plan_id"`
	SectorID           *uuid.UUID    `json:"sector_id,omitempty" db:"sector_id"`
	PaymentDate        *time.Time    `json:"payment_date,omitempty" db:"payment_date"`
	InitialPaymentDate *time.Time    `json:"initial_payment_date,omitempty" db:"initial_payment_date"`
	AdvancePayment     bool          `json:"advance_payment" db:"advance_payment"`
	Status             AccountStatus `json:"status" db:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	Description        *string       `json:"description,omitempty" db:"description"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name.
func (a *Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	ListFilter
	Status        *AccountStatus `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"payment_status,omitempty"`
	SectorID      *uuid.UUID     `json:"sector_id,omitempty"`
	PlanID        *uuid.UUID     `json:"plan_id,omitempty"`
	Search        string         `json:"search,omitempty"`
}

// DTOs for requests and responses

type CreateAccountRequest struct {
	FirstName          string     `json:"first_name" validate:"required,max=120"`
	LastName           string     `json:"last_name" validate:"required,max=120"`
	DocumentID         string     `json:"document_id" validate:"required,min=6,max=20"`
	Email              *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address            *string    `json:"address,omitempty" validate:"omitempty,max=255"`
	PlanID             *uuid.UUID `json:"plan_id,omitempty"`
	SectorID           *uuid.UUID `json:"sector_id,omitempty"`
	InitialPaymentDate *Date      `json:"initial_payment_date,omitempty"`
	AdvancePayment     FlexBool   `json:"advance_payment"`
	Description        *string    `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdateAccountRequest struct {
	FirstName          *string    `json:"first_name,omitempty" validate:"omitempty,max=120"`
	LastName           *string    `json:"last_name,omitempty" validate:"omitempty,max=120"`
	DocumentID         *string    `json:"document_id,omitempty" validate:"omitempty,min=6,max=20"`
	Email              *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address            *string    `json:"address,omitempty" validate:"omitempty,max=255"`
	PlanID             *uuid.UUID `json:"plan_id,omitempty"`
	SectorID           *uuid.UUID `json:"sector_id,omitempty"`
	PaymentDate        *Date      `json:"payment_date,omitempty"`
	InitialPaymentDate *Date      `json:"initial_payment_date,omitempty"`
	AdvancePayment     *FlexBool  `json:"advance_payment,omitempty"`
	Description        *string    `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdateAccountStatusRequest struct {
	Status AccountStatus `json:"status" validate:"required,oneof=ACTIVE SUSPENDED INACTIVE"`
}

// AccountResponse returns the stored fields together with the status the
// policy derives right now.
type AccountResponse struct {
	*Account
	DerivedPaymentStatus PaymentStatus `json:"derived_payment_status"`
	DaysUntilDue         *int          `json:"days_until_due,omitempty"`
}
