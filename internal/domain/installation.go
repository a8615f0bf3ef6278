package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	InstallationStatusActive   = "ACTIVE"
	InstallationStatusInactive = "INACTIVE"
)

// Installation binds an account to a plan at a physical location
type Installation struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	AccountID      uuid.UUID      `json:"account_id" db:"account_id"`
	PlanID         uuid.UUID      `json:"plan_id" db:"plan_id"`
	SectorID       uuid.UUID      `json:"sector_id" db:"sector_id"`
	Address        string         `json:"address" db:"address"`
	Reference      *string        `json:"reference,omitempty" db:"reference"`
	IPAddress      *string        `json:"ip_address,omitempty" db:"ip_address"`
	ReferenceImage *string        `json:"reference_image,omitempty" db:"reference_image"`
	InstalledAt    *time.Time     `json:"installed_at,omitempty" db:"installed_at"`
	Status         string         `json:"status" db:"status"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
	PaymentConfig  *PaymentConfig `json:"payment_config,omitempty" db:"-"`
}

// PaymentConfig overrides the payment cadence of a single installation
type PaymentConfig struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	InstallationID     uuid.UUID     `json:"installation_id" db:"installation_id"`
	InitialPaymentDate *time.Time    `json:"initial_payment_date,omitempty" db:"initial_payment_date"`
	PaymentDate        *time.Time    `json:"payment_date,omitempty" db:"payment_date"`
	AdvancePayment     bool          `json:"advance_payment" db:"advance_payment"`
	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

type InstallationFilter struct {
	ListFilter
	AccountID *uuid.UUID `json:"account_id,omitempty"`
	SectorID  *uuid.UUID `json:"sector_id,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

type PaymentConfigRequest struct {
	InitialPaymentDate *Date     `json:"initial_payment_date,omitempty"`
	PaymentDate        *Date     `json:"payment_date,omitempty"`
	AdvancePayment     *FlexBool `json:"advance_payment,omitempty"`
}

type CreateInstallationRequest struct {
	AccountID     uuid.UUID             `json:"account_id" validate:"required"`
	PlanID        uuid.UUID             `json:"plan_id" validate:"required"`
	SectorID      uuid.UUID             `json:"sector_id" validate:"required"`
	Address       string                `json:"address" validate:"required,max=255"`
	Reference     *string               `json:"reference,omitempty" validate:"omitempty,max=255"`
	IPAddress     *string               `json:"ip_address,omitempty" validate:"omitempty,ip"`
	InstalledAt   *Date                 `json:"installed_at,omitempty"`
	PaymentConfig *PaymentConfigRequest `json:"payment_config,omitempty"`
}

type UpdateInstallationRequest struct {
	PlanID      *uuid.UUID `json:"plan_id,omitempty"`
	SectorID    *uuid.UUID `json:"sector_id,omitempty"`
	Address     *string    `json:"address,omitempty" validate:"omitempty,max=255"`
	Reference   *string    `json:"reference,omitempty" validate:"omitempty,max=255"`
	IPAddress   *string    `json:"ip_address,omitempty" validate:"omitempty,ip"`
	InstalledAt *Date      `json:"installed_at,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}
