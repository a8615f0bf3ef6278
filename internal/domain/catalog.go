package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is a sellable internet plan; its price is the base amount of a payment
type Plan struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Price        decimal.Decimal `json:"price" db:"price"`
	DownloadMbps int             `json:"download_mbps" db:"download_mbps"`
	UploadMbps   int             `json:"upload_mbps" db:"upload_mbps"`
	Description  *string         `json:"description,omitempty" db:"description"`
	Active       bool            `json:"active" db:"active"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Sector is a geographic service zone
type Sector struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type PlanRequest struct {
	Name         string          `json:"name" validate:"required,max=120"`
	Price        decimal.Decimal `json:"price" validate:"decimal_gte0"`
	DownloadMbps int             `json:"download_mbps" validate:"gte=0"`
	UploadMbps   int             `json:"upload_mbps" validate:"gte=0"`
	Description  *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Active       *FlexBool       `json:"active,omitempty"`
}

type SectorRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
