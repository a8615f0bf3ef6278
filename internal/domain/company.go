package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company holds the single row of business metadata printed on receipts
type Company struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TaxID     string    `json:"tax_id" db:"tax_id"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Website   *string   `json:"website,omitempty" db:"website"`
	Currency  string    `json:"currency" db:"currency"`
	Logo      *string   `json:"logo,omitempty" db:"logo"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CompanyRequest struct {
	Name     string  `json:"name" validate:"required,max=160"`
	TaxID    string  `json:"tax_id" validate:"required,max=20"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url"`
	Currency string  `json:"currency" validate:"required,len=3"`
}
