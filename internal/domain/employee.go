package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmployeeStatusActive   = "ACTIVE"
	EmployeeStatusInactive = "INACTIVE"

	// SuperAdminRole cannot be renamed, deleted or have its permissions edited.
	SuperAdminRole = "SUPER_ADMIN"
)

// Employee is a back-office user
type Employee struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	DocumentID   string    `json:"document_id" db:"document_id"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RoleID       uuid.UUID `json:"role_id" db:"role_id"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Role groups permissions
type Role struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description *string      `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	Permissions []Permission `json:"permissions" db:"-"`
}

// IsProtected reports whether the role is the super-admin role.
func (r *Role) IsProtected() bool {
	return r.Name == SuperAdminRole
}

// Permission is a single grantable capability, e.g. "payments.void"
type Permission struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Category    string    `json:"category" db:"category"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreateEmployeeRequest struct {
	FirstName  string    `json:"first_name" validate:"required,max=120"`
	LastName   string    `json:"last_name" validate:"required,max=120"`
	DocumentID string    `json:"document_id" validate:"required,min=6,max=20"`
	Email      *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string   `json:"phone,omitempty" validate:"omitempty,max=30"`
	Username   string    `json:"username" validate:"required,min=3,max=60"`
	Password   string    `json:"password" validate:"required,min=8,max=72"`
	RoleID     uuid.UUID `json:"role_id" validate:"required"`
}

type UpdateEmployeeRequest struct {
	FirstName *string    `json:"first_name,omitempty" validate:"omitempty,max=120"`
	LastName  *string    `json:"last_name,omitempty" validate:"omitempty,max=120"`
	Email     *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Password  *string    `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	RoleID    *uuid.UUID `json:"role_id,omitempty"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type RoleRequest struct {
	Name        string  `json:"name" validate:"required,max=60"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

type PermissionRequest struct {
	Name        string  `json:"name" validate:"required,max=80"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Category    string  `json:"category" validate:"required,max=60"`
}

type SetRolePermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permission_ids" validate:"required"`
}
