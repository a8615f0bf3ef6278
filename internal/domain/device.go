package domain

import (
	"time"

	"github.com/google/uuid"
)

type DeviceType string

const (
	DeviceTypeRouter  DeviceType = "ROUTER"
	DeviceTypeONU     DeviceType = "ONU"
	DeviceTypeAntenna DeviceType = "ANTENNA"
	DeviceTypeSwitch  DeviceType = "SWITCH"
	DeviceTypeOther   DeviceType = "OTHER"
)

type DeviceStatus string

const (
	DeviceStatusAvailable DeviceStatus = "AVAILABLE"
	DeviceStatusAssigned  DeviceStatus = "ASSIGNED"
	DeviceStatusDamaged   DeviceStatus = "DAMAGED"
	DeviceStatusRetired   DeviceStatus = "RETIRED"
)

// Device is a piece of customer premises or network equipment
type Device struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	SerialNumber   string       `json:"serial_number" db:"serial_number"`
	MACAddress     *string      `json:"mac_address,omitempty" db:"mac_address"`
	Brand          string       `json:"brand" db:"brand"`
	Model          string       `json:"model" db:"model"`
	Type           DeviceType   `json:"type" db:"type"`
	Status         DeviceStatus `json:"status" db:"status"`
	InstallationID *uuid.UUID   `json:"installation_id,omitempty" db:"installation_id"`
	Notes          *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

type DeviceFilter struct {
	ListFilter
	Status         *DeviceStatus `json:"status,omitempty"`
	Type           *DeviceType   `json:"type,omitempty"`
	InstallationID *uuid.UUID    `json:"installation_id,omitempty"`
}

type CreateDeviceRequest struct {
	SerialNumber string     `json:"serial_number" validate:"required,max=80"`
	MACAddress   *string    `json:"mac_address,omitempty" validate:"omitempty,mac"`
	Brand        string     `json:"brand" validate:"required,max=80"`
	Model        string     `json:"model" validate:"required,max=80"`
	Type         DeviceType `json:"type" validate:"required,oneof=ROUTER ONU ANTENNA SWITCH OTHER"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateDeviceRequest struct {
	SerialNumber *string       `json:"serial_number,omitempty" validate:"omitempty,max=80"`
	MACAddress   *string       `json:"mac_address,omitempty" validate:"omitempty,mac"`
	Brand        *string       `json:"brand,omitempty" validate:"omitempty,max=80"`
	Model        *string       `json:"model,omitempty" validate:"omitempty,max=80"`
	Type         *DeviceType   `json:"type,omitempty" validate:"omitempty,oneof=ROUTER ONU ANTENNA SWITCH OTHER"`
	Status       *DeviceStatus `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE DAMAGED RETIRED"`
	Notes        *string       `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type AssignDeviceRequest struct {
	InstallationID uuid.UUID `json:"installation_id" validate:"required"`
}
