package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

// DeviceService keeps the equipment inventory and tracks which installation
// each device is deployed at.
type DeviceService struct {
	DeviceRepo       repository.DeviceRepository
	InstallationRepo repository.InstallationRepository
	Now              Clock

	logger *logger.Logger
}

func NewDeviceService(deviceRepo repository.DeviceRepository, installationRepo repository.InstallationRepository, logger *logger.Logger) *DeviceService {
	return &DeviceService{
		DeviceRepo:       deviceRepo,
		InstallationRepo: installationRepo,
		Now:              time.Now,
		logger:           logger,
	}
}

func (s *DeviceService) Create(ctx context.Context, req *domain.CreateDeviceRequest) (*domain.Device, error) {
	if err := s.ensureSerialFree(ctx, req.SerialNumber, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.Now()
	device := &domain.Device{
		ID:           uuid.New(),
		SerialNumber: req.SerialNumber,
		MACAddress:   req.MACAddress,
		Brand:        req.Brand,
		Model:        req.Model,
		Type:         req.Type,
		Status:       domain.DeviceStatusAvailable,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.DeviceRepo.Create(ctx, device); err != nil {
		return nil, storeError(err)
	}
	return device, nil
}

func (s *DeviceService) Get(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	device, err := s.DeviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Device", id)
	}
	return device, nil
}

func (s *DeviceService) List(ctx context.Context, filter *domain.DeviceFilter) (*domain.Page[*domain.Device], error) {
	filter.Normalize()
	devices, total, err := s.DeviceRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return &domain.Page[*domain.Device]{Items: devices, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *DeviceService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDeviceRequest) (*domain.Device, error) {
	device, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SerialNumber != nil && *req.SerialNumber != device.SerialNumber {
		if err := s.ensureSerialFree(ctx, *req.SerialNumber, id); err != nil {
			return nil, err
		}
		device.SerialNumber = *req.SerialNumber
	}
	if req.MACAddress != nil {
		device.MACAddress = req.MACAddress
	}
	if req.Brand != nil {
		device.Brand = *req.Brand
	}
	if req.Model != nil {
		device.Model = *req.Model
	}
	if req.Type != nil {
		device.Type = *req.Type
	}
	if req.Status != nil {
		if device.InstallationID != nil {
			return nil, apperrors.WrapConflict("Unassign the device before changing its status")
		}
		device.Status = *req.Status
	}
	if req.Notes != nil {
		device.Notes = req.Notes
	}

	if err := s.DeviceRepo.Update(ctx, device); err != nil {
		return nil, storeError(err)
	}
	return device, nil
}

// Assign deploys an available device at an installation.
func (s *DeviceService) Assign(ctx context.Context, id uuid.UUID, req *domain.AssignDeviceRequest) (*domain.Device, error) {
	device, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.InstallationRepo.GetByID(ctx, req.InstallationID); err != nil {
		return nil, lookupError(err, "Installation", req.InstallationID)
	}
	if device.Status != domain.DeviceStatusAvailable {
		return nil, apperrors.WrapConflict(fmt.Sprintf("Device %s is %s and cannot be assigned", device.SerialNumber, device.Status))
	}

	device.InstallationID = &req.InstallationID
	device.Status = domain.DeviceStatusAssigned
	if err := s.DeviceRepo.Update(ctx, device); err != nil {
		return nil, storeError(err)
	}

	s.logger.Infow("device assigned", "device_id", id, "installation_id", req.InstallationID)
	return device, nil
}

// Unassign returns a deployed device to the available pool.
func (s *DeviceService) Unassign(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	device, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if device.InstallationID == nil {
		return device, nil
	}

	device.InstallationID = nil
	device.Status = domain.DeviceStatusAvailable
	if err := s.DeviceRepo.Update(ctx, device); err != nil {
		return nil, storeError(err)
	}
	return device, nil
}

func (s *DeviceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.DeviceRepo.Delete(ctx, id); err != nil {
		return lookupError(err, "Device", id)
	}
	return nil
}

func (s *DeviceService) ensureSerialFree(ctx context.Context, serial string, self uuid.UUID) error {
	existing, err := s.DeviceRepo.GetBySerialNumber(ctx, serial)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return storeError(err)
	}
	if existing.ID != self {
		return apperrors.WrapConflict(fmt.Sprintf("A device with serial number %s already exists", serial))
	}
	return nil
}
