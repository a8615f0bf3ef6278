package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/isp-admin/internal/domain"
)

const deviceColumns = `id, serial_number, mac_address, brand, model, type, status, installation_id, notes, created_at, updated_at`

type deviceRepository struct {
	db *sqlx.DB
}

func NewDeviceRepository(db *sqlx.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(ctx context.Context, device *domain.Device) error {
	query := `
		INSERT INTO devices (` + deviceColumns + `)
		VALUES (:id, :serial_number, :mac_address, :brand, :model, :type, :status, :installation_id, :notes, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, device)
	return mapWriteError(err, "device")
}

func (r *deviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	var device domain.Device
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &device, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepository) GetBySerialNumber(ctx context.Context, serial string) (*domain.Device, error) {
	var device domain.Device
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &device, `SELECT `+deviceColumns+` FROM devices WHERE serial_number = $1`, serial); err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepository) List(ctx context.Context, filter *domain.DeviceFilter) ([]*domain.Device, int, error) {
	var where whereBuilder
	if filter.Status != nil {
		where.add("status = $%d", *filter.Status)
	}
	if filter.Type != nil {
		where.add("type = $%d", *filter.Type)
	}
	if filter.InstallationID != nil {
		where.add("installation_id = $%d", *filter.InstallationID)
	}

	var total int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &total, `SELECT COUNT(*) FROM devices`+where.sql(), where.args...); err != nil {
		return nil, 0, err
	}

	suffix, args := where.page(filter.Limit, filter.Offset)
	query := `SELECT ` + deviceColumns + ` FROM devices` + where.sql() + ` ORDER BY created_at DESC` + suffix

	devices := make([]*domain.Device, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &devices, query, args...); err != nil {
		return nil, 0, err
	}

	return devices, total, nil
}

func (r *deviceRepository) Update(ctx context.Context, device *domain.Device) error {
	device.UpdatedAt = time.Now()

	query := `
		UPDATE devices
		SET serial_number = :serial_number, mac_address = :mac_address, brand = :brand, model = :model,
			type = :type, status = :status, installation_id = :installation_id, notes = :notes, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, device)
	return expectRows(res, mapWriteError(err, "device"))
}

func (r *deviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM devices WHERE id = $1`, id)
	return expectRows(res, err)
}
