package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/isp-admin/internal/domain"
)

const installationColumns = `id, account_id, plan_id, sector_id, address, reference, ip_address, reference_image,
	installed_at, status, created_at, updated_at`

const paymentConfigColumns = `id, installation_id, initial_payment_date, payment_date, advance_payment, payment_status, created_at, updated_at`

type installationRepository struct {
	db *sqlx.DB
}

func NewInstallationRepository(db *sqlx.DB) InstallationRepository {
	return &installationRepository{db: db}
}

func (r *installationRepository) Create(ctx context.Context, installation *domain.Installation) error {
	query := `
		INSERT INTO installations (` + installationColumns + `)
		VALUES (:id, :account_id, :plan_id, :sector_id, :address, :reference, :ip_address, :reference_image,
			:installed_at, :status, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, installation)
	return mapWriteError(err, "installation")
}

func (r *installationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Installation, error) {
	query := `SELECT ` + installationColumns + ` FROM installations WHERE id = $1`

	var installation domain.Installation
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &installation, query, id); err != nil {
		return nil, err
	}

	return &installation, nil
}

func (r *installationRepository) List(ctx context.Context, filter *domain.InstallationFilter) ([]*domain.Installation, int, error) {
	var where whereBuilder
	if filter.AccountID != nil {
		where.add("account_id = $%d", *filter.AccountID)
	}
	if filter.SectorID != nil {
		where.add("sector_id = $%d", *filter.SectorID)
	}
	if filter.Status != nil {
		where.add("status = $%d", *filter.Status)
	}

	var total int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &total, `SELECT COUNT(*) FROM installations`+where.sql(), where.args...); err != nil {
		return nil, 0, err
	}

	suffix, args := where.page(filter.Limit, filter.Offset)
	query := `SELECT ` + installationColumns + ` FROM installations` + where.sql() + ` ORDER BY created_at DESC` + suffix

	installations := make([]*domain.Installation, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &installations, query, args...); err != nil {
		return nil, 0, err
	}

	return installations, total, nil
}

func (r *installationRepository) Update(ctx context.Context, installation *domain.Installation) error {
	installation.UpdatedAt = time.Now()

	query := `
		UPDATE installations
		SET plan_id = :plan_id, sector_id = :sector_id, address = :address, reference = :reference,
			ip_address = :ip_address, reference_image = :reference_image, installed_at = :installed_at,
			status = :status, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, installation)
	return expectRows(res, err)
}

func (r *installationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM installations WHERE id = $1`, id)
	return expectRows(res, err)
}

func (r *installationRepository) GetPaymentConfig(ctx context.Context, installationID uuid.UUID) (*domain.PaymentConfig, error) {
	query := `SELECT ` + paymentConfigColumns + ` FROM installation_payment_configs WHERE installation_id = $1`

	var config domain.PaymentConfig
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &config, query, installationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func (r *installationRepository) UpsertPaymentConfig(ctx context.Context, config *domain.PaymentConfig) error {
	config.UpdatedAt = time.Now()

	query := `
		INSERT INTO installation_payment_configs (` + paymentConfigColumns + `)
		VALUES (:id, :installation_id, :initial_payment_date, :payment_date, :advance_payment, :payment_status, :created_at, :updated_at)
		ON CONFLICT (installation_id) DO UPDATE
		SET initial_payment_date = EXCLUDED.initial_payment_date, payment_date = EXCLUDED.payment_date,
			advance_payment = EXCLUDED.advance_payment, payment_status = EXCLUDED.payment_status,
			updated_at = EXCLUDED.updated_at
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, config)
	return err
}

func (r *installationRepository) ListPaymentConfigs(ctx context.Context) ([]*domain.PaymentConfig, error) {
	query := `SELECT ` + paymentConfigColumns + ` FROM installation_payment_configs ORDER BY created_at`

	configs := make([]*domain.PaymentConfig, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &configs, query); err != nil {
		return nil, err
	}
	return configs, nil
}
