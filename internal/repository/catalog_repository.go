package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/isp-admin/internal/domain"
)

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	query := `
		INSERT INTO plans (id, name, price, download_mbps, upload_mbps, description, active, created_at, updated_at)
		VALUES (:id, :name, :price, :download_mbps, :upload_mbps, :description, :active, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, plan)
	return mapWriteError(err, "plan")
}

func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	query := `
		SELECT id, name, price, download_mbps, upload_mbps, description, active, created_at, updated_at
		FROM plans
		WHERE id = $1
	`

	var plan domain.Plan
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &plan, query, id); err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *planRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	query := `
		SELECT id, name, price, download_mbps, upload_mbps, description, active, created_at, updated_at
		FROM plans
		WHERE ($1 = FALSE OR active = TRUE)
		ORDER BY price, name
	`

	plans := make([]*domain.Plan, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &plans, query, activeOnly); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	plan.UpdatedAt = time.Now()

	query := `
		UPDATE plans
		SET name = :name, price = :price, download_mbps = :download_mbps, upload_mbps = :upload_mbps,
			description = :description, active = :active, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, plan)
	return expectRows(res, mapWriteError(err, "plan"))
}

func (r *planRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	return expectRows(res, err)
}

type sectorRepository struct {
	db *sqlx.DB
}

func NewSectorRepository(db *sqlx.DB) SectorRepository {
	return &sectorRepository{db: db}
}

func (r *sectorRepository) Create(ctx context.Context, sector *domain.Sector) error {
	query := `
		INSERT INTO sectors (id, name, description, created_at, updated_at)
		VALUES (:id, :name, :description, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, sector)
	return mapWriteError(err, "sector")
}

func (r *sectorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sector, error) {
	var sector domain.Sector
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &sector,
		`SELECT id, name, description, created_at, updated_at FROM sectors WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return &sector, nil
}

func (r *sectorRepository) List(ctx context.Context) ([]*domain.Sector, error) {
	sectors := make([]*domain.Sector, 0)
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &sectors,
		`SELECT id, name, description, created_at, updated_at FROM sectors ORDER BY name`)
	if err != nil {
		return nil, err
	}

	return sectors, nil
}

func (r *sectorRepository) Update(ctx context.Context, sector *domain.Sector) error {
	sector.UpdatedAt = time.Now()

	query := `
		UPDATE sectors
		SET name = :name, description = :description, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, sector)
	return expectRows(res, mapWriteError(err, "sector"))
}

func (r *sectorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM sectors WHERE id = $1`, id)
	return expectRows(res, err)
}
