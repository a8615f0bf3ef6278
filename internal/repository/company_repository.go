package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/segyhp/isp-admin/internal/domain"
)

type companyRepository struct {
	db *sqlx.DB
}

func NewCompanyRepository(db *sqlx.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Get(ctx context.Context) (*domain.Company, error) {
	query := `
		SELECT id, name, tax_id, address, phone, email, website, currency, logo, created_at, updated_at
		FROM company
		ORDER BY created_at
		LIMIT 1
	`

	var company domain.Company
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &company, query); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Upsert(ctx context.Context, company *domain.Company) error {
	company.UpdatedAt = time.Now()

	query := `
		INSERT INTO company (id, name, tax_id, address, phone, email, website, currency, logo, created_at, updated_at)
		VALUES (:id, :name, :tax_id, :address, :phone, :email, :website, :currency, :logo, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, tax_id = EXCLUDED.tax_id, address = EXCLUDED.address, phone = EXCLUDED.phone,
			email = EXCLUDED.email, website = EXCLUDED.website, currency = EXCLUDED.currency, logo = EXCLUDED.logo,
			updated_at = EXCLUDED.updated_at
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, company)
	return err
}
