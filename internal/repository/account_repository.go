package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/isp-admin/internal/domain"
)

const accountColumns = `id, first_name, last_name, document_id, email, phone, address, plan_id, sector_id,
	payment_date, initial_payment_date, advance_payment, status, payment_status, description, created_at, updated_at`

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (:id, :first_name, :last_name, :document_id, :email, :phone, :address, :plan_id, :sector_id,
			:payment_date, :initial_payment_date, :advance_payment, :status, :payment_status, :description, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, account)
	return mapWriteError(err, "account")
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	var account domain.Account
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &account, query, id); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) GetByDocumentID(ctx context.Context, documentID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE document_id = $1`

	var account domain.Account
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &account, query, documentID); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) List(ctx context.Context, filter *domain.AccountFilter) ([]*domain.Account, int, error) {
	var where whereBuilder
	if filter.Status != nil {
		where.add("status = $%d", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		where.add("payment_status = $%d", *filter.PaymentStatus)
	}
	if filter.SectorID != nil {
		where.add("sector_id = $%d", *filter.SectorID)
	}
	if filter.PlanID != nil {
		where.add("plan_id = $%d", *filter.PlanID)
	}
	if filter.Search != "" {
		where.add("(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR document_id ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	var total int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &total, `SELECT COUNT(*) FROM accounts`+where.sql(), where.args...); err != nil {
		return nil, 0, err
	}

	suffix, args := where.page(filter.Limit, filter.Offset)
	query := `SELECT ` + accountColumns + ` FROM accounts` + where.sql() + ` ORDER BY last_name, first_name` + suffix

	accounts := make([]*domain.Account, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &accounts, query, args...); err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *accountRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &ids, `SELECT id FROM accounts ORDER BY created_at, id`); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	account.UpdatedAt = time.Now()

	query := `
		UPDATE accounts
		SET first_name = :first_name, last_name = :last_name, document_id = :document_id, email = :email,
			phone = :phone, address = :address, plan_id = :plan_id, sector_id = :sector_id,
			payment_date = :payment_date, initial_payment_date = :initial_payment_date,
			advance_payment = :advance_payment, status = :status, payment_status = :payment_status,
			description = :description, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, account)
	return expectRows(res, mapWriteError(err, "account"))
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return expectRows(res, err)
}
