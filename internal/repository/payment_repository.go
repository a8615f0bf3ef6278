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

const paymentColumns = `id, account_id, code, amount, base_amount, reconnection_fee, discount, due_date, payment_date,
	state, reference, payment_method, description, is_voided, voided_at, void_reason, created_at, updated_at`

const historyColumns = `id, payment_id, account_id, action, amount, discount, due_date, payment_date, state, reference, created_at`

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES (:id, :account_id, :code, :amount, :base_amount, :reconnection_fee, :discount, :due_date, :payment_date,
			:state, :reference, :payment_method, :description, :is_voided, :voided_at, :void_reason, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, payment)
	return mapWriteError(err, "payment")
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var payment domain.Payment
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	payment.UpdatedAt = time.Now()

	query := `
		UPDATE payments
		SET amount = :amount, base_amount = :base_amount, reconnection_fee = :reconnection_fee, discount = :discount,
			due_date = :due_date, payment_date = :payment_date, state = :state, reference = :reference,
			payment_method = :payment_method, description = :description, is_voided = :is_voided,
			voided_at = :voided_at, void_reason = :void_reason, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, payment)
	return expectRows(res, err)
}

func (r *paymentRepository) List(ctx context.Context, filter *domain.PaymentFilter) ([]*domain.Payment, int, error) {
	var where whereBuilder
	if filter.AccountID != nil {
		where.add("account_id = $%d", *filter.AccountID)
	}
	if filter.State != nil {
		where.add("state = $%d", *filter.State)
	}
	if !filter.IncludeVoided {
		where.add("is_voided = $%d", false)
	}
	if filter.DueFrom != nil {
		where.add("due_date >= $%d", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		where.add("due_date <= $%d", *filter.DueTo)
	}

	var total int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &total, `SELECT COUNT(*) FROM payments`+where.sql(), where.args...); err != nil {
		return nil, 0, err
	}

	suffix, args := where.page(filter.Limit, filter.Offset)
	query := `SELECT ` + paymentColumns + ` FROM payments` + where.sql() + ` ORDER BY created_at DESC` + suffix

	payments := make([]*domain.Payment, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &payments, query, args...); err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *paymentRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &count, `SELECT COUNT(*) FROM payments WHERE account_id = $1`, accountID)
	return count, err
}

func (r *paymentRepository) GetLatestValid(ctx context.Context, accountID uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE account_id = $1 AND is_voided = FALSE AND due_date IS NOT NULL
		ORDER BY due_date DESC, created_at DESC
		LIMIT 1
	`

	var payment domain.Payment
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &payment, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) CreateHistory(ctx context.Context, entry *domain.PaymentHistory) error {
	query := `
		INSERT INTO payment_histories (` + historyColumns + `)
		VALUES (:id, :payment_id, :account_id, :action, :amount, :discount, :due_date, :payment_date, :state, :reference, :created_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, entry)
	return err
}

func (r *paymentRepository) ListHistory(ctx context.Context, paymentID uuid.UUID) ([]*domain.PaymentHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM payment_histories WHERE payment_id = $1 ORDER BY created_at`

	entries := make([]*domain.PaymentHistory, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &entries, query, paymentID); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *paymentRepository) ListAccountHistory(ctx context.Context, accountID uuid.UUID) ([]*domain.PaymentHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM payment_histories WHERE account_id = $1 ORDER BY created_at DESC`

	entries := make([]*domain.PaymentHistory, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &entries, query, accountID); err != nil {
		return nil, err
	}
	return entries, nil
}
