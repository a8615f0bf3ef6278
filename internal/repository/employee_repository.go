package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/segyhp/isp-admin/internal/domain"
)

const employeeColumns = `id, first_name, last_name, document_id, email, phone, username, password_hash, role_id, status, created_at, updated_at`

type employeeRepository struct {
	db *sqlx.DB
}

func NewEmployeeRepository(db *sqlx.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES (:id, :first_name, :last_name, :document_id, :email, :phone, :username, :password_hash, :role_id, :status, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, employee)
	return mapWriteError(err, "employee")
}

func (r *employeeRepository) get(ctx context.Context, column string, value interface{}) (*domain.Employee, error) {
	var employee domain.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE ` + column + ` = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &employee, query, value); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return r.get(ctx, "id", id)
}

func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	return r.get(ctx, "username", username)
}

func (r *employeeRepository) GetByDocumentID(ctx context.Context, documentID string) (*domain.Employee, error) {
	return r.get(ctx, "document_id", documentID)
}

func (r *employeeRepository) List(ctx context.Context, filter *domain.ListFilter) ([]*domain.Employee, int, error) {
	var total int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &total, `SELECT COUNT(*) FROM employees`); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY last_name, first_name LIMIT $1 OFFSET $2`

	employees := make([]*domain.Employee, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &employees, query, filter.Limit, filter.Offset); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	employee.UpdatedAt = time.Now()

	query := `
		UPDATE employees
		SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
			password_hash = :password_hash, role_id = :role_id, status = :status, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, employee)
	return expectRows(res, mapWriteError(err, "employee"))
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return expectRows(res, err)
}
