package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/segyhp/isp-admin/internal/domain"
)

type roleRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (id, name, description, created_at, updated_at)
		VALUES (:id, :name, :description, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, role)
	return mapWriteError(err, "role")
}

func (r *roleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	var role domain.Role
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &role,
		`SELECT id, name, description, created_at, updated_at FROM roles WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	roles := make([]*domain.Role, 0)
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &roles,
		`SELECT id, name, description, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	role.UpdatedAt = time.Now()

	query := `UPDATE roles SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, role)
	return expectRows(res, mapWriteError(err, "role"))
}

func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	return expectRows(res, err)
}

func (r *roleRepository) CreatePermission(ctx context.Context, permission *domain.Permission) error {
	query := `
		INSERT INTO permissions (id, name, description, category, created_at)
		VALUES (:id, :name, :description, :category, :created_at)
	`

	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, permission)
	return mapWriteError(err, "permission")
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	permissions := make([]*domain.Permission, 0)
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &permissions,
		`SELECT id, name, description, category, created_at FROM permissions ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *roleRepository) GetPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Permission, error) {
	permissions := make([]*domain.Permission, 0)
	if len(ids) == 0 {
		return permissions, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &permissions,
		`SELECT id, name, description, category, created_at FROM permissions WHERE id = ANY($1::uuid[])`, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *roleRepository) GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]domain.Permission, error) {
	query := `
		SELECT p.id, p.name, p.description, p.category, p.created_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.category, p.name
	`

	permissions := make([]domain.Permission, 0)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &permissions, query, roleID); err != nil {
		return nil, err
	}
	return permissions, nil
}

// ReplaceRolePermissions must run inside a transaction to be atomic.
func (r *roleRepository) ReplaceRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	db := conn(ctx, r.db)

	if _, err := db.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}

	for _, permissionID := range permissionIDs {
		_, err := db.ExecContext(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`, roleID, permissionID)
		if err != nil {
			return err
		}
	}

	return nil
}
