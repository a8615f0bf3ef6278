package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

// RoleService manages roles and the permissions granted to them. The
// SUPER_ADMIN role can only have its description edited.
type RoleService struct {
	RoleRepo repository.RoleRepository
	Now      Clock

	tx     repository.Transactor
	logger *logger.Logger
}

func NewRoleService(roleRepo repository.RoleRepository, tx repository.Transactor, logger *logger.Logger) *RoleService {
	return &RoleService{
		RoleRepo: roleRepo,
		Now:      time.Now,
		tx:       tx,
		logger:   logger,
	}
}

func (s *RoleService) CreateRole(ctx context.Context, req *domain.RoleRequest) (*domain.Role, error) {
	if req.Name == domain.SuperAdminRole {
		return nil, apperrors.WrapProtectedRole(req.Name)
	}

	now := s.Now()
	role := &domain.Role{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Permissions: []domain.Permission{},
	}
	if err := s.RoleRepo.Create(ctx, role); err != nil {
		return nil, storeError(err)
	}
	return role, nil
}

func (s *RoleService) GetRole(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	role, err := s.RoleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Role", id)
	}
	permissions, err := s.RoleRepo.GetRolePermissions(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	role.Permissions = permissions
	return role, nil
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	roles, err := s.RoleRepo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return roles, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, id uuid.UUID, req *domain.RoleRequest) (*domain.Role, error) {
	role, err := s.RoleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Role", id)
	}
	if req.Name != role.Name && (role.IsProtected() || req.Name == domain.SuperAdminRole) {
		return nil, apperrors.WrapProtectedRole(domain.SuperAdminRole)
	}

	role.Name = req.Name
	role.Description = req.Description
	if err := s.RoleRepo.Update(ctx, role); err != nil {
		return nil, storeError(err)
	}
	return role, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	role, err := s.RoleRepo.GetByID(ctx, id)
	if err != nil {
		return lookupError(err, "Role", id)
	}
	if role.IsProtected() {
		return apperrors.WrapProtectedRole(role.Name)
	}
	if err := s.RoleRepo.Delete(ctx, id); err != nil {
		return lookupError(err, "Role", id)
	}
	s.logger.Infow("role deleted", "role_id", id, "name", role.Name)
	return nil
}

// SetRolePermissions replaces the full permission set of a role.
func (s *RoleService) SetRolePermissions(ctx context.Context, id uuid.UUID, req *domain.SetRolePermissionsRequest) (*domain.Role, error) {
	ids := lo.Uniq(req.PermissionIDs)
	var role *domain.Role

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		role, err = s.RoleRepo.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "Role", id)
		}
		if role.IsProtected() {
			return apperrors.WrapProtectedRole(role.Name)
		}

		permissions, err := s.RoleRepo.GetPermissionsByIDs(ctx, ids)
		if err != nil {
			return storeError(err)
		}
		found := lo.Map(permissions, func(p *domain.Permission, _ int) uuid.UUID { return p.ID })
		if missing := lo.Without(ids, found...); len(missing) > 0 {
			names := lo.Map(missing, func(id uuid.UUID, _ int) string { return id.String() })
			return apperrors.WrapNotFound("Permission", strings.Join(names, ", "))
		}

		if err := s.RoleRepo.ReplaceRolePermissions(ctx, id, ids); err != nil {
			return storeError(err)
		}
		role.Permissions = lo.Map(permissions, func(p *domain.Permission, _ int) domain.Permission { return *p })
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("role permissions replaced", "role_id", id, "count", len(ids))
	return role, nil
}

func (s *RoleService) CreatePermission(ctx context.Context, req *domain.PermissionRequest) (*domain.Permission, error) {
	permission := &domain.Permission{
		ID:          uuid.New(),
		Name:        strings.ToLower(req.Name),
		Description: req.Description,
		Category:    req.Category,
		CreatedAt:   s.Now(),
	}
	if err := s.RoleRepo.CreatePermission(ctx, permission); err != nil {
		return nil, storeError(err)
	}
	return permission, nil
}

// ListPermissions returns every permission grouped by category.
func (s *RoleService) ListPermissions(ctx context.Context) (map[string][]*domain.Permission, error) {
	permissions, err := s.RoleRepo.ListPermissions(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return lo.GroupBy(permissions, func(p *domain.Permission) string { return p.Category }), nil
}
