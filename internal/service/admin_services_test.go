package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository/mocks"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

func TestCatalogCreatePlan_DefaultsActive(t *testing.T) {
	plans := &mocks.MockPlanRepository{}
	svc := NewCatalogService(plans, &mocks.MockSectorRepository{}, logger.NewNop())
	plans.On("Create", mock.Anything, mock.AnythingOfType("*domain.Plan")).Return(nil)

	plan, err := svc.CreatePlan(context.Background(), &domain.PlanRequest{
		Name:         "Fibra 200",
		Price:        decimal.RequireFromString("99.90"),
		DownloadMbps: 200,
		UploadMbps:   100,
	})

	require.NoError(t, err)
	assert.True(t, plan.Active)
	assert.Equal(t, "99.9", plan.Price.String())
}

func TestCatalogCreateSector_DuplicateName(t *testing.T) {
	sectors := &mocks.MockSectorRepository{}
	svc := NewCatalogService(&mocks.MockPlanRepository{}, sectors, logger.NewNop())
	sectors.On("Create", mock.Anything, mock.Anything).Return(apperrors.WrapConflict("sector already exists (sectors_name_key)"))

	_, err := svc.CreateSector(context.Background(), &domain.SectorRequest{Name: "Norte"})

	assert.True(t, apperrors.IsConflict(err))
}

func TestCatalogUpdatePlan_Deactivate(t *testing.T) {
	plans := &mocks.MockPlanRepository{}
	svc := NewCatalogService(plans, &mocks.MockSectorRepository{}, logger.NewNop())
	plan := &domain.Plan{ID: uuid.New(), Name: "Old", Active: true}
	plans.On("GetByID", mock.Anything, plan.ID).Return(plan, nil)
	plans.On("Update", mock.Anything, plan).Return(nil)

	updated, err := svc.UpdatePlan(context.Background(), plan.ID, &domain.PlanRequest{Name: "New", Active: lo.ToPtr(domain.FlexBool(false))})

	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.False(t, updated.Active)
}

func TestDeviceAssignAndUnassign(t *testing.T) {
	devices := &mocks.MockDeviceRepository{}
	installations := &mocks.MockInstallationRepository{}
	svc := NewDeviceService(devices, installations, logger.NewNop())

	device := &domain.Device{ID: uuid.New(), SerialNumber: "ZTE-001", Status: domain.DeviceStatusAvailable}
	installationID := uuid.New()
	devices.On("GetByID", mock.Anything, device.ID).Return(device, nil)
	installations.On("GetByID", mock.Anything, installationID).Return(&domain.Installation{ID: installationID}, nil)
	devices.On("Update", mock.Anything, device).Return(nil)

	assigned, err := svc.Assign(context.Background(), device.ID, &domain.AssignDeviceRequest{InstallationID: installationID})
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusAssigned, assigned.Status)
	assert.Equal(t, installationID, *assigned.InstallationID)

	_, err = svc.Assign(context.Background(), device.ID, &domain.AssignDeviceRequest{InstallationID: installationID})
	assert.True(t, apperrors.IsConflict(err))

	released, err := svc.Unassign(context.Background(), device.ID)
	require.NoError(t, err)
	assert.Nil(t, released.InstallationID)
	assert.Equal(t, domain.DeviceStatusAvailable, released.Status)
}

func TestDeviceCreate_DuplicateSerial(t *testing.T) {
	devices := &mocks.MockDeviceRepository{}
	svc := NewDeviceService(devices, &mocks.MockInstallationRepository{}, logger.NewNop())
	devices.On("GetBySerialNumber", mock.Anything, "ZTE-001").Return(&domain.Device{ID: uuid.New()}, nil)

	_, err := svc.Create(context.Background(), &domain.CreateDeviceRequest{SerialNumber: "ZTE-001"})

	assert.True(t, apperrors.IsConflict(err))
}

func TestEmployeeCreate_HashesPassword(t *testing.T) {
	employees := &mocks.MockEmployeeRepository{}
	roles := &mocks.MockRoleRepository{}
	svc := NewEmployeeService(employees, roles, logger.NewNop())
	roleID := uuid.New()

	employees.On("GetByUsername", mock.Anything, "jperez").Return(nil, sql.ErrNoRows)
	employees.On("GetByDocumentID", mock.Anything, "40404040").Return(nil, sql.ErrNoRows)
	roles.On("GetByID", mock.Anything, roleID).Return(&domain.Role{ID: roleID}, nil)
	employees.On("Create", mock.Anything, mock.AnythingOfType("*domain.Employee")).Return(nil)

	employee, err := svc.Create(context.Background(), &domain.CreateEmployeeRequest{
		FirstName:  "Juan",
		LastName:   "Perez",
		DocumentID: "40404040",
		Username:   "jperez",
		Password:   "s3cret-pass",
		RoleID:     roleID,
	})

	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", employee.PasswordHash)
	assert.True(t, CheckPassword(employee, "s3cret-pass"))
	assert.False(t, CheckPassword(employee, "wrong"))
	assert.Equal(t, domain.EmployeeStatusActive, employee.Status)
}

func TestEmployeeCreate_Conflicts(t *testing.T) {
	t.Run("username", func(t *testing.T) {
		employees := &mocks.MockEmployeeRepository{}
		svc := NewEmployeeService(employees, &mocks.MockRoleRepository{}, logger.NewNop())
		employees.On("GetByUsername", mock.Anything, "jperez").Return(&domain.Employee{}, nil)

		_, err := svc.Create(context.Background(), &domain.CreateEmployeeRequest{Username: "jperez", DocumentID: "1"})
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("document", func(t *testing.T) {
		employees := &mocks.MockEmployeeRepository{}
		svc := NewEmployeeService(employees, &mocks.MockRoleRepository{}, logger.NewNop())
		employees.On("GetByUsername", mock.Anything, "jperez").Return(nil, sql.ErrNoRows)
		employees.On("GetByDocumentID", mock.Anything, "1").Return(&domain.Employee{}, nil)

		_, err := svc.Create(context.Background(), &domain.CreateEmployeeRequest{Username: "jperez", DocumentID: "1"})
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("unknown role", func(t *testing.T) {
		employees := &mocks.MockEmployeeRepository{}
		roles := &mocks.MockRoleRepository{}
		svc := NewEmployeeService(employees, roles, logger.NewNop())
		roleID := uuid.New()
		employees.On("GetByUsername", mock.Anything, "jperez").Return(nil, sql.ErrNoRows)
		employees.On("GetByDocumentID", mock.Anything, "1").Return(nil, sql.ErrNoRows)
		roles.On("GetByID", mock.Anything, roleID).Return(nil, sql.ErrNoRows)

		_, err := svc.Create(context.Background(), &domain.CreateEmployeeRequest{Username: "jperez", DocumentID: "1", RoleID: roleID})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestRoleService_ProtectedRole(t *testing.T) {
	roles := &mocks.MockRoleRepository{}
	svc := NewRoleService(roles, &mocks.Transactor{}, logger.NewNop())
	admin := &domain.Role{ID: uuid.New(), Name: domain.SuperAdminRole}
	roles.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	_, err := svc.SetRolePermissions(context.Background(), admin.ID, &domain.SetRolePermissionsRequest{PermissionIDs: []uuid.UUID{uuid.New()}})
	assert.True(t, apperrors.Is(err, apperrors.ErrProtectedRole))

	_, err = svc.UpdateRole(context.Background(), admin.ID, &domain.RoleRequest{Name: "ADMIN"})
	assert.True(t, apperrors.IsConflict(err))

	assert.True(t, apperrors.IsConflict(svc.DeleteRole(context.Background(), admin.ID)))

	_, err = svc.CreateRole(context.Background(), &domain.RoleRequest{Name: domain.SuperAdminRole})
	assert.True(t, apperrors.IsConflict(err))

	roles.On("Update", mock.Anything, admin).Return(nil)
	updated, err := svc.UpdateRole(context.Background(), admin.ID, &domain.RoleRequest{Name: domain.SuperAdminRole, Description: lo.ToPtr("all access")})
	require.NoError(t, err)
	assert.Equal(t, "all access", *updated.Description)

	roles.AssertNotCalled(t, "ReplaceRolePermissions", mock.Anything, mock.Anything, mock.Anything)
	roles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRoleService_SetRolePermissions(t *testing.T) {
	roles := &mocks.MockRoleRepository{}
	tx := &mocks.Transactor{}
	svc := NewRoleService(roles, tx, logger.NewNop())
	role := &domain.Role{ID: uuid.New(), Name: "CASHIER"}
	p1 := &domain.Permission{ID: uuid.New(), Name: "payments.create", Category: "payments"}
	p2 := &domain.Permission{ID: uuid.New(), Name: "payments.void", Category: "payments"}

	roles.On("GetByID", mock.Anything, role.ID).Return(role, nil)
	roles.On("GetPermissionsByIDs", mock.Anything, []uuid.UUID{p1.ID, p2.ID}).Return([]*domain.Permission{p1, p2}, nil)
	roles.On("ReplaceRolePermissions", mock.Anything, role.ID, []uuid.UUID{p1.ID, p2.ID}).Return(nil)

	updated, err := svc.SetRolePermissions(context.Background(), role.ID, &domain.SetRolePermissionsRequest{
		PermissionIDs: []uuid.UUID{p1.ID, p2.ID, p1.ID},
	})

	require.NoError(t, err)
	assert.Len(t, updated.Permissions, 2)
	assert.Equal(t, 1, tx.Calls)
}

func TestRoleService_SetRolePermissions_UnknownPermission(t *testing.T) {
	roles := &mocks.MockRoleRepository{}
	svc := NewRoleService(roles, &mocks.Transactor{}, logger.NewNop())
	role := &domain.Role{ID: uuid.New(), Name: "CASHIER"}
	known := &domain.Permission{ID: uuid.New()}
	unknown := uuid.New()

	roles.On("GetByID", mock.Anything, role.ID).Return(role, nil)
	roles.On("GetPermissionsByIDs", mock.Anything, mock.Anything).Return([]*domain.Permission{known}, nil)

	_, err := svc.SetRolePermissions(context.Background(), role.ID, &domain.SetRolePermissionsRequest{
		PermissionIDs: []uuid.UUID{known.ID, unknown},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, apperrors.PublicMessage(err), unknown.String())
}

func TestRoleService_ListPermissionsGroupsByCategory(t *testing.T) {
	roles := &mocks.MockRoleRepository{}
	svc := NewRoleService(roles, &mocks.Transactor{}, logger.NewNop())
	roles.On("ListPermissions", mock.Anything).Return([]*domain.Permission{
		{Name: "payments.create", Category: "payments"},
		{Name: "payments.void", Category: "payments"},
		{Name: "accounts.read", Category: "accounts"},
	}, nil)

	grouped, err := svc.ListPermissions(context.Background())

	require.NoError(t, err)
	assert.Len(t, grouped["payments"], 2)
	assert.Len(t, grouped["accounts"], 1)
}

func TestCompanyUpsert_CreatesThenUpdates(t *testing.T) {
	companies := &mocks.MockCompanyRepository{}
	svc := NewCompanyService(companies, &memoryFileStore{}, logger.NewNop())

	companies.On("Get", mock.Anything).Return(nil, sql.ErrNoRows).Once()
	companies.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Company")).Return(nil)

	created, err := svc.Upsert(context.Background(), &domain.CompanyRequest{Name: "NetAndes", TaxID: "20123456789", Currency: "PEN"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	companies.On("Get", mock.Anything).Return(created, nil)
	updated, err := svc.Upsert(context.Background(), &domain.CompanyRequest{Name: "NetAndes SAC", TaxID: "20123456789", Currency: "PEN"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "NetAndes SAC", updated.Name)
}

func TestCompanyUploadLogo(t *testing.T) {
	companies := &mocks.MockCompanyRepository{}
	files := &memoryFileStore{}
	svc := NewCompanyService(companies, files, logger.NewNop())
	company := &domain.Company{ID: uuid.New(), Name: "NetAndes", Logo: lo.ToPtr("/content/old-logo.png")}
	companies.On("Get", mock.Anything).Return(company, nil)
	companies.On("Upsert", mock.Anything, company).Return(nil)

	updated, err := svc.UploadLogo(context.Background(), "logo.png", strings.NewReader("png"))

	require.NoError(t, err)
	assert.Equal(t, "/content/stored-logo.png", *updated.Logo)
	assert.Equal(t, []string{"old-logo.png"}, files.deleted)
}

func TestCompanyGet_NotConfigured(t *testing.T) {
	companies := &mocks.MockCompanyRepository{}
	svc := NewCompanyService(companies, &memoryFileStore{}, logger.NewNop())
	companies.On("Get", mock.Anything).Return(nil, sql.ErrNoRows)

	_, err := svc.Get(context.Background())

	assert.Equal(t, 404, apperrors.HTTPStatus(err))
}
