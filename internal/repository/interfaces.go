package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/isp-admin/internal/domain"
)

// Lookups return sql.ErrNoRows when the record does not exist. Updates and
// deletes do the same when no row matched.

// AccountRepository defines the interface for client account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByDocumentID(ctx context.Context, documentID string) (*domain.Account, error)
	List(ctx context.Context, filter *domain.AccountFilter) ([]*domain.Account, int, error)

	// ListIDs returns every account ID, oldest first. Used by the status sweep.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository defines the interface for ledger data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context, filter *domain.PaymentFilter) ([]*domain.Payment, int, error)

	// CountByAccount counts every payment of the account, voided included.
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error)

	// GetLatestValid returns the non-voided payment with the latest due date,
	// or nil when the account has none.
	GetLatestValid(ctx context.Context, accountID uuid.UUID) (*domain.Payment, error)

	CreateHistory(ctx context.Context, entry *domain.PaymentHistory) error
	ListHistory(ctx context.Context, paymentID uuid.UUID) ([]*domain.PaymentHistory, error)
	ListAccountHistory(ctx context.Context, accountID uuid.UUID) ([]*domain.PaymentHistory, error)
}

// InstallationRepository defines the interface for installation data operations
type InstallationRepository interface {
	Create(ctx context.Context, installation *domain.Installation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Installation, error)
	List(ctx context.Context, filter *domain.InstallationFilter) ([]*domain.Installation, int, error)
	Update(ctx context.Context, installation *domain.Installation) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetPaymentConfig returns nil when the installation has no override.
	GetPaymentConfig(ctx context.Context, installationID uuid.UUID) (*domain.PaymentConfig, error)
	UpsertPaymentConfig(ctx context.Context, config *domain.PaymentConfig) error
	ListPaymentConfigs(ctx context.Context) ([]*domain.PaymentConfig, error)
}

// PlanRepository defines the interface for plan data operations
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SectorRepository defines the interface for sector data operations
type SectorRepository interface {
	Create(ctx context.Context, sector *domain.Sector) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sector, error)
	List(ctx context.Context) ([]*domain.Sector, error)
	Update(ctx context.Context, sector *domain.Sector) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DeviceRepository defines the interface for device inventory operations
type DeviceRepository interface {
	Create(ctx context.Context, device *domain.Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	GetBySerialNumber(ctx context.Context, serial string) (*domain.Device, error)
	List(ctx context.Context, filter *domain.DeviceFilter) ([]*domain.Device, int, error)
	Update(ctx context.Context, device *domain.Device) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	GetByUsername(ctx context.Context, username string) (*domain.Employee, error)
	GetByDocumentID(ctx context.Context, documentID string) (*domain.Employee, error)
	List(ctx context.Context, filter *domain.ListFilter) ([]*domain.Employee, int, error)
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoleRepository defines the interface for role and permission operations
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreatePermission(ctx context.Context, permission *domain.Permission) error
	ListPermissions(ctx context.Context) ([]*domain.Permission, error)
	GetPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Permission, error)
	GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]domain.Permission, error)
	ReplaceRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error
}

// CompanyRepository defines the interface for the company metadata row
type CompanyRepository interface {
	// Get returns sql.ErrNoRows until the company has been configured.
	Get(ctx context.Context) (*domain.Company, error)
	Upsert(ctx context.Context, company *domain.Company) error
}
