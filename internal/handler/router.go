package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/storage"
	"github.com/segyhp/isp-admin/pkg/response"
)

// Handlers bundles every resource handler mounted by NewRouter. Health is
// optional so tests can build a router without a database.
type Handlers struct {
	Health       *HealthHandler
	Account      *AccountHandler
	Payment      *PaymentHandler
	Installation *InstallationHandler
	Catalog      *CatalogHandler
	Device       *DeviceHandler
	Employee     *EmployeeHandler
	Company      *CompanyHandler
}

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	// Auth guards /api/v1 when set.
	Auth func(http.Handler) http.Handler
	// ContentDir is served read-only under /content/ when set.
	ContentDir string
}

// NewRouter mounts every route. CORS wraps the whole router so preflight
// requests are answered before method matching.
func NewRouter(h Handlers, opts RouterOptions, log *logger.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(log))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found")
	})

	// Health check
	if h.Health != nil {
		router.HandleFunc("/health", h.Health.Health).Methods("GET")
		router.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")
	}

	if opts.ContentDir != "" {
		router.PathPrefix(storage.PublicPrefix).Handler(
			http.StripPrefix(storage.PublicPrefix, http.FileServer(http.Dir(opts.ContentDir))),
		).Methods("GET", "HEAD")
	}

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	if opts.Auth != nil {
		api.Use(opts.Auth)
	}

	// sync-states must be registered before /accounts/{id}
	api.HandleFunc("/accounts/sync-states", h.Account.SyncStates).Methods("POST")
	api.HandleFunc("/accounts", h.Account.Create).Methods("POST")
	api.HandleFunc("/accounts", h.Account.List).Methods("GET")
	api.HandleFunc("/accounts/{id}", h.Account.Get).Methods("GET")
	api.HandleFunc("/accounts/{id}", h.Account.Update).Methods("PUT")
	api.HandleFunc("/accounts/{id}", h.Account.Delete).Methods("DELETE")
	api.HandleFunc("/accounts/{id}/status", h.Account.UpdateStatus).Methods("PATCH")
	api.HandleFunc("/accounts/{id}/payments", h.Account.Payments).Methods("GET")
	api.HandleFunc("/accounts/{id}/payment-history", h.Account.PaymentHistory).Methods("GET")
	api.HandleFunc("/accounts/{id}/installations", h.Account.Installations).Methods("GET")

	api.HandleFunc("/payments", h.Payment.Create).Methods("POST")
	api.HandleFunc("/payments", h.Payment.List).Methods("GET")
	api.HandleFunc("/payments/{id}", h.Payment.Get).Methods("GET")
	api.HandleFunc("/payments/{id}", h.Payment.Update).Methods("PUT")
	api.HandleFunc("/payments/{id}/void", h.Payment.Void).Methods("POST")
	api.HandleFunc("/payments/{id}/history", h.Payment.History).Methods("GET")

	api.HandleFunc("/installations", h.Installation.Create).Methods("POST")
	api.HandleFunc("/installations", h.Installation.List).Methods("GET")
	api.HandleFunc("/installations/{id}", h.Installation.Get).Methods("GET")
	api.HandleFunc("/installations/{id}", h.Installation.Update).Methods("PUT")
	api.HandleFunc("/installations/{id}", h.Installation.Delete).Methods("DELETE")
	api.HandleFunc("/installations/{id}/payment-config", h.Installation.UpdatePaymentConfig).Methods("PUT")
	api.HandleFunc("/installations/{id}/reference-image", h.Installation.UploadReferenceImage).Methods("POST")

	api.HandleFunc("/plans", h.Catalog.CreatePlan).Methods("POST")
	api.HandleFunc("/plans", h.Catalog.ListPlans).Methods("GET")
	api.HandleFunc("/plans/{id}", h.Catalog.GetPlan).Methods("GET")
	api.HandleFunc("/plans/{id}", h.Catalog.UpdatePlan).Methods("PUT")
	api.HandleFunc("/plans/{id}", h.Catalog.DeletePlan).Methods("DELETE")

	api.HandleFunc("/sectors", h.Catalog.CreateSector).Methods("POST")
	api.HandleFunc("/sectors", h.Catalog.ListSectors).Methods("GET")
	api.HandleFunc("/sectors/{id}", h.Catalog.GetSector).Methods("GET")
	api.HandleFunc("/sectors/{id}", h.Catalog.UpdateSector).Methods("PUT")
	api.HandleFunc("/sectors/{id}", h.Catalog.DeleteSector).Methods("DELETE")

	api.HandleFunc("/devices", h.Device.Create).Methods("POST")
	api.HandleFunc("/devices", h.Device.List).Methods("GET")
	api.HandleFunc("/devices/{id}", h.Device.Get).Methods("GET")
	api.HandleFunc("/devices/{id}", h.Device.Update).Methods("PUT")
	api.HandleFunc("/devices/{id}", h.Device.Delete).Methods("DELETE")
	api.HandleFunc("/devices/{id}/assign", h.Device.Assign).Methods("POST")
	api.HandleFunc("/devices/{id}/unassign", h.Device.Unassign).Methods("POST")

	api.HandleFunc("/employees", h.Employee.Create).Methods("POST")
	api.HandleFunc("/employees", h.Employee.List).Methods("GET")
	api.HandleFunc("/employees/{id}", h.Employee.Get).Methods("GET")
	api.HandleFunc("/employees/{id}", h.Employee.Update).Methods("PUT")
	api.HandleFunc("/employees/{id}", h.Employee.Delete).Methods("DELETE")

	api.HandleFunc("/roles", h.Employee.CreateRole).Methods("POST")
	api.HandleFunc("/roles", h.Employee.ListRoles).Methods("GET")
	api.HandleFunc("/roles/{id}", h.Employee.GetRole).Methods("GET")
	api.HandleFunc("/roles/{id}", h.Employee.UpdateRole).Methods("PUT")
	api.HandleFunc("/roles/{id}", h.Employee.DeleteRole).Methods("DELETE")
	api.HandleFunc("/roles/{id}/permissions", h.Employee.SetRolePermissions).Methods("PUT")

	api.HandleFunc("/permissions", h.Employee.CreatePermission).Methods("POST")
	api.HandleFunc("/permissions", h.Employee.ListPermissions).Methods("GET")

	api.HandleFunc("/company", h.Company.Get).Methods("GET")
	api.HandleFunc("/company", h.Company.Upsert).Methods("PUT")
	api.HandleFunc("/company/logo", h.Company.UploadLogo).Methods("POST")

	return response.CORSMiddleware(router)
}
