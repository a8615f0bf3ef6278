package handler

import (
	"net/http"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/service"
	"github.com/segyhp/isp-admin/pkg/response"
)

// EmployeeHandler serves employees, roles and permissions.
type EmployeeHandler struct {
	base
	employees *service.EmployeeService
	roles     *service.RoleService
}

func NewEmployeeHandler(employees *service.EmployeeService, roles *service.RoleService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{base: newBase(log), employees: employees, roles: roles}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEmployeeRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	employee, err := h.employees.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, employee)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	employee, err := h.employees.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, employee)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	employees, err := h.employees.List(r.Context(), &page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, employees)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.UpdateEmployeeRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	employee, err := h.employees.Update(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, employee)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.employees.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *EmployeeHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req domain.RoleRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	role, err := h.roles.CreateRole(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, role)
}

func (h *EmployeeHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	role, err := h.roles.GetRole(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, role)
}

func (h *EmployeeHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.ListRoles(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, roles)
}

func (h *EmployeeHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.RoleRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	role, err := h.roles.UpdateRole(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, role)
}

func (h *EmployeeHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.roles.DeleteRole(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *EmployeeHandler) SetRolePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.SetRolePermissionsRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	role, err := h.roles.SetRolePermissions(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, role)
}

func (h *EmployeeHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var req domain.PermissionRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	permission, err := h.roles.CreatePermission(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, permission)
}

// ListPermissions returns permissions grouped by category.
func (h *EmployeeHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.roles.ListPermissions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, permissions)
}
