package handler

import (
	"net/http"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/service"
	"github.com/segyhp/isp-admin/pkg/response"
)

// CatalogHandler serves plans and sectors.
type CatalogHandler struct {
	base
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{base: newBase(log), catalog: catalog}
}

func (h *CatalogHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req domain.PlanRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	plan, err := h.catalog.CreatePlan(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, plan)
}

func (h *CatalogHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	plan, err := h.catalog.GetPlan(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, plan)
}

// ListPlans returns every plan, or only active ones with ?active=true.
func (h *CatalogHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.catalog.ListPlans(r.Context(), queryBool(r, "active"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, plans)
}

func (h *CatalogHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.PlanRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	plan, err := h.catalog.UpdatePlan(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, plan)
}

func (h *CatalogHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.catalog.DeletePlan(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *CatalogHandler) CreateSector(w http.ResponseWriter, r *http.Request) {
	var req domain.SectorRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sector, err := h.catalog.CreateSector(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, sector)
}

func (h *CatalogHandler) GetSector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sector, err := h.catalog.GetSector(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, sector)
}

func (h *CatalogHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.catalog.ListSectors(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, sectors)
}

func (h *CatalogHandler) UpdateSector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.SectorRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sector, err := h.catalog.UpdateSector(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, sector)
}

func (h *CatalogHandler) DeleteSector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.catalog.DeleteSector(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}
