package handler

import (
	"net/http"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/service"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
	"github.com/segyhp/isp-admin/pkg/response"
)

type DeviceHandler struct {
	base
	devices *service.DeviceService
}

func NewDeviceHandler(devices *service.DeviceService, log *logger.Logger) *DeviceHandler {
	return &DeviceHandler{base: newBase(log), devices: devices}
}

func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDeviceRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	device, err := h.devices.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, device)
}

func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	device, err := h.devices.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, device)
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filter := &domain.DeviceFilter{ListFilter: page}
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status := domain.DeviceStatus(raw)
		switch status {
		case domain.DeviceStatusAvailable, domain.DeviceStatusAssigned,
			domain.DeviceStatusDamaged, domain.DeviceStatusRetired:
		default:
			h.fail(w, r, apperrors.WrapValidation("status must be one of [AVAILABLE ASSIGNED DAMAGED RETIRED]", nil))
			return
		}
		filter.Status = &status
	}
	if raw := q.Get("type"); raw != "" {
		deviceType := domain.DeviceType(raw)
		filter.Type = &deviceType
	}
	if filter.InstallationID, err = queryUUID(r, "installation_id"); err != nil {
		h.fail(w, r, err)
		return
	}

	devices, err := h.devices.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, devices)
}

func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.UpdateDeviceRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	device, err := h.devices.Update(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, device)
}

func (h *DeviceHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.AssignDeviceRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	device, err := h.devices.Assign(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, device)
}

func (h *DeviceHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	device, err := h.devices.Unassign(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, device)
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.devices.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}
