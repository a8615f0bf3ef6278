package handler

import (
	"net/http"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/service"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
	"github.com/segyhp/isp-admin/pkg/response"
)

type InstallationHandler struct {
	base
	installations *service.InstallationService
	maxUpload     int64
}

func NewInstallationHandler(installations *service.InstallationService, maxUpload int64, log *logger.Logger) *InstallationHandler {
	return &InstallationHandler{base: newBase(log), installations: installations, maxUpload: maxUpload}
}

func (h *InstallationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInstallationRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	installation, err := h.installations.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, installation)
}

func (h *InstallationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	installation, err := h.installations.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, installation)
}

func (h *InstallationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filter := &domain.InstallationFilter{ListFilter: page}
	if filter.AccountID, err = queryUUID(r, "account_id"); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.SectorID, err = queryUUID(r, "sector_id"); err != nil {
		h.fail(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if raw != "ACTIVE" && raw != "INACTIVE" {
			h.fail(w, r, apperrors.WrapValidation("status must be one of [ACTIVE INACTIVE]", nil))
			return
		}
		filter.Status = &raw
	}

	installations, err := h.installations.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, installations)
}

func (h *InstallationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.UpdateInstallationRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	installation, err := h.installations.Update(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, installation)
}

func (h *InstallationHandler) UpdatePaymentConfig(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.PaymentConfigRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	config, err := h.installations.UpdatePaymentConfig(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, config)
}

// UploadReferenceImage accepts a multipart form with a single "file" part.
func (h *InstallationHandler) UploadReferenceImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	file, name, err := formFile(w, r, h.maxUpload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer file.Close()

	installation, err := h.installations.UploadReferenceImage(r.Context(), id, name, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, installation)
}

func (h *InstallationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.installations.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}
