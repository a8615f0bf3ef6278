package handler

import (
	"net/http"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/service"
	"github.com/segyhp/isp-admin/pkg/response"
)

type CompanyHandler struct {
	base
	company   *service.CompanyService
	maxUpload int64
}

func NewCompanyHandler(company *service.CompanyService, maxUpload int64, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{base: newBase(log), company: company, maxUpload: maxUpload}
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	company, err := h.company.Get(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, company)
}

func (h *CompanyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req domain.CompanyRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	company, err := h.company.Upsert(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, company)
}

func (h *CompanyHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	file, name, err := formFile(w, r, h.maxUpload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer file.Close()

	company, err := h.company.UploadLogo(r.Context(), name, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, company)
}
