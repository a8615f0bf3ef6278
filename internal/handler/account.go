package handler

import (
	"net/http"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/service"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
	"github.com/segyhp/isp-admin/pkg/response"
)

type AccountHandler struct {
	base
	accounts      *service.AccountService
	payments      *service.PaymentService
	installations *service.InstallationService
	sync          *service.StatusSyncService
}

func NewAccountHandler(
	accounts *service.AccountService,
	payments *service.PaymentService,
	installations *service.InstallationService,
	sync *service.StatusSyncService,
	log *logger.Logger,
) *AccountHandler {
	return &AccountHandler{
		base:          newBase(log),
		accounts:      accounts,
		payments:      payments,
		installations: installations,
		sync:          sync,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAccountRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	account, err := h.accounts.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, account)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	account, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, account)
}

// List supports status, payment_status, sector_id, plan_id and search filters.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := accountFilter(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.accounts.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, page)
}

func accountFilter(r *http.Request) (*domain.AccountFilter, error) {
	page, err := pageParams(r)
	if err != nil {
		return nil, err
	}
	filter := &domain.AccountFilter{ListFilter: page}
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status := domain.AccountStatus(raw)
		if !status.IsValid() {
			return nil, apperrors.WrapValidation("status must be one of [ACTIVE SUSPENDED INACTIVE]", nil)
		}
		filter.Status = &status
	}
	if raw := q.Get("payment_status"); raw != "" {
		status := domain.PaymentStatus(raw)
		if !status.IsValid() {
			return nil, apperrors.WrapValidation("payment_status must be one of [PAID EXPIRING EXPIRED SUSPENDED]", nil)
		}
		filter.PaymentStatus = &status
	}
	if filter.SectorID, err = queryUUID(r, "sector_id"); err != nil {
		return nil, err
	}
	if filter.PlanID, err = queryUUID(r, "plan_id"); err != nil {
		return nil, err
	}
	filter.Search = q.Get("search")
	return filter, nil
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.UpdateAccountRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	account, err := h.accounts.Update(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, account)
}

func (h *AccountHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.UpdateAccountStatusRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	account, err := h.accounts.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.accounts.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *AccountHandler) Payments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	payments, err := h.payments.ListAccountPayments(r.Context(), id, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, payments)
}

func (h *AccountHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	history, err := h.payments.ListAccountHistory(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, history)
}

func (h *AccountHandler) Installations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	installations, err := h.installations.ListByAccount(r.Context(), id, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, installations)
}

// SyncStates runs the status recalculation on demand. A run already in
// progress answers 409.
func (h *AccountHandler) SyncStates(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sync.RecalculateAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, summary)
}
