package handler

import (
	"net/http"

	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/service"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
	"github.com/segyhp/isp-admin/pkg/response"
)

type PaymentHandler struct {
	base
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{base: newBase(log), payments: payments}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	payment, err := h.payments.CreatePayment(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, payment)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	payment, err := h.payments.GetPayment(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, payment)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := paymentFilter(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.payments.ListPayments(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, page)
}

func paymentFilter(r *http.Request) (*domain.PaymentFilter, error) {
	page, err := pageParams(r)
	if err != nil {
		return nil, err
	}
	filter := &domain.PaymentFilter{
		ListFilter:    page,
		IncludeVoided: queryBool(r, "include_voided"),
	}

	if raw := r.URL.Query().Get("state"); raw != "" {
		state := domain.PaymentState(raw)
		switch state {
		case domain.PaymentStatePending, domain.PaymentStatePaymentDaily,
			domain.PaymentStateLatePayment, domain.PaymentStateVoided:
		default:
			return nil, apperrors.WrapValidation("state must be one of [PENDING PAYMENT_DAILY LATE_PAYMENT VOIDED]", nil)
		}
		filter.State = &state
		if state == domain.PaymentStateVoided {
			filter.IncludeVoided = true
		}
	}
	if filter.AccountID, err = queryUUID(r, "account_id"); err != nil {
		return nil, err
	}
	if filter.DueFrom, err = queryDate(r, "due_from"); err != nil {
		return nil, err
	}
	if filter.DueTo, err = queryDate(r, "due_to"); err != nil {
		return nil, err
	}
	return filter, nil
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.UpdatePaymentRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	payment, err := h.payments.UpdatePayment(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, payment)
}

func (h *PaymentHandler) Void(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req domain.VoidPaymentRequest
	if err := h.bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	payment, err := h.payments.VoidPayment(r.Context(), id, &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, payment)
}

func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	history, err := h.payments.ListPaymentHistory(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, history)
}
