package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
	"github.com/shreeeniyaa/chitfund-engine/internal/service"
	customError "github.com/shreeeniyaa/chitfund-engine/pkg/errors"
	"github.com/shreeeniyaa/chitfund-engine/pkg/response"
	"github.com/shreeeniyaa/chitfund-engine/pkg/utils"
)

type InvoiceHandler struct {
	service   *service.InvoiceService
	job       *service.RolloverJob
	validator *validator.Validate
}

func NewInvoiceHandler(service *service.InvoiceService, job *service.RolloverJob) *InvoiceHandler {
	v := validator.New()

	// Decimal fields validate through their float value so the standard
	// numeric tags (gt, gte) apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &InvoiceHandler{
		service:   service,
		job:       job,
		validator: v,
	}
}

// Preview returns the current invoice numbers for an enrollment without
// persisting anything. Query params: as_of (YYYY-MM-DD, default today),
// received_amount (default 0).
func (h *InvoiceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID := vars["customerId"]
	planID := vars["planId"]

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			response.BadRequest(w, "invalid as_of (use YYYY-MM-DD)", err)
			return
		}
		asOf = parsed
	}

	received := decimal.Zero
	if raw := r.URL.Query().Get("received_amount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			response.BadRequest(w, "invalid received_amount", err)
			return
		}
		received = parsed
	}

	preview, err := h.service.Preview(r.Context(), customerID, planID, asOf, received)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, preview)
}

// CreateInvoice persists a new invoice snapshot.
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	invoice, err := h.service.CreateInvoice(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Created(w, invoice)
}

// ListInvoices returns the billing history for an enrollment.
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID := vars["customerId"]
	planID := vars["planId"]

	invoices, err := h.service.ListInvoices(r.Context(), customerID, planID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, invoices)
}

// UpdateInvoiceStatus moves an invoice between draft, sent and paid.
func (h *InvoiceHandler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	invoiceID, err := uuid.Parse(vars["invoiceId"])
	if err != nil {
		response.BadRequest(w, "invalid invoice id", err)
		return
	}

	var req domain.UpdateInvoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	if err := h.service.UpdateInvoiceStatus(r.Context(), invoiceID, req.Status); err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, nil)
}

// SetArrear force-sets the carried arrear for an enrollment.
func (h *InvoiceHandler) SetArrear(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID := vars["customerId"]
	planID := vars["planId"]

	var req domain.SetArrearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	if err := h.service.SetManualArrear(r.Context(), customerID, planID, req.Amount); err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, nil)
}

// ClearArrear zeroes the arrear and removes any override.
func (h *InvoiceHandler) ClearArrear(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID := vars["customerId"]
	planID := vars["planId"]

	if err := h.service.ClearArrear(r.Context(), customerID, planID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, nil)
}

// RunRollover triggers one batch rollover pass. Body: as_of (optional,
// default today) and force (bypasses day qualification, for manual runs).
func (h *InvoiceHandler) RunRollover(w http.ResponseWriter, r *http.Request) {
	var req domain.RolloverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	asOf := time.Now()
	if req.AsOf != "" {
		parsed, err := utils.ParseDate(req.AsOf)
		if err != nil {
			response.BadRequest(w, "invalid as_of (use YYYY-MM-DD)", err)
			return
		}
		asOf = parsed
	}

	result, err := h.job.RunForAll(r.Context(), asOf, req.Force)
	if err != nil && result == nil {
		h.writeServiceError(w, err)
		return
	}

	// A cancelled run still reports the enrollments it finished.
	response.Success(w, result)
}

func (h *InvoiceHandler) writeServiceError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch bizErr.Code {
	case customError.ErrCodeEnrollmentNotFound, customError.ErrCodePlanNotFound:
		response.NotFound(w, bizErr.Message)
	case customError.ErrCodeScheduleNotConfigured:
		response.UnprocessableEntity(w, bizErr.Message, bizErr.Err)
	case customError.ErrCodeInvalidReceivedAmount, customError.ErrCodeInvoiceDateOutOfRange:
		response.BadRequest(w, bizErr.Message, bizErr.Err)
	case customError.ErrCodeInvoiceInProgress:
		response.Conflict(w, bizErr.Message, bizErr.Err)
	default:
		response.InternalServerError(w, bizErr.Message, bizErr.Err)
	}
}
