package payments

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jimohammad/po-sub000/internal/platform/httpx"
	"github.com/jimohammad/po-sub000/internal/shared"
)

// Handler manages payment voucher endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers payments routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/payments", h.list)
	r.Post("/payments", h.create)
	r.Get("/payments/{id}", h.show)
	r.Delete("/payments/{id}", h.delete)
}

type createPaymentRequest struct {
	PartyID   int64  `json:"party_id" validate:"required,gt=0"`
	BranchID  *int64 `json:"branch_id"`
	Number    string `json:"number" validate:"omitempty,max=40"`
	Direction string `json:"direction" validate:"required,oneof=in out"`
	PaidOn    string `json:"paid_on" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Method    string `json:"method" validate:"omitempty,max=60"`
	Note      string `json:"note" validate:"omitempty,max=500"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	partyID, _ := strconv.ParseInt(r.URL.Query().Get("party_id"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	direction := Direction(r.URL.Query().Get("direction"))

	rng, err := shared.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "from/to must be YYYY-MM-DD with from <= to")
		return
	}

	payments, err := h.service.List(r.Context(), ListPaymentsRequest{
		PartyID:   partyID,
		Direction: direction,
		From:      rng.From,
		To:        rng.To,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		h.respondError(w, err, "list payments")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": payments})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "id must be a positive integer")
		return
	}
	payment, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get payment")
		return
	}
	httpx.JSON(w, http.StatusOK, payment)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	paidOn, err := time.ParseInLocation(shared.DateLayout, req.PaidOn, time.UTC)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "paid_on must be YYYY-MM-DD")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a decimal amount")
		return
	}

	payment, err := h.service.Create(r.Context(), CreatePaymentInput{
		PartyID:   req.PartyID,
		BranchID:  req.BranchID,
		Number:    req.Number,
		Direction: Direction(req.Direction),
		PaidOn:    paidOn,
		Amount:    amount,
		Method:    req.Method,
		Note:      req.Note,
	})
	if err != nil {
		h.respondError(w, err, "create payment")
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "id must be a positive integer")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "delete payment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "payment voucher not found")
		return
	}
	if !errors.Is(err, httpx.ErrValidation) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
