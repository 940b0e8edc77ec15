package returns

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

// Handler manages return note endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers returns routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/returns", h.list)
	r.Post("/returns", h.create)
	r.Get("/returns/{id}", h.show)
	r.Delete("/returns/{id}", h.delete)
}

type createReturnRequest struct {
	PartyID    int64  `json:"party_id" validate:"required,gt=0"`
	BranchID   *int64 `json:"branch_id"`
	Number     string `json:"number" validate:"omitempty,max=40"`
	Origin     string `json:"origin" validate:"required,oneof=sale purchase"`
	ReturnedOn string `json:"returned_on" validate:"required"`
	Amount     string `json:"amount" validate:"required"`
	Reason     string `json:"reason" validate:"omitempty,max=500"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	partyID, _ := strconv.ParseInt(r.URL.Query().Get("party_id"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	origin := Origin(r.URL.Query().Get("origin"))

	rng, err := shared.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "from/to must be YYYY-MM-DD with from <= to")
		return
	}

	rets, err := h.service.List(r.Context(), ListReturnsRequest{
		PartyID: partyID,
		Origin:  origin,
		From:    rng.From,
		To:      rng.To,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		h.respondError(w, err, "list returns")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"returns": rets})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "id must be a positive integer")
		return
	}
	ret, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get return")
		return
	}
	httpx.JSON(w, http.StatusOK, ret)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createReturnRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	returnedOn, err := time.ParseInLocation(shared.DateLayout, req.ReturnedOn, time.UTC)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "returned_on must be YYYY-MM-DD")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a decimal amount")
		return
	}

	ret, err := h.service.Create(r.Context(), CreateReturnInput{
		PartyID:    req.PartyID,
		BranchID:   req.BranchID,
		Number:     req.Number,
		Origin:     Origin(req.Origin),
		ReturnedOn: returnedOn,
		Amount:     amount,
		Reason:     req.Reason,
	})
	if err != nil {
		h.respondError(w, err, "create return")
		return
	}
	httpx.JSON(w, http.StatusCreated, ret)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "id must be a positive integer")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "delete return")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "return note not found")
		return
	}
	if !errors.Is(err, httpx.ErrValidation) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
