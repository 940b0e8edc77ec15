package party

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

// Handler manages party endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers party routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/parties", h.list)
	r.Post("/parties", h.create)
	r.Get("/parties/{id}", h.show)
	r.Put("/parties/{id}", h.update)
	r.Delete("/parties/{id}", h.delete)
	r.Get("/parties/{id}/opening-balance", h.showOpeningBalance)
	r.Put("/parties/{id}/opening-balance", h.setOpeningBalance)
}

type createPartyRequest struct {
	Type           string  `json:"type" validate:"required,oneof=customer supplier salesman"`
	Name           string  `json:"name" validate:"required,min=2,max=120"`
	Phone          string  `json:"phone" validate:"omitempty,max=30"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Address        string  `json:"address" validate:"omitempty,max=250"`
	CreditLimit    *string `json:"credit_limit"`
	CommissionRate *string `json:"commission_rate"`
}

type updatePartyRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Address        *string `json:"address" validate:"omitempty,max=250"`
	CreditLimit    *string `json:"credit_limit"`
	CommissionRate *string `json:"commission_rate"`
}

type openingBalanceRequest struct {
	Amount        string `json:"amount" validate:"required"`
	EffectiveDate string `json:"effective_date" validate:"required"`
	BranchID      *int64 `json:"branch_id"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	parties, err := h.service.List(r.Context(), ListFilters{
		Type:   Type(r.URL.Query().Get("type")),
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.logger.Error("list parties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"parties": parties})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get party")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPartyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	creditLimit, err := optionalAmount(req.CreditLimit)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "credit_limit must be a decimal amount")
		return
	}
	commissionRate, err := optionalAmount(req.CommissionRate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "commission_rate must be a decimal amount")
		return
	}

	p, err := h.service.Create(r.Context(), CreatePartyInput{
		Type:           Type(req.Type),
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		CreditLimit:    creditLimit,
		CommissionRate: commissionRate,
	})
	if err != nil {
		h.respondError(w, err, "create party")
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req updatePartyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	creditLimit, err := optionalAmount(req.CreditLimit)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "credit_limit must be a decimal amount")
		return
	}
	commissionRate, err := optionalAmount(req.CommissionRate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "commission_rate must be a decimal amount")
		return
	}

	p, err := h.service.Update(r.Context(), id, UpdatePartyInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		CreditLimit:    creditLimit,
		CommissionRate: commissionRate,
	})
	if err != nil {
		h.respondError(w, err, "update party")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "delete party")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) showOpeningBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ob, err := h.service.GetOpeningBalance(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get opening balance")
		return
	}
	httpx.JSON(w, http.StatusOK, ob)
}

func (h *Handler) setOpeningBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req openingBalanceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a decimal amount")
		return
	}
	effective, err := time.ParseInLocation(shared.DateLayout, req.EffectiveDate, time.UTC)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "effective_date must be YYYY-MM-DD")
		return
	}

	ob, err := h.service.SetOpeningBalance(r.Context(), SetOpeningBalanceInput{
		PartyID:       id,
		BranchID:      req.BranchID,
		Amount:        amount,
		EffectiveDate: effective,
	})
	if err != nil {
		h.respondError(w, err, "set opening balance")
		return
	}
	httpx.JSON(w, http.StatusOK, ob)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func optionalAmount(raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "party not found")
	case errors.Is(err, ErrInUse):
		httpx.Problem(w, http.StatusConflict, "Conflict", "party is referenced by ledger events and cannot be deleted")
	default:
		if !errors.Is(err, httpx.ErrValidation) {
			h.logger.Error(op, slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}
