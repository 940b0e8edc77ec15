package purchasing

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

// Handler manages purchase bill endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers purchasing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/purchases", h.list)
	r.Post("/purchases", h.create)
	r.Get("/purchases/{id}", h.show)
	r.Delete("/purchases/{id}", h.delete)
}

type createPurchaseLineRequest struct {
	Description string `json:"description" validate:"required,max=250"`
	Quantity    string `json:"quantity" validate:"required"`
	UnitPrice   string `json:"unit_price" validate:"required"`
}

type createPurchaseRequest struct {
	SupplierID   int64                       `json:"supplier_id" validate:"required,gt=0"`
	BranchID     *int64                      `json:"branch_id"`
	Number       string                      `json:"number" validate:"omitempty,max=40"`
	PurchaseDate string                      `json:"purchase_date" validate:"required"`
	Note         string                      `json:"note" validate:"omitempty,max=500"`
	Lines        []createPurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	supplierID, _ := strconv.ParseInt(r.URL.Query().Get("supplier_id"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	rng, err := shared.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "from/to must be YYYY-MM-DD with from <= to")
		return
	}

	purchases, err := h.service.List(r.Context(), ListPurchasesRequest{
		SupplierID: supplierID,
		From:       rng.From,
		To:         rng.To,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"purchases": purchases})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "id must be a positive integer")
		return
	}
	purchase, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get purchase")
		return
	}
	httpx.JSON(w, http.StatusOK, purchase)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	purchaseDate, err := time.ParseInLocation(shared.DateLayout, req.PurchaseDate, time.UTC)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "purchase_date must be YYYY-MM-DD")
		return
	}

	lines := make([]CreatePurchaseLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		quantity, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "line quantity must be a decimal amount")
			return
		}
		unitPrice, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "line unit price must be a decimal amount")
			return
		}
		lines = append(lines, CreatePurchaseLineInput{
			Description: line.Description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
		})
	}

	purchase, err := h.service.Create(r.Context(), CreatePurchaseInput{
		SupplierID:   req.SupplierID,
		BranchID:     req.BranchID,
		Number:       req.Number,
		PurchaseDate: purchaseDate,
		Note:         req.Note,
		Lines:        lines,
	})
	if err != nil {
		h.respondError(w, err, "create purchase")
		return
	}
	httpx.JSON(w, http.StatusCreated, purchase)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "id must be a positive integer")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "delete purchase")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "purchase bill not found")
		return
	}
	if !errors.Is(err, httpx.ErrValidation) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
