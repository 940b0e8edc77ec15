package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jimohammad/po-sub000/internal/observability"
	"github.com/jimohammad/po-sub000/internal/platform/httpx"
	"github.com/jimohammad/po-sub000/internal/shared"
)

// Handler manages the balance and statement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/parties/{id}/balance", h.currentBalance)
	r.Get("/parties/{id}/statement", h.statement)
}

// BalanceResponse is the scalar balance payload. Amounts are rendered
// as fixed three-decimal strings (KWD convention).
type BalanceResponse struct {
	PartyID   int64  `json:"party_id"`
	PartyType string `json:"party_type"`
	AsOf      string `json:"as_of,omitempty"`
	Balance   string `json:"balance"`
}

// StatementEntry is one statement line on the wire.
type StatementEntry struct {
	Date           string `json:"date"`
	Kind           string `json:"kind"`
	Description    string `json:"description"`
	ReferenceID    int64  `json:"reference_id,omitempty"`
	Amount         string `json:"amount"`
	RunningBalance string `json:"running_balance"`
}

// StatementResponse is the full statement payload.
type StatementResponse struct {
	PartyID        int64            `json:"party_id"`
	PartyType      string           `json:"party_type"`
	From           string           `json:"from,omitempty"`
	To             string           `json:"to,omitempty"`
	Entries        []StatementEntry `json:"entries"`
	ClosingBalance string           `json:"closing_balance"`
}

func (h *Handler) currentBalance(w http.ResponseWriter, r *http.Request) {
	partyID, partyType, ok := h.partyParams(w, r)
	if !ok {
		return
	}

	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		t, err := time.ParseInLocation(shared.DateLayout, raw, time.UTC)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "as_of must be YYYY-MM-DD")
			return
		}
		asOf = t
	}

	balance, err := h.service.CurrentBalance(r.Context(), partyID, partyType, asOf, branchParam(r))
	if err != nil {
		h.respondError(w, r, err, "current balance")
		return
	}
	h.metrics.ObserveLedger("balance")

	resp := BalanceResponse{
		PartyID:   partyID,
		PartyType: string(partyType),
		Balance:   balance.StringFixed(Scale),
	}
	if !asOf.IsZero() {
		resp.AsOf = asOf.Format(shared.DateLayout)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	partyID, partyType, ok := h.partyParams(w, r)
	if !ok {
		return
	}

	rng, err := shared.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if errors.Is(err, shared.ErrInvalidRange) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", "start date falls after end date")
		return
	}
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "from/to must be YYYY-MM-DD")
		return
	}

	stmt, err := h.service.Statement(r.Context(), partyID, partyType, rng, branchParam(r))
	if err != nil {
		h.respondError(w, r, err, "statement")
		return
	}
	h.metrics.ObserveLedger("statement")

	httpx.JSON(w, http.StatusOK, NewStatementResponse(stmt))
}

// NewStatementResponse converts a computed statement to its wire shape.
// The share handler reuses it for the public statement page.
func NewStatementResponse(stmt *Statement) StatementResponse {
	resp := StatementResponse{
		PartyID:        stmt.PartyID,
		PartyType:      string(stmt.PartyType),
		Entries:        make([]StatementEntry, 0, len(stmt.Lines)),
		ClosingBalance: stmt.Closing.StringFixed(Scale),
	}
	if !stmt.Range.From.IsZero() {
		resp.From = stmt.Range.From.Format(shared.DateLayout)
	}
	if !stmt.Range.To.IsZero() {
		resp.To = stmt.Range.To.Format(shared.DateLayout)
	}
	for _, line := range stmt.Lines {
		resp.Entries = append(resp.Entries, StatementEntry{
			Date:           line.Date.Format(shared.DateLayout),
			Kind:           string(line.Kind),
			Description:    line.Description,
			ReferenceID:    line.ReferenceID,
			Amount:         line.Amount.StringFixed(Scale),
			RunningBalance: line.Running.StringFixed(Scale),
		})
	}
	return resp
}

func (h *Handler) partyParams(w http.ResponseWriter, r *http.Request) (int64, PartyType, bool) {
	partyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || partyID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "party id must be a positive integer")
		return 0, "", false
	}
	partyType, err := ParsePartyType(r.URL.Query().Get("type"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "type must be customer or supplier")
		return 0, "", false
	}
	return partyID, partyType, true
}

func branchParam(r *http.Request) int64 {
	branchID, _ := strconv.ParseInt(r.URL.Query().Get("branch_id"), 10, 64)
	return branchID
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, ErrPartyNotFound):
		httpx.Problem(w, http.StatusNotFound, "Party Not Found", "no party with the requested id")
	case errors.Is(err, shared.ErrInvalidRange):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", "start date falls after end date")
	default:
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
		httpx.RespondError(w, err)
	}
}
