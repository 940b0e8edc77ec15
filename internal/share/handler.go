package share

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jimohammad/po-sub000/internal/ledger"
	"github.com/jimohammad/po-sub000/internal/party"
	"github.com/jimohammad/po-sub000/internal/platform/httpx"
	"github.com/jimohammad/po-sub000/internal/shared"
)

// StatementSource computes the statement frozen into a link.
type StatementSource interface {
	Statement(ctx context.Context, partyID int64, partyType ledger.PartyType, rng shared.DateRange, branchID int64) (*ledger.Statement, error)
}

// PartyDirectory resolves party display names.
type PartyDirectory interface {
	Get(ctx context.Context, id int64) (*party.Party, error)
}

// Handler manages share link endpoints.
type Handler struct {
	logger     *slog.Logger
	store      *Store
	statements StatementSource
	parties    PartyDirectory
	validator  *validator.Validate
	defaultTTL time.Duration

	// coalesces concurrent reads of the same token
	group singleflight.Group
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, store *Store, statements StatementSource, parties PartyDirectory, defaultTTL time.Duration) *Handler {
	return &Handler{
		logger:     logger,
		store:      store,
		statements: statements,
		parties:    parties,
		validator:  validator.New(),
		defaultTTL: defaultTTL,
	}
}

// MountAPIRoutes registers the authenticated share management routes.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Post("/share", h.create)
	r.Delete("/share/{token}", h.revoke)
}

// MountPublicRoutes registers the token-access route.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/share/{token}", h.view)
}

type createShareRequest struct {
	PartyID   int64  `json:"party_id" validate:"required,gt=0"`
	PartyType string `json:"party_type" validate:"required,oneof=customer supplier"`
	From      string `json:"from" validate:"required"`
	To        string `json:"to" validate:"required"`
	BranchID  int64  `json:"branch_id" validate:"omitempty,gt=0"`
	PIN       string `json:"pin" validate:"omitempty,numeric,min=4,max=8"`
	TTLHours  int    `json:"ttl_hours" validate:"omitempty,gt=0,lte=720"`
}

type createShareResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

type viewShareResponse struct {
	PartyName      string                   `json:"party_name"`
	Statement      ledger.StatementResponse `json:"statement"`
	DisplayClosing string                   `json:"display_closing"`
	ExpiresAt      string                   `json:"expires_at"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createShareRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	partyType, err := ledger.ParsePartyType(req.PartyType)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "party_type must be customer or supplier")
		return
	}
	rng, err := shared.ParseDateRange(req.From, req.To)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", "from/to must be YYYY-MM-DD with from <= to")
		return
	}

	stmt, err := h.statements.Statement(r.Context(), req.PartyID, partyType, rng, req.BranchID)
	if err != nil {
		if errors.Is(err, ledger.ErrPartyNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "party not found")
			return
		}
		h.logger.Error("share statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	p, err := h.parties.Get(r.Context(), req.PartyID)
	if err != nil {
		h.logger.Error("share party lookup", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	ttl := h.defaultTTL
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}

	token, err := h.store.Put(r.Context(), Snapshot{
		PartyName: p.Name,
		Statement: ledger.NewStatementResponse(stmt),
	}, req.PIN, ttl)
	if err != nil {
		h.logger.Error("share create", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, createShareResponse{
		Token:     token,
		URL:       "/share/" + token,
		ExpiresAt: time.Now().UTC().Add(ttl).Format(time.RFC3339),
	})
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	pin := r.URL.Query().Get("pin")

	// Coalesced callers share one fetch; detach it from the first
	// request's lifetime so its cancellation cannot fail the others.
	ctx := context.WithoutCancel(r.Context())
	result, err, _ := h.group.Do(token+"\x00"+pin, func() (any, error) {
		return h.store.Get(ctx, token, pin)
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	snap := result.(*Snapshot)

	httpx.JSON(w, http.StatusOK, viewShareResponse{
		PartyName:      snap.PartyName,
		Statement:      snap.Statement,
		DisplayClosing: displayAmount(snap.Statement.ClosingBalance),
		ExpiresAt:      snap.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Revoke(r.Context(), chi.URLParam(r, "token")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "share link not found or expired")
	case errors.Is(err, ErrPINRequired):
		httpx.Problem(w, http.StatusUnauthorized, "PIN Required", "this link requires a pin")
	case errors.Is(err, ErrPINMismatch):
		httpx.Problem(w, http.StatusForbidden, "PIN Mismatch", "the pin did not match")
	default:
		h.logger.Error("share", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

var displayPrinter = message.NewPrinter(language.English)

// displayAmount renders a stored fixed-point amount with thousands
// separators for the public page, e.g. "KWD 12,345.500".
func displayAmount(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	sign := ""
	if d.Sign() < 0 {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	frac := d.Sub(whole).StringFixed(ledger.Scale)
	return displayPrinter.Sprintf("KWD %s%d%s", sign, whole.IntPart(), frac[1:])
}
