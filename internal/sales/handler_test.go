package sales

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	fakeRepo
}

func (f *failingRepo) Create(context.Context, CreateSaleInput, decimal.Decimal, []SaleLine) (*Sale, error) {
	return nil, errors.New("dial tcp 127.0.0.1:5432: connection refused")
}

func newTestRouter(repo RepositoryPort) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(repo))
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func postSale(t *testing.T, router chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateRepositoryFailureIsServerError(t *testing.T) {
	router := newTestRouter(&failingRepo{})

	rr := postSale(t, router, `{"customer_id":1,"sale_date":"2026-01-05","lines":[{"description":"Rice 25kg","quantity":"2","unit_price":"1.500"}]}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "connection refused")
}

func TestCreateBusinessRuleFailureIsBadRequest(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	rr := postSale(t, router, `{"customer_id":1,"sale_date":"2026-01-05","lines":[{"description":"Rice 25kg","quantity":"2","unit_price":"0"}]}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "invoice total must be positive")
}

func TestShowUnknownSaleIsNotFound(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sales/7", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
}
