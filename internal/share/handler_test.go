package share

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newViewRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store, _ := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, store, nil, nil, time.Hour)
	r := chi.NewRouter()
	h.MountPublicRoutes(r)
	return r, store
}

func TestViewSurvivesCancelledRequestContext(t *testing.T) {
	router, store := newViewRouter(t)

	token, err := store.Put(context.Background(), sampleSnapshot(), "", time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/share/"+token, nil).WithContext(ctx)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Al Salam Trading")
}

func TestViewUnknownTokenIsNotFound(t *testing.T) {
	router, _ := newViewRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/share/nope", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
}
