package rest

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplsports/player-auction-backend/internal/domain/values"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/auth"
	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.Service, *stubAuctionService) {
	t.Helper()

	stub := &stubAuctionService{snap: svcauction.Snapshot{State: "active"}}
	authSvc := auth.NewService("router-test-secret", time.Hour)
	logger := discardLogger()

	router := NewRouter(RouterDeps{
		Auction: NewAuctionHandler(stub, logger, values.INR),
		Catalog: NewCatalogHandler(nil, nil, nil, logger, values.INR),
		Auth:    NewAuthHandler(nil, authSvc, nil, logger),
		AuthSvc: authSvc,
		Logger:  logger,
	})
	return router, authSvc, stub
}

func doRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterAuthz(t *testing.T) {
	router, authSvc, stub := newTestRouter(t)

	teamID := uuid.New()
	adminToken, err := authSvc.GenerateToken(uuid.New(), "league", auth.RoleAdmin, nil)
	require.NoError(t, err)
	teamToken, err := authSvc.GenerateToken(uuid.New(), "strikers", auth.RoleTeam, &teamID)
	require.NoError(t, err)

	startBody := `{"mode":"random"}`
	bidBody := `{"amount":100}`

	t.Run("lifecycle requires a token", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/auction/start", "", startBody)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("lifecycle rejects team role", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/auction/start", teamToken, startBody)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("lifecycle allows admin", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/auction/start", adminToken, startBody)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("bid allows team role and uses own team", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/auction/bid", teamToken, bidBody)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, teamID, stub.bidTeamID)
	})

	t.Run("bid rejects garbage token", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/auction/bid", "bogus", bidBody)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("state is public", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/auction/state", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("health is public", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRouterRequestID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/healthz", "", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
