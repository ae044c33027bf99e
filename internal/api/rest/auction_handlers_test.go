package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplsports/player-auction-backend/internal/domain/auction"
	"github.com/jplsports/player-auction-backend/internal/domain/errors"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/auth"
	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

type stubAuctionService struct {
	snap svcauction.Snapshot
	err  error

	startedWith *auction.Selection
	bidTeamID   uuid.UUID
	bidAmount   values.Money
	endOverride *auction.DirectSale
	endCalled   bool
}

func (s *stubAuctionService) Start(_ context.Context, sel auction.Selection) (svcauction.Snapshot, error) {
	s.startedWith = &sel
	return s.snap, s.err
}

func (s *stubAuctionService) PlaceBid(_ context.Context, teamID uuid.UUID, amount values.Money) (svcauction.Snapshot, error) {
	s.bidTeamID = teamID
	s.bidAmount = amount
	return s.snap, s.err
}

func (s *stubAuctionService) Pause(context.Context) (svcauction.Snapshot, error)  { return s.snap, s.err }
func (s *stubAuctionService) Resume(context.Context) (svcauction.Snapshot, error) { return s.snap, s.err }
func (s *stubAuctionService) Cancel(context.Context) (svcauction.Snapshot, error) { return s.snap, s.err }

func (s *stubAuctionService) End(_ context.Context, override *auction.DirectSale) (svcauction.Snapshot, error) {
	s.endCalled = true
	s.endOverride = override
	return s.snap, s.err
}

func (s *stubAuctionService) QueryState() svcauction.Snapshot { return s.snap }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string, ctx context.Context) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestAuctionHandlerStart(t *testing.T) {
	stub := &stubAuctionService{snap: svcauction.Snapshot{State: "active"}}
	h := NewAuctionHandler(stub, discardLogger(), values.INR)
	playerID := uuid.New()

	w := postJSON(t, h.Start, `{"mode":"manual","player_id":"`+playerID.String()+`"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, stub.startedWith)
	assert.Equal(t, auction.ModeManual, stub.startedWith.Mode)
	assert.Equal(t, playerID, stub.startedWith.PlayerID)
}

func TestAuctionHandlerStartValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown mode", `{"mode":"lottery"}`},
		{"missing mode", `{}`},
		{"bad uuid", `{"mode":"manual","player_id":"nope"}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAuctionService{}
			h := NewAuctionHandler(stub, discardLogger(), values.INR)
			w := postJSON(t, h.Start, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, stub.startedWith)
		})
	}
}

func TestAuctionHandlerPlaceBid(t *testing.T) {
	teamID := uuid.New()

	t.Run("admin names the team", func(t *testing.T) {
		stub := &stubAuctionService{snap: svcauction.Snapshot{State: "active"}}
		h := NewAuctionHandler(stub, discardLogger(), values.INR)

		w := postJSON(t, h.PlaceBid, `{"team_id":"`+teamID.String()+`","amount":150}`, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, teamID, stub.bidTeamID)
		assert.True(t, stub.bidAmount.Equal(values.MustNewMoneyFromInt(150, values.INR)))
	})

	t.Run("team user bids as own team", func(t *testing.T) {
		stub := &stubAuctionService{snap: svcauction.Snapshot{State: "active"}}
		h := NewAuctionHandler(stub, discardLogger(), values.INR)

		ownTeam := uuid.New()
		ctx := context.WithValue(context.Background(), claimsKey, &auth.Claims{
			Role:   auth.RoleTeam,
			TeamID: &ownTeam,
		})
		// The body's team_id is ignored for team users.
		w := postJSON(t, h.PlaceBid, `{"team_id":"`+teamID.String()+`","amount":200}`, ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, ownTeam, stub.bidTeamID)
	})

	t.Run("missing team id", func(t *testing.T) {
		stub := &stubAuctionService{}
		h := NewAuctionHandler(stub, discardLogger(), values.INR)
		w := postJSON(t, h.PlaceBid, `{"amount":100}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("domain rejection maps to wire contract", func(t *testing.T) {
		min := values.MustNewMoneyFromInt(110, values.INR)
		stub := &stubAuctionService{err: errors.NewBidTooLowError(min.String())}
		h := NewAuctionHandler(stub, discardLogger(), values.INR)

		w := postJSON(t, h.PlaceBid, `{"team_id":"`+teamID.String()+`","amount":105}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "BID_TOO_LOW", body.Code)
		assert.Equal(t, min.String(), body.Details["min_required"])
	})

	t.Run("no active auction", func(t *testing.T) {
		stub := &stubAuctionService{err: errors.NewNoActiveAuctionError()}
		h := NewAuctionHandler(stub, discardLogger(), values.INR)

		w := postJSON(t, h.PlaceBid, `{"team_id":"`+teamID.String()+`","amount":105}`, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "NO_ACTIVE_AUCTION", decodeError(t, w).Code)
	})
}

func TestAuctionHandlerEnd(t *testing.T) {
	teamID := uuid.New()

	t.Run("plain end", func(t *testing.T) {
		stub := &stubAuctionService{snap: svcauction.Snapshot{State: "idle"}}
		h := NewAuctionHandler(stub, discardLogger(), values.INR)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		w := httptest.NewRecorder()
		h.End(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, stub.endCalled)
		assert.Nil(t, stub.endOverride)
	})

	t.Run("direct sale", func(t *testing.T) {
		stub := &stubAuctionService{snap: svcauction.Snapshot{State: "idle"}}
		h := NewAuctionHandler(stub, discardLogger(), values.INR)

		w := postJSON(t, h.End, `{"team_id":"`+teamID.String()+`","sold_price":900}`, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, stub.endOverride)
		assert.Equal(t, teamID, stub.endOverride.TeamID)
		assert.True(t, stub.endOverride.Price.Equal(values.MustNewMoneyFromInt(900, values.INR)))
	})

	t.Run("partial direct sale rejected", func(t *testing.T) {
		stub := &stubAuctionService{}
		h := NewAuctionHandler(stub, discardLogger(), values.INR)

		w := postJSON(t, h.End, `{"team_id":"`+teamID.String()+`"}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, stub.endCalled)
	})
}

func TestAuctionHandlerState(t *testing.T) {
	stub := &stubAuctionService{snap: svcauction.Snapshot{State: "paused", RemainingSeconds: 42}}
	h := NewAuctionHandler(stub, discardLogger(), values.INR)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.State(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var snap svcauction.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "paused", snap.State)
	assert.Equal(t, 42, snap.RemainingSeconds)
}
