package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/auction"
	"github.com/jplsports/player-auction-backend/internal/domain/player"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/auth"
	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

// AuctionService is the coordinator surface the API depends on
type AuctionService interface {
	Start(ctx context.Context, sel auction.Selection) (svcauction.Snapshot, error)
	PlaceBid(ctx context.Context, teamID uuid.UUID, amount values.Money) (svcauction.Snapshot, error)
	Pause(ctx context.Context) (svcauction.Snapshot, error)
	Resume(ctx context.Context) (svcauction.Snapshot, error)
	Cancel(ctx context.Context) (svcauction.Snapshot, error)
	End(ctx context.Context, override *auction.DirectSale) (svcauction.Snapshot, error)
	QueryState() svcauction.Snapshot
}

// AuctionHandler serves the auction lifecycle endpoints
type AuctionHandler struct {
	svc      AuctionService
	logger   *slog.Logger
	validate *validator.Validate
	currency string
}

// NewAuctionHandler creates the handler
func NewAuctionHandler(svc AuctionService, logger *slog.Logger, currency string) *AuctionHandler {
	return &AuctionHandler{
		svc:      svc,
		logger:   logger,
		validate: validator.New(),
		currency: currency,
	}
}

type startRequest struct {
	Mode     string `json:"mode" validate:"required,oneof=manual random unsold category"`
	PlayerID string `json:"player_id,omitempty" validate:"omitempty,uuid"`
	Category string `json:"category,omitempty"`
}

type bidRequest struct {
	TeamID string `json:"team_id,omitempty" validate:"omitempty,uuid"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type endRequest struct {
	TeamID    string `json:"team_id,omitempty" validate:"omitempty,uuid"`
	SoldPrice int64  `json:"sold_price,omitempty" validate:"omitempty,gt=0"`
}

func (h *AuctionHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeValidationError(w, "malformed request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeValidationError(w, err.Error())
		return false
	}
	return true
}

// Start arms a new cycle
func (h *AuctionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	sel := auction.Selection{
		Mode:     auction.SelectionMode(req.Mode),
		Category: player.Category(req.Category),
	}
	if req.PlayerID != "" {
		sel.PlayerID = uuid.MustParse(req.PlayerID)
	}

	snap, err := h.svc.Start(r.Context(), sel)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// PlaceBid records a bid for the live lot. Team users always bid as their
// own team; admins must name one.
func (h *AuctionHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	var teamID uuid.UUID
	claims := ClaimsFromContext(r.Context())
	switch {
	case claims != nil && claims.Role == auth.RoleTeam:
		if claims.TeamID == nil {
			writeValidationError(w, "team account has no team assigned")
			return
		}
		teamID = *claims.TeamID
	case req.TeamID != "":
		teamID = uuid.MustParse(req.TeamID)
	default:
		writeValidationError(w, "team_id is required")
		return
	}

	amount, err := values.NewMoneyFromInt(req.Amount, h.currency)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	snap, err := h.svc.PlaceBid(r.Context(), teamID, amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Pause freezes the countdown
func (h *AuctionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Pause(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Resume restarts the countdown from the frozen remainder
func (h *AuctionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Resume(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Cancel aborts the cycle without a sale
func (h *AuctionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Cancel(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// End settles the cycle, optionally with a direct-sale override
func (h *AuctionHandler) End(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if r.ContentLength > 0 {
		if !h.decodeAndValidate(w, r, &req) {
			return
		}
	}

	var override *auction.DirectSale
	if req.TeamID != "" || req.SoldPrice > 0 {
		if req.TeamID == "" || req.SoldPrice <= 0 {
			writeValidationError(w, "direct sale requires both team_id and sold_price")
			return
		}
		price, err := values.NewMoneyFromInt(req.SoldPrice, h.currency)
		if err != nil {
			writeValidationError(w, err.Error())
			return
		}
		override = &auction.DirectSale{
			TeamID: uuid.MustParse(req.TeamID),
			Price:  price,
		}
	}

	snap, err := h.svc.End(r.Context(), override)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// State returns the current snapshot
func (h *AuctionHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.QueryState())
}
