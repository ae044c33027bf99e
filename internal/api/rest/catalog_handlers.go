package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/player"
	"github.com/jplsports/player-auction-backend/internal/domain/team"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/repository"
)

// CatalogReader is the read surface for players and teams
type CatalogReader interface {
	ListPlayers(ctx context.Context) ([]*player.Player, error)
	ListSoldPlayers(ctx context.Context) ([]*player.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*player.Player, error)
	ListTeams(ctx context.Context) ([]*team.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*team.Team, error)
}

// CatalogWriter creates catalog entries
type CatalogWriter interface {
	CreatePlayer(ctx context.Context, p *player.Player) error
	CreateTeam(ctx context.Context, t *team.Team) error
}

// HistoryReader lists settled cycles
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]repository.HistoryEntry, error)
}

// CatalogHandler serves the player/team/history read and admin-write endpoints
type CatalogHandler struct {
	reader   CatalogReader
	writer   CatalogWriter
	history  HistoryReader
	logger   *slog.Logger
	validate *validator.Validate
	currency string
}

// NewCatalogHandler creates the handler
func NewCatalogHandler(reader CatalogReader, writer CatalogWriter, history HistoryReader, logger *slog.Logger, currency string) *CatalogHandler {
	return &CatalogHandler{
		reader:   reader,
		writer:   writer,
		history:  history,
		logger:   logger,
		validate: validator.New(),
		currency: currency,
	}
}

// ListPlayers returns the full catalog
func (h *CatalogHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.reader.ListPlayers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}

// ListSoldPlayers returns players already assigned to teams
func (h *CatalogHandler) ListSoldPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.reader.ListSoldPlayers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}

// GetPlayer returns one player
func (h *CatalogHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeValidationError(w, "invalid player id")
		return
	}

	p, err := h.reader.GetPlayer(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type createPlayerRequest struct {
	Name      string `json:"name" validate:"required"`
	Nickname  string `json:"nickname,omitempty"`
	Category  string `json:"category" validate:"required"`
	BasePrice int64  `json:"base_price" validate:"required,gt=0"`
	ImagePath string `json:"image_path,omitempty"`
	Jersey    int    `json:"jersey,omitempty"`
}

// CreatePlayer adds a player to the catalog
func (h *CatalogHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "malformed request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	category := player.Category(req.Category)
	if !category.Valid() {
		writeValidationError(w, "unknown player category")
		return
	}

	basePrice, err := values.NewMoneyFromInt(req.BasePrice, h.currency)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	p := &player.Player{
		ID:        uuid.New(),
		Name:      req.Name,
		Nickname:  req.Nickname,
		Category:  category,
		BasePrice: basePrice,
		ImagePath: req.ImagePath,
		Jersey:    req.Jersey,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.writer.CreatePlayer(r.Context(), p); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListTeams returns all teams with their current purses
func (h *CatalogHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.reader.ListTeams(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// GetTeam returns one team
func (h *CatalogHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeValidationError(w, "invalid team id")
		return
	}

	t, err := h.reader.GetTeam(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type createTeamRequest struct {
	Name      string `json:"name" validate:"required"`
	Owner     string `json:"owner,omitempty"`
	Budget    int64  `json:"budget" validate:"required,gt=0"`
	ImagePath string `json:"image_path,omitempty"`
}

// CreateTeam adds a bidding party
func (h *CatalogHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "malformed request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	budget, err := values.NewMoneyFromInt(req.Budget, h.currency)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	now := time.Now().UTC()
	t := &team.Team{
		ID:        uuid.New(),
		Name:      req.Name,
		Owner:     req.Owner,
		Budget:    budget,
		ImagePath: req.ImagePath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.writer.CreateTeam(r.Context(), t); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ListHistory returns settled cycles, most recent first
func (h *CatalogHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeValidationError(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := h.history.List(r.Context(), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}
