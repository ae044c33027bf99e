package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jplsports/player-auction-backend/internal/domain/auction"
	"github.com/jplsports/player-auction-backend/internal/domain/errors"
	"github.com/jplsports/player-auction-backend/internal/domain/player"
	"github.com/jplsports/player-auction-backend/internal/domain/team"
)

// CatalogStore is the coordinator's durable backend over PostgreSQL. It
// composes the player and team repositories and owns the settlement
// transaction.
type CatalogStore struct {
	db      *pgxpool.Pool
	players *PlayerRepository
	teams   *TeamRepository
}

// NewCatalogStore creates the store over a shared pool
func NewCatalogStore(db *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{
		db:      db,
		players: NewPlayerRepository(db),
		teams:   NewTeamRepository(db),
	}
}

// GetPlayer retrieves a lot by id
func (s *CatalogStore) GetPlayer(ctx context.Context, id uuid.UUID) (*player.Player, error) {
	return s.players.GetByID(ctx, id)
}

// GetTeam retrieves a bidding party with its current purse
func (s *CatalogStore) GetTeam(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	return s.teams.GetByID(ctx, id)
}

// ListPlayers returns the full catalog
func (s *CatalogStore) ListPlayers(ctx context.Context) ([]*player.Player, error) {
	return s.players.List(ctx)
}

// ListSoldPlayers returns players already assigned to a team
func (s *CatalogStore) ListSoldPlayers(ctx context.Context) ([]*player.Player, error) {
	return s.players.ListSold(ctx)
}

// ListTeams returns all teams
func (s *CatalogStore) ListTeams(ctx context.Context) ([]*team.Team, error) {
	return s.teams.List(ctx)
}

// CreatePlayer adds a player to the catalog
func (s *CatalogStore) CreatePlayer(ctx context.Context, p *player.Player) error {
	return s.players.Create(ctx, p)
}

// CreateTeam adds a bidding party
func (s *CatalogStore) CreateTeam(ctx context.Context, t *team.Team) error {
	return s.teams.Create(ctx, t)
}

// PickPlayer selects a lot per the selection mode
func (s *CatalogStore) PickPlayer(ctx context.Context, sel auction.Selection) (*player.Player, error) {
	var (
		category         player.Category
		previouslyUnsold bool
	)

	switch sel.Mode {
	case auction.ModeRandom:
	case auction.ModeUnsold:
		previouslyUnsold = true
	case auction.ModeCategory:
		if !sel.Category.Valid() {
			return nil, errors.NewValidationError("INVALID_CATEGORY", "unknown player category")
		}
		category = sel.Category
	default:
		return nil, errors.NewValidationError("INVALID_MODE", "selection mode does not pick a lot")
	}

	p, err := s.players.PickRandom(ctx, category, previouslyUnsold)
	if err != nil {
		if stderrors.Is(err, errors.ErrPlayerNotFound) {
			return nil, errors.NewNoEligibleLotError(string(sel.Mode))
		}
		return nil, err
	}
	return p, nil
}

// RecordSettlement applies one cycle's outcome as a single transaction: the
// history append, and for a sale the winner's debit and the lot's sold flag.
func (s *CatalogStore) RecordSettlement(ctx context.Context, rec auction.HistoryRecord) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("beginning settlement tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO auction_history (id, player_id, outcome, team_id, price, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.PlayerID, rec.Outcome, rec.TeamID, nullablePrice(rec), rec.EndedAt)
	if err != nil {
		return fmt.Errorf("inserting history record: %w", err)
	}

	if rec.Outcome == auction.OutcomeSold {
		tag, err := tx.Exec(ctx, `
			UPDATE teams SET budget = budget - $1, updated_at = now() WHERE id = $2
		`, rec.Price, *rec.TeamID)
		if err != nil {
			return fmt.Errorf("debiting winner: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errors.ErrTeamNotFound
		}

		tag, err = tx.Exec(ctx, `UPDATE players SET sold = TRUE WHERE id = $1`, rec.PlayerID)
		if err != nil {
			return fmt.Errorf("marking player sold: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errors.ErrPlayerNotFound
		}
	}

	return tx.Commit(ctx)
}

func nullablePrice(rec auction.HistoryRecord) any {
	if rec.Outcome != auction.OutcomeSold {
		return nil
	}
	return rec.Price
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23505"
}
