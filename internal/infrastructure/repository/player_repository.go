package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jplsports/player-auction-backend/internal/domain/errors"
	"github.com/jplsports/player-auction-backend/internal/domain/player"
)

const playerColumns = `id, name, nickname, category, base_price, image_path, jersey, sold, created_at`

// PlayerRepository persists the player catalog in PostgreSQL
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create stores a new player
func (r *PlayerRepository) Create(ctx context.Context, p *player.Player) error {
	query := `
		INSERT INTO players (id, name, nickname, category, base_price, image_path, jersey, sold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Nickname, p.Category, p.BasePrice,
		p.ImagePath, p.Jersey, p.Sold, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	return nil
}

// GetByID retrieves one player
func (r *PlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return scanPlayer(r.db.QueryRow(ctx, query, id))
}

// List returns the full catalog ordered by name
func (r *PlayerRepository) List(ctx context.Context) ([]*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY name`
	return r.queryPlayers(ctx, query)
}

// ListSold returns players already assigned to a team
func (r *PlayerRepository) ListSold(ctx context.Context) ([]*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE sold ORDER BY name`
	return r.queryPlayers(ctx, query)
}

// PickRandom selects one unsold player uniformly at random, optionally
// restricted to a category, optionally restricted to players already passed
// in at a prior cycle.
func (r *PlayerRepository) PickRandom(ctx context.Context, category player.Category, previouslyUnsold bool) (*player.Player, error) {
	query := `
		SELECT ` + prefixedPlayerColumns("p") + `
		FROM players p
		WHERE NOT p.sold
		  AND ($1 = '' OR p.category = $1)
		  AND ($2 = FALSE OR EXISTS (
			SELECT 1 FROM auction_history h
			WHERE h.player_id = p.id AND h.outcome = 'unsold'
		  ))
		ORDER BY random()
		LIMIT 1
	`
	p, err := scanPlayer(r.db.QueryRow(ctx, query, string(category), previouslyUnsold))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlayerRepository) queryPlayers(ctx context.Context, query string, args ...any) ([]*player.Player, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var out []*player.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func prefixedPlayerColumns(alias string) string {
	return alias + ".id, " + alias + ".name, " + alias + ".nickname, " + alias + ".category, " +
		alias + ".base_price, " + alias + ".image_path, " + alias + ".jersey, " + alias + ".sold, " + alias + ".created_at"
}

func scanPlayer(row pgx.Row) (*player.Player, error) {
	var p player.Player
	err := row.Scan(
		&p.ID, &p.Name, &p.Nickname, &p.Category, &p.BasePrice,
		&p.ImagePath, &p.Jersey, &p.Sold, &p.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("scanning player: %w", err)
	}
	return &p, nil
}
