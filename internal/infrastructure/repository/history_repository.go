package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jplsports/player-auction-backend/internal/domain/auction"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
)

// HistoryEntry is one settled cycle joined with the lot's catalog row
type HistoryEntry struct {
	ID         uuid.UUID       `json:"id"`
	PlayerID   uuid.UUID       `json:"player_id"`
	PlayerName string          `json:"player_name"`
	Outcome    auction.Outcome `json:"outcome"`
	TeamID     *uuid.UUID      `json:"team_id,omitempty"`
	TeamName   string          `json:"team_name,omitempty"`
	Price      *values.Money   `json:"price,omitempty"`
	EndedAt    time.Time       `json:"ended_at"`
}

// HistoryRepository reads the append-only settlement log. Writes go through
// CatalogStore.RecordSettlement so they share the settlement transaction.
type HistoryRepository struct {
	db *pgxpool.Pool
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// List returns settled cycles, most recent first
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT h.id, h.player_id, p.name, h.outcome, h.team_id, COALESCE(t.name, ''), h.price, h.ended_at
		FROM auction_history h
		JOIN players p ON p.id = h.player_id
		LEFT JOIN teams t ON t.id = h.team_id
		ORDER BY h.ended_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(
			&e.ID, &e.PlayerID, &e.PlayerName, &e.Outcome,
			&e.TeamID, &e.TeamName, &e.Price, &e.EndedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
