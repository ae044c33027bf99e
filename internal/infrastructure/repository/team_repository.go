package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jplsports/player-auction-backend/internal/domain/errors"
	"github.com/jplsports/player-auction-backend/internal/domain/team"
)

const teamColumns = `id, name, owner, budget, image_path, created_at, updated_at`

// TeamRepository persists bidding parties in PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create stores a new team
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	query := `
		INSERT INTO teams (id, name, owner, budget, image_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.Name, t.Owner, t.Budget, t.ImagePath, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrDuplicateRecord
		}
		return fmt.Errorf("creating team: %w", err)
	}
	return nil
}

// GetByID retrieves one team with its current purse
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return scanTeam(r.db.QueryRow(ctx, query, id))
}

// List returns all teams ordered by name
func (r *TeamRepository) List(ctx context.Context) ([]*team.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var out []*team.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTeam(row pgx.Row) (*team.Team, error) {
	var t team.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.Owner, &t.Budget, &t.ImagePath, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("scanning team: %w", err)
	}
	return &t, nil
}
