package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/competition-system/models"
)

var ErrMatchUmpireNotFound = errors.New("match umpire not found")

type MatchUmpireRepository interface {
	Create(ctx context.Context, umpire *models.MatchUmpire) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchUmpire, error)
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresMatchUmpireRepository struct {
	db *sql.DB
}

func NewPostgresMatchUmpireRepository(db *sql.DB) MatchUmpireRepository {
	return &postgresMatchUmpireRepository{db: db}
}

func (r *postgresMatchUmpireRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchUmpireRepository) Create(ctx context.Context, umpire *models.MatchUmpire) error {
	query := `
		INSERT INTO match_umpires (match_id, user_id, umpire_name, sequence_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		umpire.MatchID, umpire.UserID, umpire.UmpireName, umpire.SequenceNumber,
	).Scan(&umpire.ID, &umpire.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match umpire for match %d: %w", umpire.MatchID, err)
	}
	return nil
}

func (r *postgresMatchUmpireRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchUmpire, error) {
	query := `
		SELECT id, match_id, user_id, umpire_name, sequence_number, created_at
		FROM match_umpires
		WHERE match_id = $1
		ORDER BY sequence_number ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query umpires for match %d: %w", matchID, err)
	}
	defer rows.Close()

	umpires := make([]*models.MatchUmpire, 0)
	for rows.Next() {
		var u models.MatchUmpire
		if scanErr := rows.Scan(&u.ID, &u.MatchID, &u.UserID, &u.UmpireName, &u.SequenceNumber, &u.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match umpire row: %w", scanErr)
		}
		umpires = append(umpires, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match umpire rows iteration: %w", err)
	}
	return umpires, nil
}

func (r *postgresMatchUmpireRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM match_umpires WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete umpires for match %d: %w", matchID, err)
	}
	return nil
}
