package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courtside/competition-system/models"
)

type LineupRepository interface {
	Create(ctx context.Context, lineup *models.Lineup) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Lineup, error)
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresLineupRepository struct {
	db *sql.DB
}

func NewPostgresLineupRepository(db *sql.DB) LineupRepository {
	return &postgresLineupRepository{db: db}
}

func (r *postgresLineupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLineupRepository) Create(ctx context.Context, lineup *models.Lineup) error {
	query := `
		INSERT INTO lineups (match_id, team_id, player_id, attended)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		lineup.MatchID, lineup.TeamID, lineup.PlayerID, lineup.Attended,
	).Scan(&lineup.ID)
	if err != nil {
		return fmt.Errorf("failed to insert lineup for match %d: %w", lineup.MatchID, err)
	}
	return nil
}

func (r *postgresLineupRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Lineup, error) {
	query := `
		SELECT id, match_id, team_id, player_id, attended
		FROM lineups
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lineups for match %d: %w", matchID, err)
	}
	defer rows.Close()

	lineups := make([]*models.Lineup, 0)
	for rows.Next() {
		var l models.Lineup
		if scanErr := rows.Scan(&l.ID, &l.MatchID, &l.TeamID, &l.PlayerID, &l.Attended); scanErr != nil {
			return nil, fmt.Errorf("failed to scan lineup row: %w", scanErr)
		}
		lineups = append(lineups, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during lineup rows iteration: %w", err)
	}
	return lineups, nil
}

func (r *postgresLineupRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM lineups WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete lineups for match %d: %w", matchID, err)
	}
	return nil
}
