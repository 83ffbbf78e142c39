package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courtside/competition-system/models"
)

type MatchPausedTimeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, paused *models.MatchPausedTime) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchPausedTime, error)
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresMatchPausedTimeRepository struct {
	db *sql.DB
}

func NewPostgresMatchPausedTimeRepository(db *sql.DB) MatchPausedTimeRepository {
	return &postgresMatchPausedTimeRepository{db: db}
}

func (r *postgresMatchPausedTimeRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchPausedTimeRepository) Create(ctx context.Context, exec SQLExecutor, paused *models.MatchPausedTime) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_paused_times (match_id, period, is_break, total_paused_ms)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		paused.MatchID, paused.Period, paused.IsBreak, paused.TotalPausedMs,
	).Scan(&paused.ID, &paused.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert paused time for match %d: %w", paused.MatchID, err)
	}
	return nil
}

func (r *postgresMatchPausedTimeRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchPausedTime, error) {
	query := `
		SELECT id, match_id, period, is_break, total_paused_ms, created_at
		FROM match_paused_times
		WHERE match_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query paused times for match %d: %w", matchID, err)
	}
	defer rows.Close()

	pausedTimes := make([]*models.MatchPausedTime, 0)
	for rows.Next() {
		var p models.MatchPausedTime
		if scanErr := rows.Scan(&p.ID, &p.MatchID, &p.Period, &p.IsBreak, &p.TotalPausedMs, &p.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan paused time row: %w", scanErr)
		}
		pausedTimes = append(pausedTimes, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during paused time rows iteration: %w", err)
	}
	return pausedTimes, nil
}

func (r *postgresMatchPausedTimeRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM match_paused_times WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete paused times for match %d: %w", matchID, err)
	}
	return nil
}
