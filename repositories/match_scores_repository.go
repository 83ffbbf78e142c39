package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/competition-system/models"
)

var ErrMatchScoresNotFound = errors.New("match scores not found")

type MatchScoresRepository interface {
	GetByMatchAndPeriod(ctx context.Context, exec SQLExecutor, matchID, period int) (*models.MatchScores, error)
	Create(ctx context.Context, exec SQLExecutor, scores *models.MatchScores) error
	Update(ctx context.Context, exec SQLExecutor, scores *models.MatchScores) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchScores, error)
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresMatchScoresRepository struct {
	db *sql.DB
}

func NewPostgresMatchScoresRepository(db *sql.DB) MatchScoresRepository {
	return &postgresMatchScoresRepository{db: db}
}

func (r *postgresMatchScoresRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchScoresRepository) GetByMatchAndPeriod(ctx context.Context, exec SQLExecutor, matchID, period int) (*models.MatchScores, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, period, team1_score, team2_score, created_at
		FROM match_scores
		WHERE match_id = $1 AND period = $2`

	var s models.MatchScores
	err := executor.QueryRowContext(ctx, query, matchID, period).Scan(
		&s.ID, &s.MatchID, &s.Period, &s.Team1Score, &s.Team2Score, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchScoresNotFound
		}
		return nil, fmt.Errorf("failed to scan match scores for match %d period %d: %w", matchID, period, err)
	}
	return &s, nil
}

func (r *postgresMatchScoresRepository) Create(ctx context.Context, exec SQLExecutor, scores *models.MatchScores) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_scores (match_id, period, team1_score, team2_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		scores.MatchID, scores.Period, scores.Team1Score, scores.Team2Score,
	).Scan(&scores.ID, &scores.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match scores for match %d period %d: %w", scores.MatchID, scores.Period, err)
	}
	return nil
}

func (r *postgresMatchScoresRepository) Update(ctx context.Context, exec SQLExecutor, scores *models.MatchScores) error {
	executor := r.getExecutor(exec)
	query := `UPDATE match_scores SET team1_score = $1, team2_score = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, scores.Team1Score, scores.Team2Score, scores.ID)
	if err != nil {
		return fmt.Errorf("failed to update match scores %d: %w", scores.ID, err)
	}
	return checkAffectedRows(result, ErrMatchScoresNotFound)
}

func (r *postgresMatchScoresRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchScores, error) {
	query := `
		SELECT id, match_id, period, team1_score, team2_score, created_at
		FROM match_scores
		WHERE match_id = $1
		ORDER BY period ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match scores for match %d: %w", matchID, err)
	}
	defer rows.Close()

	scores := make([]*models.MatchScores, 0)
	for rows.Next() {
		var s models.MatchScores
		if scanErr := rows.Scan(&s.ID, &s.MatchID, &s.Period, &s.Team1Score, &s.Team2Score, &s.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match scores row: %w", scanErr)
		}
		scores = append(scores, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match scores rows iteration: %w", err)
	}
	return scores, nil
}

func (r *postgresMatchScoresRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM match_scores WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete match scores for match %d: %w", matchID, err)
	}
	return nil
}
