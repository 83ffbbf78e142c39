package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/competition-system/models"
)

var ErrLadderStandingNotFound = errors.New("ladder standing not found")

type LadderRepository interface {
	GetByDivisionAndTeam(ctx context.Context, exec SQLExecutor, divisionID, teamID int) (*models.LadderStanding, error)
	GetOrCreate(ctx context.Context, exec SQLExecutor, divisionID, teamID int) (*models.LadderStanding, error)
	Update(ctx context.Context, exec SQLExecutor, standing *models.LadderStanding) error
	ListByDivision(ctx context.Context, divisionID int) ([]*models.LadderStanding, error)
	DeleteByDivision(ctx context.Context, exec SQLExecutor, divisionID int) error
}

type postgresLadderRepository struct {
	db *sql.DB
}

func NewPostgresLadderRepository(db *sql.DB) LadderRepository {
	return &postgresLadderRepository{db: db}
}

func (r *postgresLadderRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLadderRepository) scanStanding(rowScanner interface{ Scan(...interface{}) error }) (*models.LadderStanding, error) {
	var s models.LadderStanding
	err := rowScanner.Scan(
		&s.ID, &s.DivisionID, &s.TeamID, &s.Points, &s.GamesPlayed,
		&s.Wins, &s.Draws, &s.Losses, &s.ScoreFor, &s.ScoreAgainst,
		&s.ScoreDifference, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLadderStandingNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresLadderRepository) GetByDivisionAndTeam(ctx context.Context, exec SQLExecutor, divisionID, teamID int) (*models.LadderStanding, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, division_id, team_id, points, games_played, wins, draws, losses,
		       score_for, score_against, score_difference, updated_at
		FROM ladder_standings
		WHERE division_id = $1 AND team_id = $2`
	return r.scanStanding(executor.QueryRowContext(ctx, query, divisionID, teamID))
}

func (r *postgresLadderRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, divisionID, teamID int) (*models.LadderStanding, error) {
	executor := r.getExecutor(exec)
	standing, err := r.GetByDivisionAndTeam(ctx, executor, divisionID, teamID)
	if err == nil {
		return standing, nil
	}
	if !errors.Is(err, ErrLadderStandingNotFound) {
		return nil, fmt.Errorf("failed to get standing for division %d team %d: %w", divisionID, teamID, err)
	}

	newStanding := &models.LadderStanding{
		DivisionID: divisionID,
		TeamID:     teamID,
		UpdatedAt:  time.Now(),
	}
	createQuery := `
		INSERT INTO ladder_standings
			(division_id, team_id, points, games_played, wins, draws, losses,
			 score_for, score_against, score_difference, updated_at)
		VALUES ($1, $2, 0, 0, 0, 0, 0, 0, 0, 0, $3)
		RETURNING id`
	if createErr := executor.QueryRowContext(ctx, createQuery, divisionID, teamID, newStanding.UpdatedAt).Scan(&newStanding.ID); createErr != nil {
		return nil, fmt.Errorf("failed to create standing for division %d team %d: %w", divisionID, teamID, createErr)
	}
	return newStanding, nil
}

func (r *postgresLadderRepository) Update(ctx context.Context, exec SQLExecutor, standing *models.LadderStanding) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE ladder_standings SET
			points = $1, games_played = $2, wins = $3, draws = $4, losses = $5,
			score_for = $6, score_against = $7, score_difference = $8, updated_at = NOW()
		WHERE id = $9`

	result, err := executor.ExecContext(ctx, query,
		standing.Points, standing.GamesPlayed, standing.Wins, standing.Draws, standing.Losses,
		standing.ScoreFor, standing.ScoreAgainst, standing.ScoreDifference,
		standing.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLadderStandingNotFound)
}

func (r *postgresLadderRepository) ListByDivision(ctx context.Context, divisionID int) ([]*models.LadderStanding, error) {
	query := `
		SELECT id, division_id, team_id, points, games_played, wins, draws, losses,
		       score_for, score_against, score_difference, updated_at
		FROM ladder_standings
		WHERE division_id = $1
		ORDER BY points DESC, score_difference DESC, score_for DESC, team_id ASC`

	rows, err := r.db.QueryContext(ctx, query, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ladder for division %d: %w", divisionID, err)
	}
	defer rows.Close()

	standings := make([]*models.LadderStanding, 0)
	for rows.Next() {
		s, scanErr := r.scanStanding(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan ladder standing row: %w", scanErr)
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during ladder standing rows iteration: %w", err)
	}
	return standings, nil
}

func (r *postgresLadderRepository) DeleteByDivision(ctx context.Context, exec SQLExecutor, divisionID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM ladder_standings WHERE division_id = $1`, divisionID)
	return err
}
