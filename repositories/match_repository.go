package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/courtside/competition-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchTeamInvalid  = errors.New("match team conflict or invalid")
	ErrMatchSaveFailed   = errors.New("match could not be saved")
	ErrMatchUpdateFailed = errors.New("match could not be updated")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, teamID *int, status *models.MatchStatus) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateScores(ctx context.Context, id, team1Score, team2Score int, centrePassStatus *string) error
	SoftDelete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, division_id, team1_id, team2_id, team1_score, team2_score,
	       match_status, start_time, original_start_time, pause_start_time, total_paused_ms,
	       end_time, extra_start_time, extra_extra_start_time, scorer_status,
	       centre_pass_status, centre_pass_won_by, match_duration, periods_count,
	       team1_result_id, team2_result_id, created_at, deleted_at`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	var status, scorerStatus sql.NullString
	err := rowScanner.Scan(
		&m.ID, &m.DivisionID, &m.Team1ID, &m.Team2ID, &m.Team1Score, &m.Team2Score,
		&status, &m.StartTime, &m.OriginalStartTime, &m.PauseStartTime, &m.TotalPausedMs,
		&m.EndTime, &m.ExtraStartTime, &m.ExtraExtraStartTime, &scorerStatus,
		&m.CentrePassStatus, &m.CentrePassWonBy, &m.MatchDuration, &m.PeriodsCount,
		&m.Team1ResultID, &m.Team2ResultID, &m.CreatedAt, &m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if status.Valid {
		m.MatchStatus = models.MatchStatus(status.String)
	}
	if scorerStatus.Valid {
		m.ScorerStatus = models.ScorerStatus(scorerStatus.String)
	}
	return &m, nil
}

func nullStatus(s models.MatchStatus) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(s), Valid: true}
}

func nullScorerStatus(s models.ScorerStatus) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(s), Valid: true}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(division_id, team1_id, team2_id, team1_score, team2_score, match_status,
			 start_time, scorer_status, match_duration, periods_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.DivisionID, match.Team1ID, match.Team2ID,
		match.Team1Score, match.Team2Score, nullStatus(match.MatchStatus),
		match.StartTime, nullScorerStatus(match.ScorerStatus),
		match.MatchDuration, match.PeriodsCount,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 AND deleted_at IS NULL`
	match, err := r.scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, teamID *int, status *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE deleted_at IS NULL`)

	args := []interface{}{}
	placeholderIndex := 1

	if teamID != nil {
		queryBuilder.WriteString(" AND (team1_id = $" + strconv.Itoa(placeholderIndex) +
			" OR team2_id = $" + strconv.Itoa(placeholderIndex) + ")")
		args = append(args, *teamID)
		placeholderIndex++
	}
	if status != nil {
		queryBuilder.WriteString(" AND match_status = $" + strconv.Itoa(placeholderIndex))
		args = append(args, string(*status))
	}

	queryBuilder.WriteString(" ORDER BY start_time ASC NULLS LAST, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			team1_score = $1, team2_score = $2, match_status = $3,
			start_time = $4, original_start_time = $5, pause_start_time = $6,
			total_paused_ms = $7, end_time = $8, extra_start_time = $9,
			extra_extra_start_time = $10, scorer_status = $11,
			centre_pass_status = $12, centre_pass_won_by = $13,
			team1_result_id = $14, team2_result_id = $15
		WHERE id = $16 AND deleted_at IS NULL`

	result, err := executor.ExecContext(ctx, query,
		match.Team1Score, match.Team2Score, nullStatus(match.MatchStatus),
		match.StartTime, match.OriginalStartTime, match.PauseStartTime,
		match.TotalPausedMs, match.EndTime, match.ExtraStartTime,
		match.ExtraExtraStartTime, nullScorerStatus(match.ScorerStatus),
		match.CentrePassStatus, match.CentrePassWonBy,
		match.Team1ResultID, match.Team2ResultID,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScores(ctx context.Context, id, team1Score, team2Score int, centrePassStatus *string) error {
	query := `
		UPDATE matches
		SET team1_score = $1, team2_score = $2,
		    centre_pass_status = COALESCE($3, centre_pass_status)
		WHERE id = $4 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, team1Score, team2Score, centrePassStatus, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE matches SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_team1_id_fkey", "matches_team2_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
