package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/competition-system/models"
	"github.com/lib/pq"
)

var (
	ErrRosterNotFound    = errors.New("roster entry not found")
	ErrRosterUserInvalid = errors.New("roster user conflict or invalid")
	ErrRosterTeamInvalid = errors.New("roster team conflict or invalid")
)

type RosterRepository interface {
	Create(ctx context.Context, roster *models.Roster) error
	Delete(ctx context.Context, id int) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Roster, error)
	// ListUserIDsByTeamsAndRoles resolves which users hold any of the
	// given roles on any of the given teams.
	ListUserIDsByTeamsAndRoles(ctx context.Context, teamIDs []int, roles []models.RosterRole) ([]int, error)
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) Create(ctx context.Context, roster *models.Roster) error {
	query := `
		INSERT INTO rosters (user_id, team_id, match_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		roster.UserID, roster.TeamID, roster.MatchID, string(roster.Role),
	).Scan(&roster.ID, &roster.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "rosters_user_id_fkey":
			return ErrRosterUserInvalid
		case "rosters_team_id_fkey":
			return ErrRosterTeamInvalid
		}
	}
	return err
}

func (r *postgresRosterRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rosters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterNotFound)
}

func (r *postgresRosterRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Roster, error) {
	query := `
		SELECT id, user_id, team_id, match_id, role, created_at
		FROM rosters
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rosters for match %d: %w", matchID, err)
	}
	defer rows.Close()

	rosters := make([]*models.Roster, 0)
	for rows.Next() {
		var ro models.Roster
		var role string
		if scanErr := rows.Scan(&ro.ID, &ro.UserID, &ro.TeamID, &ro.MatchID, &role, &ro.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", scanErr)
		}
		ro.Role = models.RosterRole(role)
		rosters = append(rosters, &ro)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during roster rows iteration: %w", err)
	}
	return rosters, nil
}

func (r *postgresRosterRepository) ListUserIDsByTeamsAndRoles(ctx context.Context, teamIDs []int, roles []models.RosterRole) ([]int, error) {
	if len(teamIDs) == 0 || len(roles) == 0 {
		return []int{}, nil
	}

	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	query := `
		SELECT DISTINCT user_id
		FROM rosters
		WHERE team_id = ANY($1) AND role = ANY($2)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(teamIDs), pq.Array(roleStrings))
	if err != nil {
		return nil, fmt.Errorf("failed to query roster user ids: %w", err)
	}
	defer rows.Close()

	userIDs := make([]int, 0)
	for rows.Next() {
		var userID int
		if scanErr := rows.Scan(&userID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan roster user id: %w", scanErr)
		}
		userIDs = append(userIDs, userID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during roster user id iteration: %w", err)
	}
	return userIDs, nil
}
