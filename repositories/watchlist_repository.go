package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/competition-system/models"
	"github.com/lib/pq"
)

var ErrWatchlistNotFound = errors.New("watchlist entry not found")

type WatchlistRepository interface {
	Create(ctx context.Context, entry *models.Watchlist) error
	DeleteByDeviceAndTeam(ctx context.Context, deviceID string, teamID int) error
	ListDeviceIDsByTeams(ctx context.Context, teamIDs []int) ([]string, error)
}

type postgresWatchlistRepository struct {
	db *sql.DB
}

func NewPostgresWatchlistRepository(db *sql.DB) WatchlistRepository {
	return &postgresWatchlistRepository{db: db}
}

func (r *postgresWatchlistRepository) Create(ctx context.Context, entry *models.Watchlist) error {
	query := `
		INSERT INTO watchlists (user_id, device_id, team_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (device_id, team_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.DeviceID, entry.TeamID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert watchlist entry for device %s: %w", entry.DeviceID, err)
	}
	return nil
}

func (r *postgresWatchlistRepository) DeleteByDeviceAndTeam(ctx context.Context, deviceID string, teamID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM watchlists WHERE device_id = $1 AND team_id = $2`, deviceID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrWatchlistNotFound)
}

func (r *postgresWatchlistRepository) ListDeviceIDsByTeams(ctx context.Context, teamIDs []int) ([]string, error) {
	if len(teamIDs) == 0 {
		return []string{}, nil
	}
	query := `SELECT DISTINCT device_id FROM watchlists WHERE team_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist device ids: %w", err)
	}
	defer rows.Close()

	deviceIDs := make([]string, 0)
	for rows.Next() {
		var deviceID string
		if scanErr := rows.Scan(&deviceID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan watchlist device id: %w", scanErr)
		}
		deviceIDs = append(deviceIDs, deviceID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during watchlist device id iteration: %w", err)
	}
	return deviceIDs, nil
}
