package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courtside/competition-system/models"
	"github.com/lib/pq"
)

type DeviceRepository interface {
	// Upsert registers or refreshes a device's push token keyed by the
	// client-generated device id.
	Upsert(ctx context.Context, device *models.Device) error
	ListTokensByUserIDs(ctx context.Context, userIDs []int) ([]string, error)
	ListTokensByDeviceIDs(ctx context.Context, deviceIDs []string) ([]string, error)
}

type postgresDeviceRepository struct {
	db *sql.DB
}

func NewPostgresDeviceRepository(db *sql.DB) DeviceRepository {
	return &postgresDeviceRepository{db: db}
}

func (r *postgresDeviceRepository) Upsert(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (user_id, device_id, push_token, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (device_id)
		DO UPDATE SET user_id = EXCLUDED.user_id, push_token = EXCLUDED.push_token, updated_at = NOW()
		RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		device.UserID, device.DeviceID, device.PushToken,
	).Scan(&device.ID, &device.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert device %s: %w", device.DeviceID, err)
	}
	return nil
}

func (r *postgresDeviceRepository) ListTokensByUserIDs(ctx context.Context, userIDs []int) ([]string, error) {
	if len(userIDs) == 0 {
		return []string{}, nil
	}
	query := `
		SELECT DISTINCT push_token
		FROM devices
		WHERE user_id = ANY($1) AND push_token <> ''`
	return r.queryTokens(ctx, query, pq.Array(userIDs))
}

func (r *postgresDeviceRepository) ListTokensByDeviceIDs(ctx context.Context, deviceIDs []string) ([]string, error) {
	if len(deviceIDs) == 0 {
		return []string{}, nil
	}
	query := `
		SELECT DISTINCT push_token
		FROM devices
		WHERE device_id = ANY($1) AND push_token <> ''`
	return r.queryTokens(ctx, query, pq.Array(deviceIDs))
}

func (r *postgresDeviceRepository) queryTokens(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query device tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if scanErr := rows.Scan(&token); scanErr != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", scanErr)
		}
		tokens = append(tokens, token)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during device token iteration: %w", err)
	}
	return tokens, nil
}
