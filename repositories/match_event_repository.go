package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/courtside/competition-system/models"
)

var ErrMatchEventNotFound = errors.New("match event not found")

// MatchEventFilter narrows FindByParams lookups. Attribute pairs match
// against either attribute slot of the event row, mirroring the
// free-form key/value layout of the log.
type MatchEventFilter struct {
	Category   models.EventCategory
	Type       string
	Attributes map[string]string
	Limit      int
}

type MatchEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error
	ListByMatch(ctx context.Context, matchID int, limit int) ([]*models.MatchEvent, error)
	FindByParams(ctx context.Context, matchID int, filter MatchEventFilter) ([]*models.MatchEvent, error)
	DeleteByMatch(ctx context.Context, matchID int) (int64, error)
}

type postgresMatchEventRepository struct {
	db *sql.DB
}

func NewPostgresMatchEventRepository(db *sql.DB) MatchEventRepository {
	return &postgresMatchEventRepository{db: db}
}

func (r *postgresMatchEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchEventColumns = `id, match_id, event_category, type, event_timestamp, period,
	       attribute1_key, attribute1_value, attribute2_key, attribute2_value,
	       user_id, source, created_at`

func (r *postgresMatchEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_events
			(match_id, event_category, type, event_timestamp, period,
			 attribute1_key, attribute1_value, attribute2_key, attribute2_value, user_id, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		event.MatchID, string(event.EventCategory), event.Type, event.EventTimestamp, event.Period,
		event.Attribute1Key, event.Attribute1Value, event.Attribute2Key, event.Attribute2Value,
		event.UserID, event.Source,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match event for match %d: %w", event.MatchID, err)
	}
	return nil
}

func (r *postgresMatchEventRepository) scanEvent(rowScanner interface{ Scan(...interface{}) error }) (*models.MatchEvent, error) {
	var ev models.MatchEvent
	var category string
	err := rowScanner.Scan(
		&ev.ID, &ev.MatchID, &category, &ev.Type, &ev.EventTimestamp, &ev.Period,
		&ev.Attribute1Key, &ev.Attribute1Value, &ev.Attribute2Key, &ev.Attribute2Value,
		&ev.UserID, &ev.Source, &ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchEventNotFound
		}
		return nil, err
	}
	ev.EventCategory = models.EventCategory(category)
	return &ev, nil
}

func (r *postgresMatchEventRepository) ListByMatch(ctx context.Context, matchID int, limit int) ([]*models.MatchEvent, error) {
	query := `SELECT ` + matchEventColumns + ` FROM match_events WHERE match_id = $1 ORDER BY event_timestamp ASC, id ASC`
	args := []interface{}{matchID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	return r.queryEvents(ctx, query, args...)
}

// FindByParams selects the most recent events matching a scoring/stat
// signature. Attribute pairs are matched against either attribute slot
// because events carry free-form key/value columns rather than a
// normalized foreign key.
func (r *postgresMatchEventRepository) FindByParams(ctx context.Context, matchID int, filter MatchEventFilter) ([]*models.MatchEvent, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchEventColumns + ` FROM match_events WHERE match_id = $1`)

	args := []interface{}{matchID}
	placeholderIndex := 2

	if filter.Category != "" {
		queryBuilder.WriteString(" AND event_category = $" + strconv.Itoa(placeholderIndex))
		args = append(args, string(filter.Category))
		placeholderIndex++
	}
	if filter.Type != "" {
		queryBuilder.WriteString(" AND type = $" + strconv.Itoa(placeholderIndex))
		args = append(args, filter.Type)
		placeholderIndex++
	}
	for key, value := range filter.Attributes {
		keyPlaceholder := strconv.Itoa(placeholderIndex)
		valuePlaceholder := strconv.Itoa(placeholderIndex + 1)
		queryBuilder.WriteString(" AND ((attribute1_key = $" + keyPlaceholder +
			" AND attribute1_value = $" + valuePlaceholder +
			") OR (attribute2_key = $" + keyPlaceholder +
			" AND attribute2_value = $" + valuePlaceholder + "))")
		args = append(args, key, value)
		placeholderIndex += 2
	}

	queryBuilder.WriteString(" ORDER BY event_timestamp DESC, id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(placeholderIndex))
	args = append(args, limit)

	return r.queryEvents(ctx, queryBuilder.String(), args...)
}

func (r *postgresMatchEventRepository) DeleteByMatch(ctx context.Context, matchID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_events WHERE match_id = $1`, matchID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete match events for match %d: %w", matchID, err)
	}
	return result.RowsAffected()
}

func (r *postgresMatchEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*models.MatchEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		ev, scanErr := r.scanEvent(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match event row: %w", scanErr)
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match event rows iteration: %w", err)
	}
	return events, nil
}
