package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/competition-system/models"
)

var ErrNewsNotFound = errors.New("news item not found")

type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	GetByID(ctx context.Context, id int) (*models.News, error)
	ListByOrganisation(ctx context.Context, organisationID int, publishedOnly bool) ([]*models.News, error)
	Update(ctx context.Context, news *models.News) error
	SoftDelete(ctx context.Context, id int) error
}

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

const newsColumns = `id, organisation_id, title, body, image_url, author_id, published, published_at, created_at, deleted_at`

func (r *postgresNewsRepository) Create(ctx context.Context, news *models.News) error {
	query := `
		INSERT INTO news (organisation_id, title, body, image_url, author_id, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		news.OrganisationID, news.Title, news.Body, news.ImageURL,
		news.AuthorID, news.Published, news.PublishedAt,
	).Scan(&news.ID, &news.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert news item: %w", err)
	}
	return nil
}

func (r *postgresNewsRepository) scanNews(rowScanner interface{ Scan(...interface{}) error }) (*models.News, error) {
	var n models.News
	err := rowScanner.Scan(
		&n.ID, &n.OrganisationID, &n.Title, &n.Body, &n.ImageURL,
		&n.AuthorID, &n.Published, &n.PublishedAt, &n.CreatedAt, &n.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id int) (*models.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = $1 AND deleted_at IS NULL`
	news, err := r.scanNews(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrNewsNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan news by id %d: %w", id, err)
	}
	return news, nil
}

func (r *postgresNewsRepository) ListByOrganisation(ctx context.Context, organisationID int, publishedOnly bool) ([]*models.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE organisation_id = $1 AND deleted_at IS NULL`
	if publishedOnly {
		query += ` AND published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, organisationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query news for organisation %d: %w", organisationID, err)
	}
	defer rows.Close()

	items := make([]*models.News, 0)
	for rows.Next() {
		n, scanErr := r.scanNews(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", scanErr)
		}
		items = append(items, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during news rows iteration: %w", err)
	}
	return items, nil
}

func (r *postgresNewsRepository) Update(ctx context.Context, news *models.News) error {
	query := `
		UPDATE news SET
			title = $1, body = $2, image_url = $3, published = $4, published_at = $5
		WHERE id = $6 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		news.Title, news.Body, news.ImageURL, news.Published, news.PublishedAt, news.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update news %d: %w", news.ID, err)
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) SoftDelete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE news SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}
