package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/notifications"
	"github.com/courtside/competition-system/repositories"
	"github.com/courtside/competition-system/storage"
	"github.com/resend/resend-go/v2"
)

const newsNotificationType = "news_published"

type CreateNewsInput struct {
	OrganisationID int    `json:"organisation_id"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	AuthorID       int    `json:"author_id"`
}

type PublishNewsInput struct {
	NewsID          int      `json:"news_id"`
	EmailRecipients []string `json:"email_recipients,omitempty"`
	NotifyTeamIDs   []int    `json:"notify_team_ids,omitempty"`
}

// NewsService manages organisation news items: drafting, attaching an
// image, publishing with optional email and push broadcast.
type NewsService interface {
	Create(ctx context.Context, input CreateNewsInput) (*models.News, error)
	GetByID(ctx context.Context, id int) (*models.News, error)
	ListByOrganisation(ctx context.Context, organisationID int, publishedOnly bool) ([]*models.News, error)
	AttachImage(ctx context.Context, newsID int, contentType string, reader io.Reader) (*models.News, error)
	Publish(ctx context.Context, input PublishNewsInput) (*models.News, error)
	Delete(ctx context.Context, id int) error
}

type newsService struct {
	newsRepo      repositories.NewsRepository
	deviceRepo    repositories.DeviceRepository
	watchlistRepo repositories.WatchlistRepository
	uploader      storage.FileUploader
	emailClient   *resend.Client
	emailFrom     string
	dispatcher    Enqueuer
	logger        *slog.Logger
}

func NewNewsService(
	newsRepo repositories.NewsRepository,
	deviceRepo repositories.DeviceRepository,
	watchlistRepo repositories.WatchlistRepository,
	uploader storage.FileUploader,
	emailClient *resend.Client,
	emailFrom string,
	dispatcher Enqueuer,
	logger *slog.Logger,
) NewsService {
	return &newsService{
		newsRepo:      newsRepo,
		deviceRepo:    deviceRepo,
		watchlistRepo: watchlistRepo,
		uploader:      uploader,
		emailClient:   emailClient,
		emailFrom:     emailFrom,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

func (s *newsService) Create(ctx context.Context, input CreateNewsInput) (*models.News, error) {
	if input.Title == "" {
		return nil, ErrNewsTitleRequired
	}

	news := &models.News{
		OrganisationID: input.OrganisationID,
		Title:          input.Title,
		Body:           input.Body,
		AuthorID:       input.AuthorID,
	}
	if err := s.newsRepo.Create(ctx, news); err != nil {
		return nil, fmt.Errorf("%w: news: %w", ErrSaveFailed, err)
	}
	return news, nil
}

func (s *newsService) GetByID(ctx context.Context, id int) (*models.News, error) {
	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to load news %d: %w", id, err)
	}
	return news, nil
}

func (s *newsService) ListByOrganisation(ctx context.Context, organisationID int, publishedOnly bool) ([]*models.News, error) {
	items, err := s.newsRepo.ListByOrganisation(ctx, organisationID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list news for organisation %d: %w", organisationID, err)
	}
	return items, nil
}

func (s *newsService) AttachImage(ctx context.Context, newsID int, contentType string, reader io.Reader) (*models.News, error) {
	news, err := s.GetByID(ctx, newsID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: attachment storage is not configured", ErrSaveFailed)
	}

	key := fmt.Sprintf("news/%d/%d", news.OrganisationID, news.ID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: news image: %w", ErrSaveFailed, err)
	}

	news.ImageURL = &result.Location
	if err := s.newsRepo.Update(ctx, news); err != nil {
		return nil, fmt.Errorf("%w: news %d: %w", ErrUpdateFailed, news.ID, err)
	}
	return news, nil
}

// Publish marks the item published and broadcasts it: push to devices
// watchlisting the given teams, email to explicit recipients. Both
// broadcasts are best-effort.
func (s *newsService) Publish(ctx context.Context, input PublishNewsInput) (*models.News, error) {
	news, err := s.GetByID(ctx, input.NewsID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	news.Published = true
	news.PublishedAt = &now
	if err := s.newsRepo.Update(ctx, news); err != nil {
		return nil, fmt.Errorf("%w: news %d: %w", ErrUpdateFailed, news.ID, err)
	}

	s.broadcastPush(ctx, news, input.NotifyTeamIDs)
	s.broadcastEmail(news, input.EmailRecipients)

	return news, nil
}

func (s *newsService) broadcastPush(ctx context.Context, news *models.News, teamIDs []int) {
	if len(teamIDs) == 0 || s.dispatcher == nil {
		return
	}

	deviceIDs, err := s.watchlistRepo.ListDeviceIDsByTeams(ctx, teamIDs)
	if err != nil {
		s.logger.Error("failed to collect news push audience",
			slog.Int("news_id", news.ID), slog.Any("error", err))
		return
	}
	tokens, err := s.deviceRepo.ListTokensByDeviceIDs(ctx, deviceIDs)
	if err != nil {
		s.logger.Error("failed to resolve news push tokens",
			slog.Int("news_id", news.ID), slog.Any("error", err))
		return
	}

	for _, chunk := range chunkTokens(tokens, notifications.MaxTokensPerSend) {
		s.dispatcher.Enqueue(notifications.Message{
			Tokens: chunk,
			Title:  news.Title,
			Body:   news.Body,
			Data:   map[string]string{"type": newsNotificationType, "newsId": fmt.Sprint(news.ID)},
		})
	}
}

func (s *newsService) broadcastEmail(news *models.News, recipients []string) {
	if len(recipients) == 0 || s.emailClient == nil {
		return
	}

	_, err := s.emailClient.Emails.Send(&resend.SendEmailRequest{
		From:    s.emailFrom,
		To:      recipients,
		Subject: news.Title,
		Html:    news.Body,
	})
	if err != nil {
		s.logger.Error("failed to send news email",
			slog.Int("news_id", news.ID), slog.Any("error", err))
	}
}

func (s *newsService) Delete(ctx context.Context, id int) error {
	if err := s.newsRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return ErrNewsNotFound
		}
		return fmt.Errorf("failed to delete news %d: %w", id, err)
	}
	return nil
}
