package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/repositories"
)

type RegisterDeviceInput struct {
	UserID    *int   `json:"user_id,omitempty"`
	DeviceID  string `json:"device_id"`
	PushToken string `json:"push_token"`
}

type WatchlistInput struct {
	UserID   *int   `json:"user_id,omitempty"`
	DeviceID string `json:"device_id"`
	TeamID   int    `json:"team_id"`
}

// TeamService covers teams plus the two subscription surfaces that hang
// off them: device registration and per-team watchlists.
type TeamService interface {
	Create(ctx context.Context, team *models.Team) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByDivision(ctx context.Context, divisionID int) ([]*models.Team, error)
	Delete(ctx context.Context, id int) error

	RegisterDevice(ctx context.Context, input RegisterDeviceInput) (*models.Device, error)
	AddToWatchlist(ctx context.Context, input WatchlistInput) (*models.Watchlist, error)
	RemoveFromWatchlist(ctx context.Context, deviceID string, teamID int) error
}

type teamService struct {
	teamRepo      repositories.TeamRepository
	deviceRepo    repositories.DeviceRepository
	watchlistRepo repositories.WatchlistRepository
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	deviceRepo repositories.DeviceRepository,
	watchlistRepo repositories.WatchlistRepository,
) TeamService {
	return &teamService{
		teamRepo:      teamRepo,
		deviceRepo:    deviceRepo,
		watchlistRepo: watchlistRepo,
	}
}

func (s *teamService) Create(ctx context.Context, team *models.Team) (*models.Team, error) {
	if team.Name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: team: %w", ErrSaveFailed, err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}
	return team, nil
}

func (s *teamService) ListByDivision(ctx context.Context, divisionID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for division %d: %w", divisionID, err)
	}
	return teams, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.teamRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return nil
}

func (s *teamService) RegisterDevice(ctx context.Context, input RegisterDeviceInput) (*models.Device, error) {
	if input.DeviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", ErrValidationFailed)
	}
	if input.PushToken == "" {
		return nil, ErrDeviceTokenRequired
	}

	device := &models.Device{
		UserID:    input.UserID,
		DeviceID:  input.DeviceID,
		PushToken: input.PushToken,
	}
	if err := s.deviceRepo.Upsert(ctx, device); err != nil {
		return nil, fmt.Errorf("%w: device: %w", ErrSaveFailed, err)
	}
	return device, nil
}

func (s *teamService) AddToWatchlist(ctx context.Context, input WatchlistInput) (*models.Watchlist, error) {
	if input.DeviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", ErrValidationFailed)
	}
	if input.TeamID == 0 {
		return nil, ErrTeamRequired
	}
	if _, err := s.GetByID(ctx, input.TeamID); err != nil {
		return nil, err
	}

	entry := &models.Watchlist{
		UserID:   input.UserID,
		DeviceID: input.DeviceID,
		TeamID:   input.TeamID,
	}
	if err := s.watchlistRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: watchlist entry: %w", ErrSaveFailed, err)
	}
	return entry, nil
}

func (s *teamService) RemoveFromWatchlist(ctx context.Context, deviceID string, teamID int) error {
	if err := s.watchlistRepo.DeleteByDeviceAndTeam(ctx, deviceID, teamID); err != nil {
		if errors.Is(err, repositories.ErrWatchlistNotFound) {
			return ErrWatchlistNotFound
		}
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return nil
}
