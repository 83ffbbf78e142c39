package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/repositories"
)

type AssignRosterInput struct {
	UserID  int               `json:"user_id"`
	TeamID  int               `json:"team_id"`
	MatchID *int              `json:"match_id,omitempty"`
	Role    models.RosterRole `json:"role"`
}

type AssignUmpireInput struct {
	MatchID        int     `json:"match_id"`
	UserID         *int    `json:"user_id,omitempty"`
	UmpireName     *string `json:"umpire_name,omitempty"`
	SequenceNumber int     `json:"sequence_number"`
}

// RosterService manages role assignments: who scores, manages, umpires
// or plays a match. Assignments feed the notification fan-out.
type RosterService interface {
	Assign(ctx context.Context, input AssignRosterInput) (*models.Roster, error)
	Remove(ctx context.Context, id int) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Roster, error)
	AssignUmpire(ctx context.Context, input AssignUmpireInput) (*models.MatchUmpire, error)
	ListUmpiresByMatch(ctx context.Context, matchID int) ([]*models.MatchUmpire, error)
}

type rosterService struct {
	rosterRepo repositories.RosterRepository
	umpireRepo repositories.MatchUmpireRepository
	userRepo   repositories.UserRepository
}

func NewRosterService(
	rosterRepo repositories.RosterRepository,
	umpireRepo repositories.MatchUmpireRepository,
	userRepo repositories.UserRepository,
) RosterService {
	return &rosterService{
		rosterRepo: rosterRepo,
		umpireRepo: umpireRepo,
		userRepo:   userRepo,
	}
}

func (s *rosterService) Assign(ctx context.Context, input AssignRosterInput) (*models.Roster, error) {
	switch input.Role {
	case models.RoleManager, models.RoleScorer, models.RoleUmpire, models.RolePlayer:
	default:
		return nil, fmt.Errorf("%w: unknown roster role %q", ErrValidationFailed, input.Role)
	}
	if input.TeamID == 0 {
		return nil, ErrTeamRequired
	}

	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %d: %w", input.UserID, err)
	}

	roster := &models.Roster{
		UserID:  input.UserID,
		TeamID:  input.TeamID,
		MatchID: input.MatchID,
		Role:    input.Role,
	}
	if err := s.rosterRepo.Create(ctx, roster); err != nil {
		if errors.Is(err, repositories.ErrRosterTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("%w: roster: %w", ErrSaveFailed, err)
	}
	return roster, nil
}

func (s *rosterService) Remove(ctx context.Context, id int) error {
	if err := s.rosterRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRosterNotFound) {
			return ErrRosterNotFound
		}
		return fmt.Errorf("failed to remove roster %d: %w", id, err)
	}
	return nil
}

func (s *rosterService) ListByMatch(ctx context.Context, matchID int) ([]*models.Roster, error) {
	rosters, err := s.rosterRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rosters for match %d: %w", matchID, err)
	}
	return rosters, nil
}

func (s *rosterService) AssignUmpire(ctx context.Context, input AssignUmpireInput) (*models.MatchUmpire, error) {
	if input.UserID == nil && (input.UmpireName == nil || *input.UmpireName == "") {
		return nil, fmt.Errorf("%w: umpire needs a user id or a name", ErrValidationFailed)
	}
	if input.SequenceNumber <= 0 {
		input.SequenceNumber = 1
	}

	umpire := &models.MatchUmpire{
		MatchID:        input.MatchID,
		UserID:         input.UserID,
		UmpireName:     input.UmpireName,
		SequenceNumber: input.SequenceNumber,
	}
	if err := s.umpireRepo.Create(ctx, umpire); err != nil {
		return nil, fmt.Errorf("%w: match umpire: %w", ErrSaveFailed, err)
	}
	return umpire, nil
}

func (s *rosterService) ListUmpiresByMatch(ctx context.Context, matchID int) ([]*models.MatchUmpire, error) {
	umpires, err := s.umpireRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list umpires for match %d: %w", matchID, err)
	}
	return umpires, nil
}
