package services

import (
	"context"
	"fmt"

	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/repositories"
)

// Ladder points per result.
const (
	pointsForWin  = 2
	pointsForDraw = 1
	pointsForLoss = 0
)

// LadderService recomputes division ladder rows from ended matches.
// The computation is treated as a side effect of ending a match; it is
// opaque to the match lifecycle beyond this interface.
type LadderService interface {
	RecomputeForMatches(ctx context.Context, matches []*models.Match) error
	ListByDivision(ctx context.Context, divisionID int) ([]*models.LadderStanding, error)
}

type ladderService struct {
	transactor repositories.Transactor
	ladderRepo repositories.LadderRepository
}

func NewLadderService(transactor repositories.Transactor, ladderRepo repositories.LadderRepository) LadderService {
	return &ladderService{transactor: transactor, ladderRepo: ladderRepo}
}

// RecomputeForMatches folds each ended match into both teams' standings
// inside one transaction: win 2, draw 1, loss 0, plus for/against
// aggregates. Matches that are not ENDED are skipped.
func (s *ladderService) RecomputeForMatches(ctx context.Context, matches []*models.Match) error {
	ended := make([]*models.Match, 0, len(matches))
	for _, match := range matches {
		if match.MatchStatus == models.MatchStatusEnded {
			ended = append(ended, match)
		}
	}
	if len(ended) == 0 {
		return nil
	}

	return s.transactor.InTx(ctx, func(tx repositories.SQLExecutor) error {
		for _, match := range ended {
			if err := s.applyMatch(ctx, tx, match); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ladderService) applyMatch(ctx context.Context, tx repositories.SQLExecutor, match *models.Match) error {
	team1Points, team2Points := resultPoints(match.Team1Score, match.Team2Score)

	if err := s.applyTeam(ctx, tx, match.DivisionID, match.Team1ID, team1Points, match.Team1Score, match.Team2Score); err != nil {
		return fmt.Errorf("failed to apply ladder row for team %d: %w", match.Team1ID, err)
	}
	if err := s.applyTeam(ctx, tx, match.DivisionID, match.Team2ID, team2Points, match.Team2Score, match.Team1Score); err != nil {
		return fmt.Errorf("failed to apply ladder row for team %d: %w", match.Team2ID, err)
	}
	return nil
}

func (s *ladderService) applyTeam(ctx context.Context, tx repositories.SQLExecutor, divisionID, teamID, points, scoreFor, scoreAgainst int) error {
	standing, err := s.ladderRepo.GetOrCreate(ctx, tx, divisionID, teamID)
	if err != nil {
		return err
	}

	standing.Points += points
	standing.GamesPlayed++
	switch points {
	case pointsForWin:
		standing.Wins++
	case pointsForDraw:
		standing.Draws++
	default:
		standing.Losses++
	}
	standing.ScoreFor += scoreFor
	standing.ScoreAgainst += scoreAgainst
	standing.ScoreDifference = standing.ScoreFor - standing.ScoreAgainst

	return s.ladderRepo.Update(ctx, tx, standing)
}

func resultPoints(scoreFor, scoreAgainst int) (int, int) {
	switch {
	case scoreFor > scoreAgainst:
		return pointsForWin, pointsForLoss
	case scoreFor < scoreAgainst:
		return pointsForLoss, pointsForWin
	default:
		return pointsForDraw, pointsForDraw
	}
}

func (s *ladderService) ListByDivision(ctx context.Context, divisionID int) ([]*models.LadderStanding, error) {
	standings, err := s.ladderRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ladder for division %d: %w", divisionID, err)
	}
	return standings, nil
}
