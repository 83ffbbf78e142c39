package services

import (
	"context"
	"testing"

	"github.com/courtside/competition-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultPoints(t *testing.T) {
	tests := []struct {
		name         string
		scoreFor     int
		scoreAgainst int
		wantFor      int
		wantAgainst  int
	}{
		{"win", 43, 38, 2, 0},
		{"loss", 30, 45, 0, 2},
		{"draw", 40, 40, 1, 1},
		{"scoreless draw", 0, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forPoints, againstPoints := resultPoints(tt.scoreFor, tt.scoreAgainst)
			assert.Equal(t, tt.wantFor, forPoints)
			assert.Equal(t, tt.wantAgainst, againstPoints)
		})
	}
}

func TestRecomputeUpdatesBothStandings(t *testing.T) {
	repo := newFakeLadderRepo()
	transactor := &fakeTransactor{}
	svc := NewLadderService(transactor, repo)

	err := svc.RecomputeForMatches(context.Background(), []*models.Match{{
		ID:          1,
		DivisionID:  4,
		Team1ID:     10,
		Team2ID:     20,
		Team1Score:  43,
		Team2Score:  38,
		MatchStatus: models.MatchStatusEnded,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, transactor.calls)

	winner, err := repo.GetByDivisionAndTeam(context.Background(), nil, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, winner.Points)
	assert.Equal(t, 1, winner.GamesPlayed)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 43, winner.ScoreFor)
	assert.Equal(t, 38, winner.ScoreAgainst)
	assert.Equal(t, 5, winner.ScoreDifference)

	loser, err := repo.GetByDivisionAndTeam(context.Background(), nil, 4, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, loser.Points)
	assert.Equal(t, 1, loser.Losses)
	assert.Equal(t, -5, loser.ScoreDifference)
}

func TestRecomputeAccumulatesAcrossRounds(t *testing.T) {
	repo := newFakeLadderRepo()
	svc := NewLadderService(&fakeTransactor{}, repo)

	err := svc.RecomputeForMatches(context.Background(), []*models.Match{
		{DivisionID: 4, Team1ID: 10, Team2ID: 20, Team1Score: 40, Team2Score: 30, MatchStatus: models.MatchStatusEnded},
		{DivisionID: 4, Team1ID: 10, Team2ID: 30, Team1Score: 25, Team2Score: 25, MatchStatus: models.MatchStatusEnded},
	})
	require.NoError(t, err)

	standing, err := repo.GetByDivisionAndTeam(context.Background(), nil, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, standing.Points)
	assert.Equal(t, 2, standing.GamesPlayed)
	assert.Equal(t, 1, standing.Wins)
	assert.Equal(t, 1, standing.Draws)
	assert.Equal(t, 65, standing.ScoreFor)
	assert.Equal(t, 55, standing.ScoreAgainst)
}

func TestRecomputeSkipsUnfinishedMatches(t *testing.T) {
	repo := newFakeLadderRepo()
	transactor := &fakeTransactor{}
	svc := NewLadderService(transactor, repo)

	err := svc.RecomputeForMatches(context.Background(), []*models.Match{
		{ID: 1, MatchStatus: models.MatchStatusStarted},
		{ID: 2, MatchStatus: models.MatchStatusPaused},
		{ID: 3},
	})
	require.NoError(t, err)

	// No match ended, so no transaction and no standings.
	assert.Zero(t, transactor.calls)
	assert.Empty(t, repo.standings)
}
