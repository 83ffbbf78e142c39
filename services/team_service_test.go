package services

import (
	"context"
	"testing"

	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDeviceValidation(t *testing.T) {
	svc := NewTeamService(newFakeTeamRepo(), &fakeDeviceRepo{}, &fakeWatchlistRepo{})

	_, err := svc.RegisterDevice(context.Background(), RegisterDeviceInput{PushToken: "tok"})
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.RegisterDevice(context.Background(), RegisterDeviceInput{DeviceID: "dev-1"})
	require.ErrorIs(t, err, ErrDeviceTokenRequired)

	device, err := svc.RegisterDevice(context.Background(), RegisterDeviceInput{DeviceID: "dev-1", PushToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "dev-1", device.DeviceID)
	assert.Nil(t, device.UserID)
}

func TestAddToWatchlistRequiresExistingTeam(t *testing.T) {
	watchlist := &fakeWatchlistRepo{}
	svc := NewTeamService(newFakeTeamRepo(&models.Team{ID: 10, Name: "Hawks"}), &fakeDeviceRepo{}, watchlist)

	_, err := svc.AddToWatchlist(context.Background(), WatchlistInput{DeviceID: "dev-1", TeamID: 99})
	require.ErrorIs(t, err, ErrTeamNotFound)

	_, err = svc.AddToWatchlist(context.Background(), WatchlistInput{TeamID: 10})
	require.ErrorIs(t, err, ErrValidationFailed)

	entry, err := svc.AddToWatchlist(context.Background(), WatchlistInput{DeviceID: "dev-1", TeamID: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, entry.TeamID)
	assert.Len(t, watchlist.entries, 1)
}

func TestRemoveFromWatchlistNotFound(t *testing.T) {
	svc := NewTeamService(newFakeTeamRepo(), &fakeDeviceRepo{}, &fakeWatchlistRepo{
		deleteErr: repositories.ErrWatchlistNotFound,
	})

	err := svc.RemoveFromWatchlist(context.Background(), "dev-1", 10)
	require.ErrorIs(t, err, ErrWatchlistNotFound)
}

func TestTeamCreateRequiresName(t *testing.T) {
	svc := NewTeamService(newFakeTeamRepo(), &fakeDeviceRepo{}, &fakeWatchlistRepo{})

	_, err := svc.Create(context.Background(), &models.Team{DivisionID: 4})
	require.ErrorIs(t, err, ErrValidationFailed)

	team, err := svc.Create(context.Background(), &models.Team{Name: "Hawks", DivisionID: 4})
	require.NoError(t, err)
	assert.NotZero(t, team.ID)
}
