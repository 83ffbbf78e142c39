package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
// Expected failures are returned as values; only genuinely unexpected
// conditions (connectivity loss, programming errors) propagate as
// wrapped unknown errors.
var (
	// Lookup failures (mapped to a search_error payload).
	ErrMatchNotFound     = errors.New("match not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrRosterNotFound    = errors.New("roster entry not found")
	ErrNewsNotFound      = errors.New("news item not found")
	ErrWatchlistNotFound = errors.New("watchlist entry not found")

	// Validation failures (mapped to validation_error). Checked before
	// any mutation is attempted.
	ErrValidationFailed    = errors.New("validation failed")
	ErrPeriodRequired      = errors.New("period is required")
	ErrScoresRequired      = errors.New("team scores are required")
	ErrTeamRequired        = errors.New("team id is required")
	ErrDeviceTokenRequired = errors.New("device push token is required")
	ErrInvalidScorerStatus = errors.New("invalid scorer status")
	ErrInvalidTeamSequence = errors.New("team sequence must be 1 or 2")
	ErrNewsTitleRequired   = errors.New("news title is required")
	ErrMatchNotInPlay      = errors.New("match is not in play")

	// Persistence failures surfaced as structured payloads.
	ErrSaveFailed   = errors.New("record could not be saved")
	ErrUpdateFailed = errors.New("record could not be updated")

	// Auth.
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
)
