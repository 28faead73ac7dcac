package services

import (
	"errors"

	"github.com/Dosada05/cup-site/repositories"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// The remote store could not complete a read or write.
	ErrStoreUnavailable = repositories.ErrStoreUnavailable

	ErrValidationFailed    = errors.New("validation failed")
	ErrTeamNameRequired    = errors.New("team name is required")
	ErrPlayerNameRequired  = errors.New("player name is required")
	ErrInvalidAuctionPrice = errors.New("sale price must be at least the player's base price")
	ErrPlayerAlreadySold   = errors.New("player is already sold")
	ErrPlayerNotForSale    = errors.New("player is not up for auction")
	ErrAuctionConflict     = errors.New("player auction status changed, reload and retry")

	ErrTeamNameConflict = errors.New("team name is already in use")

	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAuthServiceUnavailable = errors.New("authentication service unavailable")

	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")

	ErrLogoUploadDisabled = errors.New("logo storage is not configured")
	ErrLogoUploadFailed   = errors.New("logo upload failed")
)

// handleRepositoryError translates repository sentinels into service errors.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	default:
		return err
	}
}
