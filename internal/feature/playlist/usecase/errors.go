// Package usecase implements playlist creation, listing and membership.
package usecase

import "music_backend/internal/shared/apperr"

var (
	// ErrPlaylistNotFound は存在しない、または他人のプレイリストを指す場合に返します。
	ErrPlaylistNotFound = apperr.NotFound("playlist not found")
	ErrTrackNotFound    = apperr.NotFound("track not found")

	ErrAlreadyInPlaylist = apperr.Conflict("track already in playlist")

	ErrMissingName    = apperr.Validation("name is required")
	ErrNameTooLong    = apperr.Validation("name must be at most 255 characters")
	ErrMissingTrackID = apperr.Validation("track_id is required")
	ErrInvalidUser    = apperr.Unauthorized("invalid or expired token")
)
