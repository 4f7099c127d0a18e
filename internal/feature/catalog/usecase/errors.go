// Package usecase implements the catalog write path, listing and stream URLs.
package usecase

import "music_backend/internal/shared/apperr"

var (
	// ErrTrackNotFound is returned when no track has the requested id.
	ErrTrackNotFound = apperr.NotFound("track not found")

	ErrMissingFile   = apperr.Validation("no file uploaded")
	ErrEmptyFile     = apperr.Validation("empty file")
	ErrMissingFields = apperr.Validation("title, artistName and albumTitle are required")
)
