package usecase

import (
	"context"

	"music_backend/internal/feature/catalog/domain/entity"
)

// CatalogWriter persists the rows created by an upload.
type CatalogWriter interface {
	// UpsertArtist returns the artist named name, inserting it if absent.
	// Concurrent calls with the same name yield the same row.
	UpsertArtist(ctx context.Context, name string) (*entity.Artist, error)
	// UpsertAlbum returns the album (title, artistID), inserting it if absent.
	UpsertAlbum(ctx context.Context, title string, artistID uint) (*entity.Album, error)
	// CreateTrack inserts t and fills its ID and CreatedAt.
	CreateTrack(ctx context.Context, t *entity.Track) error
}

// TrackReader serves the read side of the catalog.
type TrackReader interface {
	ListTracks(ctx context.Context) ([]entity.TrackListing, error)
	// FindTrackByID returns ErrTrackNotFound when id does not exist.
	FindTrackByID(ctx context.Context, id uint) (*entity.Track, error)
}

// CatalogRepository is the full catalog store.
type CatalogRepository interface {
	CatalogWriter
	TrackReader
	// ListFileKeys returns the object key of every track.
	ListFileKeys(ctx context.Context) ([]string, error)
}
