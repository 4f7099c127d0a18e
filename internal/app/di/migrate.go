package di

import (
	"fmt"

	"gorm.io/gorm"

	authentity "music_backend/internal/feature/auth/domain/entity"
	catalogentity "music_backend/internal/feature/catalog/domain/entity"
	playlistentity "music_backend/internal/feature/playlist/domain/entity"
)

// Models は AutoMigrate 対象のテーブルです。外部キーの参照先を先に並べます。
func Models() []any {
	return []any{
		&authentity.User{},
		&authentity.RevokedToken{},
		&catalogentity.Artist{},
		&catalogentity.Album{},
		&catalogentity.Track{},
		&playlistentity.Playlist{},
		&playlistentity.PlaylistTrack{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
