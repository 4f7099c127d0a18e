// Package adapters はplaylistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	catalog "music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/feature/playlist/domain/entity"
	"music_backend/internal/feature/playlist/usecase"
	"music_backend/internal/platform/db"
)

// playlistPostgres はPlaylistRepositoryのPostgreSQL実装です。
type playlistPostgres struct {
	db *gorm.DB
}

var _ usecase.PlaylistRepository = (*playlistPostgres)(nil)

// NewPlaylistPostgres は playlistPostgres を生成します。
func NewPlaylistPostgres(db *gorm.DB) *playlistPostgres {
	return &playlistPostgres{db: db}
}

func (r *playlistPostgres) Create(ctx context.Context, p *entity.Playlist) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(p).Error; err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

func (r *playlistPostgres) ListByUser(ctx context.Context, userID uint) ([]entity.Playlist, error) {
	out := make([]entity.Playlist, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return out, nil
}

func (r *playlistPostgres) FindByID(ctx context.Context, id uint) (*entity.Playlist, error) {
	var p entity.Playlist
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("select playlist: %w", err)
	}
	return &p, nil
}

// AddTrack はプレイリストとトラックの存在を確認してから組を追加します。
// 組の重複は主キー制約、確認後に参照先が消えた場合は外部キー制約で検出します。
func (r *playlistPostgres) AddTrack(ctx context.Context, pt *entity.PlaylistTrack) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entity.Playlist{}).Where("id = ?", pt.PlaylistID).Count(&n).Error; err != nil {
			return fmt.Errorf("check playlist: %w", err)
		}
		if n == 0 {
			return usecase.ErrPlaylistNotFound
		}
		if err := tx.Model(&catalog.Track{}).Where("id = ?", pt.TrackID).Count(&n).Error; err != nil {
			return fmt.Errorf("check track: %w", err)
		}
		if n == 0 {
			return usecase.ErrTrackNotFound
		}

		if err := tx.Omit("Playlist", "Track").Create(pt).Error; err != nil {
			switch {
			case db.IsUniqueViolation(err):
				return usecase.ErrAlreadyInPlaylist
			case db.IsForeignKeyViolation(err):
				return usecase.ErrTrackNotFound
			}
			return fmt.Errorf("insert playlist track: %w", err)
		}
		return nil
	})
}
