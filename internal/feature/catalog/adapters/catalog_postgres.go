// Package adapters はcatalogフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/feature/catalog/usecase"
)

// catalogPostgres はCatalogRepositoryのPostgreSQL実装です。
type catalogPostgres struct {
	db *gorm.DB
}

var _ usecase.CatalogRepository = (*catalogPostgres)(nil)

// NewCatalogPostgres は catalogPostgres を生成します。
func NewCatalogPostgres(db *gorm.DB) *catalogPostgres {
	return &catalogPostgres{db: db}
}

// UpsertArtist は INSERT ... ON CONFLICT DO NOTHING の後に行を取得します。
// 同名の同時アップロードでも一意制約により1行に収束します。
func (r *catalogPostgres) UpsertArtist(ctx context.Context, name string) (*entity.Artist, error) {
	tx := r.db.WithContext(ctx)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&entity.Artist{Name: name}).Error; err != nil {
		return nil, fmt.Errorf("insert artist: %w", err)
	}

	var a entity.Artist
	if err := tx.Where("name = ?", name).First(&a).Error; err != nil {
		return nil, fmt.Errorf("select artist: %w", err)
	}
	return &a, nil
}

// UpsertAlbum は (title, artist_id) の一意制約で同様に取得または作成します。
func (r *catalogPostgres) UpsertAlbum(ctx context.Context, title string, artistID uint) (*entity.Album, error) {
	tx := r.db.WithContext(ctx)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}, {Name: "artist_id"}},
		DoNothing: true,
	}).Create(&entity.Album{Title: title, ArtistID: artistID}).Error; err != nil {
		return nil, fmt.Errorf("insert album: %w", err)
	}

	var al entity.Album
	if err := tx.Where("title = ? AND artist_id = ?", title, artistID).First(&al).Error; err != nil {
		return nil, fmt.Errorf("select album: %w", err)
	}
	return &al, nil
}

// CreateTrack はトラックを追加します。関連（Album）は保存しません。
func (r *catalogPostgres) CreateTrack(ctx context.Context, t *entity.Track) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return fmt.Errorf("insert track: %w", err)
	}
	return nil
}

// ListTracks はアーティスト名・アルバム名を結合したトラック一覧をID順で返します。
func (r *catalogPostgres) ListTracks(ctx context.Context) ([]entity.TrackListing, error) {
	var rows []struct {
		ID       uint
		Title    string
		Duration int
		FileURL  string `gorm:"column:file_url"`
		Artist   *string
		Album    *string
	}
	err := r.db.WithContext(ctx).
		Table("tracks AS t").
		Select("t.id, t.title, t.duration, t.file_url, a.name AS artist, al.title AS album").
		Joins("LEFT JOIN albums AS al ON t.album_id = al.id").
		Joins("LEFT JOIN artists AS a ON al.artist_id = a.id").
		Order("t.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.TrackListing, 0, len(rows))
	for _, row := range rows {
		item := entity.TrackListing{
			ID:       row.ID,
			Title:    row.Title,
			Duration: row.Duration,
			FileURL:  row.FileURL,
		}
		if row.Artist != nil {
			item.Artist = *row.Artist
		}
		if row.Album != nil {
			item.Album = *row.Album
		}
		out = append(out, item)
	}
	return out, nil
}

// FindTrackByID はIDでトラックを取得します。
// 存在しない場合、usecase.ErrTrackNotFoundを返します。
func (r *catalogPostgres) FindTrackByID(ctx context.Context, id uint) (*entity.Track, error) {
	var t entity.Track
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTrackNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListFileKeys は全トラックのオブジェクトキーを返します。
func (r *catalogPostgres) ListFileKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).Model(&entity.Track{}).Order("id").Pluck("file_url", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
