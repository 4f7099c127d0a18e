package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"music_backend/internal/feature/playlist/domain/entity"
	"music_backend/internal/shared/apperr"
)

const (
	maxNameLen = 255

	// DefaultReadTimeout は一覧取得の上限時間です。
	DefaultReadTimeout = 5 * time.Second
)

// PlaylistRepository はプレイリストの永続化を抽象化します。
type PlaylistRepository interface {
	Create(ctx context.Context, p *entity.Playlist) error
	// ListByUser returns the user's playlists, newest first.
	ListByUser(ctx context.Context, userID uint) ([]entity.Playlist, error)
	// FindByID returns ErrPlaylistNotFound when id does not exist.
	FindByID(ctx context.Context, id uint) (*entity.Playlist, error)
	// AddTrack returns ErrTrackNotFound for an unknown track and
	// ErrAlreadyInPlaylist for a pair that already exists.
	AddTrack(ctx context.Context, pt *entity.PlaylistTrack) error
}

type playlistUsecase struct {
	repo        PlaylistRepository
	readTimeout time.Duration
	now         func() time.Time
}

// NewPlaylistUsecase はプレイリストのユースケースを生成します。
func NewPlaylistUsecase(repo PlaylistRepository, readTimeout time.Duration) *playlistUsecase {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	return &playlistUsecase{repo: repo, readTimeout: readTimeout, now: time.Now}
}

// Create はログインユーザーのプレイリストを作成します。
func (u *playlistUsecase) Create(ctx context.Context, userID uint, name string) (*entity.Playlist, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, ErrNameTooLong
	}

	p := &entity.Playlist{UserID: userID, Name: name}
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, apperr.Dependency("failed to create playlist", err)
	}
	return p, nil
}

// ListMine はログインユーザーのプレイリストを新しい順で返します。
func (u *playlistUsecase) ListMine(ctx context.Context, userID uint) ([]entity.Playlist, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	ctx, cancel := context.WithTimeout(ctx, u.readTimeout)
	defer cancel()

	out, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.ReadDependency("failed to list playlists", err)
	}
	if out == nil {
		out = []entity.Playlist{}
	}
	return out, nil
}

// AddTrack はトラックを自分のプレイリストに追加します。
// 他人のプレイリストは存在しないものとして扱います。
func (u *playlistUsecase) AddTrack(ctx context.Context, userID, playlistID, trackID uint) (*entity.PlaylistTrack, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	if trackID == 0 {
		return nil, ErrMissingTrackID
	}

	p, err := u.repo.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, ErrPlaylistNotFound) {
			return nil, err
		}
		return nil, apperr.Dependency("failed to load playlist", err)
	}
	if p.UserID != userID {
		return nil, ErrPlaylistNotFound
	}

	pt := &entity.PlaylistTrack{PlaylistID: p.ID, TrackID: trackID, AddedAt: u.now().UTC()}
	if err := u.repo.AddTrack(ctx, pt); err != nil {
		if errors.Is(err, ErrTrackNotFound) || errors.Is(err, ErrAlreadyInPlaylist) {
			return nil, err
		}
		return nil, apperr.Dependency("failed to add track", err)
	}
	return pt, nil
}
