package usecase

import (
	"context"
	"errors"
	"time"

	"music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/shared/apperr"
)

const (
	// DefaultReadTimeout は読み取り系DBクエリの上限時間です。
	DefaultReadTimeout = 5 * time.Second
	// StreamURLTTL は署名付きURLの有効期間です。
	StreamURLTTL = 5 * time.Minute
)

// Presigner issues time-limited GET URLs.
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type trackUsecase struct {
	repo        TrackReader
	presigner   Presigner
	readTimeout time.Duration
}

// NewTrackUsecase は一覧とストリームURL発行のユースケースを生成します。
func NewTrackUsecase(repo TrackReader, presigner Presigner, readTimeout time.Duration) *trackUsecase {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	return &trackUsecase{repo: repo, presigner: presigner, readTimeout: readTimeout}
}

// List returns every track with artist and album names, ordered by id.
func (u *trackUsecase) List(ctx context.Context) ([]entity.TrackListing, error) {
	ctx, cancel := context.WithTimeout(ctx, u.readTimeout)
	defer cancel()

	tracks, err := u.repo.ListTracks(ctx)
	if err != nil {
		return nil, apperr.ReadDependency("failed to list tracks", err)
	}
	if tracks == nil {
		tracks = []entity.TrackListing{}
	}
	return tracks, nil
}

// StreamURL returns a presigned URL for the track's object, valid for StreamURLTTL.
// Unknown ids fail with ErrTrackNotFound without signing anything.
func (u *trackUsecase) StreamURL(ctx context.Context, id uint) (string, error) {
	findCtx, cancel := context.WithTimeout(ctx, u.readTimeout)
	defer cancel()

	track, err := u.repo.FindTrackByID(findCtx, id)
	if err != nil {
		if errors.Is(err, ErrTrackNotFound) {
			return "", err
		}
		return "", apperr.ReadDependency("failed to load track", err)
	}

	url, err := u.presigner.PresignGet(ctx, track.FileURL, StreamURLTTL)
	if err != nil {
		return "", apperr.Dependency("failed to sign stream url", err)
	}
	return url, nil
}
