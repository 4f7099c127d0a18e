package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/shared/apperr"
)

type mockTrackReader struct {
	ListTracksFunc    func(ctx context.Context) ([]entity.TrackListing, error)
	FindTrackByIDFunc func(ctx context.Context, id uint) (*entity.Track, error)
}

func (m *mockTrackReader) ListTracks(ctx context.Context) ([]entity.TrackListing, error) {
	if m.ListTracksFunc != nil {
		return m.ListTracksFunc(ctx)
	}
	return nil, nil
}

func (m *mockTrackReader) FindTrackByID(ctx context.Context, id uint) (*entity.Track, error) {
	if m.FindTrackByIDFunc != nil {
		return m.FindTrackByIDFunc(ctx, id)
	}
	return nil, ErrTrackNotFound
}

type mockPresigner struct {
	calls []string
	ttl   time.Duration
	err   error
}

func (m *mockPresigner) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.calls = append(m.calls, key)
	m.ttl = ttl
	if m.err != nil {
		return "", m.err
	}
	return "http://minio/tracks/" + key + "?X-Amz-Signature=abc", nil
}

func TestTrackUsecase_List(t *testing.T) {
	t.Run("returns rows in repository order", func(t *testing.T) {
		rows := []entity.TrackListing{
			{ID: 1, Title: "A", Artist: "X", Album: "Y"},
			{ID: 2, Title: "B", Artist: "X", Album: "Y"},
		}
		uc := NewTrackUsecase(&mockTrackReader{ListTracksFunc: func(ctx context.Context) ([]entity.TrackListing, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "read must be bounded")
			return rows, nil
		}}, &mockPresigner{}, 0)

		got, err := uc.List(context.Background())

		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("empty catalog is an empty slice", func(t *testing.T) {
		got, err := NewTrackUsecase(&mockTrackReader{}, &mockPresigner{}, 0).List(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("database failure", func(t *testing.T) {
		dbErr := errors.New("conn refused")
		uc := NewTrackUsecase(&mockTrackReader{ListTracksFunc: func(context.Context) ([]entity.TrackListing, error) {
			return nil, dbErr
		}}, &mockPresigner{}, 0)

		_, err := uc.List(context.Background())

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		uc := NewTrackUsecase(&mockTrackReader{ListTracksFunc: func(ctx context.Context) ([]entity.TrackListing, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}, &mockPresigner{}, 10*time.Millisecond)

		_, err := uc.List(context.Background())

		assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
	})
}

func TestTrackUsecase_StreamURL(t *testing.T) {
	track := &entity.Track{ID: 3, Title: "T", FileURL: "abcd-song.mp3"}
	reader := &mockTrackReader{FindTrackByIDFunc: func(_ context.Context, id uint) (*entity.Track, error) {
		if id == track.ID {
			return track, nil
		}
		return nil, ErrTrackNotFound
	}}

	t.Run("signs the track's object key", func(t *testing.T) {
		p := &mockPresigner{}

		url, err := NewTrackUsecase(reader, p, 0).StreamURL(context.Background(), 3)

		require.NoError(t, err)
		assert.Contains(t, url, "abcd-song.mp3")
		assert.Equal(t, []string{"abcd-song.mp3"}, p.calls)
		assert.Equal(t, StreamURLTTL, p.ttl)
	})

	t.Run("unknown id signs nothing", func(t *testing.T) {
		p := &mockPresigner{}

		_, err := NewTrackUsecase(reader, p, 0).StreamURL(context.Background(), 999)

		assert.ErrorIs(t, err, ErrTrackNotFound)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		assert.Empty(t, p.calls)
	})

	t.Run("database failure", func(t *testing.T) {
		p := &mockPresigner{}
		broken := &mockTrackReader{FindTrackByIDFunc: func(context.Context, uint) (*entity.Track, error) {
			return nil, errors.New("conn reset")
		}}

		_, err := NewTrackUsecase(broken, p, 0).StreamURL(context.Background(), 3)

		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
		assert.Empty(t, p.calls)
	})

	t.Run("presign failure", func(t *testing.T) {
		p := &mockPresigner{err: errors.New("bad credentials")}

		_, err := NewTrackUsecase(reader, p, 0).StreamURL(context.Background(), 3)

		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}
