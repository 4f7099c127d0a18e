package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/shared/apperr"
)

// mockCatalogWriter records calls in order.
type mockCatalogWriter struct {
	calls []string

	upsertArtistErr error
	upsertAlbumErr  error
	createTrackErr  error
}

func (m *mockCatalogWriter) UpsertArtist(_ context.Context, name string) (*entity.Artist, error) {
	m.calls = append(m.calls, "artist:"+name)
	if m.upsertArtistErr != nil {
		return nil, m.upsertArtistErr
	}
	return &entity.Artist{ID: 7, Name: name}, nil
}

func (m *mockCatalogWriter) UpsertAlbum(_ context.Context, title string, artistID uint) (*entity.Album, error) {
	m.calls = append(m.calls, "album:"+title)
	if m.upsertAlbumErr != nil {
		return nil, m.upsertAlbumErr
	}
	return &entity.Album{ID: 11, Title: title, ArtistID: artistID}, nil
}

func (m *mockCatalogWriter) CreateTrack(_ context.Context, t *entity.Track) error {
	m.calls = append(m.calls, "track:"+t.Title)
	if m.createTrackErr != nil {
		return m.createTrackErr
	}
	t.ID = 42
	t.CreatedAt = time.Unix(1_700_000_000, 0)
	return nil
}

type fakeBlobs struct {
	err         error
	key         string
	body        []byte
	size        int64
	contentType string
	hadDeadline bool
	puts        int
}

func (f *fakeBlobs) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	f.puts++
	_, f.hadDeadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.key, f.body, f.size, f.contentType = key, b, size, contentType
	return nil
}

func fixedKey(name string) (string, error) { return "0123abcd-" + name, nil }

func validInput(body []byte) UploadInput {
	return UploadInput{
		Title:       "One More Time",
		ArtistName:  "Daft Punk",
		AlbumTitle:  "Discovery",
		FileName:    "omt.mp3",
		ContentType: "audio/mpeg",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	}
}

func TestUploadUsecase_Success(t *testing.T) {
	repo := &mockCatalogWriter{}
	blobs := &fakeBlobs{}
	uc := NewUploadUsecase(repo, blobs, fixedKey, time.Second)

	track, err := uc.Upload(context.Background(), validInput([]byte("ID3-audio")))

	require.NoError(t, err)
	assert.Equal(t, uint(42), track.ID)
	assert.Equal(t, uint(11), track.AlbumID)
	assert.Equal(t, 0, track.Duration)
	assert.Equal(t, "0123abcd-omt.mp3", track.FileURL)

	assert.Equal(t, "0123abcd-omt.mp3", blobs.key)
	assert.Equal(t, []byte("ID3-audio"), blobs.body)
	assert.Equal(t, int64(9), blobs.size)
	assert.Equal(t, "audio/mpeg", blobs.contentType)
	assert.True(t, blobs.hadDeadline)
	assert.Equal(t, []string{"artist:Daft Punk", "album:Discovery", "track:One More Time"}, repo.calls)
}

func TestUploadUsecase_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *UploadInput)
		wantErr error
	}{
		{"no body", func(in *UploadInput) { in.Body = nil }, ErrMissingFile},
		{"empty file", func(in *UploadInput) { in.Size = 0 }, ErrEmptyFile},
		{"no filename", func(in *UploadInput) { in.FileName = "" }, ErrMissingFile},
		{"no title", func(in *UploadInput) { in.Title = " " }, ErrMissingFields},
		{"no artist", func(in *UploadInput) { in.ArtistName = "" }, ErrMissingFields},
		{"no album", func(in *UploadInput) { in.AlbumTitle = "" }, ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCatalogWriter{}
			blobs := &fakeBlobs{}
			in := validInput([]byte("data"))
			tt.mutate(&in)

			_, err := NewUploadUsecase(repo, blobs, fixedKey, 0).Upload(context.Background(), in)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Zero(t, blobs.puts, "blob store must not be touched")
			assert.Empty(t, repo.calls, "database must not be touched")
		})
	}
}

// TestUploadUsecase_BlobFailure はオブジェクトストア失敗時にDBへ一切書き込まないことを検証します。
func TestUploadUsecase_BlobFailure(t *testing.T) {
	repo := &mockCatalogWriter{}
	blobs := &fakeBlobs{err: errors.New("connection refused")}

	_, err := NewUploadUsecase(repo, blobs, fixedKey, 0).Upload(context.Background(), validInput([]byte("data")))

	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Empty(t, repo.calls)
}

func TestUploadUsecase_DatabaseFailureAfterPut(t *testing.T) {
	dbErr := errors.New("insert track: conn reset")
	tests := []struct {
		name      string
		repo      *mockCatalogWriter
		wantCalls int
	}{
		{"artist fails", &mockCatalogWriter{upsertArtistErr: dbErr}, 1},
		{"album fails", &mockCatalogWriter{upsertAlbumErr: dbErr}, 2},
		{"track fails", &mockCatalogWriter{createTrackErr: dbErr}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := &fakeBlobs{}

			_, err := NewUploadUsecase(tt.repo, blobs, fixedKey, 0).Upload(context.Background(), validInput([]byte("data")))

			assert.ErrorIs(t, err, dbErr)
			assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
			assert.Equal(t, 1, blobs.puts, "blob was written before the database step")
			assert.Len(t, tt.repo.calls, tt.wantCalls)
		})
	}
}

func TestUploadUsecase_KeyFailure(t *testing.T) {
	blobs := &fakeBlobs{}
	keyErr := func(string) (string, error) { return "", errors.New("entropy") }

	_, err := NewUploadUsecase(&mockCatalogWriter{}, blobs, keyErr, 0).Upload(context.Background(), validInput([]byte("data")))

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Zero(t, blobs.puts)
}

func TestDetectContentType(t *testing.T) {
	mp3 := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0}, 64)...)
	big := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0xAA}, 10_000)...)

	tests := []struct {
		name     string
		body     []byte
		declared string
		want     string
	}{
		{"declared type kept", []byte("whatever"), "audio/flac", "audio/flac"},
		{"empty declared is sniffed", mp3, "", "audio/mpeg"},
		{"octet-stream is sniffed", mp3, "application/octet-stream", "audio/mpeg"},
		{"body larger than sniff window", big, "", "audio/mpeg"},
		{"plain text", []byte("hello world"), "", "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ct := detectContentType(bytes.NewReader(tt.body), tt.declared)

			assert.Equal(t, tt.want, ct)
			all, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.body, all, "reader must still yield the whole body")
		})
	}
}

func TestNewUploadUsecase_DefaultTimeout(t *testing.T) {
	uc := NewUploadUsecase(&mockCatalogWriter{}, &fakeBlobs{}, fixedKey, 0)
	assert.Equal(t, DefaultBlobTimeout, uc.blobTimeout)

	uc = NewUploadUsecase(&mockCatalogWriter{}, &fakeBlobs{}, fixedKey, -time.Second)
	assert.Equal(t, DefaultBlobTimeout, uc.blobTimeout)
}
