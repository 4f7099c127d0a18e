package usecase

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/shared/apperr"
)

const (
	// DefaultBlobTimeout はオブジェクトストアへのアップロード上限時間です。
	DefaultBlobTimeout = 60 * time.Second

	// sniffLen は mimetype が判定に使う先頭バイト数です。
	sniffLen    = 3072
	octetStream = "application/octet-stream"
)

// BlobWriter stores file bodies in the object store.
type BlobWriter interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

// KeyFunc derives an object key from the original file name.
type KeyFunc func(filename string) (string, error)

// UploadInput is one multipart upload.
type UploadInput struct {
	Title       string
	ArtistName  string
	AlbumTitle  string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type uploadUsecase struct {
	repo        CatalogWriter
	blobs       BlobWriter
	newKey      KeyFunc
	blobTimeout time.Duration
}

// NewUploadUsecase wires the write path. blobTimeout <= 0 means DefaultBlobTimeout.
func NewUploadUsecase(repo CatalogWriter, blobs BlobWriter, newKey KeyFunc, blobTimeout time.Duration) *uploadUsecase {
	if blobTimeout <= 0 {
		blobTimeout = DefaultBlobTimeout
	}
	return &uploadUsecase{
		repo:        repo,
		blobs:       blobs,
		newKey:      newKey,
		blobTimeout: blobTimeout,
	}
}

// Upload stores the file, then records artist, album and track.
//
// The blob is written first. If it fails nothing touches the database. If a
// database step fails afterwards the blob stays behind and is logged as an
// orphan for later reconciliation.
func (u *uploadUsecase) Upload(ctx context.Context, in UploadInput) (*entity.Track, error) {
	if in.Body == nil || strings.TrimSpace(in.FileName) == "" {
		return nil, ErrMissingFile
	}
	if in.Size <= 0 {
		return nil, ErrEmptyFile
	}
	title := strings.TrimSpace(in.Title)
	artistName := strings.TrimSpace(in.ArtistName)
	albumTitle := strings.TrimSpace(in.AlbumTitle)
	if title == "" || artistName == "" || albumTitle == "" {
		return nil, ErrMissingFields
	}

	key, err := u.newKey(in.FileName)
	if err != nil {
		return nil, apperr.Dependency("failed to generate object key", err)
	}

	body, contentType := detectContentType(in.Body, in.ContentType)

	putCtx, cancel := context.WithTimeout(ctx, u.blobTimeout)
	defer cancel()
	if err := u.blobs.Put(putCtx, key, body, in.Size, contentType); err != nil {
		slog.Error("blob upload failed", "error", err, "key", key, "size", in.Size)
		return nil, apperr.Dependency("failed to store file", err)
	}

	track, err := u.record(ctx, title, artistName, albumTitle, key)
	if err != nil {
		slog.Error("orphaned blob", "key", key, "error", err)
		return nil, apperr.Dependency("failed to record track", err)
	}

	slog.Info("track uploaded", "track_id", track.ID, "key", key, "content_type", contentType, "size", in.Size)
	return track, nil
}

func (u *uploadUsecase) record(ctx context.Context, title, artistName, albumTitle, key string) (*entity.Track, error) {
	artist, err := u.repo.UpsertArtist(ctx, artistName)
	if err != nil {
		return nil, err
	}
	album, err := u.repo.UpsertAlbum(ctx, albumTitle, artist.ID)
	if err != nil {
		return nil, err
	}
	track := &entity.Track{
		Title:    title,
		AlbumID:  album.ID,
		Duration: 0,
		FileURL:  key,
	}
	if err := u.repo.CreateTrack(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

// detectContentType keeps a declared type. An empty or generic type is
// replaced by sniffing the first bytes; the returned reader still yields the
// whole body.
func detectContentType(body io.Reader, declared string) (io.Reader, string) {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.HasPrefix(declared, octetStream) {
		return body, declared
	}

	br := bufio.NewReaderSize(body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return br, octetStream
	}
	return br, mimetype.Detect(head).String()
}
