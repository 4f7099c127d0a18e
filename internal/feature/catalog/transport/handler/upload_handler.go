package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"music_backend/internal/api"
	"music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/feature/catalog/usecase"
	"music_backend/internal/platform/http/respond"
	jwtmw "music_backend/internal/platform/jwt"
	"music_backend/internal/shared/apperr"
)

// multipart のフィールド名
const (
	fieldFile   = "track"
	fieldTitle  = "title"
	fieldArtist = "artistName"
	fieldAlbum  = "albumTitle"
)

// UploadUsecase はアップロードの書き込み処理です。
type UploadUsecase interface {
	Upload(ctx context.Context, in usecase.UploadInput) (*entity.Track, error)
}

var errFileTooLarge = apperr.Validation("file too large")

// UploadHandler は POST /upload を処理します。
type UploadHandler struct {
	uc       UploadUsecase
	maxBytes int64
}

// NewUploadHandler はUploadHandlerを生成します。maxBytes <= 0 はリクエストサイズ無制限。
func NewUploadHandler(uc UploadUsecase, maxBytes int64) *UploadHandler {
	return &UploadHandler{uc: uc, maxBytes: maxBytes}
}

// Upload は音声ファイルとメタデータを受け取り、作成したトラックを201で返します。
// - ファイル欠落・必須項目欠落は400
// - ストレージ/DB障害は500
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	fh, err := c.FormFile(fieldFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, errFileTooLarge)
			return
		}
		respond.Error(c, usecase.ErrMissingFile)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Error(c, apperr.Dependency("failed to open upload", err))
		return
	}
	defer f.Close()

	track, err := h.uc.Upload(c.Request.Context(), usecase.UploadInput{
		Title:       c.PostForm(fieldTitle),
		ArtistName:  c.PostForm(fieldArtist),
		AlbumTitle:  c.PostForm(fieldAlbum),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	uid, _ := jwtmw.UserIDFrom(c)
	slog.Info("upload accepted", "track_id", track.ID, "user_id", uid, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.TrackResponse{
		ID:        track.ID,
		Title:     track.Title,
		AlbumID:   track.AlbumID,
		Duration:  track.Duration,
		FileURL:   track.FileURL,
		CreatedAt: track.CreatedAt,
	})
}
