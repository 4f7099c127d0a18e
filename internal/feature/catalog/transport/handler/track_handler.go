// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"music_backend/internal/api"
	"music_backend/internal/feature/catalog/domain/entity"
	"music_backend/internal/platform/http/respond"
	"music_backend/internal/shared/apperr"
)

// TrackUsecase はトラック一覧とストリームURL発行のユースケースです。
// インターフェースは利用者（handler）側で定義します。
type TrackUsecase interface {
	List(ctx context.Context) ([]entity.TrackListing, error)
	StreamURL(ctx context.Context, id uint) (string, error)
}

var errInvalidTrackID = apperr.Validation("invalid track id")

// TrackHandler はトラックの読み取り系リクエストを処理します。
type TrackHandler struct {
	uc TrackUsecase
}

// NewTrackHandler は指定されたusecaseでTrackHandlerを生成します。
func NewTrackHandler(uc TrackUsecase) *TrackHandler {
	return &TrackHandler{uc: uc}
}

// List は全トラックをアーティスト名・アルバム名付きで返します。
//
// エンドポイント例:
// GET /tracks
func (h *TrackHandler) List(c *gin.Context) {
	tracks, err := h.uc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	out := make([]api.TrackListItem, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, api.TrackListItem{
			ID:       t.ID,
			Title:    t.Title,
			Duration: t.Duration,
			FileURL:  t.FileURL,
			Artist:   t.Artist,
			Album:    t.Album,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Stream は署名付きURLを返します。
//
// エンドポイント例:
// GET /stream/:id
func (h *TrackHandler) Stream(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respond.Error(c, errInvalidTrackID)
		return
	}

	url, err := h.uc.StreamURL(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.StreamResponse{URL: url})
}

// parseID は正の整数IDのみ受け付けます。
func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, strconv.ErrRange
	}
	return uint(n), nil
}
