// Package handler はplaylistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"music_backend/internal/api"
	"music_backend/internal/feature/playlist/domain/entity"
	"music_backend/internal/platform/http/respond"
	jwtmw "music_backend/internal/platform/jwt"
	"music_backend/internal/shared/apperr"
)

// PlaylistUsecase はプレイリスト操作のユースケースです。
type PlaylistUsecase interface {
	Create(ctx context.Context, userID uint, name string) (*entity.Playlist, error)
	ListMine(ctx context.Context, userID uint) ([]entity.Playlist, error)
	AddTrack(ctx context.Context, userID, playlistID, trackID uint) (*entity.PlaylistTrack, error)
}

var (
	errInvalidBody       = apperr.Validation("invalid request body")
	errInvalidPlaylistID = apperr.Validation("invalid playlist id")
	errUnauthenticated   = apperr.Unauthorized("invalid or expired token")
)

// PlaylistHandler はプレイリストのHTTPリクエストを処理します。AuthRequired の後段で使います。
type PlaylistHandler struct {
	uc PlaylistUsecase
}

// NewPlaylistHandler はPlaylistHandlerを生成します。
func NewPlaylistHandler(uc PlaylistUsecase) *PlaylistHandler {
	return &PlaylistHandler{uc: uc}
}

// Create は POST /playlists を処理します。
func (h *PlaylistHandler) Create(c *gin.Context) {
	uid, ok := jwtmw.UserIDFrom(c)
	if !ok {
		respond.Error(c, errUnauthenticated)
		return
	}

	var req api.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, errInvalidBody)
		return
	}

	p, err := h.uc.Create(c.Request.Context(), uid, req.Name)
	if err != nil {
		respond.Error(c, err)
		return
	}

	slog.Info("playlist created", "playlist_id", p.ID, "user_id", uid, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, toPlaylistResponse(p))
}

// ListMine は GET /playlists/me を処理します。
func (h *PlaylistHandler) ListMine(c *gin.Context) {
	uid, ok := jwtmw.UserIDFrom(c)
	if !ok {
		respond.Error(c, errUnauthenticated)
		return
	}

	ps, err := h.uc.ListMine(c.Request.Context(), uid)
	if err != nil {
		respond.Error(c, err)
		return
	}

	out := make([]api.PlaylistResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toPlaylistResponse(&ps[i]))
	}
	c.JSON(http.StatusOK, out)
}

// AddTrack は POST /playlists/:id/tracks を処理します。
// 他人のプレイリストは404。
func (h *PlaylistHandler) AddTrack(c *gin.Context) {
	uid, ok := jwtmw.UserIDFrom(c)
	if !ok {
		respond.Error(c, errUnauthenticated)
		return
	}

	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || pid == 0 {
		respond.Error(c, errInvalidPlaylistID)
		return
	}

	var req api.AddPlaylistTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, errInvalidBody)
		return
	}

	pt, err := h.uc.AddTrack(c.Request.Context(), uid, uint(pid), req.TrackID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.PlaylistTrackResponse{
		PlaylistID: pt.PlaylistID,
		TrackID:    pt.TrackID,
		AddedAt:    pt.AddedAt,
	})
}

func toPlaylistResponse(p *entity.Playlist) api.PlaylistResponse {
	return api.PlaylistResponse{ID: p.ID, UserID: p.UserID, Name: p.Name, CreatedAt: p.CreatedAt}
}
