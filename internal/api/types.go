// Package api defines the JSON request and response bodies of the HTTP API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db,omitempty"`
}

// RegisterRequest is the body of POST /auth/register.
// Email rejects malformed addresses while the JSON is decoded.
type RegisterRequest struct {
	Name     string              `json:"name"`
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// TrackResponse is the track row created by POST /upload.
type TrackResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	AlbumID   uint      `json:"album_id"`
	Duration  int       `json:"duration"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

// TrackListItem is one element of GET /tracks.
type TrackListItem struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	FileURL  string `json:"file_url"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
}

// StreamResponse is the body of GET /stream/:id.
type StreamResponse struct {
	URL string `json:"url"`
}

// CreatePlaylistRequest is the body of POST /playlists.
type CreatePlaylistRequest struct {
	Name string `json:"name"`
}

// PlaylistResponse is the public view of a playlist.
type PlaylistResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AddPlaylistTrackRequest is the body of POST /playlists/:id/tracks.
type AddPlaylistTrackRequest struct {
	TrackID uint `json:"track_id"`
}

// PlaylistTrackResponse is the join row created by POST /playlists/:id/tracks.
type PlaylistTrackResponse struct {
	PlaylistID uint      `json:"playlist_id"`
	TrackID    uint      `json:"track_id"`
	AddedAt    time.Time `json:"added_at"`
}
