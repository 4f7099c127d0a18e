// Package entity defines playlists and their track membership.
package entity

import (
	"time"

	auth "music_backend/internal/feature/auth/domain/entity"
	catalog "music_backend/internal/feature/catalog/domain/entity"
)

// Playlist belongs to exactly one user. Deleting the user deletes it.
type Playlist struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"index;not null"`
	User      *auth.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Name      string     `gorm:"size:255;not null"`
	CreatedAt time.Time
}

// PlaylistTrack is one (playlist, track) pair. The pair is the primary key,
// so a track appears at most once per playlist.
type PlaylistTrack struct {
	PlaylistID uint           `gorm:"primaryKey;autoIncrement:false"`
	Playlist   *Playlist      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	TrackID    uint           `gorm:"primaryKey;autoIncrement:false;index"`
	Track      *catalog.Track `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	AddedAt    time.Time      `gorm:"not null"`
}
