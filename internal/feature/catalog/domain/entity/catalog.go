// Package entity defines the catalog entities: artists, albums and tracks.
package entity

import "time"

// Artist is unique by name.
type Artist struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:255;not null"`
	CreatedAt time.Time
}

// Album is unique by (Title, ArtistID).
type Album struct {
	ID        uint    `gorm:"primaryKey"`
	Title     string  `gorm:"uniqueIndex:idx_albums_title_artist;size:255;not null"`
	ArtistID  uint    `gorm:"uniqueIndex:idx_albums_title_artist;not null"`
	Artist    *Artist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt time.Time
}

// Track is one uploaded audio file. FileURL holds the object key, not a URL.
type Track struct {
	ID      uint   `gorm:"primaryKey"`
	Title   string `gorm:"size:255;not null"`
	AlbumID uint   `gorm:"index;not null"`
	Album   *Album `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	// Duration は秒。音声メタデータは解析しないため常に 0。
	Duration  int    `gorm:"not null;default:0"`
	FileURL   string `gorm:"column:file_url;uniqueIndex;size:512;not null"`
	CreatedAt time.Time
}

// TrackListing is the joined row served by the track list.
type TrackListing struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	FileURL  string `json:"file_url"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
}
