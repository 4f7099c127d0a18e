// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered listener account.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Name is the display name.
	Name string `gorm:"size:255;not null"`

	// Email is stored trimmed and lower-cased. Unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt hash. Never plaintext.
	PasswordHash string `gorm:"column:password_hash;size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RevokedToken records a token id that was logged out before its expiry.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
