package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"music_backend/internal/feature/auth/domain/entity"
	"music_backend/internal/feature/auth/usecase"
)

// revokedTokenPostgres keeps logged-out token ids in the revoked_tokens table.
// Used when Redis is not configured.
type revokedTokenPostgres struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.RevocationStore = (*revokedTokenPostgres)(nil)

func NewRevokedTokenPostgres(db *gorm.DB) *revokedTokenPostgres {
	return &revokedTokenPostgres{db: db, now: time.Now}
}

// Revoke records tokenID until expiresAt. Revoking twice is a no-op.
func (r *revokedTokenPostgres) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if !expiresAt.After(r.now()) {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.RevokedToken{ID: tokenID, ExpiresAt: expiresAt}).Error
}

func (r *revokedTokenPostgres) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.RevokedToken{}).
		Where("id = ? AND expires_at > ?", tokenID, r.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteExpired removes rows whose token has expired anyway.
func (r *revokedTokenPostgres) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", r.now()).
		Delete(&entity.RevokedToken{})
	return result.RowsAffected, result.Error
}
