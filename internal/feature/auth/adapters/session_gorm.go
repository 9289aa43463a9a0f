// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"crypto_backend/internal/feature/auth/domain/entity"
	"crypto_backend/internal/feature/auth/usecase"
)

// sessionGorm is a database implementation of the SessionRepository
// interface, used when Redis is unavailable. Expired rows are filtered on
// read rather than swept.
type sessionGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionGorm implements SessionRepository.
var _ usecase.SessionRepository = (*sessionGorm)(nil)

// NewSessionGorm creates a new instance of sessionGorm.
func NewSessionGorm(db *gorm.DB) *sessionGorm {
	return &sessionGorm{db: db}
}

// Create persists a new session to the database.
func (r *sessionGorm) Create(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID retrieves a session by its token.
func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Delete removes a session by its token.
func (r *sessionGorm) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}
