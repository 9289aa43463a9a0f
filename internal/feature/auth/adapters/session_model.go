package adapters

import (
	"time"

	"crypto_backend/internal/feature/auth/domain/entity"
)

// SessionModel is the GORM model for the sessions table, used when the
// session store falls back to the database.
type SessionModel struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Login     string    `gorm:"index;size:20;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *SessionModel) ToEntity() *entity.Session {
	return &entity.Session{
		ID:        m.ID,
		Login:     m.Login,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// SessionModelFromEntity converts a domain entity to a GORM model.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		Login:     s.Login,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
