package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID            uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Email         string     `json:"email" db:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash  string     `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Role          Role       `json:"role" db:"role" gorm:"type:varchar(16);not null;default:user"`
	IsActive      bool       `json:"isActive" db:"is_active" gorm:"not null"`
	LastLogin     *time.Time `json:"lastLogin,omitempty" db:"last_login" gorm:"type:timestamptz"`
	LoginAttempts int        `json:"-" db:"login_attempts" gorm:"type:integer;not null;default:0"`
	LockUntil     *time.Time `json:"-" db:"lock_until" gorm:"type:timestamptz"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
