package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors the identity backend's account record. The identifier is
// stable for the account's lifetime; everything else is replaced wholesale
// on update.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email               string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password            string         `gorm:"not null" json:"-"`
	DisplayName         string         `gorm:"size:100" json:"display_name,omitempty"`
	EmailVerified       bool           `gorm:"default:false" json:"email_verified"`
	OnboardingCompleted bool           `gorm:"default:false" json:"onboarding_completed"`
	Role                string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}
