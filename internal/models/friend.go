package models

import (
	"time"

	"github.com/google/uuid"
)

type Friend struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friends_pair" json:"user_id"`
	FriendID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friends_pair" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}
