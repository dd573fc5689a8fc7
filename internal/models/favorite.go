package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite pins a provider place to a user. Name and address are a snapshot
// taken at save time so the list renders without a provider round trip.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_place" json:"user_id"`
	PlaceID   string    `gorm:"size:255;not null;uniqueIndex:idx_favorites_user_place" json:"place_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Address   string    `gorm:"size:500" json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
