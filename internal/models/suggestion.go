package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Suggestion stores one suggestion round trip: the preference query that was
// sent, the raw model text that came back and the entries parsed out of it.
type Suggestion struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Query     datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"query"`
	RawText   string         `gorm:"type:text" json:"raw_text"`
	Entries   datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"entries"`
	CreatedAt time.Time      `json:"created_at"`
}
