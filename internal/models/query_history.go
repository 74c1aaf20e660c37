package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryHistory is a user-curated saved query with its analysis result.
// Unlike QueryLog it is mutable: the owner can favorite, rename and
// delete entries.
type QueryHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserEmail  string    `gorm:"size:255;not null;index" json:"user_email"`
	QueryText  string    `gorm:"type:text;not null" json:"query_text"`
	TaskType   string    `gorm:"size:30;not null" json:"task_type"`
	ResultText string    `gorm:"type:text" json:"result_text"`
	IsFavorite bool      `gorm:"default:false" json:"is_favorite"`
	QueryName  *string   `gorm:"size:255" json:"query_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
