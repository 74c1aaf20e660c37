package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryLog is the append-only audit record of every analysis attempt.
// Rows are never updated or deleted; daily quotas are derived by counting
// a user's rows within the current calendar day.
type QueryLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserEmail    string    `gorm:"size:255;not null;index" json:"user_email"`
	TaskType     string    `gorm:"size:30;not null" json:"task_type"`
	QueryLength  int       `json:"query_length"`
	TokensUsed   *int      `json:"tokens_used,omitempty"`
	Success      bool      `gorm:"not null" json:"success"`
	ErrorMessage *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
