package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSchema holds a user's CREATE TABLE statements for natural-language
// query generation. One row per user; saving again replaces it.
type UserSchema struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserEmail  string    `gorm:"size:255;not null;uniqueIndex" json:"user_email"`
	SchemaText string    `gorm:"type:text;not null" json:"schema_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
