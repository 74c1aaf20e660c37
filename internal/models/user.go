package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Email is the join key to query logs and
// history; no foreign key is enforced beyond the unique index here.
// Deletion is hard: the unique email index must not keep covering removed
// accounts, so the address stays registrable.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:255" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
