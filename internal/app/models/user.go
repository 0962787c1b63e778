package models

import (
	"time"
)

// User is an account allowed to call the API.
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"admin@example.com"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	IsStaff   bool      `json:"isStaff" db:"is_staff" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
}
