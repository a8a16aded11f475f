package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type User struct {
	ID           int         `json:"id"`
	Email        string      `json:"email"`
	FullName     string      `json:"full_name"`
	Role         string      `json:"role"`
	PasswordHash string      `json:"-"`
	Phone        null.String `json:"phone"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
}
