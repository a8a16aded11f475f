package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Package is a travel offering in the core schema. Once referenced by
// jamaah, PNRs or groups it is never hard-deleted.
type Package struct {
	ID            int         `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Price         float64     `json:"price"`
	DepartureDate time.Time   `json:"departure_date"`
	ReturnDate    time.Time   `json:"return_date"`
	Quota         int         `json:"quota"`
	PackageType   string      `json:"package_type"`
	Status        string      `json:"status"`
	Description   null.String `json:"description"`
	CreatedBy     null.Int    `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
