package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Jamaah is a registered pilgrim. NIK (national ID) is unique.
type Jamaah struct {
	ID             int         `json:"id"`
	NIK            string      `json:"nik"`
	Name           string      `json:"name"`
	PassportNumber null.String `json:"passport_number"`
	Phone          null.String `json:"phone"`
	Gender         null.String `json:"gender"`
	BirthDate      null.Time   `json:"birth_date"`
	Address        null.String `json:"address"`
	Status         string      `json:"status"`
	PackageID      null.Int    `json:"package_id"`
	PackageName    null.String `json:"package_name,omitempty"`
	CreatedBy      null.Int    `json:"created_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
