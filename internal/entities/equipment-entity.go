package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// EquipmentDistribution tracks issuance of physical items to one jamaah.
// One row per jamaah (find-or-create). Status is derived by comparing the
// distinct items distributed against the required checklist for the
// jamaah's package type.
type EquipmentDistribution struct {
	ID        int         `json:"id"`
	JamaahID  int         `json:"jamaah_id"`
	GroupID   null.Int    `json:"group_id"`
	Status    string      `json:"status"`
	Notes     null.String `json:"notes"`
	CreatedBy null.Int    `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	JamaahName  null.String         `json:"jamaah_name,omitempty"`
	JamaahNIK   null.String         `json:"jamaah_nik,omitempty"`
	JamaahPhone null.String         `json:"jamaah_phone,omitempty"`
	PackageName null.String         `json:"package_name,omitempty"`
	Items       []EquipmentItemLine `json:"items,omitempty"`
}

// EquipmentItemLine is one distributed item. Upsert keyed by
// (distribution_id, item_id).
type EquipmentItemLine struct {
	ID           int         `json:"id"`
	Distribution int         `json:"distribution_id"`
	ItemID       int         `json:"item_id"`
	Quantity     int         `json:"quantity"`
	Size         null.String `json:"size"`
	Color        null.String `json:"color"`
	SerialNumber null.String `json:"serial_number"`
	ReceivedDate null.Time   `json:"received_date"`
	ReceivedBy   null.String `json:"received_by"`
	Notes        null.String `json:"notes"`

	ItemName null.String `json:"item_name,omitempty"`
	Category null.String `json:"category,omitempty"`
}

// InventoryItem is a stocked equipment article.
type InventoryItem struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Category     null.String `json:"category"`
	CurrentStock int         `json:"current_stock"`
	Unit         null.String `json:"unit"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ChecklistTemplateItem names one required item for a package type.
type ChecklistTemplateItem struct {
	ID          int         `json:"id"`
	ItemID      int         `json:"item_id"`
	PackageType string      `json:"package_type"`
	IsRequired  bool        `json:"is_required"`
	ItemName    null.String `json:"item_name,omitempty"`
	Category    null.String `json:"category,omitempty"`
}
