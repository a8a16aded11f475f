package entities

import "github.com/aarondl/null/v8"

// ManifestRow is one jamaah line in the cross-schema departure manifest.
// Populated through the reports search path spanning all module schemas.
type ManifestRow struct {
	JamaahID           int         `json:"jamaah_id"`
	NIK                string      `json:"nik"`
	JamaahName         string      `json:"jamaah_name"`
	PassportNumber     null.String `json:"passport_number"`
	Phone              null.String `json:"phone"`
	PackageName        null.String `json:"package_name"`
	PackageCode        null.String `json:"package_code"`
	GroupName          null.String `json:"group_name"`
	SubGroupName       null.String `json:"sub_group_name"`
	RoomNumber         null.String `json:"room_number"`
	PNRCode            null.String `json:"pnr_code"`
	SeatNumber         null.String `json:"seat_number"`
	EquipmentStatus    null.String `json:"equipment_status"`
	VerifiedDocuments  null.Int    `json:"verified_documents"`
}

type ManifestFilter struct {
	PackageID int
	GroupID   int
	Page      int
	PerPage   int
}
