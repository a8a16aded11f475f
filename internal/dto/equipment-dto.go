package dto

type DistributionItemDTO struct {
	ItemID       int     `json:"item_id" validate:"required,gt=0"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	Size         *string `json:"size,omitempty"`
	Color        *string `json:"color,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
	ReceivedDate *string `json:"received_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReceivedBy   *string `json:"received_by,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type SaveDistributionDTO struct {
	JamaahID int                   `json:"jamaah_id" validate:"required,gt=0"`
	GroupID  *int                  `json:"group_id,omitempty" validate:"omitempty,gt=0"`
	Notes    *string               `json:"notes,omitempty"`
	Items    []DistributionItemDTO `json:"items" validate:"required,min=1,dive"`
}

type CreateInventoryItemDTO struct {
	Name         string  `json:"name" validate:"required"`
	Category     *string `json:"category,omitempty"`
	CurrentStock int     `json:"current_stock" validate:"gte=0"`
	Unit         *string `json:"unit,omitempty"`
}

type UpdateInventoryStockDTO struct {
	Adjustment int     `json:"adjustment" validate:"required"`
	Reason     *string `json:"reason,omitempty"`
}
