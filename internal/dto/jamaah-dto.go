package dto

type CreateJamaahDTO struct {
	NIK            string  `json:"nik" validate:"required,len=16,numeric"`
	Name           string  `json:"name" validate:"required"`
	PassportNumber *string `json:"passport_number,omitempty"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,phone_id"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,oneof=L P"`
	BirthDate      *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address        *string `json:"address,omitempty"`
	PackageID      *int    `json:"package_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateJamaahDTO struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1"`
	PassportNumber *string `json:"passport_number,omitempty"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,phone_id"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,oneof=L P"`
	BirthDate      *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address        *string `json:"address,omitempty"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=registered documents_complete departed returned cancelled"`
	PackageID      *int    `json:"package_id,omitempty" validate:"omitempty,gt=0"`
}
