package dto

type CreatePackageDTO struct {
	Code          string  `json:"code" validate:"required,package_code"`
	Name          string  `json:"name" validate:"required"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	DepartureDate string  `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string  `json:"return_date" validate:"required,datetime=2006-01-02"`
	Quota         int     `json:"quota" validate:"required,gt=0"`
	PackageType   string  `json:"package_type" validate:"required,oneof=reguler plus vip"`
	Description   *string `json:"description,omitempty"`
}

type UpdatePackageDTO struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	DepartureDate *string  `json:"departure_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate    *string  `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quota         *int     `json:"quota,omitempty" validate:"omitempty,gt=0"`
	PackageType   *string  `json:"package_type,omitempty" validate:"omitempty,oneof=reguler plus vip"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=active full closed"`
	Description   *string  `json:"description,omitempty"`
}
