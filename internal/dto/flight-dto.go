package dto

type FlightSegmentDTO struct {
	FlightNumber      *string `json:"flight_number,omitempty"`
	DepartureCity     string  `json:"departure_city" validate:"required"`
	DepartureAirport  *string `json:"departure_airport,omitempty"`
	DepartureDatetime string  `json:"departure_datetime" validate:"required"`
	ArrivalCity       string  `json:"arrival_city" validate:"required"`
	ArrivalAirport    *string `json:"arrival_airport,omitempty"`
	ArrivalDatetime   string  `json:"arrival_datetime" validate:"required"`
	IsTransit         bool    `json:"is_transit"`
}

type CreatePNRDTO struct {
	PNRCode        string             `json:"pnr_code" validate:"required,min=5,max=10"`
	PackageID      *int               `json:"package_id,omitempty" validate:"omitempty,gt=0"`
	Airline        string             `json:"airline" validate:"required"`
	AirlineCode    *string            `json:"airline_code,omitempty"`
	TotalPax       int                `json:"total_pax" validate:"required,gt=0"`
	Status         string             `json:"status" validate:"omitempty,oneof=draft active closed cancelled"`
	BookingDate    *string            `json:"booking_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PaymentDueDate *string            `json:"payment_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string            `json:"notes,omitempty"`
	Segments       []FlightSegmentDTO `json:"segments" validate:"required,min=1,dive"`
}

type UpdatePNRDTO struct {
	PackageID      *int               `json:"package_id,omitempty" validate:"omitempty,gt=0"`
	Airline        *string            `json:"airline,omitempty" validate:"omitempty,min=1"`
	AirlineCode    *string            `json:"airline_code,omitempty"`
	TotalPax       *int               `json:"total_pax,omitempty" validate:"omitempty,gt=0"`
	Status         *string            `json:"status,omitempty" validate:"omitempty,oneof=draft active closed cancelled"`
	BookingDate    *string            `json:"booking_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PaymentDueDate *string            `json:"payment_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string            `json:"notes,omitempty"`
	Segments       []FlightSegmentDTO `json:"segments,omitempty" validate:"omitempty,min=1,dive"`
}

type AssignJamaahItemDTO struct {
	JamaahID   int     `json:"jamaah_id" validate:"required,gt=0"`
	SeatNumber *string `json:"seat_number,omitempty"`
}

type AssignJamaahDTO struct {
	Passengers []AssignJamaahItemDTO `json:"passengers" validate:"required,min=1,dive"`
}

type CreatePaymentScheduleDTO struct {
	Description *string `json:"description,omitempty"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	DueDate     *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes       *string `json:"notes,omitempty"`
}

type UpdatePaymentScheduleDTO struct {
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PaidAmount  *float64 `json:"paid_amount,omitempty" validate:"omitempty,gte=0"`
	DueDate     *string  `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PaidDate    *string  `json:"paid_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes       *string  `json:"notes,omitempty"`
}
