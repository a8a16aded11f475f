package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// FlightPNR is a booked flight allocation for a package. FilledPax is
// derived from the count of pnr_passengers rows and recomputed inside the
// same transaction as every assignment mutation; FilledPax never exceeds
// TotalPax.
type FlightPNR struct {
	ID             int         `json:"id"`
	PNRCode        string      `json:"pnr_code"`
	PackageID      null.Int    `json:"package_id"`
	Airline        string      `json:"airline"`
	AirlineCode    null.String `json:"airline_code"`
	TotalPax       int         `json:"total_pax"`
	FilledPax      int         `json:"filled_pax"`
	Status         string      `json:"status"`
	BookingDate    null.Time   `json:"booking_date"`
	PaymentDueDate null.Time   `json:"payment_due_date"`
	Notes          null.String `json:"notes"`
	CreatedBy      null.Int    `json:"created_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	PackageName  null.String `json:"package_name,omitempty"`
	RemainingPax int         `json:"remaining_pax"`

	Segments   []FlightSegment      `json:"segments,omitempty"`
	Payments   []PNRPaymentSchedule `json:"payments,omitempty"`
	Passengers []PNRPassenger       `json:"passengers,omitempty"`
}

// FlightSegment is one ordered leg of a PNR itinerary. SegmentOrder starts
// at 1 and is contiguous; updates replace the whole set.
type FlightSegment struct {
	ID                int         `json:"id"`
	PNRID             int         `json:"pnr_id"`
	SegmentOrder      int         `json:"segment_order"`
	FlightNumber      null.String `json:"flight_number"`
	DepartureCity     string      `json:"departure_city"`
	DepartureAirport  null.String `json:"departure_airport"`
	DepartureDatetime time.Time   `json:"departure_datetime"`
	ArrivalCity       string      `json:"arrival_city"`
	ArrivalAirport    null.String `json:"arrival_airport"`
	ArrivalDatetime   time.Time   `json:"arrival_datetime"`
	IsTransit         bool        `json:"is_transit"`
}

// PNRPaymentSchedule is one installment. PaymentStatus is derived from
// PaidAmount vs Amount on every write, never taken from input.
type PNRPaymentSchedule struct {
	ID            int         `json:"id"`
	PNRID         int         `json:"pnr_id"`
	Description   null.String `json:"description"`
	Amount        float64     `json:"amount"`
	PaidAmount    float64     `json:"paid_amount"`
	DueDate       null.Time   `json:"due_date"`
	PaidDate      null.Time   `json:"paid_date"`
	PaymentStatus string      `json:"payment_status"`
	Notes         null.String `json:"notes"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Payment schedule statuses, derived from amounts on every write.
const (
	PaymentPaid    = "paid"
	PaymentPartial = "partial"
	PaymentPending = "pending"
)

// DerivePaymentStatus maps the paid amount against the installment amount.
func DerivePaymentStatus(amount, paidAmount float64) string {
	switch {
	case paidAmount >= amount:
		return PaymentPaid
	case paidAmount > 0:
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// PNRPassenger links a jamaah to a PNR. Unique per (pnr, jamaah);
// re-assignment updates the seat number instead of duplicating.
type PNRPassenger struct {
	ID         int         `json:"id"`
	PNRID      int         `json:"pnr_id"`
	JamaahID   int         `json:"jamaah_id"`
	SeatNumber null.String `json:"seat_number"`
	AssignedBy null.Int    `json:"assigned_by"`
	AssignedAt time.Time   `json:"assigned_at"`

	JamaahName     null.String `json:"jamaah_name,omitempty"`
	PassportNumber null.String `json:"passport_number,omitempty"`
}

type FlightDashboardStats struct {
	TotalPNR      int     `json:"total_pnr"`
	DraftCount    int     `json:"draft_count"`
	ActiveCount   int     `json:"active_count"`
	ClosedCount   int     `json:"closed_count"`
	TotalPax      int     `json:"total_pax"`
	FilledPax     int     `json:"filled_pax"`
	DepartingSoon int     `json:"departing_soon"`
	TotalDue      float64 `json:"total_due"`
	TotalPaid     float64 `json:"total_paid"`
}
