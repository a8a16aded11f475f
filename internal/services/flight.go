package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/entities"
	"umroh-system/internal/repositories"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

type FlightService struct {
	pnrRepository repositories.FlightPNRRepositoryInterface
	logger        *zap.Logger
}

func NewFlightService(pnrRepository repositories.FlightPNRRepositoryInterface, logger *zap.Logger) *FlightService {
	return &FlightService{pnrRepository: pnrRepository, logger: logger}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func parseDatetime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.Validation("format waktu %q tidak valid", value)
}

func nullDateFromPtr(value *string, field string) (null.Time, error) {
	if value == nil {
		return null.Time{}, nil
	}
	d, err := parseDate(*value)
	if err != nil {
		return null.Time{}, apperrors.Validation("format %s tidak valid", field)
	}
	return null.TimeFrom(d), nil
}

func segmentsFromDTO(items []dto.FlightSegmentDTO) ([]entities.FlightSegment, error) {
	segments := make([]entities.FlightSegment, 0, len(items))
	for _, item := range items {
		dep, err := parseDatetime(item.DepartureDatetime)
		if err != nil {
			return nil, err
		}
		arr, err := parseDatetime(item.ArrivalDatetime)
		if err != nil {
			return nil, err
		}
		if !arr.After(dep) {
			return nil, apperrors.Validation("waktu tiba harus setelah waktu berangkat")
		}
		segments = append(segments, entities.FlightSegment{
			FlightNumber:      null.StringFromPtr(item.FlightNumber),
			DepartureCity:     item.DepartureCity,
			DepartureAirport:  null.StringFromPtr(item.DepartureAirport),
			DepartureDatetime: dep,
			ArrivalCity:       item.ArrivalCity,
			ArrivalAirport:    null.StringFromPtr(item.ArrivalAirport),
			ArrivalDatetime:   arr,
			IsTransit:         item.IsTransit,
		})
	}
	return segments, nil
}

func (s *FlightService) CreatePNR(ctx context.Context, payload dto.CreatePNRDTO, createdBy int) (*entities.FlightPNR, error) {
	segments, err := segmentsFromDTO(payload.Segments)
	if err != nil {
		return nil, err
	}
	bookingDate, err := nullDateFromPtr(payload.BookingDate, "booking_date")
	if err != nil {
		return nil, err
	}
	dueDate, err := nullDateFromPtr(payload.PaymentDueDate, "payment_due_date")
	if err != nil {
		return nil, err
	}

	status := payload.Status
	if status == "" {
		status = "draft"
	}

	pnr := &entities.FlightPNR{
		PNRCode:        payload.PNRCode,
		PackageID:      null.IntFromPtr(payload.PackageID),
		Airline:        payload.Airline,
		AirlineCode:    null.StringFromPtr(payload.AirlineCode),
		TotalPax:       payload.TotalPax,
		Status:         status,
		BookingDate:    bookingDate,
		PaymentDueDate: dueDate,
		Notes:          null.StringFromPtr(payload.Notes),
		CreatedBy:      null.IntFrom(createdBy),
		Segments:       segments,
	}

	created, err := s.pnrRepository.Create(ctx, pnr)
	if err != nil {
		s.logger.Error("gagal membuat PNR", zap.String("pnr_code", payload.PNRCode), zap.Error(err))
		return nil, err
	}
	s.logger.Info("PNR dibuat", zap.Int("pnr_id", created.ID), zap.String("pnr_code", created.PNRCode))
	return created, nil
}

func (s *FlightService) FindAll(ctx context.Context, filter types.Filter) ([]entities.FlightPNR, uint64, error) {
	return s.pnrRepository.FindAll(ctx, filter)
}

func (s *FlightService) FindByID(ctx context.Context, id int) (*entities.FlightPNR, error) {
	return s.pnrRepository.FindByID(ctx, id)
}

func (s *FlightService) Update(ctx context.Context, id int, payload dto.UpdatePNRDTO) (*entities.FlightPNR, error) {
	fields := map[string]interface{}{}
	if payload.PackageID != nil {
		fields["package_id"] = *payload.PackageID
	}
	if payload.Airline != nil {
		fields["airline"] = *payload.Airline
	}
	if payload.AirlineCode != nil {
		fields["airline_code"] = *payload.AirlineCode
	}
	if payload.TotalPax != nil {
		fields["total_pax"] = *payload.TotalPax
	}
	if payload.Status != nil {
		fields["status"] = *payload.Status
	}
	if payload.BookingDate != nil {
		d, err := parseDate(*payload.BookingDate)
		if err != nil {
			return nil, apperrors.Validation("format booking_date tidak valid")
		}
		fields["booking_date"] = d
	}
	if payload.PaymentDueDate != nil {
		d, err := parseDate(*payload.PaymentDueDate)
		if err != nil {
			return nil, apperrors.Validation("format payment_due_date tidak valid")
		}
		fields["payment_due_date"] = d
	}
	if payload.Notes != nil {
		fields["notes"] = *payload.Notes
	}

	var segments []entities.FlightSegment
	if payload.Segments != nil {
		var err error
		segments, err = segmentsFromDTO(payload.Segments)
		if err != nil {
			return nil, err
		}
	}

	if err := s.pnrRepository.Update(ctx, id, fields, segments); err != nil {
		return nil, err
	}
	return s.pnrRepository.FindByID(ctx, id)
}

func (s *FlightService) Delete(ctx context.Context, id int) error {
	return s.pnrRepository.Delete(ctx, id)
}

func (s *FlightService) AssignJamaah(ctx context.Context, pnrID int, payload dto.AssignJamaahDTO, assignedBy int) (*entities.FlightPNR, error) {
	passengers := make([]entities.PNRPassenger, 0, len(payload.Passengers))
	seen := map[int]bool{}
	for _, p := range payload.Passengers {
		if seen[p.JamaahID] {
			return nil, apperrors.Validation("jamaah %d muncul lebih dari sekali dalam satu batch", p.JamaahID)
		}
		seen[p.JamaahID] = true
		passengers = append(passengers, entities.PNRPassenger{
			JamaahID:   p.JamaahID,
			SeatNumber: null.StringFromPtr(p.SeatNumber),
			AssignedBy: null.IntFrom(assignedBy),
		})
	}

	if err := s.pnrRepository.AssignJamaah(ctx, pnrID, passengers); err != nil {
		return nil, err
	}
	s.logger.Info("penumpang ditetapkan ke PNR",
		zap.Int("pnr_id", pnrID), zap.Int("count", len(passengers)))
	return s.pnrRepository.FindByID(ctx, pnrID)
}

func (s *FlightService) RemoveJamaah(ctx context.Context, pnrID, jamaahID int) (*entities.FlightPNR, error) {
	if err := s.pnrRepository.RemoveJamaah(ctx, pnrID, jamaahID); err != nil {
		return nil, err
	}
	return s.pnrRepository.FindByID(ctx, pnrID)
}

func (s *FlightService) AvailableJamaah(ctx context.Context, packageID int) ([]entities.Jamaah, error) {
	return s.pnrRepository.AvailableJamaah(ctx, packageID)
}

func (s *FlightService) CreatePaymentSchedule(ctx context.Context, pnrID int, payload dto.CreatePaymentScheduleDTO) (*entities.PNRPaymentSchedule, error) {
	dueDate, err := nullDateFromPtr(payload.DueDate, "due_date")
	if err != nil {
		return nil, err
	}
	payment := &entities.PNRPaymentSchedule{
		PNRID:       pnrID,
		Description: null.StringFromPtr(payload.Description),
		Amount:      payload.Amount,
		DueDate:     dueDate,
		Notes:       null.StringFromPtr(payload.Notes),
	}
	return s.pnrRepository.CreatePaymentSchedule(ctx, payment)
}

func (s *FlightService) UpdatePaymentSchedule(ctx context.Context, id int, payload dto.UpdatePaymentScheduleDTO) error {
	fields := map[string]interface{}{}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.Amount != nil {
		fields["amount"] = *payload.Amount
	}
	if payload.PaidAmount != nil {
		fields["paid_amount"] = *payload.PaidAmount
	}
	if payload.DueDate != nil {
		d, err := parseDate(*payload.DueDate)
		if err != nil {
			return apperrors.Validation("format due_date tidak valid")
		}
		fields["due_date"] = d
	}
	if payload.PaidDate != nil {
		d, err := parseDate(*payload.PaidDate)
		if err != nil {
			return apperrors.Validation("format paid_date tidak valid")
		}
		fields["paid_date"] = d
	}
	if payload.Notes != nil {
		fields["notes"] = *payload.Notes
	}
	return s.pnrRepository.UpdatePaymentSchedule(ctx, id, fields)
}

func (s *FlightService) DashboardStats(ctx context.Context) (*entities.FlightDashboardStats, error) {
	return s.pnrRepository.DashboardStats(ctx)
}
