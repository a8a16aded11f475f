package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"umroh-system/internal/entities"
	"umroh-system/pkg/database/postgresql"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

const pnrColumns = `pnr.id, pnr.pnr_code, pnr.package_id, pnr.airline, pnr.airline_code,
	pnr.total_pax, pnr.filled_pax, pnr.status, pnr.booking_date,
	pnr.payment_due_date, pnr.notes, pnr.created_by, pnr.created_at, pnr.updated_at`

type FlightPNRRepositoryInterface interface {
	Create(ctx context.Context, pnr *entities.FlightPNR) (*entities.FlightPNR, error)
	FindAll(ctx context.Context, filter types.Filter) ([]entities.FlightPNR, uint64, error)
	FindByID(ctx context.Context, id int) (*entities.FlightPNR, error)
	Update(ctx context.Context, id int, fields map[string]interface{}, segments []entities.FlightSegment) error
	Delete(ctx context.Context, id int) error
	AssignJamaah(ctx context.Context, pnrID int, passengers []entities.PNRPassenger) error
	RemoveJamaah(ctx context.Context, pnrID, jamaahID int) error
	AvailableJamaah(ctx context.Context, packageID int) ([]entities.Jamaah, error)
	CreatePaymentSchedule(ctx context.Context, payment *entities.PNRPaymentSchedule) (*entities.PNRPaymentSchedule, error)
	UpdatePaymentSchedule(ctx context.Context, id int, fields map[string]interface{}) error
	DashboardStats(ctx context.Context) (*entities.FlightDashboardStats, error)
}

type FlightPNRRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewFlightPNRRepository(ds *postgresql.DataSource, logger *zap.Logger) FlightPNRRepositoryInterface {
	return &FlightPNRRepository{ds: ds, logger: logger}
}

// Create inserts the PNR and its ordered segments in one transaction.
// Segment order is assigned from the slice position, starting at 1.
func (r *FlightPNRRepository) Create(ctx context.Context, pnr *entities.FlightPNR) (*entities.FlightPNR, error) {
	err := r.ds.Transaction(ctx, postgresql.ModuleFlight, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO flight_pnrs (pnr_code, package_id, airline, airline_code, total_pax,
			                         filled_pax, status, booking_date, payment_due_date, notes, created_by)
			VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, $10)
			RETURNING id, filled_pax, created_at, updated_at`,
			pnr.PNRCode, pnr.PackageID, pnr.Airline, pnr.AirlineCode, pnr.TotalPax,
			pnr.Status, pnr.BookingDate, pnr.PaymentDueDate, pnr.Notes, pnr.CreatedBy).
			Scan(&pnr.ID, &pnr.FilledPax, &pnr.CreatedAt, &pnr.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.Conflict("kode PNR sudah digunakan")
			}
			if isForeignKeyViolation(err) {
				return apperrors.NotFound("paket")
			}
			return apperrors.Internal(err)
		}

		return insertSegments(ctx, tx, pnr.ID, pnr.Segments)
	})
	if err != nil {
		return nil, err
	}
	pnr.RemainingPax = pnr.TotalPax - pnr.FilledPax
	return pnr, nil
}

func insertSegments(ctx context.Context, tx pgx.Tx, pnrID int, segments []entities.FlightSegment) error {
	for i := range segments {
		seg := &segments[i]
		seg.PNRID = pnrID
		seg.SegmentOrder = i + 1
		err := tx.QueryRow(ctx, `
			INSERT INTO flight_segments (pnr_id, segment_order, flight_number,
			                             departure_city, departure_airport, departure_datetime,
			                             arrival_city, arrival_airport, arrival_datetime, is_transit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			seg.PNRID, seg.SegmentOrder, seg.FlightNumber,
			seg.DepartureCity, seg.DepartureAirport, seg.DepartureDatetime,
			seg.ArrivalCity, seg.ArrivalAirport, seg.ArrivalDatetime, seg.IsTransit).
			Scan(&seg.ID)
		if err != nil {
			return apperrors.Internal(err)
		}
	}
	return nil
}

func pnrListBuilder(filter types.Filter) sq.SelectBuilder {
	builder := psql.Select().
		From("flight_pnrs pnr").
		LeftJoin("core.packages p ON p.id = pnr.package_id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"pnr.pnr_code": pattern},
			sq.ILike{"pnr.airline": pattern},
			sq.ILike{"p.name": pattern},
		})
	}
	if v, ok := filter.Filter["status"]; ok {
		builder = builder.Where(sq.Eq{"pnr.status": v})
	}
	if v, ok := filter.Filter["package_id"]; ok {
		builder = builder.Where(sq.Eq{"pnr.package_id": v})
	}
	return builder
}

func (r *FlightPNRRepository) FindAll(ctx context.Context, filter types.Filter) ([]entities.FlightPNR, uint64, error) {
	base := pnrListBuilder(filter)

	query, args, err := base.
		Columns(pnrColumns, "p.name AS package_name").
		OrderBy("pnr.created_at DESC", "pnr.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	var pnrs []entities.FlightPNR
	var total uint64
	err = r.ds.ReadQuery(ctx, postgresql.ModuleFlight, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p entities.FlightPNR
			if err := rows.Scan(&p.ID, &p.PNRCode, &p.PackageID, &p.Airline, &p.AirlineCode,
				&p.TotalPax, &p.FilledPax, &p.Status, &p.BookingDate,
				&p.PaymentDueDate, &p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
				&p.PackageName); err != nil {
				return err
			}
			p.RemainingPax = p.TotalPax - p.FilledPax
			pnrs = append(pnrs, p)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return q.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return pnrs, total, nil
}

func (r *FlightPNRRepository) FindByID(ctx context.Context, id int) (*entities.FlightPNR, error) {
	var pnr entities.FlightPNR
	err := r.ds.ReadQuery(ctx, postgresql.ModuleFlight, func(q postgresql.Querier) error {
		err := q.QueryRow(ctx, `
			SELECT `+pnrColumns+`, p.name
			FROM flight_pnrs pnr
			LEFT JOIN core.packages p ON p.id = pnr.package_id
			WHERE pnr.id = $1`, id).
			Scan(&pnr.ID, &pnr.PNRCode, &pnr.PackageID, &pnr.Airline, &pnr.AirlineCode,
				&pnr.TotalPax, &pnr.FilledPax, &pnr.Status, &pnr.BookingDate,
				&pnr.PaymentDueDate, &pnr.Notes, &pnr.CreatedBy, &pnr.CreatedAt, &pnr.UpdatedAt,
				&pnr.PackageName)
		if err != nil {
			return err
		}
		pnr.RemainingPax = pnr.TotalPax - pnr.FilledPax

		segRows, err := q.Query(ctx, `
			SELECT id, pnr_id, segment_order, flight_number,
			       departure_city, departure_airport, departure_datetime,
			       arrival_city, arrival_airport, arrival_datetime, is_transit
			FROM flight_segments
			WHERE pnr_id = $1
			ORDER BY segment_order`, id)
		if err != nil {
			return err
		}
		defer segRows.Close()
		for segRows.Next() {
			var s entities.FlightSegment
			if err := segRows.Scan(&s.ID, &s.PNRID, &s.SegmentOrder, &s.FlightNumber,
				&s.DepartureCity, &s.DepartureAirport, &s.DepartureDatetime,
				&s.ArrivalCity, &s.ArrivalAirport, &s.ArrivalDatetime, &s.IsTransit); err != nil {
				return err
			}
			pnr.Segments = append(pnr.Segments, s)
		}
		if err := segRows.Err(); err != nil {
			return err
		}

		payRows, err := q.Query(ctx, `
			SELECT id, pnr_id, description, amount, paid_amount, due_date, paid_date,
			       payment_status, notes, created_at, updated_at
			FROM pnr_payment_schedules
			WHERE pnr_id = $1
			ORDER BY due_date NULLS LAST, id`, id)
		if err != nil {
			return err
		}
		defer payRows.Close()
		for payRows.Next() {
			var p entities.PNRPaymentSchedule
			if err := payRows.Scan(&p.ID, &p.PNRID, &p.Description, &p.Amount, &p.PaidAmount,
				&p.DueDate, &p.PaidDate, &p.PaymentStatus, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
				return err
			}
			pnr.Payments = append(pnr.Payments, p)
		}
		if err := payRows.Err(); err != nil {
			return err
		}

		paxRows, err := q.Query(ctx, `
			SELECT pp.id, pp.pnr_id, pp.jamaah_id, pp.seat_number, pp.assigned_by, pp.assigned_at,
			       j.name, j.passport_number
			FROM pnr_passengers pp
			JOIN jamaah.jamaah j ON j.id = pp.jamaah_id
			WHERE pp.pnr_id = $1
			ORDER BY pp.id`, id)
		if err != nil {
			return err
		}
		defer paxRows.Close()
		for paxRows.Next() {
			var p entities.PNRPassenger
			if err := paxRows.Scan(&p.ID, &p.PNRID, &p.JamaahID, &p.SeatNumber, &p.AssignedBy, &p.AssignedAt,
				&p.JamaahName, &p.PassportNumber); err != nil {
				return err
			}
			pnr.Passengers = append(pnr.Passengers, p)
		}
		return paxRows.Err()
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("PNR")
		}
		return nil, apperrors.Internal(err)
	}
	return &pnr, nil
}

// Update rewrites whitelisted header fields and, when segments are given,
// replaces the whole segment set in the same transaction. A failed segment
// insert rolls back the header change too.
func (r *FlightPNRRepository) Update(ctx context.Context, id int, fields map[string]interface{}, segments []entities.FlightSegment) error {
	return r.ds.Transaction(ctx, postgresql.ModuleFlight, func(tx pgx.Tx) error {
		if len(fields) > 0 {
			query, args, err := psql.Update("flight_pnrs").
				SetMap(fields).
				Set("updated_at", sq.Expr("NOW()")).
				Where(sq.Eq{"id": id}).
				ToSql()
			if err != nil {
				return apperrors.Internal(err)
			}
			tag, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return apperrors.Internal(err)
			}
			if tag.RowsAffected() == 0 {
				return apperrors.NotFound("PNR")
			}
		} else {
			var exists int
			if err := tx.QueryRow(ctx, `SELECT 1 FROM flight_pnrs WHERE id = $1`, id).Scan(&exists); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NotFound("PNR")
				}
				return apperrors.Internal(err)
			}
		}

		if segments != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM flight_segments WHERE pnr_id = $1`, id); err != nil {
				return apperrors.Internal(err)
			}
			if err := insertSegments(ctx, tx, id, segments); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *FlightPNRRepository) Delete(ctx context.Context, id int) error {
	return r.ds.Transaction(ctx, postgresql.ModuleFlight, func(tx pgx.Tx) error {
		var paxCount int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM pnr_passengers WHERE pnr_id = $1`, id).Scan(&paxCount); err != nil {
			return apperrors.Internal(err)
		}
		if paxCount > 0 {
			return apperrors.Conflict("PNR masih memiliki penumpang, hapus penumpang terlebih dahulu")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pnr_payment_schedules WHERE pnr_id = $1`, id); err != nil {
			return apperrors.Internal(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM flight_segments WHERE pnr_id = $1`, id); err != nil {
			return apperrors.Internal(err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM flight_pnrs WHERE id = $1`, id)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("PNR")
		}
		return nil
	})
}

// AssignJamaah books passengers onto a PNR. The PNR row is locked FOR
// UPDATE for the whole batch so concurrent assignments serialize on the
// capacity check. Only jamaah not yet on the PNR count against remaining
// capacity; re-assignments just update the seat number. The whole batch is
// rejected when new passengers exceed the remaining seats.
func (r *FlightPNRRepository) AssignJamaah(ctx context.Context, pnrID int, passengers []entities.PNRPassenger) error {
	return r.ds.Transaction(ctx, postgresql.ModuleFlight, func(tx pgx.Tx) error {
		var totalPax, filledPax int
		err := tx.QueryRow(ctx,
			`SELECT total_pax, filled_pax FROM flight_pnrs WHERE id = $1 FOR UPDATE`,
			pnrID).Scan(&totalPax, &filledPax)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("PNR")
			}
			return apperrors.Internal(err)
		}

		newCount := 0
		for _, p := range passengers {
			var exists int
			err := tx.QueryRow(ctx,
				`SELECT 1 FROM pnr_passengers WHERE pnr_id = $1 AND jamaah_id = $2`,
				pnrID, p.JamaahID).Scan(&exists)
			if errors.Is(err, pgx.ErrNoRows) {
				newCount++
			} else if err != nil {
				return apperrors.Internal(err)
			}
		}

		remaining := totalPax - filledPax
		if newCount > remaining {
			return apperrors.CapacityExceeded(
				"kapasitas PNR tidak cukup: butuh %d kursi baru, tersisa %d", newCount, remaining)
		}

		for _, p := range passengers {
			_, err := tx.Exec(ctx, `
				INSERT INTO pnr_passengers (pnr_id, jamaah_id, seat_number, assigned_by)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (pnr_id, jamaah_id)
				DO UPDATE SET seat_number = EXCLUDED.seat_number`,
				pnrID, p.JamaahID, p.SeatNumber, p.AssignedBy)
			if err != nil {
				if isForeignKeyViolation(err) {
					return apperrors.NotFound("jamaah")
				}
				return apperrors.Internal(err)
			}
		}

		return syncFilledPax(ctx, tx, pnrID)
	})
}

func (r *FlightPNRRepository) RemoveJamaah(ctx context.Context, pnrID, jamaahID int) error {
	return r.ds.Transaction(ctx, postgresql.ModuleFlight, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM pnr_passengers WHERE pnr_id = $1 AND jamaah_id = $2`,
			pnrID, jamaahID)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("penumpang")
		}
		return syncFilledPax(ctx, tx, pnrID)
	})
}

// syncFilledPax recomputes the materialized counter from the passenger
// rows inside the caller's transaction.
func syncFilledPax(ctx context.Context, tx pgx.Tx, pnrID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE flight_pnrs
		SET filled_pax = (SELECT COUNT(*) FROM pnr_passengers WHERE pnr_id = $1),
		    updated_at = NOW()
		WHERE id = $1`, pnrID)
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// AvailableJamaah lists package members not yet assigned to any PNR.
func (r *FlightPNRRepository) AvailableJamaah(ctx context.Context, packageID int) ([]entities.Jamaah, error) {
	var result []entities.Jamaah
	err := r.ds.ReadQuery(ctx, postgresql.ModuleFlight, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT j.id, j.nik, j.name, j.passport_number, j.phone, j.gender,
			       j.birth_date, j.address, j.status, j.package_id,
			       j.created_by, j.created_at, j.updated_at
			FROM jamaah.jamaah j
			WHERE j.package_id = $1
			  AND NOT EXISTS (SELECT 1 FROM pnr_passengers pp WHERE pp.jamaah_id = j.id)
			ORDER BY j.name`, packageID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var j entities.Jamaah
			if err := rows.Scan(&j.ID, &j.NIK, &j.Name, &j.PassportNumber, &j.Phone, &j.Gender,
				&j.BirthDate, &j.Address, &j.Status, &j.PackageID,
				&j.CreatedBy, &j.CreatedAt, &j.UpdatedAt); err != nil {
				return err
			}
			result = append(result, j)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return result, nil
}

func (r *FlightPNRRepository) CreatePaymentSchedule(ctx context.Context, payment *entities.PNRPaymentSchedule) (*entities.PNRPaymentSchedule, error) {
	err := r.ds.Query(ctx, postgresql.ModuleFlight, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO pnr_payment_schedules (pnr_id, description, amount, paid_amount, due_date, payment_status, notes)
			VALUES ($1, $2, $3, 0, $4, 'pending', $5)
			RETURNING id, paid_amount, payment_status, created_at, updated_at`,
			payment.PNRID, payment.Description, payment.Amount, payment.DueDate, payment.Notes).
			Scan(&payment.ID, &payment.PaidAmount, &payment.PaymentStatus, &payment.CreatedAt, &payment.UpdatedAt)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("PNR")
		}
		return nil, apperrors.Internal(err)
	}
	return payment, nil
}

// UpdatePaymentSchedule locks the row, applies the changes and re-derives
// payment_status from the resulting amounts, so the stored status always
// matches paid_amount vs amount after the write.
func (r *FlightPNRRepository) UpdatePaymentSchedule(ctx context.Context, id int, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.Validation("tidak ada field yang diubah")
	}

	return r.ds.Transaction(ctx, postgresql.ModuleFlight, func(tx pgx.Tx) error {
		var amount, paidAmount float64
		err := tx.QueryRow(ctx,
			`SELECT amount, paid_amount FROM pnr_payment_schedules WHERE id = $1 FOR UPDATE`,
			id).Scan(&amount, &paidAmount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("jadwal pembayaran")
			}
			return apperrors.Internal(err)
		}

		if v, ok := fields["amount"].(float64); ok {
			amount = v
		}
		if v, ok := fields["paid_amount"].(float64); ok {
			paidAmount = v
		}
		fields["payment_status"] = entities.DerivePaymentStatus(amount, paidAmount)

		query, args, err := psql.Update("pnr_payment_schedules").
			SetMap(fields).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return apperrors.Internal(err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

func (r *FlightPNRRepository) DashboardStats(ctx context.Context) (*entities.FlightDashboardStats, error) {
	var stats entities.FlightDashboardStats
	err := r.ds.ReadQuery(ctx, postgresql.ModuleFlight, func(q postgresql.Querier) error {
		err := q.QueryRow(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE status = 'draft'),
			       COUNT(*) FILTER (WHERE status = 'active'),
			       COUNT(*) FILTER (WHERE status = 'closed'),
			       COALESCE(SUM(total_pax), 0),
			       COALESCE(SUM(filled_pax), 0)
			FROM flight_pnrs`).
			Scan(&stats.TotalPNR, &stats.DraftCount, &stats.ActiveCount, &stats.ClosedCount,
				&stats.TotalPax, &stats.FilledPax)
		if err != nil {
			return err
		}

		err = q.QueryRow(ctx, `
			SELECT COUNT(DISTINCT pnr.id)
			FROM flight_pnrs pnr
			JOIN flight_segments s ON s.pnr_id = pnr.id AND s.segment_order = 1
			WHERE pnr.status = 'active'
			  AND s.departure_datetime BETWEEN NOW() AND NOW() + INTERVAL '7 days'`).
			Scan(&stats.DepartingSoon)
		if err != nil {
			return err
		}

		return q.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(paid_amount), 0)
			FROM pnr_payment_schedules`).
			Scan(&stats.TotalDue, &stats.TotalPaid)
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &stats, nil
}
