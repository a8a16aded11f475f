package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"umroh-system/internal/entities"
	"umroh-system/pkg/database/postgresql"
	apperrors "umroh-system/pkg/errors"
)

type ReportRepositoryInterface interface {
	JamaahManifest(ctx context.Context, filter entities.ManifestFilter) ([]entities.ManifestRow, uint64, error)
}

type ReportRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewReportRepository(ds *postgresql.DataSource, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{ds: ds, logger: logger}
}

// JamaahManifest joins jamaah with their package, group, flight assignment
// and equipment status. It runs through the widened reports search path so
// unqualified names from every module schema resolve.
func (r *ReportRepository) JamaahManifest(ctx context.Context, filter entities.ManifestFilter) ([]entities.ManifestRow, uint64, error) {
	base := psql.Select().
		From("jamaah j").
		LeftJoin("core.packages p ON p.id = j.package_id").
		LeftJoin("group_members gm ON gm.jamaah_id = j.id").
		LeftJoin("departure_groups g ON g.id = gm.group_id").
		LeftJoin("departure_sub_groups sg ON sg.id = gm.sub_group_id").
		LeftJoin("pnr_passengers pp ON pp.jamaah_id = j.id").
		LeftJoin("flight_pnrs pnr ON pnr.id = pp.pnr_id").
		LeftJoin("equipment_distributions ed ON ed.jamaah_id = j.id")

	if filter.PackageID > 0 {
		base = base.Where(sq.Eq{"j.package_id": filter.PackageID})
	}
	if filter.GroupID > 0 {
		base = base.Where(sq.Eq{"gm.group_id": filter.GroupID})
	}

	limit := filter.PerPage
	if limit <= 0 {
		limit = 100
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query, args, err := base.
		Columns(`j.id, j.nik, j.name, j.passport_number, j.phone,
			p.name AS package_name, p.code AS package_code,
			g.name AS group_name, sg.name AS sub_group_name, gm.room_number,
			pnr.pnr_code, pp.seat_number, ed.status,
			(SELECT COUNT(*) FROM documents d WHERE d.jamaah_id = j.id AND d.is_verified)`).
		OrderBy("j.name ASC", "j.id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	var manifest []entities.ManifestRow
	var total uint64
	err = r.ds.ReportQuery(ctx, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var row entities.ManifestRow
			if err := rows.Scan(&row.JamaahID, &row.NIK, &row.JamaahName, &row.PassportNumber, &row.Phone,
				&row.PackageName, &row.PackageCode,
				&row.GroupName, &row.SubGroupName, &row.RoomNumber,
				&row.PNRCode, &row.SeatNumber, &row.EquipmentStatus,
				&row.VerifiedDocuments); err != nil {
				return err
			}
			manifest = append(manifest, row)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return q.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return manifest, total, nil
}
