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

const groupColumns = `g.id, g.package_id, g.name, g.code, g.max_members, g.current_members,
	g.departure_date, g.bus_number, g.meeting_time, g.meeting_point,
	g.tour_leader, g.tour_leader_phone, g.status, g.notes, g.created_by,
	g.created_at, g.updated_at`

type DepartureGroupRepositoryInterface interface {
	Create(ctx context.Context, group *entities.DepartureGroup) (*entities.DepartureGroup, error)
	FindAll(ctx context.Context, filter types.Filter) ([]entities.DepartureGroup, uint64, error)
	FindByID(ctx context.Context, id int) (*entities.DepartureGroup, error)
	FindByPackage(ctx context.Context, packageID int) ([]entities.DepartureGroup, error)
	Update(ctx context.Context, id int, fields map[string]interface{}) error
	Delete(ctx context.Context, id int) error
	AddMember(ctx context.Context, groupID int, member *entities.GroupMember) (*entities.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, jamaahID int) error
	CreateSubGroup(ctx context.Context, sub *entities.DepartureSubGroup) (*entities.DepartureSubGroup, error)
	CountByPackage(ctx context.Context, packageID int) (int, error)
	Statistics(ctx context.Context) (*entities.GroupStatistics, error)
}

type DepartureGroupRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewDepartureGroupRepository(ds *postgresql.DataSource, logger *zap.Logger) DepartureGroupRepositoryInterface {
	return &DepartureGroupRepository{ds: ds, logger: logger}
}

func (r *DepartureGroupRepository) Create(ctx context.Context, group *entities.DepartureGroup) (*entities.DepartureGroup, error) {
	query, args, err := psql.Insert("departure_groups").
		Columns("package_id", "name", "code", "max_members", "current_members",
			"departure_date", "bus_number", "meeting_time", "meeting_point",
			"tour_leader", "tour_leader_phone", "status", "notes", "created_by").
		Values(group.PackageID, group.Name, group.Code, group.MaxMembers, 0,
			group.DepartureDate, group.BusNumber, group.MeetingTime, group.MeetingPoint,
			group.TourLeader, group.TourLeaderPhone, group.Status, group.Notes, group.CreatedBy).
		Suffix("RETURNING id, current_members, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	err = r.ds.Query(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, query, args...).
			Scan(&group.ID, &group.CurrentMembers, &group.CreatedAt, &group.UpdatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("kode grup sudah digunakan")
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("paket")
		}
		return nil, apperrors.Internal(err)
	}
	return group, nil
}

func groupListBuilder(filter types.Filter) sq.SelectBuilder {
	builder := psql.Select().
		From("departure_groups g").
		LeftJoin("core.packages p ON p.id = g.package_id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"g.name": pattern},
			sq.ILike{"g.code": pattern},
			sq.ILike{"g.tour_leader": pattern},
			sq.ILike{"p.name": pattern},
		})
	}
	if v, ok := filter.Filter["package_id"]; ok {
		builder = builder.Where(sq.Eq{"g.package_id": v})
	}
	if v, ok := filter.Filter["status"]; ok {
		builder = builder.Where(sq.Eq{"g.status": v})
	}
	return builder
}

func (r *DepartureGroupRepository) FindAll(ctx context.Context, filter types.Filter) ([]entities.DepartureGroup, uint64, error) {
	base := groupListBuilder(filter)

	query, args, err := base.
		Columns(groupColumns, "p.name AS package_name", "p.code AS package_code").
		OrderBy("g.departure_date ASC NULLS LAST", "g.id ASC").
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

	var groups []entities.DepartureGroup
	var total uint64
	err = r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var g entities.DepartureGroup
			if err := scanGroup(rows, &g, true); err != nil {
				return err
			}
			groups = append(groups, g)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return q.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return groups, total, nil
}

func scanGroup(row pgx.Row, g *entities.DepartureGroup, withPackage bool) error {
	dest := []interface{}{
		&g.ID, &g.PackageID, &g.Name, &g.Code, &g.MaxMembers, &g.CurrentMembers,
		&g.DepartureDate, &g.BusNumber, &g.MeetingTime, &g.MeetingPoint,
		&g.TourLeader, &g.TourLeaderPhone, &g.Status, &g.Notes, &g.CreatedBy,
		&g.CreatedAt, &g.UpdatedAt,
	}
	if withPackage {
		dest = append(dest, &g.PackageName, &g.PackageCode)
	}
	return row.Scan(dest...)
}

func (r *DepartureGroupRepository) FindByID(ctx context.Context, id int) (*entities.DepartureGroup, error) {
	query, args, err := psql.Select(groupColumns, "p.name", "p.code").
		From("departure_groups g").
		LeftJoin("core.packages p ON p.id = g.package_id").
		Where(sq.Eq{"g.id": id}).
		ToSql()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var group entities.DepartureGroup
	err = r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		if err := scanGroup(q.QueryRow(ctx, query, args...), &group, true); err != nil {
			return err
		}

		memberRows, err := q.Query(ctx, `
			SELECT gm.id, gm.group_id, gm.sub_group_id, gm.jamaah_id, gm.role,
			       gm.seat_number, gm.room_number, gm.notes, gm.created_by, gm.created_at,
			       j.name, j.phone, j.passport_number
			FROM group_members gm
			JOIN jamaah j ON j.id = gm.jamaah_id
			WHERE gm.group_id = $1
			ORDER BY gm.id`, id)
		if err != nil {
			return err
		}
		defer memberRows.Close()
		for memberRows.Next() {
			var m entities.GroupMember
			if err := memberRows.Scan(&m.ID, &m.GroupID, &m.SubGroupID, &m.JamaahID, &m.Role,
				&m.SeatNumber, &m.RoomNumber, &m.Notes, &m.CreatedBy, &m.CreatedAt,
				&m.JamaahName, &m.JamaahPhone, &m.PassportNumber); err != nil {
				return err
			}
			group.Members = append(group.Members, m)
		}
		if err := memberRows.Err(); err != nil {
			return err
		}

		subRows, err := q.Query(ctx, `
			SELECT id, group_id, name, hotel_makkah, hotel_madinah,
			       max_members, current_members, notes, created_at
			FROM departure_sub_groups
			WHERE group_id = $1
			ORDER BY id`, id)
		if err != nil {
			return err
		}
		defer subRows.Close()
		for subRows.Next() {
			var s entities.DepartureSubGroup
			if err := subRows.Scan(&s.ID, &s.GroupID, &s.Name, &s.HotelMakkah, &s.HotelMadinah,
				&s.MaxMembers, &s.CurrentMembers, &s.Notes, &s.CreatedAt); err != nil {
				return err
			}
			group.SubGroups = append(group.SubGroups, s)
		}
		return subRows.Err()
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("grup keberangkatan")
		}
		return nil, apperrors.Internal(err)
	}
	return &group, nil
}

func (r *DepartureGroupRepository) FindByPackage(ctx context.Context, packageID int) ([]entities.DepartureGroup, error) {
	query, args, err := psql.Select(groupColumns, "p.name", "p.code").
		From("departure_groups g").
		LeftJoin("core.packages p ON p.id = g.package_id").
		Where(sq.Eq{"g.package_id": packageID}).
		OrderBy("g.id ASC").
		ToSql()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var groups []entities.DepartureGroup
	err = r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var g entities.DepartureGroup
			if err := scanGroup(rows, &g, true); err != nil {
				return err
			}
			groups = append(groups, g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return groups, nil
}

// Update applies only whitelisted fields already vetted by the service.
func (r *DepartureGroupRepository) Update(ctx context.Context, id int, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.Validation("tidak ada field yang diubah")
	}

	query, args, err := psql.Update("departure_groups").
		SetMap(fields).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return apperrors.Internal(err)
	}

	return r.ds.Query(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("grup keberangkatan")
		}
		return nil
	})
}

func (r *DepartureGroupRepository) Delete(ctx context.Context, id int) error {
	return r.ds.Transaction(ctx, postgresql.ModuleJamaah, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1`, id); err != nil {
			return apperrors.Internal(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM departure_sub_groups WHERE group_id = $1`, id); err != nil {
			return apperrors.Internal(err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM departure_groups WHERE id = $1`, id)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("grup keberangkatan")
		}
		return nil
	})
}

// AddMember inserts the membership and recomputes current_members from a
// live COUNT in the same transaction, so the stored counter can never
// drift from the membership rows.
func (r *DepartureGroupRepository) AddMember(ctx context.Context, groupID int, member *entities.GroupMember) (*entities.GroupMember, error) {
	err := r.ds.Transaction(ctx, postgresql.ModuleJamaah, func(tx pgx.Tx) error {
		var maxMembers, currentMembers int
		err := tx.QueryRow(ctx,
			`SELECT max_members, current_members FROM departure_groups WHERE id = $1 FOR UPDATE`,
			groupID).Scan(&maxMembers, &currentMembers)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("grup keberangkatan")
			}
			return apperrors.Internal(err)
		}
		if currentMembers >= maxMembers {
			return apperrors.CapacityExceeded("grup sudah penuh (%d/%d anggota)", currentMembers, maxMembers)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO group_members (group_id, sub_group_id, jamaah_id, role, seat_number, room_number, notes, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`,
			groupID, member.SubGroupID, member.JamaahID, member.Role,
			member.SeatNumber, member.RoomNumber, member.Notes, member.CreatedBy).
			Scan(&member.ID, &member.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.Conflict("jamaah sudah terdaftar di grup ini")
			}
			if isForeignKeyViolation(err) {
				return apperrors.NotFound("jamaah")
			}
			return apperrors.Internal(err)
		}
		member.GroupID = groupID

		return syncGroupMemberCount(ctx, tx, groupID)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *DepartureGroupRepository) RemoveMember(ctx context.Context, groupID, jamaahID int) error {
	return r.ds.Transaction(ctx, postgresql.ModuleJamaah, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM group_members WHERE group_id = $1 AND jamaah_id = $2`,
			groupID, jamaahID)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("anggota grup")
		}
		return syncGroupMemberCount(ctx, tx, groupID)
	})
}

func syncGroupMemberCount(ctx context.Context, tx pgx.Tx, groupID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE departure_groups
		SET current_members = (SELECT COUNT(*) FROM group_members WHERE group_id = $1),
		    updated_at = NOW()
		WHERE id = $1`, groupID)
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (r *DepartureGroupRepository) CreateSubGroup(ctx context.Context, sub *entities.DepartureSubGroup) (*entities.DepartureSubGroup, error) {
	err := r.ds.Query(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO departure_sub_groups (group_id, name, hotel_makkah, hotel_madinah, max_members, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, current_members, created_at`,
			sub.GroupID, sub.Name, sub.HotelMakkah, sub.HotelMadinah, sub.MaxMembers, sub.Notes).
			Scan(&sub.ID, &sub.CurrentMembers, &sub.CreatedAt)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("grup keberangkatan")
		}
		return nil, apperrors.Internal(err)
	}
	return sub, nil
}

func (r *DepartureGroupRepository) CountByPackage(ctx context.Context, packageID int) (int, error) {
	var count int
	err := r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx,
			`SELECT COUNT(*) FROM departure_groups WHERE package_id = $1`, packageID).
			Scan(&count)
	})
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return count, nil
}

func (r *DepartureGroupRepository) Statistics(ctx context.Context) (*entities.GroupStatistics, error) {
	var stats entities.GroupStatistics
	err := r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE status = 'planning'),
			       COUNT(*) FILTER (WHERE status = 'active'),
			       COUNT(*) FILTER (WHERE status = 'departed'),
			       COUNT(*) FILTER (WHERE status = 'completed'),
			       COALESCE(SUM(current_members), 0),
			       COALESCE(SUM(max_members), 0)
			FROM departure_groups`).
			Scan(&stats.TotalGroups, &stats.PlanningGroups, &stats.ActiveGroups,
				&stats.DepartedGroups, &stats.CompletedGroups,
				&stats.TotalMembers, &stats.TotalCapacity)
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &stats, nil
}
