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

const jamaahColumns = `j.id, j.nik, j.name, j.passport_number, j.phone, j.gender,
	j.birth_date, j.address, j.status, j.package_id, j.created_by, j.created_at, j.updated_at`

type JamaahRepositoryInterface interface {
	Create(ctx context.Context, jamaah *entities.Jamaah) (*entities.Jamaah, error)
	FindAll(ctx context.Context, filter types.Filter) ([]entities.Jamaah, uint64, error)
	FindByID(ctx context.Context, id int) (*entities.Jamaah, error)
	Update(ctx context.Context, id int, fields map[string]interface{}) error
	Delete(ctx context.Context, id int) error
}

type JamaahRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewJamaahRepository(ds *postgresql.DataSource, logger *zap.Logger) JamaahRepositoryInterface {
	return &JamaahRepository{ds: ds, logger: logger}
}

func (r *JamaahRepository) Create(ctx context.Context, jamaah *entities.Jamaah) (*entities.Jamaah, error) {
	err := r.ds.Query(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO jamaah (nik, name, passport_number, phone, gender, birth_date,
			                    address, status, package_id, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at`,
			jamaah.NIK, jamaah.Name, jamaah.PassportNumber, jamaah.Phone, jamaah.Gender,
			jamaah.BirthDate, jamaah.Address, jamaah.Status, jamaah.PackageID, jamaah.CreatedBy).
			Scan(&jamaah.ID, &jamaah.CreatedAt, &jamaah.UpdatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("NIK sudah terdaftar")
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("paket")
		}
		return nil, apperrors.Internal(err)
	}
	return jamaah, nil
}

func (r *JamaahRepository) FindAll(ctx context.Context, filter types.Filter) ([]entities.Jamaah, uint64, error) {
	base := psql.Select().
		From("jamaah j").
		LeftJoin("core.packages p ON p.id = j.package_id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"j.name": pattern},
			sq.ILike{"j.nik": pattern},
			sq.ILike{"j.passport_number": pattern},
			sq.ILike{"j.phone": pattern},
		})
	}
	if v, ok := filter.Filter["status"]; ok {
		base = base.Where(sq.Eq{"j.status": v})
	}
	if v, ok := filter.Filter["package_id"]; ok {
		base = base.Where(sq.Eq{"j.package_id": v})
	}

	query, args, err := base.
		Columns(jamaahColumns, "p.name AS package_name").
		OrderBy("j.created_at DESC", "j.id DESC").
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

	var result []entities.Jamaah
	var total uint64
	err = r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var j entities.Jamaah
			if err := rows.Scan(&j.ID, &j.NIK, &j.Name, &j.PassportNumber, &j.Phone, &j.Gender,
				&j.BirthDate, &j.Address, &j.Status, &j.PackageID, &j.CreatedBy,
				&j.CreatedAt, &j.UpdatedAt, &j.PackageName); err != nil {
				return err
			}
			result = append(result, j)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return q.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return result, total, nil
}

func (r *JamaahRepository) FindByID(ctx context.Context, id int) (*entities.Jamaah, error) {
	var j entities.Jamaah
	err := r.ds.ReadQuery(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			SELECT `+jamaahColumns+`, p.name
			FROM jamaah j
			LEFT JOIN core.packages p ON p.id = j.package_id
			WHERE j.id = $1`, id).
			Scan(&j.ID, &j.NIK, &j.Name, &j.PassportNumber, &j.Phone, &j.Gender,
				&j.BirthDate, &j.Address, &j.Status, &j.PackageID, &j.CreatedBy,
				&j.CreatedAt, &j.UpdatedAt, &j.PackageName)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("jamaah")
		}
		return nil, apperrors.Internal(err)
	}
	return &j, nil
}

func (r *JamaahRepository) Update(ctx context.Context, id int, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.Validation("tidak ada field yang diubah")
	}

	query, args, err := psql.Update("jamaah").
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
			if isForeignKeyViolation(err) {
				return apperrors.NotFound("paket")
			}
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("jamaah")
		}
		return nil
	})
}

func (r *JamaahRepository) Delete(ctx context.Context, id int) error {
	return r.ds.Query(ctx, postgresql.ModuleJamaah, func(q postgresql.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM jamaah WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.Conflict("jamaah masih dipakai oleh grup, PNR atau distribusi")
			}
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("jamaah")
		}
		return nil
	})
}
