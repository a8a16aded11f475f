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

const packageColumns = `id, code, name, price, departure_date, return_date, quota,
	package_type, status, description, created_by, created_at, updated_at`

type PackageRepositoryInterface interface {
	Create(ctx context.Context, pkg *entities.Package) (*entities.Package, error)
	FindAll(ctx context.Context, filter types.Filter) ([]entities.Package, uint64, error)
	FindByID(ctx context.Context, id int) (*entities.Package, error)
	Update(ctx context.Context, id int, fields map[string]interface{}) error
	Delete(ctx context.Context, id int) error
}

type PackageRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewPackageRepository(ds *postgresql.DataSource, logger *zap.Logger) PackageRepositoryInterface {
	return &PackageRepository{ds: ds, logger: logger}
}

func (r *PackageRepository) Create(ctx context.Context, pkg *entities.Package) (*entities.Package, error) {
	err := r.ds.Query(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO packages (code, name, price, departure_date, return_date, quota,
			                      package_type, status, description, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at`,
			pkg.Code, pkg.Name, pkg.Price, pkg.DepartureDate, pkg.ReturnDate, pkg.Quota,
			pkg.PackageType, pkg.Status, pkg.Description, pkg.CreatedBy).
			Scan(&pkg.ID, &pkg.CreatedAt, &pkg.UpdatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("kode paket sudah digunakan")
		}
		return nil, apperrors.Internal(err)
	}
	return pkg, nil
}

func (r *PackageRepository) FindAll(ctx context.Context, filter types.Filter) ([]entities.Package, uint64, error) {
	base := psql.Select().From("packages")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"code": pattern},
		})
	}
	if v, ok := filter.Filter["status"]; ok {
		base = base.Where(sq.Eq{"status": v})
	}
	if v, ok := filter.Filter["package_type"]; ok {
		base = base.Where(sq.Eq{"package_type": v})
	}

	query, args, err := base.
		Columns(packageColumns).
		OrderBy("departure_date ASC", "id ASC").
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

	var packages []entities.Package
	var total uint64
	err = r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p entities.Package
			if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Price, &p.DepartureDate, &p.ReturnDate,
				&p.Quota, &p.PackageType, &p.Status, &p.Description, &p.CreatedBy,
				&p.CreatedAt, &p.UpdatedAt); err != nil {
				return err
			}
			packages = append(packages, p)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return q.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return packages, total, nil
}

func (r *PackageRepository) FindByID(ctx context.Context, id int) (*entities.Package, error) {
	var p entities.Package
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		return q.QueryRow(ctx,
			`SELECT `+packageColumns+` FROM packages WHERE id = $1`, id).
			Scan(&p.ID, &p.Code, &p.Name, &p.Price, &p.DepartureDate, &p.ReturnDate,
				&p.Quota, &p.PackageType, &p.Status, &p.Description, &p.CreatedBy,
				&p.CreatedAt, &p.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("paket")
		}
		return nil, apperrors.Internal(err)
	}
	return &p, nil
}

func (r *PackageRepository) Update(ctx context.Context, id int, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.Validation("tidak ada field yang diubah")
	}

	query, args, err := psql.Update("packages").
		SetMap(fields).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return apperrors.Internal(err)
	}

	return r.ds.Query(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("paket")
		}
		return nil
	})
}

// Delete is refused once any jamaah, group or PNR references the package.
func (r *PackageRepository) Delete(ctx context.Context, id int) error {
	return r.ds.Query(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.Conflict("paket masih direferensikan dan tidak bisa dihapus")
			}
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("paket")
		}
		return nil
	})
}
