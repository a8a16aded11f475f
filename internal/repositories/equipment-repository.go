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

type EquipmentRepositoryInterface interface {
	SaveDistribution(ctx context.Context, dist *entities.EquipmentDistribution, items []entities.EquipmentItemLine) (*entities.EquipmentDistribution, error)
	FindAllDistributions(ctx context.Context, filter types.Filter) ([]entities.EquipmentDistribution, uint64, error)
	FindByJamaah(ctx context.Context, jamaahID int) (*entities.EquipmentDistribution, error)
	RemoveItem(ctx context.Context, distributionID, itemID int) error
	ChecklistTemplate(ctx context.Context, packageType string) ([]entities.ChecklistTemplateItem, error)
	FindInventoryItems(ctx context.Context) ([]entities.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item *entities.InventoryItem) (*entities.InventoryItem, error)
	AdjustStock(ctx context.Context, itemID, adjustment int) (*entities.InventoryItem, error)
	GroupSummary(ctx context.Context, groupID int) ([]entities.EquipmentDistribution, error)
}

type EquipmentRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewEquipmentRepository(ds *postgresql.DataSource, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{ds: ds, logger: logger}
}

// SaveDistribution is the whole handover in one transaction: find or
// create the jamaah's distribution record, then per item lock the
// inventory row, check stock, move it by the quantity change and upsert
// the item line.
// Insufficient stock for any item rolls back the entire batch. Finally the
// distribution status is re-derived against the checklist template for the
// jamaah's package type.
func (r *EquipmentRepository) SaveDistribution(ctx context.Context, dist *entities.EquipmentDistribution, items []entities.EquipmentItemLine) (*entities.EquipmentDistribution, error) {
	err := r.ds.Transaction(ctx, postgresql.ModuleInventory, func(tx pgx.Tx) error {
		var packageType string
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(p.package_type, 'reguler')
			FROM jamaah.jamaah j
			LEFT JOIN core.packages p ON p.id = j.package_id
			WHERE j.id = $1`, dist.JamaahID).Scan(&packageType)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("jamaah")
			}
			return apperrors.Internal(err)
		}

		err = tx.QueryRow(ctx,
			`SELECT id FROM equipment_distributions WHERE jamaah_id = $1`,
			dist.JamaahID).Scan(&dist.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = tx.QueryRow(ctx, `
				INSERT INTO equipment_distributions (jamaah_id, group_id, status, notes, created_by)
				VALUES ($1, $2, 'partial', $3, $4)
				RETURNING id`,
				dist.JamaahID, dist.GroupID, dist.Notes, dist.CreatedBy).Scan(&dist.ID)
		}
		if err != nil {
			return apperrors.Internal(err)
		}

		for i := range items {
			item := &items[i]

			var stock int
			err := tx.QueryRow(ctx,
				`SELECT current_stock FROM inventory_items WHERE id = $1 FOR UPDATE`,
				item.ItemID).Scan(&stock)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NotFound("barang inventaris")
				}
				return apperrors.Internal(err)
			}

			// Resubmitting an existing line replaces its quantity, so
			// stock moves by the difference only. Units already handed
			// to this jamaah count as available for the same line.
			var oldQuantity int
			err = tx.QueryRow(ctx,
				`SELECT quantity FROM distribution_items WHERE distribution_id = $1 AND item_id = $2`,
				dist.ID, item.ItemID).Scan(&oldQuantity)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return apperrors.Internal(err)
			}

			delta := item.Quantity - oldQuantity
			if delta > stock {
				return apperrors.CapacityExceeded(
					"stok barang %d tidak cukup: diminta %d, tersedia %d",
					item.ItemID, item.Quantity, stock+oldQuantity)
			}

			if delta != 0 {
				if _, err := tx.Exec(ctx,
					`UPDATE inventory_items SET current_stock = current_stock - $1, updated_at = NOW() WHERE id = $2`,
					delta, item.ItemID); err != nil {
					return apperrors.Internal(err)
				}
			}

			err = tx.QueryRow(ctx, `
				INSERT INTO distribution_items (distribution_id, item_id, quantity, size, color,
				                                serial_number, received_date, received_by, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (distribution_id, item_id)
				DO UPDATE SET quantity = EXCLUDED.quantity,
				              size = EXCLUDED.size,
				              color = EXCLUDED.color,
				              serial_number = EXCLUDED.serial_number,
				              received_date = EXCLUDED.received_date,
				              received_by = EXCLUDED.received_by,
				              notes = EXCLUDED.notes
				RETURNING id`,
				dist.ID, item.ItemID, item.Quantity, item.Size, item.Color,
				item.SerialNumber, item.ReceivedDate, item.ReceivedBy, item.Notes).
				Scan(&item.ID)
			if err != nil {
				return apperrors.Internal(err)
			}
			item.Distribution = dist.ID
		}

		return syncDistributionStatus(ctx, tx, dist.ID, packageType)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByJamaah(ctx, dist.JamaahID)
}

// syncDistributionStatus compares the distinct distributed items against
// the required checklist for the package type.
func syncDistributionStatus(ctx context.Context, tx pgx.Tx, distributionID int, packageType string) error {
	var distributed, required int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(DISTINCT item_id) FROM distribution_items WHERE distribution_id = $1`,
		distributionID).Scan(&distributed)
	if err != nil {
		return apperrors.Internal(err)
	}
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM checklist_templates WHERE package_type = $1 AND is_required`,
		packageType).Scan(&required)
	if err != nil {
		return apperrors.Internal(err)
	}

	status := "partial"
	if required > 0 && distributed >= required {
		status = "complete"
	}
	if _, err := tx.Exec(ctx,
		`UPDATE equipment_distributions SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, distributionID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (r *EquipmentRepository) FindAllDistributions(ctx context.Context, filter types.Filter) ([]entities.EquipmentDistribution, uint64, error) {
	base := psql.Select().
		From("equipment_distributions d").
		Join("jamaah.jamaah j ON j.id = d.jamaah_id").
		LeftJoin("core.packages p ON p.id = j.package_id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"j.name": pattern},
			sq.ILike{"j.nik": pattern},
		})
	}
	if v, ok := filter.Filter["status"]; ok {
		base = base.Where(sq.Eq{"d.status": v})
	}
	if v, ok := filter.Filter["group_id"]; ok {
		base = base.Where(sq.Eq{"d.group_id": v})
	}

	query, args, err := base.
		Columns(`d.id, d.jamaah_id, d.group_id, d.status, d.notes, d.created_by,
			d.created_at, d.updated_at, j.name, j.nik, j.phone, p.name AS package_name`).
		OrderBy("d.updated_at DESC", "d.id DESC").
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

	var dists []entities.EquipmentDistribution
	var total uint64
	err = r.ds.ReadQuery(ctx, postgresql.ModuleInventory, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var d entities.EquipmentDistribution
			if err := rows.Scan(&d.ID, &d.JamaahID, &d.GroupID, &d.Status, &d.Notes, &d.CreatedBy,
				&d.CreatedAt, &d.UpdatedAt, &d.JamaahName, &d.JamaahNIK, &d.JamaahPhone, &d.PackageName); err != nil {
				return err
			}
			dists = append(dists, d)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return q.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return dists, total, nil
}

// FindByJamaah returns the jamaah's distribution with its item lines, or a
// pending pseudo-record when nothing has been distributed yet.
func (r *EquipmentRepository) FindByJamaah(ctx context.Context, jamaahID int) (*entities.EquipmentDistribution, error) {
	var dist entities.EquipmentDistribution
	found := true

	err := r.ds.ReadQuery(ctx, postgresql.ModuleInventory, func(q postgresql.Querier) error {
		err := q.QueryRow(ctx, `
			SELECT d.id, d.jamaah_id, d.group_id, d.status, d.notes, d.created_by,
			       d.created_at, d.updated_at, j.name, j.nik, j.phone, p.name
			FROM equipment_distributions d
			JOIN jamaah.jamaah j ON j.id = d.jamaah_id
			LEFT JOIN core.packages p ON p.id = j.package_id
			WHERE d.jamaah_id = $1`, jamaahID).
			Scan(&dist.ID, &dist.JamaahID, &dist.GroupID, &dist.Status, &dist.Notes, &dist.CreatedBy,
				&dist.CreatedAt, &dist.UpdatedAt, &dist.JamaahName, &dist.JamaahNIK, &dist.JamaahPhone, &dist.PackageName)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
			return q.QueryRow(ctx, `
				SELECT j.id, j.name, j.nik, j.phone, p.name
				FROM jamaah.jamaah j
				LEFT JOIN core.packages p ON p.id = j.package_id
				WHERE j.id = $1`, jamaahID).
				Scan(&dist.JamaahID, &dist.JamaahName, &dist.JamaahNIK, &dist.JamaahPhone, &dist.PackageName)
		}
		if err != nil {
			return err
		}

		rows, err := q.Query(ctx, `
			SELECT di.id, di.distribution_id, di.item_id, di.quantity, di.size, di.color,
			       di.serial_number, di.received_date, di.received_by, di.notes,
			       i.name, i.category
			FROM distribution_items di
			JOIN inventory_items i ON i.id = di.item_id
			WHERE di.distribution_id = $1
			ORDER BY di.id`, dist.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var it entities.EquipmentItemLine
			if err := rows.Scan(&it.ID, &it.Distribution, &it.ItemID, &it.Quantity, &it.Size, &it.Color,
				&it.SerialNumber, &it.ReceivedDate, &it.ReceivedBy, &it.Notes,
				&it.ItemName, &it.Category); err != nil {
				return err
			}
			dist.Items = append(dist.Items, it)
		}
		return rows.Err()
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("jamaah")
		}
		return nil, apperrors.Internal(err)
	}

	if !found {
		dist.Status = "pending"
	}
	return &dist, nil
}

// RemoveItem returns the quantity to stock and re-derives the
// distribution status.
func (r *EquipmentRepository) RemoveItem(ctx context.Context, distributionID, itemID int) error {
	return r.ds.Transaction(ctx, postgresql.ModuleInventory, func(tx pgx.Tx) error {
		var quantity int
		err := tx.QueryRow(ctx, `
			DELETE FROM distribution_items
			WHERE distribution_id = $1 AND item_id = $2
			RETURNING quantity`, distributionID, itemID).Scan(&quantity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("item distribusi")
			}
			return apperrors.Internal(err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE inventory_items SET current_stock = current_stock + $1, updated_at = NOW() WHERE id = $2`,
			quantity, itemID); err != nil {
			return apperrors.Internal(err)
		}

		var packageType string
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(p.package_type, 'reguler')
			FROM equipment_distributions d
			JOIN jamaah.jamaah j ON j.id = d.jamaah_id
			LEFT JOIN core.packages p ON p.id = j.package_id
			WHERE d.id = $1`, distributionID).Scan(&packageType)
		if err != nil {
			return apperrors.Internal(err)
		}
		return syncDistributionStatus(ctx, tx, distributionID, packageType)
	})
}

func (r *EquipmentRepository) ChecklistTemplate(ctx context.Context, packageType string) ([]entities.ChecklistTemplateItem, error) {
	var items []entities.ChecklistTemplateItem
	err := r.ds.ReadQuery(ctx, postgresql.ModuleInventory, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT ct.id, ct.item_id, ct.package_type, ct.is_required, i.name, i.category
			FROM checklist_templates ct
			JOIN inventory_items i ON i.id = ct.item_id
			WHERE ct.package_type = $1
			ORDER BY ct.id`, packageType)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var it entities.ChecklistTemplateItem
			if err := rows.Scan(&it.ID, &it.ItemID, &it.PackageType, &it.IsRequired, &it.ItemName, &it.Category); err != nil {
				return err
			}
			items = append(items, it)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return items, nil
}

func (r *EquipmentRepository) FindInventoryItems(ctx context.Context) ([]entities.InventoryItem, error) {
	var items []entities.InventoryItem
	err := r.ds.ReadQuery(ctx, postgresql.ModuleInventory, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT id, name, category, current_stock, unit, created_at, updated_at
			FROM inventory_items
			ORDER BY name`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var it entities.InventoryItem
			if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.CurrentStock, &it.Unit, &it.CreatedAt, &it.UpdatedAt); err != nil {
				return err
			}
			items = append(items, it)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return items, nil
}

func (r *EquipmentRepository) CreateInventoryItem(ctx context.Context, item *entities.InventoryItem) (*entities.InventoryItem, error) {
	err := r.ds.Query(ctx, postgresql.ModuleInventory, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO inventory_items (name, category, current_stock, unit)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			item.Name, item.Category, item.CurrentStock, item.Unit).
			Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("nama barang sudah ada")
		}
		return nil, apperrors.Internal(err)
	}
	return item, nil
}

// AdjustStock moves stock up or down; it never lets the stock go negative.
func (r *EquipmentRepository) AdjustStock(ctx context.Context, itemID, adjustment int) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	err := r.ds.Transaction(ctx, postgresql.ModuleInventory, func(tx pgx.Tx) error {
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT current_stock FROM inventory_items WHERE id = $1 FOR UPDATE`,
			itemID).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("barang inventaris")
			}
			return apperrors.Internal(err)
		}
		if stock+adjustment < 0 {
			return apperrors.CapacityExceeded(
				"penyesuaian stok melebihi stok tersedia: stok %d, penyesuaian %d", stock, adjustment)
		}

		return tx.QueryRow(ctx, `
			UPDATE inventory_items
			SET current_stock = current_stock + $1, updated_at = NOW()
			WHERE id = $2
			RETURNING id, name, category, current_stock, unit, created_at, updated_at`,
			adjustment, itemID).
			Scan(&item.ID, &item.Name, &item.Category, &item.CurrentStock, &item.Unit, &item.CreatedAt, &item.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *EquipmentRepository) GroupSummary(ctx context.Context, groupID int) ([]entities.EquipmentDistribution, error) {
	var dists []entities.EquipmentDistribution
	err := r.ds.ReadQuery(ctx, postgresql.ModuleInventory, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT COALESCE(d.id, 0), gm.jamaah_id, d.group_id,
			       COALESCE(d.status, 'pending'), d.notes, d.created_by,
			       COALESCE(d.created_at, NOW()), COALESCE(d.updated_at, NOW()),
			       j.name, j.nik, j.phone, p.name
			FROM jamaah.group_members gm
			JOIN jamaah.jamaah j ON j.id = gm.jamaah_id
			LEFT JOIN core.packages p ON p.id = j.package_id
			LEFT JOIN equipment_distributions d ON d.jamaah_id = gm.jamaah_id
			WHERE gm.group_id = $1
			ORDER BY j.name`, groupID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var d entities.EquipmentDistribution
			if err := rows.Scan(&d.ID, &d.JamaahID, &d.GroupID, &d.Status, &d.Notes, &d.CreatedBy,
				&d.CreatedAt, &d.UpdatedAt, &d.JamaahName, &d.JamaahNIK, &d.JamaahPhone, &d.PackageName); err != nil {
				return err
			}
			dists = append(dists, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return dists, nil
}
