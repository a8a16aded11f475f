package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedInventoryItems(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - mengisi barang inventaris...")

	for _, item := range inventoryItemsData {
		_, err := db.Exec(ctx, `
			INSERT INTO inventory.inventory_items (name, category, current_stock, unit)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING`,
			item.Name, item.Category, item.Stock, item.Unit)
		if err != nil {
			return fmt.Errorf("insert barang %q: %w", item.Name, err)
		}
	}
	return nil
}

func seedChecklistTemplates(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - mengisi checklist perlengkapan per tipe paket...")

	for _, row := range checklistData {
		_, err := db.Exec(ctx, `
			INSERT INTO inventory.checklist_templates (item_id, package_type, is_required)
			SELECT id, $2, $3 FROM inventory.inventory_items WHERE name = $1
			ON CONFLICT (item_id, package_type) DO NOTHING`,
			row.ItemName, row.PackageType, row.IsRequired)
		if err != nil {
			return fmt.Errorf("insert checklist %q/%s: %w", row.ItemName, row.PackageType, err)
		}
	}
	return nil
}
