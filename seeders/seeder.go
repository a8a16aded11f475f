// Package seeders fills the reference tables the application expects at
// runtime: the admin account, inventory items with their checklist
// templates, and the marketing auto-reply data. Every seeder is
// idempotent and safe to rerun.
package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Run(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("menjalankan seeder...")

	if err := seedAdminUser(ctx, db); err != nil {
		log.Fatalf("seeder user admin gagal: %v", err)
	}
	if err := seedInventoryItems(ctx, db); err != nil {
		log.Fatalf("seeder barang inventaris gagal: %v", err)
	}
	if err := seedChecklistTemplates(ctx, db); err != nil {
		log.Fatalf("seeder checklist gagal: %v", err)
	}
	if err := seedAutoReplyRules(ctx, db); err != nil {
		log.Fatalf("seeder auto-reply gagal: %v", err)
	}
	if err := seedPackageTemplates(ctx, db); err != nil {
		log.Fatalf("seeder template paket gagal: %v", err)
	}

	log.Println("seeder selesai")
}
