package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"umroh-system/pkg/config"
	"umroh-system/seeders"
)

func main() {
	cfg := config.New()

	db, err := pgxpool.New(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("koneksi database gagal: %v", err)
	}
	defer db.Close()

	seeders.Run(db)
}
