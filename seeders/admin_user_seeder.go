package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - membuat user admin...")

	email := "admin@umroh.local"
	var existingID int
	err := db.QueryRow(ctx, `SELECT id FROM core.users WHERE email = $1`, email).Scan(&existingID)
	if err == nil {
		log.Println("    - user admin sudah ada, dilewati")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("cek user admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO core.users (email, full_name, role, password_hash, is_active)
		VALUES ($1, 'Administrator', 'Admin', $2, TRUE)`,
		email, string(hash))
	if err != nil {
		return fmt.Errorf("insert user admin: %w", err)
	}
	log.Println("    - user admin dibuat (password default: admin123, segera ganti)")
	return nil
}
