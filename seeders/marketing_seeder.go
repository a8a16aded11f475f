package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedAutoReplyRules(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - mengisi aturan auto-reply...")

	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM core.auto_reply_rules`).Scan(&count); err != nil {
		return fmt.Errorf("cek auto_reply_rules: %w", err)
	}
	if count > 0 {
		log.Println("    - aturan auto-reply sudah ada, dilewati")
		return nil
	}

	for _, rule := range autoReplyRulesData {
		_, err := db.Exec(ctx, `
			INSERT INTO core.auto_reply_rules (trigger_keyword, reply_message, priority, is_active)
			VALUES ($1, $2, $3, TRUE)`,
			rule.Keyword, rule.Reply, rule.Priority)
		if err != nil {
			return fmt.Errorf("insert aturan %q: %w", rule.Keyword, err)
		}
	}
	return nil
}

func seedPackageTemplates(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - mengisi template balasan paket...")

	for _, tpl := range packageTemplatesData {
		_, err := db.Exec(ctx, `
			INSERT INTO core.package_templates (package_code, package_name, template_message,
			                                    price_range_min, price_range_max, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (package_code) DO NOTHING`,
			tpl.Code, tpl.Name, tpl.Message, tpl.PriceMin, tpl.PriceMax)
		if err != nil {
			return fmt.Errorf("insert template %q: %w", tpl.Code, err)
		}
	}
	return nil
}
