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

const customerColumns = `c.id, c.phone_number, c.name, c.package_code, c.package_name,
	c.pax_count, c.preferred_month, c.pipeline_stage, c.agreed_price, c.payment_status,
	c.first_contact_at, c.last_contact_at, c.booked_at, c.updated_at`

// newCustomerSummary is the placeholder summary a lead carries until the
// first conversation refresh replaces it.
const newCustomerSummary = "Customer baru"

type MarketingRepositoryInterface interface {
	FindOrCreateCustomer(ctx context.Context, phoneNumber, name string) (*entities.MarketingCustomer, bool, error)
	FindAllCustomers(ctx context.Context, filter types.Filter) ([]entities.MarketingCustomer, uint64, error)
	FindCustomerByID(ctx context.Context, id int) (*entities.MarketingCustomer, error)
	UpdateCustomer(ctx context.Context, id int, fields map[string]interface{}) error
	UpdateStage(ctx context.Context, id int, stage string, fields map[string]interface{}, systemNote string) error
	AppendMessage(ctx context.Context, msg *entities.MarketingConversation) (*entities.MarketingConversation, error)
	Conversations(ctx context.Context, customerID int) ([]entities.MarketingConversation, error)
	LastMessages(ctx context.Context, customerID, limit int) ([]entities.MarketingConversation, error)
	UpsertSummary(ctx context.Context, summary *entities.ConversationSummary) error
	MarkAsRead(ctx context.Context, customerID int) error
	ActiveRules(ctx context.Context) ([]entities.AutoReplyRule, error)
	FindPackageTemplate(ctx context.Context, packageCode string) (*entities.PackageTemplate, error)
	Statistics(ctx context.Context) (*entities.MarketingStatistics, error)
}

type MarketingRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewMarketingRepository(ds *postgresql.DataSource, logger *zap.Logger) MarketingRepositoryInterface {
	return &MarketingRepository{ds: ds, logger: logger}
}

// FindOrCreateCustomer returns the customer for a phone number, creating a
// fresh lead when none exists. The second return reports whether a new row
// was created. Concurrent webhooks for the same new number are resolved by
// the unique phone_number constraint: the loser re-reads.
func (r *MarketingRepository) FindOrCreateCustomer(ctx context.Context, phoneNumber, name string) (*entities.MarketingCustomer, bool, error) {
	var customer entities.MarketingCustomer
	created := false

	err := r.ds.Query(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		err := scanCustomer(q.QueryRow(ctx,
			`SELECT `+customerColumns+` FROM marketing_customers c WHERE c.phone_number = $1`,
			phoneNumber), &customer)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		err = scanCustomer(q.QueryRow(ctx, `
			INSERT INTO marketing_customers (phone_number, name, pipeline_stage)
			VALUES ($1, NULLIF($2, ''), 'leads')
			ON CONFLICT (phone_number) DO NOTHING
			RETURNING `+strippedCustomerColumns, phoneNumber, name), &customer)
		if err == nil {
			created = true
			// A fresh lead gets its summary row immediately, so the
			// customer list never shows a lead without one even when a
			// later message insert fails.
			_, err = q.Exec(ctx, `
				INSERT INTO conversation_summaries (customer_id, summary, last_message_from)
				VALUES ($1, $2, $3)
				ON CONFLICT (customer_id) DO NOTHING`,
				customer.ID, newCustomerSummary, entities.SenderCustomer)
			return err
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		// Lost the insert race, the row exists now.
		return scanCustomer(q.QueryRow(ctx,
			`SELECT `+customerColumns+` FROM marketing_customers c WHERE c.phone_number = $1`,
			phoneNumber), &customer)
	})
	if err != nil {
		return nil, false, apperrors.Internal(err)
	}
	return &customer, created, nil
}

// strippedCustomerColumns is customerColumns without the table alias, for
// RETURNING clauses.
const strippedCustomerColumns = `id, phone_number, name, package_code, package_name,
	pax_count, preferred_month, pipeline_stage, agreed_price, payment_status,
	first_contact_at, last_contact_at, booked_at, updated_at`

func scanCustomer(row pgx.Row, c *entities.MarketingCustomer) error {
	return row.Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.PackageCode, &c.PackageName,
		&c.PaxCount, &c.PreferredMonth, &c.PipelineStage, &c.AgreedPrice, &c.PaymentStatus,
		&c.FirstContactAt, &c.LastContactAt, &c.BookedAt, &c.UpdatedAt)
}

func (r *MarketingRepository) FindAllCustomers(ctx context.Context, filter types.Filter) ([]entities.MarketingCustomer, uint64, error) {
	base := psql.Select().
		From("marketing_customers c").
		LeftJoin("conversation_summaries s ON s.customer_id = c.id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"c.name": pattern},
			sq.ILike{"c.phone_number": pattern},
		})
	}
	if v, ok := filter.Filter["stage"]; ok {
		base = base.Where(sq.Eq{"c.pipeline_stage": v})
	}

	query, args, err := base.
		Columns(customerColumns,
			"s.summary", "s.last_message_from", "s.total_messages", "s.unread_count").
		OrderBy("c.last_contact_at DESC").
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

	var customers []entities.MarketingCustomer
	var total uint64
	err = r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var c entities.MarketingCustomer
			if err := rows.Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.PackageCode, &c.PackageName,
				&c.PaxCount, &c.PreferredMonth, &c.PipelineStage, &c.AgreedPrice, &c.PaymentStatus,
				&c.FirstContactAt, &c.LastContactAt, &c.BookedAt, &c.UpdatedAt,
				&c.Summary, &c.LastMessageFrom, &c.TotalMessages, &c.UnreadCount); err != nil {
				return err
			}
			customers = append(customers, c)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return q.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return customers, total, nil
}

func (r *MarketingRepository) FindCustomerByID(ctx context.Context, id int) (*entities.MarketingCustomer, error) {
	var customer entities.MarketingCustomer
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			SELECT `+customerColumns+`, s.summary, s.last_message_from, s.total_messages, s.unread_count
			FROM marketing_customers c
			LEFT JOIN conversation_summaries s ON s.customer_id = c.id
			WHERE c.id = $1`, id).
			Scan(&customer.ID, &customer.PhoneNumber, &customer.Name, &customer.PackageCode, &customer.PackageName,
				&customer.PaxCount, &customer.PreferredMonth, &customer.PipelineStage, &customer.AgreedPrice, &customer.PaymentStatus,
				&customer.FirstContactAt, &customer.LastContactAt, &customer.BookedAt, &customer.UpdatedAt,
				&customer.Summary, &customer.LastMessageFrom, &customer.TotalMessages, &customer.UnreadCount)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("customer")
		}
		return nil, apperrors.Internal(err)
	}
	return &customer, nil
}

func (r *MarketingRepository) UpdateCustomer(ctx context.Context, id int, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.Validation("tidak ada field yang diubah")
	}

	query, args, err := psql.Update("marketing_customers").
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
			return apperrors.NotFound("customer")
		}
		return nil
	})
}

// UpdateStage moves the customer to a new pipeline stage and appends
// exactly one system conversation row recording the transition, atomically.
func (r *MarketingRepository) UpdateStage(ctx context.Context, id int, stage string, fields map[string]interface{}, systemNote string) error {
	return r.ds.Transaction(ctx, postgresql.ModuleCore, func(tx pgx.Tx) error {
		builder := psql.Update("marketing_customers").
			Set("pipeline_stage", stage).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"id": id})
		if stage == entities.StageBooked {
			builder = builder.Set("booked_at", sq.Expr("NOW()"))
		}
		for k, v := range fields {
			builder = builder.Set(k, v)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return apperrors.Internal(err)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return apperrors.Internal(err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("customer")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO marketing_conversations (customer_id, sender_type, message_type, message_content, is_read)
			VALUES ($1, 'system', 'text', $2, TRUE)`, id, systemNote)
		if err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

func (r *MarketingRepository) AppendMessage(ctx context.Context, msg *entities.MarketingConversation) (*entities.MarketingConversation, error) {
	err := r.ds.Query(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		err := q.QueryRow(ctx, `
			INSERT INTO marketing_conversations (customer_id, message_id, sender_type, message_type,
			                                     message_content, media_url, is_read)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`,
			msg.CustomerID, msg.MessageID, msg.SenderType, msg.MessageType,
			msg.MessageContent, msg.MediaURL, msg.IsRead).
			Scan(&msg.ID, &msg.CreatedAt)
		if err != nil {
			return err
		}
		_, err = q.Exec(ctx,
			`UPDATE marketing_customers SET last_contact_at = NOW(), updated_at = NOW() WHERE id = $1`,
			msg.CustomerID)
		return err
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("customer")
		}
		return nil, apperrors.Internal(err)
	}
	return msg, nil
}

func (r *MarketingRepository) Conversations(ctx context.Context, customerID int) ([]entities.MarketingConversation, error) {
	var msgs []entities.MarketingConversation
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT id, customer_id, message_id, sender_type, message_type,
			       message_content, media_url, is_read, created_at
			FROM marketing_conversations
			WHERE customer_id = $1
			ORDER BY created_at ASC, id ASC`, customerID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var m entities.MarketingConversation
			if err := rows.Scan(&m.ID, &m.CustomerID, &m.MessageID, &m.SenderType, &m.MessageType,
				&m.MessageContent, &m.MediaURL, &m.IsRead, &m.CreatedAt); err != nil {
				return err
			}
			msgs = append(msgs, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return msgs, nil
}

// LastMessages returns the most recent messages in chronological order.
func (r *MarketingRepository) LastMessages(ctx context.Context, customerID, limit int) ([]entities.MarketingConversation, error) {
	var msgs []entities.MarketingConversation
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT id, customer_id, message_id, sender_type, message_type,
			       message_content, media_url, is_read, created_at
			FROM (
				SELECT * FROM marketing_conversations
				WHERE customer_id = $1
				ORDER BY created_at DESC, id DESC
				LIMIT $2
			) latest
			ORDER BY created_at ASC, id ASC`, customerID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var m entities.MarketingConversation
			if err := rows.Scan(&m.ID, &m.CustomerID, &m.MessageID, &m.SenderType, &m.MessageType,
				&m.MessageContent, &m.MediaURL, &m.IsRead, &m.CreatedAt); err != nil {
				return err
			}
			msgs = append(msgs, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return msgs, nil
}

func (r *MarketingRepository) UpsertSummary(ctx context.Context, summary *entities.ConversationSummary) error {
	err := r.ds.Query(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO conversation_summaries (customer_id, summary, last_message_from, total_messages, unread_count, updated_at)
			VALUES ($1, $2, $3,
			        (SELECT COUNT(*) FROM marketing_conversations WHERE customer_id = $1),
			        (SELECT COUNT(*) FROM marketing_conversations WHERE customer_id = $1 AND sender_type = 'customer' AND NOT is_read),
			        NOW())
			ON CONFLICT (customer_id)
			DO UPDATE SET summary = EXCLUDED.summary,
			              last_message_from = EXCLUDED.last_message_from,
			              total_messages = EXCLUDED.total_messages,
			              unread_count = EXCLUDED.unread_count,
			              updated_at = NOW()`,
			summary.CustomerID, summary.Summary, summary.LastMessageFrom)
		return err
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (r *MarketingRepository) MarkAsRead(ctx context.Context, customerID int) error {
	return r.ds.Query(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		if _, err := q.Exec(ctx, `
			UPDATE marketing_conversations SET is_read = TRUE
			WHERE customer_id = $1 AND sender_type = 'customer' AND NOT is_read`,
			customerID); err != nil {
			return apperrors.Internal(err)
		}
		if _, err := q.Exec(ctx, `
			UPDATE conversation_summaries SET unread_count = 0, updated_at = NOW()
			WHERE customer_id = $1`, customerID); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

// ActiveRules returns keyword rules in evaluation order.
func (r *MarketingRepository) ActiveRules(ctx context.Context) ([]entities.AutoReplyRule, error) {
	var rules []entities.AutoReplyRule
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT id, trigger_keyword, reply_message, priority, is_active, created_at
			FROM auto_reply_rules
			WHERE is_active
			ORDER BY priority DESC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rule entities.AutoReplyRule
			if err := rows.Scan(&rule.ID, &rule.TriggerKeyword, &rule.ReplyMessage,
				&rule.Priority, &rule.IsActive, &rule.CreatedAt); err != nil {
				return err
			}
			rules = append(rules, rule)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rules, nil
}

func (r *MarketingRepository) FindPackageTemplate(ctx context.Context, packageCode string) (*entities.PackageTemplate, error) {
	var tpl entities.PackageTemplate
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			SELECT id, package_code, package_name, template_message,
			       price_range_min, price_range_max, is_active
			FROM package_templates
			WHERE UPPER(package_code) = UPPER($1) AND is_active`, packageCode).
			Scan(&tpl.ID, &tpl.PackageCode, &tpl.PackageName, &tpl.TemplateMessage,
				&tpl.PriceRangeMin, &tpl.PriceRangeMax, &tpl.IsActive)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("template paket")
		}
		return nil, apperrors.Internal(err)
	}
	return &tpl, nil
}

// Statistics derives every number from timestamps and pipeline_stage, so
// the counters can never drift from the customer rows.
func (r *MarketingRepository) Statistics(ctx context.Context) (*entities.MarketingStatistics, error) {
	var stats entities.MarketingStatistics
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		err := q.QueryRow(ctx, `
			SELECT COUNT(*) FILTER (WHERE first_contact_at >= date_trunc('year', NOW())),
			       COUNT(*) FILTER (WHERE booked_at >= date_trunc('year', NOW())),
			       COUNT(*) FILTER (WHERE first_contact_at >= date_trunc('month', NOW())),
			       COUNT(*) FILTER (WHERE booked_at >= date_trunc('month', NOW())),
			       COUNT(*) FILTER (WHERE first_contact_at >= date_trunc('day', NOW())),
			       COUNT(*) FILTER (WHERE booked_at >= date_trunc('day', NOW())),
			       COUNT(*) FILTER (WHERE pipeline_stage = 'leads'),
			       COUNT(*) FILTER (WHERE pipeline_stage = 'interest'),
			       COUNT(*) FILTER (WHERE pipeline_stage = 'booked')
			FROM marketing_customers`).
			Scan(&stats.YearlyLeads, &stats.YearlyClosings,
				&stats.MonthlyLeads, &stats.MonthlyClosings,
				&stats.TodayLeads, &stats.TodayClosings,
				&stats.TotalLeads, &stats.TotalInterest, &stats.TotalBooked)
		if err != nil {
			return err
		}

		totalCustomers := stats.TotalLeads + stats.TotalInterest + stats.TotalBooked
		if totalCustomers > 0 {
			stats.ConversionRate = float64(stats.TotalBooked) / float64(totalCustomers) * 100
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &stats, nil
}
