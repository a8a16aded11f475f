package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Pipeline stages a marketing customer moves through.
const (
	StageLeads    = "leads"
	StageInterest = "interest"
	StageBooked   = "booked"
)

// ValidStage reports whether stage is one of the three pipeline values.
func ValidStage(stage string) bool {
	return stage == StageLeads || stage == StageInterest || stage == StageBooked
}

// MarketingCustomer is a WhatsApp contact tracked through the pipeline.
// Statistics are derived from the timestamp columns, never stored as
// counters.
type MarketingCustomer struct {
	ID             int         `json:"id"`
	PhoneNumber    string      `json:"phone_number"`
	Name           null.String `json:"name"`
	PackageCode    null.String `json:"package_code"`
	PackageName    null.String `json:"package_name"`
	PaxCount       int         `json:"pax_count"`
	PreferredMonth null.String `json:"preferred_month"`
	PipelineStage  string      `json:"pipeline_stage"`
	AgreedPrice    null.Float64 `json:"agreed_price"`
	PaymentStatus  null.String `json:"payment_status"`
	FirstContactAt time.Time   `json:"first_contact_at"`
	LastContactAt  time.Time   `json:"last_contact_at"`
	BookedAt       null.Time   `json:"booked_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Summary         null.String `json:"summary,omitempty"`
	LastMessageFrom null.String `json:"last_message_from,omitempty"`
	TotalMessages   null.Int    `json:"total_messages,omitempty"`
	UnreadCount     null.Int    `json:"unread_count,omitempty"`
}

// Sender types for conversation rows.
const (
	SenderCustomer = "customer"
	SenderAgent    = "agent"
	SenderSystem   = "system"
)

// MarketingConversation is one message in a customer's ordered log.
type MarketingConversation struct {
	ID             int         `json:"id"`
	CustomerID     int         `json:"customer_id"`
	MessageID      null.String `json:"message_id"`
	SenderType     string      `json:"sender_type"`
	MessageType    string      `json:"message_type"`
	MessageContent string      `json:"message_content"`
	MediaURL       null.String `json:"media_url"`
	IsRead         bool        `json:"is_read"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ConversationSummary is the denormalized one-row-per-customer digest kept
// in sync on every new message and stage transition.
type ConversationSummary struct {
	CustomerID      int       `json:"customer_id"`
	Summary         string    `json:"summary"`
	LastMessageFrom string    `json:"last_message_from"`
	TotalMessages   int       `json:"total_messages"`
	UnreadCount     int       `json:"unread_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AutoReplyRule matches inbound messages by keyword. Rules are evaluated
// after package-code templates, ordered by priority then id.
type AutoReplyRule struct {
	ID             int         `json:"id"`
	TriggerKeyword null.String `json:"trigger_keyword"`
	ReplyMessage   string      `json:"reply_message"`
	Priority       int         `json:"priority"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
}

// PackageTemplate is the canned reply for an exact package-code mention.
type PackageTemplate struct {
	ID              int          `json:"id"`
	PackageCode     string       `json:"package_code"`
	PackageName     string       `json:"package_name"`
	TemplateMessage string       `json:"template_message"`
	PriceRangeMin   null.Float64 `json:"price_range_min"`
	PriceRangeMax   null.Float64 `json:"price_range_max"`
	IsActive        bool         `json:"is_active"`
}

type MarketingStatistics struct {
	YearlyLeads     int     `json:"yearly_leads"`
	YearlyClosings  int     `json:"yearly_closings"`
	MonthlyLeads    int     `json:"monthly_leads"`
	MonthlyClosings int     `json:"monthly_closings"`
	TodayLeads      int     `json:"today_leads"`
	TodayClosings   int     `json:"today_closings"`
	TotalLeads      int     `json:"total_leads"`
	TotalInterest   int     `json:"total_interest"`
	TotalBooked     int     `json:"total_booked"`
	ConversionRate  float64 `json:"conversion_rate"`
}
