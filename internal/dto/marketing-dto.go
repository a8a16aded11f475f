package dto

// WAHAWebhookDTO is the inbound WhatsApp event envelope. Only
// event=="message" payloads are processed; everything else is
// acknowledged and dropped.
type WAHAWebhookDTO struct {
	Event   string             `json:"event"`
	Session string             `json:"session"`
	Payload WAHAMessagePayload `json:"payload"`
}

type WAHAMessagePayload struct {
	ID         string `json:"id"`
	From       string `json:"from"`
	FromMe     bool   `json:"fromMe"`
	Body       string `json:"body"`
	Type       string `json:"type"`
	Timestamp  int64  `json:"timestamp"`
	NotifyName string `json:"notifyName"`
}

type UpdateStageDTO struct {
	Stage         string   `json:"stage" validate:"required,pipeline_stage"`
	AgreedPrice   *float64 `json:"agreed_price,omitempty" validate:"omitempty,gt=0"`
	PaymentStatus *string  `json:"payment_status,omitempty" validate:"omitempty,oneof=pending dp lunas"`
}

type UpdateMarketingCustomerDTO struct {
	Name           *string `json:"name,omitempty"`
	PackageCode    *string `json:"package_code,omitempty" validate:"omitempty,package_code"`
	PaxCount       *int    `json:"pax_count,omitempty" validate:"omitempty,gt=0"`
	PreferredMonth *string `json:"preferred_month,omitempty"`
}

type SendAgentMessageDTO struct {
	Message string `json:"message" validate:"required,min=1"`
}
