package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/entities"
	"umroh-system/internal/repositories"
	"umroh-system/pkg/config"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

const (
	summaryMessageCount = 3
	summaryMaxLen       = 200
)

var packageCodePattern = regexp.MustCompile(`(?i)\bUMR\d{3,6}\b`)

type MarketingService struct {
	marketingRepository repositories.MarketingRepositoryInterface
	cacheRepository     repositories.CacheRepositoryInterface
	wahaConfig          config.WAHAConfig
	logger              *zap.Logger
}

func NewMarketingService(
	marketingRepository repositories.MarketingRepositoryInterface,
	cacheRepository repositories.CacheRepositoryInterface,
	wahaConfig config.WAHAConfig,
	logger *zap.Logger,
) *MarketingService {
	return &MarketingService{
		marketingRepository: marketingRepository,
		cacheRepository:     cacheRepository,
		wahaConfig:          wahaConfig,
		logger:              logger,
	}
}

// NormalizePhone strips the WhatsApp JID suffix, leaving the bare number.
func NormalizePhone(jid string) string {
	phone := strings.TrimSuffix(jid, "@c.us")
	return strings.TrimSuffix(phone, "@s.whatsapp.net")
}

// ExtractPackageCode finds the first package-code mention in a message, or
// "" when there is none. Codes are matched case-insensitively and
// normalized to upper case.
func ExtractPackageCode(message string) string {
	match := packageCodePattern.FindString(message)
	return strings.ToUpper(match)
}

// MatchKeywordRule returns the first rule whose trigger keyword occurs in
// the message. Rules must already be ordered by priority DESC, id ASC.
func MatchKeywordRule(message string, rules []entities.AutoReplyRule) *entities.AutoReplyRule {
	lowered := strings.ToLower(message)
	for i := range rules {
		keyword := strings.ToLower(strings.TrimSpace(rules[i].TriggerKeyword.String))
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, keyword) {
			return &rules[i]
		}
	}
	return nil
}

// BuildSummary concatenates the message bodies in chronological order and
// caps the result at summaryMaxLen runes, appending "..." when truncated.
func BuildSummary(messages []entities.MarketingConversation) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		body := strings.TrimSpace(m.MessageContent)
		if body != "" {
			parts = append(parts, body)
		}
	}
	summary := strings.Join(parts, " | ")
	runes := []rune(summary)
	if len(runes) > summaryMaxLen {
		return string(runes[:summaryMaxLen]) + "..."
	}
	return summary
}

// HandleWebhook processes one inbound WAHA event. It always succeeds from
// the transport's point of view: business rejections are swallowed after
// logging so the gateway never retries. Duplicate deliveries are dropped
// through the message-id claim in redis.
func (s *MarketingService) HandleWebhook(ctx context.Context, payload dto.WAHAWebhookDTO) {
	if payload.Event != "message" || payload.Payload.FromMe {
		return
	}
	body := strings.TrimSpace(payload.Payload.Body)
	if body == "" || payload.Payload.From == "" {
		return
	}

	if payload.Payload.ID != "" && s.cacheRepository != nil {
		fresh, err := s.cacheRepository.ClaimOnce(ctx,
			"waha:msg:"+payload.Payload.ID, s.wahaConfig.DedupWindow)
		if err != nil {
			// Redis being down must not drop customer messages.
			s.logger.Warn("dedup cache tidak tersedia", zap.Error(err))
		} else if !fresh {
			s.logger.Debug("pesan duplikat diabaikan", zap.String("message_id", payload.Payload.ID))
			return
		}
	}

	phone := NormalizePhone(payload.Payload.From)
	customer, created, err := s.marketingRepository.FindOrCreateCustomer(ctx, phone, payload.Payload.NotifyName)
	if err != nil {
		s.logger.Error("gagal memproses customer webhook", zap.String("phone", phone), zap.Error(err))
		return
	}
	if created {
		s.logger.Info("lead baru dari WhatsApp", zap.Int("customer_id", customer.ID), zap.String("phone", phone))
	}

	messageType := payload.Payload.Type
	if messageType == "" {
		messageType = "text"
	}
	inbound := &entities.MarketingConversation{
		CustomerID:     customer.ID,
		SenderType:     entities.SenderCustomer,
		MessageType:    messageType,
		MessageContent: body,
	}
	if payload.Payload.ID != "" {
		inbound.MessageID.SetValid(payload.Payload.ID)
	}
	if _, err := s.marketingRepository.AppendMessage(ctx, inbound); err != nil {
		s.logger.Error("gagal menyimpan pesan masuk", zap.Int("customer_id", customer.ID), zap.Error(err))
		return
	}

	reply := s.resolveAutoReply(ctx, customer, body)
	if reply != "" {
		outbound := &entities.MarketingConversation{
			CustomerID:     customer.ID,
			SenderType:     entities.SenderSystem,
			MessageType:    "text",
			MessageContent: reply,
			IsRead:         true,
		}
		if _, err := s.marketingRepository.AppendMessage(ctx, outbound); err != nil {
			s.logger.Error("gagal menyimpan balasan otomatis", zap.Int("customer_id", customer.ID), zap.Error(err))
		}
	}

	s.refreshSummary(ctx, customer.ID)
}

// resolveAutoReply picks the reply for an inbound message: an exact
// package-code template wins over keyword rules; the first matching
// keyword rule in priority order wins otherwise.
func (s *MarketingService) resolveAutoReply(ctx context.Context, customer *entities.MarketingCustomer, message string) string {
	if code := ExtractPackageCode(message); code != "" {
		tpl, err := s.marketingRepository.FindPackageTemplate(ctx, code)
		if err == nil {
			fields := map[string]interface{}{
				"package_code": tpl.PackageCode,
				"package_name": tpl.PackageName,
			}
			if err := s.marketingRepository.UpdateCustomer(ctx, customer.ID, fields); err != nil {
				s.logger.Warn("gagal menandai paket pada customer",
					zap.Int("customer_id", customer.ID), zap.Error(err))
			}
			return tpl.TemplateMessage
		}
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			s.logger.Error("gagal mencari template paket", zap.String("code", code), zap.Error(err))
		}
	}

	rules, err := s.marketingRepository.ActiveRules(ctx)
	if err != nil {
		s.logger.Error("gagal memuat aturan balasan otomatis", zap.Error(err))
		return ""
	}
	if rule := MatchKeywordRule(message, rules); rule != nil {
		return rule.ReplyMessage
	}
	return ""
}

func (s *MarketingService) refreshSummary(ctx context.Context, customerID int) {
	messages, err := s.marketingRepository.LastMessages(ctx, customerID, summaryMessageCount)
	if err != nil {
		s.logger.Error("gagal memuat pesan untuk ringkasan", zap.Int("customer_id", customerID), zap.Error(err))
		return
	}

	lastFrom := ""
	if len(messages) > 0 {
		lastFrom = messages[len(messages)-1].SenderType
	}
	summary := &entities.ConversationSummary{
		CustomerID:      customerID,
		Summary:         BuildSummary(messages),
		LastMessageFrom: lastFrom,
	}
	if err := s.marketingRepository.UpsertSummary(ctx, summary); err != nil {
		s.logger.Error("gagal memperbarui ringkasan", zap.Int("customer_id", customerID), zap.Error(err))
	}
}

func (s *MarketingService) FindAllCustomers(ctx context.Context, filter types.Filter) ([]entities.MarketingCustomer, uint64, error) {
	return s.marketingRepository.FindAllCustomers(ctx, filter)
}

// FindCustomer returns the customer with their chronological conversation
// log.
func (s *MarketingService) FindCustomer(ctx context.Context, id int) (*entities.MarketingCustomer, []entities.MarketingConversation, error) {
	customer, err := s.marketingRepository.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	conversations, err := s.marketingRepository.Conversations(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return customer, conversations, nil
}

func (s *MarketingService) UpdateCustomer(ctx context.Context, id int, payload dto.UpdateMarketingCustomerDTO) (*entities.MarketingCustomer, error) {
	fields := map[string]interface{}{}
	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.PackageCode != nil {
		fields["package_code"] = strings.ToUpper(*payload.PackageCode)
	}
	if payload.PaxCount != nil {
		fields["pax_count"] = *payload.PaxCount
	}
	if payload.PreferredMonth != nil {
		fields["preferred_month"] = *payload.PreferredMonth
	}
	if err := s.marketingRepository.UpdateCustomer(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.marketingRepository.FindCustomerByID(ctx, id)
}

// UpdateStage validates the transition before any write. A valid
// transition records exactly one system message in the conversation log.
func (s *MarketingService) UpdateStage(ctx context.Context, id int, payload dto.UpdateStageDTO) (*entities.MarketingCustomer, error) {
	if !entities.ValidStage(payload.Stage) {
		return nil, apperrors.Validation("pipeline stage %q tidak dikenal", payload.Stage)
	}

	fields := map[string]interface{}{}
	if payload.Stage == entities.StageInterest && payload.AgreedPrice != nil {
		fields["agreed_price"] = *payload.AgreedPrice
	}
	if payload.Stage == entities.StageBooked {
		if payload.AgreedPrice != nil {
			fields["agreed_price"] = *payload.AgreedPrice
		}
		if payload.PaymentStatus != nil {
			fields["payment_status"] = *payload.PaymentStatus
		}
	}

	note := fmt.Sprintf("Pipeline stage diubah ke %s pada %s",
		payload.Stage, time.Now().Format("02 Jan 2006 15:04"))
	if err := s.marketingRepository.UpdateStage(ctx, id, payload.Stage, fields, note); err != nil {
		return nil, err
	}

	s.logger.Info("pipeline stage diperbarui", zap.Int("customer_id", id), zap.String("stage", payload.Stage))
	s.refreshSummary(ctx, id)
	return s.marketingRepository.FindCustomerByID(ctx, id)
}

// SendAgentMessage records a staff reply in the conversation log. Actual
// WhatsApp delivery happens through the WAHA gateway outside this system.
func (s *MarketingService) SendAgentMessage(ctx context.Context, customerID int, payload dto.SendAgentMessageDTO) (*entities.MarketingConversation, error) {
	msg := &entities.MarketingConversation{
		CustomerID:     customerID,
		SenderType:     entities.SenderAgent,
		MessageType:    "text",
		MessageContent: payload.Message,
		IsRead:         true,
	}
	created, err := s.marketingRepository.AppendMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.refreshSummary(ctx, customerID)
	return created, nil
}

func (s *MarketingService) MarkAsRead(ctx context.Context, customerID int) error {
	return s.marketingRepository.MarkAsRead(ctx, customerID)
}

func (s *MarketingService) Statistics(ctx context.Context) (*entities.MarketingStatistics, error) {
	return s.marketingRepository.Statistics(ctx)
}
