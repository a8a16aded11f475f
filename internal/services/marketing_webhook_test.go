package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/entities"
	"umroh-system/pkg/config"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

// fakeMarketingRepo is an in-memory MarketingRepositoryInterface good
// enough to drive the webhook pipeline.
type fakeMarketingRepo struct {
	customers map[string]*entities.MarketingCustomer
	messages  []entities.MarketingConversation
	rules     []entities.AutoReplyRule
	templates map[string]*entities.PackageTemplate
	summaries map[int]entities.ConversationSummary
	nextID    int
	appendErr error
}

func newFakeMarketingRepo() *fakeMarketingRepo {
	return &fakeMarketingRepo{
		customers: map[string]*entities.MarketingCustomer{},
		templates: map[string]*entities.PackageTemplate{},
		summaries: map[int]entities.ConversationSummary{},
	}
}

func (f *fakeMarketingRepo) FindOrCreateCustomer(_ context.Context, phone, name string) (*entities.MarketingCustomer, bool, error) {
	if c, ok := f.customers[phone]; ok {
		return c, false, nil
	}
	f.nextID++
	c := &entities.MarketingCustomer{
		ID:            f.nextID,
		PhoneNumber:   phone,
		Name:          null.NewString(name, name != ""),
		PipelineStage: entities.StageLeads,
	}
	f.customers[phone] = c
	f.summaries[c.ID] = entities.ConversationSummary{
		CustomerID:      c.ID,
		Summary:         "Customer baru",
		LastMessageFrom: entities.SenderCustomer,
	}
	return c, true, nil
}

func (f *fakeMarketingRepo) FindAllCustomers(context.Context, types.Filter) ([]entities.MarketingCustomer, uint64, error) {
	return nil, 0, nil
}

func (f *fakeMarketingRepo) FindCustomerByID(_ context.Context, id int) (*entities.MarketingCustomer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NotFound("customer")
}

func (f *fakeMarketingRepo) UpdateCustomer(_ context.Context, id int, fields map[string]interface{}) error {
	for _, c := range f.customers {
		if c.ID != id {
			continue
		}
		if v, ok := fields["package_code"].(string); ok {
			c.PackageCode = null.StringFrom(v)
		}
		if v, ok := fields["package_name"].(string); ok {
			c.PackageName = null.StringFrom(v)
		}
		return nil
	}
	return apperrors.NotFound("customer")
}

func (f *fakeMarketingRepo) UpdateStage(_ context.Context, id int, stage string, _ map[string]interface{}, note string) error {
	for _, c := range f.customers {
		if c.ID == id {
			c.PipelineStage = stage
			f.messages = append(f.messages, entities.MarketingConversation{
				CustomerID:     id,
				SenderType:     entities.SenderSystem,
				MessageContent: note,
			})
			return nil
		}
	}
	return apperrors.NotFound("customer")
}

func (f *fakeMarketingRepo) AppendMessage(_ context.Context, msg *entities.MarketingConversation) (*entities.MarketingConversation, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	msg.ID = len(f.messages) + 1
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, *msg)
	return msg, nil
}

func (f *fakeMarketingRepo) Conversations(_ context.Context, customerID int) ([]entities.MarketingConversation, error) {
	var out []entities.MarketingConversation
	for _, m := range f.messages {
		if m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMarketingRepo) LastMessages(ctx context.Context, customerID, limit int) ([]entities.MarketingConversation, error) {
	all, _ := f.Conversations(ctx, customerID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (f *fakeMarketingRepo) UpsertSummary(_ context.Context, s *entities.ConversationSummary) error {
	f.summaries[s.CustomerID] = *s
	return nil
}

func (f *fakeMarketingRepo) MarkAsRead(context.Context, int) error { return nil }

func (f *fakeMarketingRepo) ActiveRules(context.Context) ([]entities.AutoReplyRule, error) {
	return f.rules, nil
}

func (f *fakeMarketingRepo) FindPackageTemplate(_ context.Context, code string) (*entities.PackageTemplate, error) {
	if tpl, ok := f.templates[code]; ok {
		return tpl, nil
	}
	return nil, apperrors.NotFound("template paket")
}

func (f *fakeMarketingRepo) Statistics(context.Context) (*entities.MarketingStatistics, error) {
	return &entities.MarketingStatistics{}, nil
}

type fakeCache struct {
	seen map[string]bool
	err  error
}

func (f *fakeCache) ClaimOnce(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func webhookPayload(id, from, body string) dto.WAHAWebhookDTO {
	return dto.WAHAWebhookDTO{
		Event:   "message",
		Session: "default",
		Payload: dto.WAHAMessagePayload{
			ID:   id,
			From: from,
			Body: body,
			Type: "text",
		},
	}
}

func newWebhookService(repo *fakeMarketingRepo, cache *fakeCache) *MarketingService {
	return NewMarketingService(repo, cache, config.WAHAConfig{Session: "default", DedupWindow: time.Hour}, zap.NewNop())
}

func TestHandleWebhookCreatesLeadAndStoresMessage(t *testing.T) {
	repo := newFakeMarketingRepo()
	svc := newWebhookService(repo, &fakeCache{})

	svc.HandleWebhook(context.Background(), webhookPayload("msg-1", "6281234567890@c.us", "halo, mau tanya"))

	customer, ok := repo.customers["6281234567890"]
	require.True(t, ok, "customer should be created with the normalized phone")
	assert.Equal(t, entities.StageLeads, customer.PipelineStage)

	require.Len(t, repo.messages, 1)
	assert.Equal(t, entities.SenderCustomer, repo.messages[0].SenderType)
	assert.Equal(t, "halo, mau tanya", repo.messages[0].MessageContent)

	summary, ok := repo.summaries[customer.ID]
	require.True(t, ok)
	assert.Equal(t, "halo, mau tanya", summary.Summary)
	assert.Equal(t, entities.SenderCustomer, summary.LastMessageFrom)
}

func TestHandleWebhookNewLeadKeepsSummaryWhenMessageInsertFails(t *testing.T) {
	repo := newFakeMarketingRepo()
	repo.appendErr = errors.New("insert failed")
	svc := newWebhookService(repo, &fakeCache{})

	svc.HandleWebhook(context.Background(), webhookPayload("msg-1", "628111@c.us", "halo"))

	customer, ok := repo.customers["628111"]
	require.True(t, ok, "the lead itself must still be created")

	summary, ok := repo.summaries[customer.ID]
	require.True(t, ok, "a new lead carries its summary row from creation")
	assert.Equal(t, "Customer baru", summary.Summary)
}

func TestHandleWebhookPackageTemplateWinsOverKeywordRule(t *testing.T) {
	repo := newFakeMarketingRepo()
	repo.rules = []entities.AutoReplyRule{
		{ID: 1, TriggerKeyword: null.StringFrom("harga"), ReplyMessage: "info harga umum", Priority: 10},
	}
	repo.templates["UMR001"] = &entities.PackageTemplate{
		PackageCode:     "UMR001",
		PackageName:     "Umroh Reguler 9 Hari",
		TemplateMessage: "Detail paket UMR001...",
	}
	svc := newWebhookService(repo, &fakeCache{})

	svc.HandleWebhook(context.Background(), webhookPayload("msg-1", "628111@c.us", "berapa harga UMR001?"))

	require.Len(t, repo.messages, 2)
	assert.Equal(t, entities.SenderSystem, repo.messages[1].SenderType)
	assert.Equal(t, "Detail paket UMR001...", repo.messages[1].MessageContent)

	customer := repo.customers["628111"]
	assert.Equal(t, "UMR001", customer.PackageCode.String)
	assert.Equal(t, "Umroh Reguler 9 Hari", customer.PackageName.String)
}

func TestHandleWebhookKeywordRuleReply(t *testing.T) {
	repo := newFakeMarketingRepo()
	repo.rules = []entities.AutoReplyRule{
		{ID: 1, TriggerKeyword: null.StringFrom("harga"), ReplyMessage: "info harga umum", Priority: 10},
	}
	svc := newWebhookService(repo, &fakeCache{})

	svc.HandleWebhook(context.Background(), webhookPayload("msg-1", "628111@c.us", "berapa harga paketnya?"))

	require.Len(t, repo.messages, 2)
	assert.Equal(t, "info harga umum", repo.messages[1].MessageContent)
	assert.True(t, repo.messages[1].IsRead)
}

func TestHandleWebhookDropsDuplicates(t *testing.T) {
	repo := newFakeMarketingRepo()
	cache := &fakeCache{}
	svc := newWebhookService(repo, cache)

	payload := webhookPayload("msg-dup", "628111@c.us", "halo")
	svc.HandleWebhook(context.Background(), payload)
	svc.HandleWebhook(context.Background(), payload)

	assert.Len(t, repo.messages, 1)
}

func TestHandleWebhookContinuesWhenCacheDown(t *testing.T) {
	repo := newFakeMarketingRepo()
	cache := &fakeCache{err: errors.New("redis down")}
	svc := newWebhookService(repo, cache)

	svc.HandleWebhook(context.Background(), webhookPayload("msg-1", "628111@c.us", "halo"))

	assert.Len(t, repo.messages, 1, "redis outage must not drop messages")
}

func TestHandleWebhookIgnoresNonMessages(t *testing.T) {
	repo := newFakeMarketingRepo()
	svc := newWebhookService(repo, &fakeCache{})

	outgoing := webhookPayload("msg-1", "628111@c.us", "balasan kami")
	outgoing.Payload.FromMe = true
	svc.HandleWebhook(context.Background(), outgoing)

	status := webhookPayload("msg-2", "628111@c.us", "x")
	status.Event = "message.ack"
	svc.HandleWebhook(context.Background(), status)

	empty := webhookPayload("msg-3", "628111@c.us", "   ")
	svc.HandleWebhook(context.Background(), empty)

	assert.Empty(t, repo.customers)
	assert.Empty(t, repo.messages)
}

func TestUpdateStageRejectsUnknownStage(t *testing.T) {
	repo := newFakeMarketingRepo()
	svc := newWebhookService(repo, &fakeCache{})

	_, err := svc.UpdateStage(context.Background(), 1, dto.UpdateStageDTO{Stage: "vip"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUpdateStageRecordsSystemMessage(t *testing.T) {
	repo := newFakeMarketingRepo()
	svc := newWebhookService(repo, &fakeCache{})

	customer, _, err := repo.FindOrCreateCustomer(context.Background(), "628111", "Budi")
	require.NoError(t, err)

	updated, err := svc.UpdateStage(context.Background(), customer.ID, dto.UpdateStageDTO{Stage: entities.StageInterest})
	require.NoError(t, err)
	assert.Equal(t, entities.StageInterest, updated.PipelineStage)

	require.Len(t, repo.messages, 1)
	assert.Equal(t, entities.SenderSystem, repo.messages[0].SenderType)
	assert.Contains(t, repo.messages[0].MessageContent, "interest")
}
