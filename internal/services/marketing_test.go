package services

import (
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umroh-system/internal/entities"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "6281234567890", NormalizePhone("6281234567890@c.us"))
	assert.Equal(t, "6281234567890", NormalizePhone("6281234567890@s.whatsapp.net"))
	assert.Equal(t, "6281234567890", NormalizePhone("6281234567890"))
}

func TestExtractPackageCode(t *testing.T) {
	assert.Equal(t, "UMR001", ExtractPackageCode("Assalamualaikum, saya mau tanya paket UMR001"))
	assert.Equal(t, "UMR123", ExtractPackageCode("info umr123 dong"))
	assert.Equal(t, "UMR001", ExtractPackageCode("minat UMR001 atau UMR002?"))
	assert.Equal(t, "", ExtractPackageCode("saya mau tanya harga paket"))
	assert.Equal(t, "", ExtractPackageCode("kode UMR12 masih kurang digit"))
	assert.Equal(t, "", ExtractPackageCode("bukanUMR001kode"))
}

func TestMatchKeywordRule(t *testing.T) {
	rules := []entities.AutoReplyRule{
		{ID: 2, TriggerKeyword: null.StringFrom("daftar"), ReplyMessage: "cara daftar", Priority: 30},
		{ID: 1, TriggerKeyword: null.StringFrom("harga"), ReplyMessage: "info harga", Priority: 20},
		{ID: 3, TriggerKeyword: null.StringFrom("jadwal"), ReplyMessage: "info jadwal", Priority: 20},
	}

	t.Run("matches case-insensitively", func(t *testing.T) {
		rule := MatchKeywordRule("Berapa HARGA paketnya?", rules)
		require.NotNil(t, rule)
		assert.Equal(t, "info harga", rule.ReplyMessage)
	})

	t.Run("first rule in order wins", func(t *testing.T) {
		rule := MatchKeywordRule("mau daftar, berapa harga?", rules)
		require.NotNil(t, rule)
		assert.Equal(t, "cara daftar", rule.ReplyMessage)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, MatchKeywordRule("halo", rules))
	})

	t.Run("empty keyword is skipped", func(t *testing.T) {
		withEmpty := append([]entities.AutoReplyRule{{ID: 9, TriggerKeyword: null.String{}}}, rules...)
		rule := MatchKeywordRule("jadwal bulan depan", withEmpty)
		require.NotNil(t, rule)
		assert.Equal(t, "info jadwal", rule.ReplyMessage)
	})
}

func TestBuildSummary(t *testing.T) {
	t.Run("joins messages chronologically", func(t *testing.T) {
		messages := []entities.MarketingConversation{
			{MessageContent: "halo"},
			{MessageContent: "  mau tanya paket  "},
			{MessageContent: "UMR001"},
		}
		assert.Equal(t, "halo | mau tanya paket | UMR001", BuildSummary(messages))
	})

	t.Run("skips empty bodies", func(t *testing.T) {
		messages := []entities.MarketingConversation{
			{MessageContent: "halo"},
			{MessageContent: "   "},
			{MessageContent: "ada promo?"},
		}
		assert.Equal(t, "halo | ada promo?", BuildSummary(messages))
	})

	t.Run("truncates at the rune cap", func(t *testing.T) {
		long := strings.Repeat("panjang ", 50)
		summary := BuildSummary([]entities.MarketingConversation{{MessageContent: long}})
		assert.Len(t, []rune(summary), summaryMaxLen+3)
		assert.True(t, strings.HasSuffix(summary, "..."))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", BuildSummary(nil))
	})
}
