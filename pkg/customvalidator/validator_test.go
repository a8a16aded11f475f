package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestPhoneIDRule(t *testing.T) {
	v := newTestValidator(t)
	type payload struct {
		Phone string `validate:"phone_id"`
	}

	for _, valid := range []string{"081234567890", "6281234567890", "+6281234567890"} {
		assert.NoError(t, v.Struct(payload{Phone: valid}), valid)
	}
	for _, invalid := range []string{"12345", "071234567890", "08123", "abc"} {
		assert.Error(t, v.Struct(payload{Phone: invalid}), invalid)
	}
}

func TestPackageCodeRule(t *testing.T) {
	v := newTestValidator(t)
	type payload struct {
		Code string `validate:"package_code"`
	}

	assert.NoError(t, v.Struct(payload{Code: "UMR001"}))
	assert.NoError(t, v.Struct(payload{Code: "UMR123456"}))
	assert.Error(t, v.Struct(payload{Code: "umr001"}))
	assert.Error(t, v.Struct(payload{Code: "UMR12"}))
	assert.Error(t, v.Struct(payload{Code: "PKT001"}))
}

func TestDocumentTypeRule(t *testing.T) {
	v := newTestValidator(t)
	type payload struct {
		Type string `validate:"document_type"`
	}

	for _, valid := range []string{"passport", "ktp", "visa", "photo", "medical", "certificate", "other"} {
		assert.NoError(t, v.Struct(payload{Type: valid}), valid)
	}
	assert.Error(t, v.Struct(payload{Type: "sim"}))
}

func TestPipelineStageRule(t *testing.T) {
	v := newTestValidator(t)
	type payload struct {
		Stage string `validate:"pipeline_stage"`
	}

	for _, valid := range []string{"leads", "interest", "booked"} {
		assert.NoError(t, v.Struct(payload{Stage: valid}), valid)
	}
	assert.Error(t, v.Struct(payload{Stage: "closed"}))
}
