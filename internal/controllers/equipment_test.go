package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umroh-system/internal/entities"
	"umroh-system/internal/services"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
	"umroh-system/pkg/utils"
)

// stubEquipmentRepo returns canned results so the controller's status
// mapping can be tested without a database.
type stubEquipmentRepo struct {
	saveErr error
}

func (s *stubEquipmentRepo) SaveDistribution(_ context.Context, dist *entities.EquipmentDistribution, _ []entities.EquipmentItemLine) (*entities.EquipmentDistribution, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return dist, nil
}

func (s *stubEquipmentRepo) FindAllDistributions(context.Context, types.Filter) ([]entities.EquipmentDistribution, uint64, error) {
	return nil, 0, nil
}

func (s *stubEquipmentRepo) FindByJamaah(context.Context, int) (*entities.EquipmentDistribution, error) {
	return &entities.EquipmentDistribution{}, nil
}

func (s *stubEquipmentRepo) RemoveItem(context.Context, int, int) error { return nil }

func (s *stubEquipmentRepo) ChecklistTemplate(context.Context, string) ([]entities.ChecklistTemplateItem, error) {
	return nil, nil
}

func (s *stubEquipmentRepo) FindInventoryItems(context.Context) ([]entities.InventoryItem, error) {
	return nil, nil
}

func (s *stubEquipmentRepo) CreateInventoryItem(_ context.Context, item *entities.InventoryItem) (*entities.InventoryItem, error) {
	return item, nil
}

func (s *stubEquipmentRepo) AdjustStock(context.Context, int, int) (*entities.InventoryItem, error) {
	return &entities.InventoryItem{}, nil
}

func (s *stubEquipmentRepo) GroupSummary(context.Context, int) ([]entities.EquipmentDistribution, error) {
	return nil, nil
}

func postDistribution(t *testing.T, saveErr error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = utils.NewValidator(validator.New())
	body := `{"jamaah_id":1,"items":[{"item_id":7,"quantity":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/equipment/distributions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	svc := services.NewEquipmentService(&stubEquipmentRepo{saveErr: saveErr}, zap.NewNop())
	ctrl := NewEquipmentController(svc, zap.NewNop())
	require.NoError(t, ctrl.SaveDistribution(c))
	return rec
}

func TestSaveDistributionInsufficientStockReturns500(t *testing.T) {
	rec := postDistribution(t,
		apperrors.CapacityExceeded("stok barang 7 tidak cukup: diminta 5, tersedia 2"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "stok barang 7 tidak cukup")
}

func TestSaveDistributionJamaahNotFoundReturns404(t *testing.T) {
	rec := postDistribution(t, apperrors.NotFound("jamaah"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveDistributionSuccessReturns200(t *testing.T) {
	rec := postDistribution(t, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
