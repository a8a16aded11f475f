package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/entities"
	"umroh-system/internal/repositories"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

type EquipmentService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentService(equipmentRepository repositories.EquipmentRepositoryInterface, logger *zap.Logger) *EquipmentService {
	return &EquipmentService{equipmentRepository: equipmentRepository, logger: logger}
}

func (s *EquipmentService) SaveDistribution(ctx context.Context, payload dto.SaveDistributionDTO, createdBy int) (*entities.EquipmentDistribution, error) {
	seen := map[int]bool{}
	items := make([]entities.EquipmentItemLine, 0, len(payload.Items))
	for _, item := range payload.Items {
		if seen[item.ItemID] {
			return nil, apperrors.Validation("barang %d muncul lebih dari sekali dalam satu batch", item.ItemID)
		}
		seen[item.ItemID] = true

		receivedDate, err := nullDateFromPtr(item.ReceivedDate, "received_date")
		if err != nil {
			return nil, err
		}
		items = append(items, entities.EquipmentItemLine{
			ItemID:       item.ItemID,
			Quantity:     item.Quantity,
			Size:         null.StringFromPtr(item.Size),
			Color:        null.StringFromPtr(item.Color),
			SerialNumber: null.StringFromPtr(item.SerialNumber),
			ReceivedDate: receivedDate,
			ReceivedBy:   null.StringFromPtr(item.ReceivedBy),
			Notes:        null.StringFromPtr(item.Notes),
		})
	}

	dist := &entities.EquipmentDistribution{
		JamaahID:  payload.JamaahID,
		GroupID:   null.IntFromPtr(payload.GroupID),
		Notes:     null.StringFromPtr(payload.Notes),
		CreatedBy: null.IntFrom(createdBy),
	}

	saved, err := s.equipmentRepository.SaveDistribution(ctx, dist, items)
	if err != nil {
		s.logger.Error("gagal menyimpan distribusi perlengkapan",
			zap.Int("jamaah_id", payload.JamaahID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("distribusi perlengkapan disimpan",
		zap.Int("jamaah_id", payload.JamaahID), zap.Int("items", len(items)))
	return saved, nil
}

func (s *EquipmentService) FindAllDistributions(ctx context.Context, filter types.Filter) ([]entities.EquipmentDistribution, uint64, error) {
	return s.equipmentRepository.FindAllDistributions(ctx, filter)
}

func (s *EquipmentService) FindByJamaah(ctx context.Context, jamaahID int) (*entities.EquipmentDistribution, error) {
	return s.equipmentRepository.FindByJamaah(ctx, jamaahID)
}

func (s *EquipmentService) RemoveItem(ctx context.Context, distributionID, itemID int) error {
	return s.equipmentRepository.RemoveItem(ctx, distributionID, itemID)
}

func (s *EquipmentService) ChecklistTemplate(ctx context.Context, packageType string) ([]entities.ChecklistTemplateItem, error) {
	if packageType == "" {
		packageType = "reguler"
	}
	return s.equipmentRepository.ChecklistTemplate(ctx, packageType)
}

func (s *EquipmentService) FindInventoryItems(ctx context.Context) ([]entities.InventoryItem, error) {
	return s.equipmentRepository.FindInventoryItems(ctx)
}

func (s *EquipmentService) CreateInventoryItem(ctx context.Context, payload dto.CreateInventoryItemDTO) (*entities.InventoryItem, error) {
	item := &entities.InventoryItem{
		Name:         payload.Name,
		Category:     null.StringFromPtr(payload.Category),
		CurrentStock: payload.CurrentStock,
		Unit:         null.StringFromPtr(payload.Unit),
	}
	return s.equipmentRepository.CreateInventoryItem(ctx, item)
}

func (s *EquipmentService) AdjustStock(ctx context.Context, itemID int, payload dto.UpdateInventoryStockDTO) (*entities.InventoryItem, error) {
	return s.equipmentRepository.AdjustStock(ctx, itemID, payload.Adjustment)
}

func (s *EquipmentService) GroupSummary(ctx context.Context, groupID int) ([]entities.EquipmentDistribution, error) {
	return s.equipmentRepository.GroupSummary(ctx, groupID)
}
