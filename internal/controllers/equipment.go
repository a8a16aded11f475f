package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/services"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/middleware"
	"umroh-system/pkg/utils"
)

type EquipmentController struct {
	equipmentService *services.EquipmentService
	logger           *zap.Logger
}

func NewEquipmentController(equipmentService *services.EquipmentService, logger *zap.Logger) *EquipmentController {
	return &EquipmentController{equipmentService: equipmentService, logger: logger}
}

func (c *EquipmentController) SaveDistribution(ctx echo.Context) error {
	var payload dto.SaveDistributionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	dist, err := c.equipmentService.SaveDistribution(reqCtx, payload, middleware.UserIDFromContext(reqCtx))
	if err != nil {
		// Running out of stock is an inventory problem, not a client
		// mistake; it surfaces as 500 with the item-specific message.
		if apperrors.IsKind(err, apperrors.KindCapacityExceeded) {
			return utils.ErrorResponseAsInternal(ctx, err, c.logger)
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dist, "Distribusi perlengkapan berhasil disimpan", http.StatusOK)
}

func (c *EquipmentController) FindAllDistributions(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), "status", "group_id")
	dists, total, err := c.equipmentService.FindAllDistributions(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, dists, total, filter)
}

func (c *EquipmentController) FindByJamaah(ctx echo.Context) error {
	jamaahID, err := parseIDParam(ctx, "jamaahId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	dist, err := c.equipmentService.FindByJamaah(ctx.Request().Context(), jamaahID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dist, "", http.StatusOK)
}

func (c *EquipmentController) RemoveItem(ctx echo.Context) error {
	distributionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	itemID, err := parseIDParam(ctx, "itemId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.equipmentService.RemoveItem(ctx.Request().Context(), distributionID, itemID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Item distribusi berhasil dihapus", http.StatusOK)
}

func (c *EquipmentController) ChecklistTemplate(ctx echo.Context) error {
	items, err := c.equipmentService.ChecklistTemplate(ctx.Request().Context(), ctx.QueryParam("package_type"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "", http.StatusOK)
}

func (c *EquipmentController) FindInventoryItems(ctx echo.Context) error {
	items, err := c.equipmentService.FindInventoryItems(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "", http.StatusOK)
}

func (c *EquipmentController) CreateInventoryItem(ctx echo.Context) error {
	var payload dto.CreateInventoryItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	item, err := c.equipmentService.CreateInventoryItem(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Barang inventaris berhasil dibuat", http.StatusCreated)
}

func (c *EquipmentController) AdjustStock(ctx echo.Context) error {
	itemID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateInventoryStockDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	item, err := c.equipmentService.AdjustStock(ctx.Request().Context(), itemID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Stok berhasil disesuaikan", http.StatusOK)
}

func (c *EquipmentController) GroupSummary(ctx echo.Context) error {
	groupID, err := parseIDParam(ctx, "groupId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	summary, err := c.equipmentService.GroupSummary(ctx.Request().Context(), groupID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "", http.StatusOK)
}
