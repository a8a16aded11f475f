package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/services"
	"umroh-system/pkg/utils"
)

type MarketingController struct {
	marketingService *services.MarketingService
	logger           *zap.Logger
}

func NewMarketingController(marketingService *services.MarketingService, logger *zap.Logger) *MarketingController {
	return &MarketingController{marketingService: marketingService, logger: logger}
}

// Webhook acknowledges every delivery with 200 regardless of the outcome,
// otherwise the WAHA gateway keeps retrying and floods the pipeline.
func (c *MarketingController) Webhook(ctx echo.Context) error {
	var payload dto.WAHAWebhookDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("payload webhook tidak bisa dibaca", zap.Error(err))
		return ctx.JSON(http.StatusOK, map[string]interface{}{"success": true})
	}

	c.marketingService.HandleWebhook(ctx.Request().Context(), payload)
	return ctx.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (c *MarketingController) FindAllCustomers(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), "stage")
	customers, total, err := c.marketingService.FindAllCustomers(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, customers, total, filter)
}

func (c *MarketingController) FindCustomer(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	customer, conversations, err := c.marketingService.FindCustomer(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]interface{}{
		"customer":      customer,
		"conversations": conversations,
	}, "", http.StatusOK)
}

func (c *MarketingController) UpdateCustomer(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateMarketingCustomerDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	customer, err := c.marketingService.UpdateCustomer(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, customer, "Customer berhasil diperbarui", http.StatusOK)
}

func (c *MarketingController) UpdateStage(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateStageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	customer, err := c.marketingService.UpdateStage(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, customer, "Pipeline stage berhasil diperbarui", http.StatusOK)
}

func (c *MarketingController) SendMessage(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SendAgentMessageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	msg, err := c.marketingService.SendAgentMessage(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, msg, "Pesan berhasil dicatat", http.StatusCreated)
}

func (c *MarketingController) MarkAsRead(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.marketingService.MarkAsRead(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Percakapan ditandai sudah dibaca", http.StatusOK)
}

func (c *MarketingController) Statistics(ctx echo.Context) error {
	stats, err := c.marketingService.Statistics(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "", http.StatusOK)
}
