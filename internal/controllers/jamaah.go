package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/services"
	"umroh-system/pkg/middleware"
	"umroh-system/pkg/utils"
)

type JamaahController struct {
	jamaahService *services.JamaahService
	logger        *zap.Logger
}

func NewJamaahController(jamaahService *services.JamaahService, logger *zap.Logger) *JamaahController {
	return &JamaahController{jamaahService: jamaahService, logger: logger}
}

func (c *JamaahController) Create(ctx echo.Context) error {
	var payload dto.CreateJamaahDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	jamaah, err := c.jamaahService.Create(reqCtx, payload, middleware.UserIDFromContext(reqCtx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, jamaah, "Jamaah berhasil didaftarkan", http.StatusCreated)
}

func (c *JamaahController) FindAll(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), "status", "package_id")
	result, total, err := c.jamaahService.FindAll(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, result, total, filter)
}

func (c *JamaahController) FindByID(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	jamaah, err := c.jamaahService.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, jamaah, "", http.StatusOK)
}

func (c *JamaahController) Update(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateJamaahDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	jamaah, err := c.jamaahService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, jamaah, "Data jamaah berhasil diperbarui", http.StatusOK)
}

func (c *JamaahController) Delete(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.jamaahService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Jamaah berhasil dihapus", http.StatusOK)
}
