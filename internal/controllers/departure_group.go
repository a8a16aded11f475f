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

type DepartureGroupController struct {
	groupService *services.DepartureGroupService
	logger       *zap.Logger
}

func NewDepartureGroupController(groupService *services.DepartureGroupService, logger *zap.Logger) *DepartureGroupController {
	return &DepartureGroupController{groupService: groupService, logger: logger}
}

func (c *DepartureGroupController) Create(ctx echo.Context) error {
	var payload dto.CreateDepartureGroupDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	group, err := c.groupService.Create(reqCtx, payload, middleware.UserIDFromContext(reqCtx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, group, "Grup keberangkatan berhasil dibuat", http.StatusCreated)
}

func (c *DepartureGroupController) FindAll(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), "package_id", "status")
	groups, total, err := c.groupService.FindAll(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, groups, total, filter)
}

func (c *DepartureGroupController) FindByID(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	group, err := c.groupService.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, group, "", http.StatusOK)
}

func (c *DepartureGroupController) FindByPackage(ctx echo.Context) error {
	packageID, err := parseIDParam(ctx, "packageId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	groups, err := c.groupService.FindByPackage(ctx.Request().Context(), packageID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, groups, "", http.StatusOK)
}

func (c *DepartureGroupController) Update(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateDepartureGroupDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	group, err := c.groupService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, group, "Grup keberangkatan berhasil diperbarui", http.StatusOK)
}

func (c *DepartureGroupController) Delete(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.groupService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Grup keberangkatan berhasil dihapus", http.StatusOK)
}

func (c *DepartureGroupController) AddMember(ctx echo.Context) error {
	groupID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AddGroupMemberDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	member, err := c.groupService.AddMember(reqCtx, groupID, payload, middleware.UserIDFromContext(reqCtx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, member, "Anggota berhasil ditambahkan", http.StatusCreated)
}

func (c *DepartureGroupController) RemoveMember(ctx echo.Context) error {
	groupID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	jamaahID, err := parseIDParam(ctx, "jamaahId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.groupService.RemoveMember(ctx.Request().Context(), groupID, jamaahID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Anggota berhasil dikeluarkan", http.StatusOK)
}

func (c *DepartureGroupController) CreateSubGroup(ctx echo.Context) error {
	groupID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateSubGroupDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	sub, err := c.groupService.CreateSubGroup(ctx.Request().Context(), groupID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, sub, "Sub-grup berhasil dibuat", http.StatusCreated)
}

func (c *DepartureGroupController) Statistics(ctx echo.Context) error {
	stats, err := c.groupService.Statistics(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "", http.StatusOK)
}
