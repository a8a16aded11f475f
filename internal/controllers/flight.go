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

type FlightController struct {
	flightService *services.FlightService
	logger        *zap.Logger
}

func NewFlightController(flightService *services.FlightService, logger *zap.Logger) *FlightController {
	return &FlightController{flightService: flightService, logger: logger}
}

func (c *FlightController) CreatePNR(ctx echo.Context) error {
	var payload dto.CreatePNRDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	pnr, err := c.flightService.CreatePNR(reqCtx, payload, middleware.UserIDFromContext(reqCtx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, pnr, "PNR berhasil dibuat", http.StatusCreated)
}

func (c *FlightController) FindAll(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), "status", "package_id")
	pnrs, total, err := c.flightService.FindAll(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, pnrs, total, filter)
}

func (c *FlightController) FindByID(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	pnr, err := c.flightService.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, pnr, "", http.StatusOK)
}

func (c *FlightController) Update(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdatePNRDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	pnr, err := c.flightService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, pnr, "PNR berhasil diperbarui", http.StatusOK)
}

func (c *FlightController) Delete(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.flightService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "PNR berhasil dihapus", http.StatusOK)
}

func (c *FlightController) AssignJamaah(ctx echo.Context) error {
	pnrID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignJamaahDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	pnr, err := c.flightService.AssignJamaah(reqCtx, pnrID, payload, middleware.UserIDFromContext(reqCtx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, pnr, "Penumpang berhasil ditetapkan", http.StatusOK)
}

func (c *FlightController) RemoveJamaah(ctx echo.Context) error {
	pnrID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	jamaahID, err := parseIDParam(ctx, "jamaahId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	pnr, err := c.flightService.RemoveJamaah(ctx.Request().Context(), pnrID, jamaahID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, pnr, "Penumpang berhasil dikeluarkan", http.StatusOK)
}

func (c *FlightController) AvailableJamaah(ctx echo.Context) error {
	packageID, err := parseIDParam(ctx, "packageId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.flightService.AvailableJamaah(ctx.Request().Context(), packageID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "", http.StatusOK)
}

func (c *FlightController) CreatePaymentSchedule(ctx echo.Context) error {
	pnrID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreatePaymentScheduleDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	payment, err := c.flightService.CreatePaymentSchedule(ctx.Request().Context(), pnrID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, payment, "Jadwal pembayaran berhasil dibuat", http.StatusCreated)
}

func (c *FlightController) UpdatePaymentSchedule(ctx echo.Context) error {
	paymentID, err := parseIDParam(ctx, "paymentId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdatePaymentScheduleDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.flightService.UpdatePaymentSchedule(ctx.Request().Context(), paymentID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Jadwal pembayaran berhasil diperbarui", http.StatusOK)
}

func (c *FlightController) DashboardStats(ctx echo.Context) error {
	stats, err := c.flightService.DashboardStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "", http.StatusOK)
}
