package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"umroh-system/internal/entities"
	"umroh-system/internal/services"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
	"umroh-system/pkg/utils"
)

var manifestHeaders = []interface{}{
	"No", "NIK", "Nama", "No. Paspor", "Telepon", "Paket", "Kode Paket",
	"Grup", "Sub-Grup", "Kamar", "PNR", "Kursi", "Perlengkapan", "Dokumen Terverifikasi",
}

type ReportController struct {
	reportService *services.ReportService
	logger        *zap.Logger
}

func NewReportController(reportService *services.ReportService, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// JamaahManifest returns the cross-module manifest as JSON, or as an xlsx
// download when format=xlsx.
func (c *ReportController) JamaahManifest(ctx echo.Context) error {
	filter := entities.ManifestFilter{Page: 1, PerPage: utils.DefaultLimit}
	if v, err := strconv.Atoi(ctx.QueryParam("package_id")); err == nil && v > 0 {
		filter.PackageID = v
	}
	if v, err := strconv.Atoi(ctx.QueryParam("group_id")); err == nil && v > 0 {
		filter.GroupID = v
	}
	if v, err := strconv.Atoi(ctx.QueryParam("page")); err == nil && v > 0 {
		filter.Page = v
	}
	if v, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil && v > 0 {
		filter.PerPage = v
	}

	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "xlsx" {
		// Export ignores pagination and dumps the whole filtered set.
		filter.Page = 1
		filter.PerPage = 100000
	}

	rows, total, err := c.reportService.JamaahManifest(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, rows)
	}
	return utils.ListResponse(ctx, rows, total, types.Filter{Page: filter.Page, Limit: filter.PerPage})
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, rows []entities.ManifestRow) error {
	f := excelize.NewFile()
	sheet := "Manifest Jamaah"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &manifestHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "N1", style)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			i + 1, row.NIK, row.JamaahName,
			row.PassportNumber.String, row.Phone.String,
			row.PackageName.String, row.PackageCode.String,
			row.GroupName.String, row.SubGroupName.String, row.RoomNumber.String,
			row.PNRCode.String, row.SeatNumber.String,
			row.EquipmentStatus.String, row.VerifiedDocuments.Int,
		}
		f.SetSheetRow(sheet, cell, &values)
	}
	f.SetColWidth(sheet, "B", "C", 25)
	f.SetColWidth(sheet, "F", "F", 30)
	f.SetColWidth(sheet, "G", "N", 18)

	fileName := fmt.Sprintf("manifest_jamaah_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	if err := f.Write(ctx.Response().Writer); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
