package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"umroh-system/internal/dto"
	"umroh-system/internal/services"
	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/middleware"
	"umroh-system/pkg/utils"
)

type DocumentController struct {
	documentService *services.DocumentService
	maxFileSize     int64
	logger          *zap.Logger
}

func NewDocumentController(documentService *services.DocumentService, maxFileSize int64, logger *zap.Logger) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		maxFileSize:     maxFileSize,
		logger:          logger,
	}
}

func (c *DocumentController) Upload(ctx echo.Context) error {
	jamaahID, err := strconv.Atoi(ctx.FormValue("jamaah_id"))
	if err != nil || jamaahID <= 0 {
		return utils.ErrorResponse(ctx, apperrors.Validation("jamaah_id tidak valid"), c.logger)
	}
	payload := dto.UploadDocumentDTO{
		JamaahID:     jamaahID,
		DocumentType: ctx.FormValue("document_type"),
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.Validation("file wajib diunggah"), c.logger)
	}
	if fileHeader.Size > c.maxFileSize {
		return utils.ErrorResponse(ctx,
			apperrors.Validation("ukuran file melebihi batas %d byte", c.maxFileSize), c.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.Internal(err), c.logger)
	}
	defer src.Close()

	reqCtx := ctx.Request().Context()
	doc, err := c.documentService.Upload(reqCtx, payload, src,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size,
		middleware.UserIDFromContext(reqCtx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, doc, "Dokumen berhasil diunggah", http.StatusCreated)
}

func (c *DocumentController) FindAll(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query(),
		"jamaah_id", "document_type", "is_verified")
	docs, total, err := c.documentService.FindAll(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, docs, total, filter)
}

func (c *DocumentController) FindByID(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	doc, err := c.documentService.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, doc, "", http.StatusOK)
}

func (c *DocumentController) FindByJamaah(ctx echo.Context) error {
	jamaahID, err := parseIDParam(ctx, "jamaahId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	docs, err := c.documentService.FindByJamaah(ctx.Request().Context(), jamaahID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, docs, "", http.StatusOK)
}

func (c *DocumentController) Verify(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	doc, err := c.documentService.Verify(reqCtx, id, middleware.UserIDFromContext(reqCtx))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, doc, "Dokumen berhasil diverifikasi", http.StatusOK)
}

func (c *DocumentController) Delete(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.documentService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Dokumen berhasil dihapus", http.StatusOK)
}

// Download streams the file as an attachment; View streams it inline.
func (c *DocumentController) Download(ctx echo.Context) error {
	return c.streamFile(ctx, true)
}

func (c *DocumentController) View(ctx echo.Context) error {
	return c.streamFile(ctx, false)
}

func (c *DocumentController) streamFile(ctx echo.Context, asAttachment bool) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	doc, fullPath, err := c.documentService.ResolveFile(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if doc.MimeType.Valid {
		ctx.Response().Header().Set(echo.HeaderContentType, doc.MimeType.String)
	}
	if asAttachment {
		return ctx.Attachment(fullPath, doc.FileName)
	}
	return ctx.Inline(fullPath, doc.FileName)
}

func (c *DocumentController) Statistics(ctx echo.Context) error {
	stats, err := c.documentService.Statistics(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "", http.StatusOK)
}
