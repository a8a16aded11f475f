package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "umroh-system/pkg/errors"
	"umroh-system/pkg/types"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type HTTPResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type PaginatedResponse struct {
	Data       interface{}      `json:"data"`
	Pagination types.Pagination `json:"pagination"`
}

// ParseFilterFromQuery reads page/limit/search plus any whitelistable
// filter keys from the query string. Filter values are validated against
// column whitelists at the repository layer.
func ParseFilterFromQuery(values url.Values, filterKeys ...string) types.Filter {
	f := types.Filter{
		Filter: make(map[string]interface{}),
		Page:   1,
		Limit:  DefaultLimit,
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			f.Page = p
		}
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				f.Limit = MaxLimit
			} else {
				f.Limit = l
			}
		}
	}

	f.Search = values.Get("search")

	for _, key := range filterKeys {
		if v := values.Get(key); v != "" {
			f.Filter[key] = v
		}
	}

	return f
}

func SuccessResponse(ctx echo.Context, data interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Success: true, Data: data, Message: message})
}

func ListResponse(ctx echo.Context, data interface{}, total uint64, filter types.Filter) error {
	return ctx.JSON(http.StatusOK, &PaginatedResponse{
		Data:       data,
		Pagination: types.NewPagination(total, filter.Page, filter.Limit),
	})
}

func httpStatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation, apperrors.KindConflict, apperrors.KindCapacityExceeded:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse maps an error to an HTTP status by its Kind and writes the
// structured error body. Internal causes are logged, never surfaced.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "validasi gagal: " + strings.Join(msgs, "; "),
		})
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == apperrors.KindInternal {
			logger.Error("internal error", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   appErr.Message,
			})
		}
		return c.JSON(httpStatusFor(appErr.Kind), map[string]interface{}{
			"success": false,
			"error":   appErr.Message,
		})
	}

	logger.Error("unexpected error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   "terjadi kesalahan internal",
	})
}

// ErrorResponseAsInternal keeps the error's client-safe message but forces
// a 500 status. Used where a domain rejection signals a server-side
// resource shortfall rather than a bad request, like insufficient
// inventory stock.
func ErrorResponseAsInternal(c echo.Context, err error, logger *zap.Logger) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   appErr.Message,
		})
	}
	return ErrorResponse(c, err, logger)
}
