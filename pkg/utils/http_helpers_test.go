package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "umroh-system/pkg/errors"
)

func TestParseFilterFromQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{})
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, DefaultLimit, f.Limit)
		assert.Empty(t, f.Search)
		assert.Empty(t, f.Filter)
	})

	t.Run("reads whitelisted keys only", func(t *testing.T) {
		values := url.Values{
			"page":   {"3"},
			"limit":  {"25"},
			"search": {"ahmad"},
			"status": {"active"},
			"evil":   {"1; DROP TABLE"},
		}
		f := ParseFilterFromQuery(values, "status")
		assert.Equal(t, 3, f.Page)
		assert.Equal(t, 25, f.Limit)
		assert.Equal(t, "ahmad", f.Search)
		assert.Equal(t, "active", f.Filter["status"])
		_, ok := f.Filter["evil"]
		assert.False(t, ok)
	})

	t.Run("caps the limit", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{"limit": {"9999"}})
		assert.Equal(t, MaxLimit, f.Limit)
	})

	t.Run("ignores garbage numbers", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{"page": {"abc"}, "limit": {"-5"}})
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, DefaultLimit, f.Limit)
	})
}

func TestErrorResponseStatusMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", apperrors.NotFound("jamaah"), http.StatusNotFound},
		{"conflict", apperrors.Conflict("kode sudah digunakan"), http.StatusBadRequest},
		{"capacity", apperrors.CapacityExceeded("penuh"), http.StatusBadRequest},
		{"validation", apperrors.Validation("field salah"), http.StatusBadRequest},
		{"unauthorized", apperrors.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"internal", apperrors.Internal(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	e := echo.New()
	logger := zap.NewNop()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			ctx := e.NewContext(req, rec)

			require.NoError(t, ErrorResponse(ctx, tc.err, logger))
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestErrorResponseAsInternal(t *testing.T) {
	e := echo.New()
	logger := zap.NewNop()

	t.Run("forces 500 and keeps the domain message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)

		err := apperrors.CapacityExceeded("stok barang 7 tidak cukup: diminta 5, tersedia 2")
		require.NoError(t, ErrorResponseAsInternal(ctx, err, logger))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "stok barang 7 tidak cukup")
	})

	t.Run("still hides internal causes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)

		err := apperrors.Internal(errors.New("pq: connection refused"))
		require.NoError(t, ErrorResponseAsInternal(ctx, err, logger))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestErrorResponseHidesInternalCause(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	err := apperrors.Internal(errors.New("pq: connection refused"))
	require.NoError(t, ErrorResponse(ctx, err, zap.NewNop()))
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
