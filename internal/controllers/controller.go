package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "umroh-system/pkg/errors"
)

func parseIDParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("parameter %s tidak valid", name)
	}
	return id, nil
}
