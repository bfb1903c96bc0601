package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// errorStatus maps service and repository errors to HTTP status codes.
func errorStatus(err error) int {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, services.ErrInvalidPaymentMode),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, model.ErrInvalidItemType),
		errors.Is(err, model.ErrInvalidOrderStatus):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrPaymentExists):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrStockLockTimeout):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, err error) error {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		msg = "internal error"
	}
	return c.JSON(status, map[string]string{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pagination(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}
