package main

import (
	"net/http"

	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func registerPaymentRoutes(g *echo.Group, ps *services.PaymentService) {
	p := g.Group("/payments")

	// gateway notification, public. Rejected notifications get 200 so the
	// gateway stops; store failures get 5xx so it redelivers.
	p.POST("/notification", func(c echo.Context) error {
		var payload map[string]any
		if err := c.Bind(&payload); err != nil {
			return c.JSON(http.StatusOK, echo.Map{
				"status": "ignored",
				"reason": "invalid payload",
			})
		}

		if err := ps.HandleNotification(c.Request().Context(), payload); err != nil {
			if status := errorStatus(err); status >= http.StatusInternalServerError {
				log.Error().Err(err).Msg("payment notification failed")
				return c.JSON(status, echo.Map{"status": "retry"})
			}
			log.Warn().Err(err).Msg("payment notification ignored")
			return c.JSON(http.StatusOK, echo.Map{
				"status": "ignored",
				"reason": err.Error(),
			})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"status": "ok",
		})
	})
}
