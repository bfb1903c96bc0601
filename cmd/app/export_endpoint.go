package main

import (
	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerExportRoutes(g *echo.Group, xs *services.ExportService, tokens *middleware.Tokens) {
	admin := g.Group("/admin/export", tokens.Middleware(), middleware.AdminOnly)

	admin.GET("/orders.xlsx", func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=orders.xlsx")
		c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
		if err := xs.WriteOrders(c.Request().Context(), c.Response()); err != nil {
			log.Error().Err(err).Msg("export orders")
			return respondError(c, err)
		}
		return nil
	})

	admin.GET("/products.xlsx", func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=products.xlsx")
		c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
		if err := xs.WriteProducts(c.Request().Context(), c.Response()); err != nil {
			log.Error().Err(err).Msg("export products")
			return respondError(c, err)
		}
		return nil
	})
}
