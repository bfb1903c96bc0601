package main

import (
	"net/http"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func registerCategoryRoutes(g *echo.Group, cs *services.CategoryService, tokens *middleware.Tokens) {
	g.GET("/categories", func(c echo.Context) error {
		list, err := cs.List(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/categories/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		cat, err := cs.Get(c.Request().Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, cat)
	})

	g.GET("/categories/:id/products", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		list, err := cs.ListProducts(c.Request().Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	admin := g.Group("/categories", tokens.Middleware(), middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		req := new(categoryRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		id, err := cs.Create(c.Request().Context(), req.Name)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]int64{"id": id})
	})

	admin.PUT("/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		req := new(categoryRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		if err := cs.Update(c.Request().Context(), id, req.Name); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		if err := cs.Delete(c.Request().Context(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
	})
}
