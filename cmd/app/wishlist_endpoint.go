package main

import (
	"net/http"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
)

type wishlistRequest struct {
	ItemType string `json:"item_type"`
	ItemID   int64  `json:"item_id"`
}

func registerWishlistRoutes(g *echo.Group, ws *services.WishlistService, tokens *middleware.Tokens) {
	p := g.Group("/wishlist")
	p.Use(tokens.Middleware())

	p.GET("", func(c echo.Context) error {
		list, err := ws.List(c.Request().Context(), middleware.GetClaims(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	p.POST("", func(c echo.Context) error {
		req := new(wishlistRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		t, err := model.ParseItemType(req.ItemType)
		if err != nil {
			return respondError(c, err)
		}
		if err := ws.Add(c.Request().Context(), middleware.GetClaims(c).UserID, t, req.ItemID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": "added"})
	})

	p.DELETE("/:type/:id", func(c echo.Context) error {
		t, id, ok := itemParams(c)
		if !ok {
			return badRequest(c, "invalid item")
		}
		if err := ws.Remove(c.Request().Context(), middleware.GetClaims(c).UserID, t, id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "removed"})
	})
}
