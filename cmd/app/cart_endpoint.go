package main

import (
	"net/http"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
)

type addCartRequest struct {
	ItemType string `json:"item_type"`
	ItemID   int64  `json:"item_id"`
	Qty      int    `json:"quantity"`
}

type updateCartRequest struct {
	Qty int `json:"quantity"`
}

// itemParams reads the :type/:id pair used by cart and wishlist routes.
func itemParams(c echo.Context) (model.ItemType, int64, bool) {
	t, err := model.ParseItemType(c.Param("type"))
	if err != nil {
		return "", 0, false
	}
	id, ok := paramID(c, "id")
	return t, id, ok
}

func registerCartRoutes(g *echo.Group, cs *services.CartService, tokens *middleware.Tokens) {
	p := g.Group("/cart")
	p.Use(tokens.Middleware())

	// GET cart
	p.GET("", func(c echo.Context) error {
		cart, err := cs.Get(c.Request().Context(), middleware.GetClaims(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, cart)
	})

	// ADD item
	p.POST("", func(c echo.Context) error {
		req := new(addCartRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		t, err := model.ParseItemType(req.ItemType)
		if err != nil {
			return respondError(c, err)
		}
		if req.Qty == 0 {
			req.Qty = 1
		}
		if err := cs.Add(c.Request().Context(), middleware.GetClaims(c).UserID, t, req.ItemID, req.Qty); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": "added"})
	})

	// UPDATE quantity
	p.PUT("/:type/:id", func(c echo.Context) error {
		t, id, ok := itemParams(c)
		if !ok {
			return badRequest(c, "invalid item")
		}
		req := new(updateCartRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		if err := cs.Update(c.Request().Context(), middleware.GetClaims(c).UserID, t, id, req.Qty); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	// REMOVE item
	p.DELETE("/:type/:id", func(c echo.Context) error {
		t, id, ok := itemParams(c)
		if !ok {
			return badRequest(c, "invalid item")
		}
		if err := cs.Remove(c.Request().Context(), middleware.GetClaims(c).UserID, t, id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "removed"})
	})

	// CLEAR cart
	p.DELETE("", func(c echo.Context) error {
		if err := cs.Clear(c.Request().Context(), middleware.GetClaims(c).UserID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "cleared"})
	})
}
