package main

import (
	"net/http"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type cardRequest struct {
	Name      string          `json:"name"`
	Game      string          `json:"game"`
	SetName   string          `json:"set_name"`
	Rarity    string          `json:"rarity"`
	Condition string          `json:"condition"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	ImageURL  *string         `json:"image_url,omitempty"`
}

func (r *cardRequest) toModel(id int64) *model.Card {
	return &model.Card{
		CardID:    id,
		Name:      r.Name,
		Game:      r.Game,
		SetName:   r.SetName,
		Rarity:    r.Rarity,
		Condition: r.Condition,
		Price:     r.Price,
		Stock:     r.Stock,
		ImageURL:  r.ImageURL,
	}
}

func registerCardRoutes(g *echo.Group, cs *services.CardService, tokens *middleware.Tokens) {
	// public list, ?game= filters by card game
	g.GET("/cards", func(c echo.Context) error {
		limit, offset := pagination(c)
		list, err := cs.List(c.Request().Context(), c.QueryParam("game"), c.QueryParam("q"), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/cards/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		card, err := cs.Get(c.Request().Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, card)
	})

	admin := g.Group("/cards", tokens.Middleware(), middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		req := new(cardRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		id, err := cs.Create(c.Request().Context(), req.toModel(0))
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
		req := new(cardRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		if err := cs.Update(c.Request().Context(), req.toModel(id)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	admin.PUT("/:id/stock", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		req := new(stockRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		if err := cs.SetStock(c.Request().Context(), id, req.Stock); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "stock updated"})
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
