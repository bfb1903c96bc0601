package main

import (
	"net/http"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
)

type eventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    *int      `json:"capacity,omitempty"`
}

func (r *eventRequest) toModel(id int64) *model.Event {
	return &model.Event{
		EventID:     id,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartsAt:    r.StartsAt,
		Capacity:    r.Capacity,
	}
}

func registerEventRoutes(g *echo.Group, es *services.EventService, tokens *middleware.Tokens) {
	g.GET("/events", func(c echo.Context) error {
		list, err := es.Upcoming(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/events/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		e, err := es.Get(c.Request().Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, e)
	})

	admin := g.Group("/events", tokens.Middleware(), middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		req := new(eventRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		id, err := es.Create(c.Request().Context(), req.toModel(0))
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
		req := new(eventRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		if err := es.Update(c.Request().Context(), req.toModel(id)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		if err := es.Delete(c.Request().Context(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
	})
}
