package main

import (
	"net/http"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/realtime"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// confirmRequest keeps the field names the web client posts.
type confirmRequest struct {
	UserID      *int64 `json:"id_usuario,omitempty"`
	PaymentMode string `json:"tipoPago"`
}

type confirmResponse struct {
	OrderID     int64             `json:"order_id"`
	Total       decimal.Decimal   `json:"total"`
	Status      model.OrderStatus `json:"status"`
	Reference   string            `json:"reference"`
	RedirectURL string            `json:"redirect_url,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func registerOrderRoutes(g *echo.Group, os *services.OrderService, ps *services.PaymentService, hub *realtime.Hub, tokens *middleware.Tokens) {
	p := g.Group("/orders")
	p.Use(tokens.Middleware())

	p.POST("/confirm", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		req := new(confirmRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}

		userID := cl.UserID
		if req.UserID != nil && *req.UserID != cl.UserID {
			if !cl.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "cannot confirm another user's cart"})
			}
			userID = *req.UserID
		}

		ctx := c.Request().Context()
		res, err := os.ConfirmOrder(ctx, userID, req.PaymentMode)
		if err != nil {
			return respondError(c, err)
		}

		resp := confirmResponse{
			OrderID:   res.OrderID,
			Total:     res.Total,
			Status:    res.Status,
			Reference: res.Reference,
		}
		if res.PaymentMode == model.PayOnline && ps.Enabled() {
			url, err := ps.CreateSnapPayment(ctx, res)
			if err != nil {
				log.Warn().Err(err).Int64("order_id", res.OrderID).Msg("create payment")
			}
			resp.RedirectURL = url
		}
		return c.JSON(http.StatusCreated, resp)
	})

	p.GET("", func(c echo.Context) error {
		list, err := os.ListMine(c.Request().Context(), middleware.GetClaims(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	p.GET("/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		cl := middleware.GetClaims(c)
		o, err := os.Get(c.Request().Context(), cl.UserID, cl.IsAdmin(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, o)
	})

	admin := g.Group("/admin/orders", tokens.Middleware(), middleware.AdminOnly)

	admin.GET("", func(c echo.Context) error {
		list, err := os.ListAll(c.Request().Context(), c.QueryParam("status"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	admin.PUT("/:id/status", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		req := new(statusRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		st, err := model.ParseOrderStatus(req.Status)
		if err != nil {
			return respondError(c, err)
		}
		o, err := os.UpdateStatus(c.Request().Context(), id, st)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, o)
	})

	if hub != nil {
		// live feed of order events, token via ?token= for browsers
		admin.GET("/feed", func(c echo.Context) error {
			if err := hub.ServeWS(c.Response(), c.Request()); err != nil {
				log.Debug().Err(err).Msg("websocket upgrade")
			}
			return nil
		})
	}
}
