package main

import (
	"net/http"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type roleRequest struct {
	Role string `json:"role"`
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService, tokens *middleware.Tokens) {
	auth := g.Group("/auth")

	// public
	auth.POST("/register", func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		u, err := authSvc.Register(c.Request().Context(), req.Name, req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, u)
	})

	auth.POST("/login", func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		token, err := tokens.Generate(user.UserID, user.Email, user.Role)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create token"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"token":      token,
			"expires_in": int(tokens.TTL().Seconds()),
			"user":       user,
		})
	})

	// authenticated
	auth.GET("/me", func(c echo.Context) error {
		u, err := authSvc.Me(c.Request().Context(), middleware.GetClaims(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, u)
	}, tokens.Middleware())
}

func registerUserRoutes(g *echo.Group, authSvc *services.AuthService, tokens *middleware.Tokens) {
	admin := g.Group("/admin/users", tokens.Middleware(), middleware.AdminOnly)

	admin.GET("", func(c echo.Context) error {
		list, err := authSvc.ListUsers(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	admin.GET("/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		u, err := authSvc.GetUser(c.Request().Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, u)
	})

	admin.PUT("/:id/role", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		req := new(roleRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		if err := authSvc.SetRole(c.Request().Context(), id, req.Role); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "role updated"})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		if id == middleware.GetClaims(c).UserID {
			return badRequest(c, "cannot delete your own account")
		}
		if err := authSvc.DeleteUser(c.Request().Context(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
	})
}
