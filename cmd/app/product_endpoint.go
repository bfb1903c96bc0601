package main

import (
	"net/http"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

func (r *productRequest) toModel(id int64) *model.Product {
	return &model.Product{
		ProductID:   id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
	}
}

type stockRequest struct {
	Stock int `json:"stock"`
}

// registerProductRoutes mounts product endpoints to the provided group.
// Public:
//
//	GET /products                     -> list (?q=&limit=&offset=)
//	GET /products/:id                 -> get
//	GET /products/:id/categories      -> categories of a product
//
// Admin:
//
//	POST   /products                  -> create
//	PUT    /products/:id              -> update
//	PUT    /products/:id/stock        -> set stock
//	DELETE /products/:id              -> soft delete
//	POST   /products/:id/categories/:categoryId
//	DELETE /products/:id/categories/:categoryId
func registerProductRoutes(g *echo.Group, ps *services.ProductService, tokens *middleware.Tokens) {
	g.GET("/products", func(c echo.Context) error {
		limit, offset := pagination(c)
		list, err := ps.List(c.Request().Context(), c.QueryParam("q"), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/products/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		p, err := ps.Get(c.Request().Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})

	g.GET("/products/:id/categories", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		list, err := ps.ListCategories(c.Request().Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	admin := g.Group("/products", tokens.Middleware(), middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		req := new(productRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		id, err := ps.Create(c.Request().Context(), req.toModel(0))
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
		req := new(productRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		if err := ps.Update(c.Request().Context(), req.toModel(id)); err != nil {
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
		if err := ps.SetStock(c.Request().Context(), id, req.Stock); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "stock updated"})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "invalid id")
		}
		if err := ps.Delete(c.Request().Context(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
	})

	admin.POST("/:id/categories/:categoryId", func(c echo.Context) error {
		id, ok1 := paramID(c, "id")
		catID, ok2 := paramID(c, "categoryId")
		if !ok1 || !ok2 {
			return badRequest(c, "invalid id")
		}
		if err := ps.AddCategory(c.Request().Context(), id, catID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": "category assigned"})
	})

	admin.DELETE("/:id/categories/:categoryId", func(c echo.Context) error {
		id, ok1 := paramID(c, "id")
		catID, ok2 := paramID(c, "categoryId")
		if !ok1 || !ok2 {
			return badRequest(c, "invalid id")
		}
		if err := ps.RemoveCategory(c.Request().Context(), id, catID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "category removed"})
	})
}
