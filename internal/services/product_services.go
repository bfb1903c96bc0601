package services

import (
	"context"
	"strings"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
)

type ProductService struct {
	Repo       *repository.ProductRepository
	Categories *repository.CategoryRepository
}

func NewProductService(r *repository.ProductRepository, cr *repository.CategoryRepository) *ProductService {
	return &ProductService{Repo: r, Categories: cr}
}

func validateProduct(p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalidf("name is required")
	}
	if p.Price.IsNegative() {
		return invalidf("price must be >= 0")
	}
	if p.Stock < 0 {
		return invalidf("stock must be >= 0")
	}
	return nil
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *ProductService) Create(ctx context.Context, p *model.Product) (int64, error) {
	if err := validateProduct(p); err != nil {
		return 0, err
	}
	return s.Repo.Create(ctx, p)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, search string, limit, offset int) ([]model.Product, error) {
	limit, offset = pageBounds(limit, offset)
	return s.Repo.List(ctx, strings.TrimSpace(search), limit, offset)
}

func (s *ProductService) Update(ctx context.Context, p *model.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.Repo.Update(ctx, p)
}

// SetStock overwrites the stock counter (restock or inventory correction).
func (s *ProductService) SetStock(ctx context.Context, id int64, stock int) error {
	if stock < 0 {
		return invalidf("stock must be >= 0")
	}
	return s.Repo.SetStock(ctx, id, stock)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

func (s *ProductService) AddCategory(ctx context.Context, productID, categoryID int64) error {
	if _, err := s.Repo.GetByID(ctx, productID); err != nil {
		return err
	}
	if _, err := s.Categories.GetByID(ctx, categoryID); err != nil {
		return err
	}
	return s.Categories.AddProduct(ctx, productID, categoryID)
}

func (s *ProductService) RemoveCategory(ctx context.Context, productID, categoryID int64) error {
	return s.Categories.RemoveProduct(ctx, productID, categoryID)
}

func (s *ProductService) ListCategories(ctx context.Context, productID int64) ([]model.Category, error) {
	if _, err := s.Repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.Categories.ListByProduct(ctx, productID)
}
