package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
)

type CategoryService struct {
	Repo     *repository.CategoryRepository
	Products *repository.ProductRepository
}

func NewCategoryService(r *repository.CategoryRepository, pr *repository.ProductRepository) *CategoryService {
	return &CategoryService{Repo: r, Products: pr}
}

func (s *CategoryService) Create(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalidf("category name is required")
	}
	exists, err := s.Repo.ExistsByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("category %w", ErrConflict)
	}
	return s.Repo.Create(ctx, name)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.Repo.List(ctx)
}

func (s *CategoryService) Update(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidf("category name is required")
	}
	return s.Repo.Update(ctx, id, name)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

func (s *CategoryService) ListProducts(ctx context.Context, categoryID int64) ([]model.Product, error) {
	if _, err := s.Repo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.Products.ListByCategory(ctx, categoryID)
}
