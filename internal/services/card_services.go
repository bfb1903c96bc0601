package services

import (
	"context"
	"strings"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
)

type CardService struct {
	Repo *repository.CardRepository
}

func NewCardService(r *repository.CardRepository) *CardService {
	return &CardService{Repo: r}
}

func validateCard(c *model.Card) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Game = strings.TrimSpace(c.Game)
	if c.Name == "" {
		return invalidf("name is required")
	}
	if c.Game == "" {
		return invalidf("game is required")
	}
	if c.Price.IsNegative() {
		return invalidf("price must be >= 0")
	}
	if c.Stock < 0 {
		return invalidf("stock must be >= 0")
	}
	return nil
}

func (s *CardService) Create(ctx context.Context, c *model.Card) (int64, error) {
	if err := validateCard(c); err != nil {
		return 0, err
	}
	return s.Repo.Create(ctx, c)
}

func (s *CardService) Get(ctx context.Context, id int64) (*model.Card, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *CardService) List(ctx context.Context, game, search string, limit, offset int) ([]model.Card, error) {
	limit, offset = pageBounds(limit, offset)
	return s.Repo.List(ctx, strings.TrimSpace(game), strings.TrimSpace(search), limit, offset)
}

func (s *CardService) Update(ctx context.Context, c *model.Card) error {
	if err := validateCard(c); err != nil {
		return err
	}
	return s.Repo.Update(ctx, c)
}

func (s *CardService) SetStock(ctx context.Context, id int64, stock int) error {
	if stock < 0 {
		return invalidf("stock must be >= 0")
	}
	return s.Repo.SetStock(ctx, id, stock)
}

func (s *CardService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
