package services

import (
	"context"
	"fmt"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
)

type WishlistService struct {
	Repo *repository.WishlistRepository
}

func NewWishlistService(r *repository.WishlistRepository) *WishlistService {
	return &WishlistService{Repo: r}
}

func (s *WishlistService) Add(ctx context.Context, userID int64, t model.ItemType, itemID int64) error {
	if !t.Valid() {
		return model.ErrInvalidItemType
	}
	ok, err := s.Repo.Exists(ctx, t, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %w", t, repository.ErrNotFound)
	}
	return s.Repo.Add(ctx, userID, t, itemID)
}

func (s *WishlistService) Remove(ctx context.Context, userID int64, t model.ItemType, itemID int64) error {
	if !t.Valid() {
		return model.ErrInvalidItemType
	}
	return s.Repo.Remove(ctx, userID, t, itemID)
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	return s.Repo.List(ctx, userID)
}
