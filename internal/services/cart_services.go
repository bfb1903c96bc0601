package services

import (
	"context"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/shopspring/decimal"
)

type CartStore interface {
	ItemInfo(ctx context.Context, t model.ItemType, itemID int64) (name string, price decimal.Decimal, stock int, err error)
	Quantity(ctx context.Context, userID int64, t model.ItemType, itemID int64) (int, error)
	AddOrIncrement(ctx context.Context, userID int64, t model.ItemType, itemID int64, qty int, unitPrice decimal.Decimal) error
	SetQuantity(ctx context.Context, userID int64, t model.ItemType, itemID int64, qty int) error
	Remove(ctx context.Context, userID int64, t model.ItemType, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	Items(ctx context.Context, userID int64) ([]model.CartItem, error)
}

type CartService struct {
	Repo CartStore
}

func NewCartService(r CartStore) *CartService {
	return &CartService{Repo: r}
}

// Add puts qty units of an item in the cart, capturing its current price.
// Stock is only checked here as a courtesy; confirmation re-checks it under lock.
func (s *CartService) Add(ctx context.Context, userID int64, t model.ItemType, itemID int64, qty int) error {
	if !t.Valid() {
		return model.ErrInvalidItemType
	}
	if qty <= 0 {
		return invalidf("quantity must be > 0")
	}
	_, price, stock, err := s.Repo.ItemInfo(ctx, t, itemID)
	if err != nil {
		return err
	}
	have, err := s.Repo.Quantity(ctx, userID, t, itemID)
	if err != nil {
		return err
	}
	if have+qty > stock {
		return &InsufficientStockError{ItemType: t, ItemID: itemID, Requested: have + qty, Available: stock}
	}
	return s.Repo.AddOrIncrement(ctx, userID, t, itemID, qty, price)
}

// Update sets quantity for an item in the cart
func (s *CartService) Update(ctx context.Context, userID int64, t model.ItemType, itemID int64, qty int) error {
	if !t.Valid() {
		return model.ErrInvalidItemType
	}
	if qty <= 0 {
		return invalidf("quantity must be > 0")
	}
	_, _, stock, err := s.Repo.ItemInfo(ctx, t, itemID)
	if err != nil {
		return err
	}
	if qty > stock {
		return &InsufficientStockError{ItemType: t, ItemID: itemID, Requested: qty, Available: stock}
	}
	return s.Repo.SetQuantity(ctx, userID, t, itemID, qty)
}

func (s *CartService) Remove(ctx context.Context, userID int64, t model.ItemType, itemID int64) error {
	if !t.Valid() {
		return model.ErrInvalidItemType
	}
	return s.Repo.Remove(ctx, userID, t, itemID)
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.Repo.Clear(ctx, userID)
}

// Get returns the cart (items + total)
func (s *CartService) Get(ctx context.Context, userID int64) (*model.CartResponse, error) {
	items, err := s.Repo.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for i := range items {
		items[i].LineTotal = items[i].Subtotal()
		total = total.Add(items[i].LineTotal)
	}
	return &model.CartResponse{Items: items, Total: total}, nil
}
