package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

type catalogItem struct {
	name  string
	price decimal.Decimal
	stock int
}

type fakeCart struct {
	catalog map[itemKey]catalogItem
	lines   map[itemKey]model.CartLine
}

func newFakeCart() *fakeCart {
	return &fakeCart{catalog: map[itemKey]catalogItem{}, lines: map[itemKey]model.CartLine{}}
}

func (f *fakeCart) ItemInfo(ctx context.Context, t model.ItemType, id int64) (string, decimal.Decimal, int, error) {
	it, ok := f.catalog[itemKey{t, id}]
	if !ok {
		return "", decimal.Zero, 0, fmt.Errorf("%s %w", t, repository.ErrNotFound)
	}
	return it.name, it.price, it.stock, nil
}

func (f *fakeCart) Quantity(ctx context.Context, userID int64, t model.ItemType, id int64) (int, error) {
	return f.lines[itemKey{t, id}].Quantity, nil
}

func (f *fakeCart) AddOrIncrement(ctx context.Context, userID int64, t model.ItemType, id int64, qty int, price decimal.Decimal) error {
	l := f.lines[itemKey{t, id}]
	l.UserID, l.ItemType, l.ItemID = userID, t, id
	l.Quantity += qty
	l.UnitPrice = price
	f.lines[itemKey{t, id}] = l
	return nil
}

func (f *fakeCart) SetQuantity(ctx context.Context, userID int64, t model.ItemType, id int64, qty int) error {
	l, ok := f.lines[itemKey{t, id}]
	if !ok {
		return fmt.Errorf("cart item %w", repository.ErrNotFound)
	}
	l.Quantity = qty
	f.lines[itemKey{t, id}] = l
	return nil
}

func (f *fakeCart) Remove(ctx context.Context, userID int64, t model.ItemType, id int64) error {
	delete(f.lines, itemKey{t, id})
	return nil
}

func (f *fakeCart) Clear(ctx context.Context, userID int64) error {
	f.lines = map[itemKey]model.CartLine{}
	return nil
}

func (f *fakeCart) Items(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var out []model.CartItem
	for k, l := range f.lines {
		out = append(out, model.CartItem{CartLine: l, Name: f.catalog[k].name})
	}
	return out, nil
}

func TestCartAddCapturesPriceAndChecksStock(t *testing.T) {
	repo := newFakeCart()
	repo.catalog[itemKey{model.ItemProduct, 7}] = catalogItem{"Figura", decimal.RequireFromString("9.99"), 3}
	svc := NewCartService(repo)
	ctx := context.Background()

	if err := svc.Add(ctx, 1, model.ItemProduct, 7, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, 1, model.ItemProduct, 7, 2); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("over stock: err = %v, want ErrInsufficientStock", err)
	}
	if err := svc.Add(ctx, 1, model.ItemProduct, 7, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cart, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("cart = %+v", cart.Items)
	}
	if !cart.Total.Equal(decimal.RequireFromString("29.97")) {
		t.Errorf("total = %s, want 29.97", cart.Total)
	}
}

func TestCartValidation(t *testing.T) {
	repo := newFakeCart()
	svc := NewCartService(repo)
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"bad type", svc.Add(ctx, 1, "poster", 1, 1), func(err error) bool { return errors.Is(err, model.ErrInvalidItemType) }},
		{"zero qty", svc.Add(ctx, 1, model.ItemCard, 1, 0), func(err error) bool { var v *ValidationError; return errors.As(err, &v) }},
		{"missing item", svc.Add(ctx, 1, model.ItemCard, 1, 1), func(err error) bool { return errors.Is(err, repository.ErrNotFound) }},
		{"update zero", svc.Update(ctx, 1, model.ItemCard, 1, 0), func(err error) bool { var v *ValidationError; return errors.As(err, &v) }},
	}
	for _, tt := range tests {
		if !tt.want(tt.err) {
			t.Errorf("%s: unexpected err %v", tt.name, tt.err)
		}
	}
}
