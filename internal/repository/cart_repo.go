package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CartRepository struct {
	DB *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

// ItemInfo returns the current name, price and stock of a catalog item.
func (r *CartRepository) ItemInfo(ctx context.Context, t model.ItemType, itemID int64) (name string, price decimal.Decimal, stock int, err error) {
	table, err := itemTable(t)
	if err != nil {
		return "", decimal.Zero, 0, err
	}
	query := `SELECT name, price, stock FROM ` + table + ` WHERE id=$1 AND deleted_at IS NULL`
	if err := r.DB.QueryRow(ctx, query, itemID).Scan(&name, &price, &stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", decimal.Zero, 0, notFound(string(t))
		}
		return "", decimal.Zero, 0, err
	}
	return name, price, stock, nil
}

// Quantity returns the quantity of an item already in the cart, 0 if absent.
func (r *CartRepository) Quantity(ctx context.Context, userID int64, t model.ItemType, itemID int64) (int, error) {
	var qty int
	query := `SELECT quantity FROM cart_items WHERE user_id=$1 AND item_type=$2 AND item_id=$3`
	err := r.DB.QueryRow(ctx, query, userID, t, itemID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return qty, err
}

// AddOrIncrement inserts a cart line or increments its quantity. The unit
// price of an existing line is refreshed to the given price.
func (r *CartRepository) AddOrIncrement(ctx context.Context, userID int64, t model.ItemType, itemID int64, qty int, unitPrice decimal.Decimal) error {
	query := `
		INSERT INTO cart_items (user_id, item_type, item_id, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, item_type, item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              unit_price = EXCLUDED.unit_price
	`
	_, err := r.DB.Exec(ctx, query, userID, t, itemID, qty, unitPrice, time.Now())
	return err
}

// SetQuantity sets exact quantity for a cart line
func (r *CartRepository) SetQuantity(ctx context.Context, userID int64, t model.ItemType, itemID int64, qty int) error {
	query := `UPDATE cart_items SET quantity=$1 WHERE user_id=$2 AND item_type=$3 AND item_id=$4`
	tag, err := r.DB.Exec(ctx, query, qty, userID, t, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("cart item")
	}
	return nil
}

func (r *CartRepository) Remove(ctx context.Context, userID int64, t model.ItemType, itemID int64) error {
	query := `DELETE FROM cart_items WHERE user_id=$1 AND item_type=$2 AND item_id=$3`
	tag, err := r.DB.Exec(ctx, query, userID, t, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("cart item")
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}

// Items returns the cart lines joined with the item names.
func (r *CartRepository) Items(ctx context.Context, userID int64) ([]model.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.item_type, ci.item_id, ci.quantity, ci.unit_price,
		       COALESCE(p.name, c.name, '')
		FROM cart_items ci
		LEFT JOIN products p ON ci.item_type = 'product' AND p.id = ci.item_id
		LEFT JOIN cards c ON ci.item_type = 'card' AND c.id = ci.item_id
		WHERE ci.user_id=$1
		ORDER BY ci.id
	`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.CartLineID, &it.UserID, &it.ItemType, &it.ItemID, &it.Quantity, &it.UnitPrice, &it.Name); err != nil {
			return nil, err
		}
		it.LineTotal = it.Subtotal()
		items = append(items, it)
	}
	return items, rows.Err()
}
