package repository

import (
	"context"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type WishlistRepository struct {
	DB *pgxpool.Pool
}

func NewWishlistRepository(db *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{DB: db}
}

// Add is idempotent.
func (r *WishlistRepository) Add(ctx context.Context, userID int64, t model.ItemType, itemID int64) error {
	query := `
		INSERT INTO wishlist_items (user_id, item_type, item_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`
	_, err := r.DB.Exec(ctx, query, userID, t, itemID, time.Now())
	return err
}

func (r *WishlistRepository) Remove(ctx context.Context, userID int64, t model.ItemType, itemID int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id=$1 AND item_type=$2 AND item_id=$3`, userID, t, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("wishlist item")
	}
	return nil
}

func (r *WishlistRepository) List(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	query := `
		SELECT w.item_type, w.item_id, COALESCE(p.name, c.name, ''), w.created_at
		FROM wishlist_items w
		LEFT JOIN products p ON w.item_type = 'product' AND p.id = w.item_id
		LEFT JOIN cards c ON w.item_type = 'card' AND c.id = w.item_id
		WHERE w.user_id=$1
		ORDER BY w.created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.WishlistItem{}
	for rows.Next() {
		var it model.WishlistItem
		if err := rows.Scan(&it.ItemType, &it.ItemID, &it.Name, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Exists reports whether the catalog item is live.
func (r *WishlistRepository) Exists(ctx context.Context, t model.ItemType, itemID int64) (bool, error) {
	table, err := itemTable(t)
	if err != nil {
		return false, err
	}
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE id=$1 AND deleted_at IS NULL)`
	if err := r.DB.QueryRow(ctx, query, itemID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
