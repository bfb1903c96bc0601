package repository

import (
	"context"
	"errors"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, user_id, reference, total, status, payment_mode, created_at`

// ListByUser returns the orders of one user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY id DESC`
	return r.list(ctx, query, userID)
}

// ListAll returns every order, optionally filtered by status.
func (r *OrderRepository) ListAll(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if status != nil {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 ORDER BY id DESC`
		return r.list(ctx, query, *status)
	}
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id DESC`)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.OrderID, &o.UserID, &o.Reference, &o.Total, &o.Status, &o.PaymentMode, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetByID returns the order with its lines.
func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	var o model.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	if err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&o.OrderID, &o.UserID, &o.Reference, &o.Total, &o.Status, &o.PaymentMode, &o.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("order")
		}
		return nil, err
	}
	lines, err := scanOrderLines(ctx, r.DB, orderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

// UserEmail returns the e-mail and name of the order's owner.
func (r *OrderRepository) UserEmail(ctx context.Context, userID int64) (email, name string, err error) {
	query := `SELECT email, name FROM users WHERE id=$1`
	if err := r.DB.QueryRow(ctx, query, userID).Scan(&email, &name); err != nil {
		return "", "", err
	}
	return email, name, nil
}
