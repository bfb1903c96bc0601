package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckoutTx is the set of statements order confirmation and cancellation run
// inside one database transaction.
type CheckoutTx interface {
	// CartLines returns the user's cart in insertion order, locking the rows.
	CartLines(ctx context.Context, userID int64) ([]model.CartLine, error)
	// LockStock reads the stock of one item with FOR UPDATE.
	LockStock(ctx context.Context, t model.ItemType, itemID int64) (int, error)
	InsertOrder(ctx context.Context, o model.NewOrder) (int64, error)
	InsertOrderLine(ctx context.Context, orderID int64, l model.CartLine) error
	DecrementStock(ctx context.Context, t model.ItemType, itemID int64, qty int) error
	IncrementStock(ctx context.Context, t model.ItemType, itemID int64, qty int) error
	// ClearCart deletes the given cart lines of the user. Lines added after
	// CartLines ran are left alone.
	ClearCart(ctx context.Context, userID int64, lineIDs []int64) error

	// LockOrder reads an order header with FOR UPDATE, lines included.
	LockOrder(ctx context.Context, orderID int64) (*model.Order, error)
	SetOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// MarkPaymentFailed flips the order's payment from Pending to Failed. It
	// reports false when no pending payment was left.
	MarkPaymentFailed(ctx context.Context, orderID int64, payload []byte) (bool, error)
}

type CheckoutRepository struct {
	DB          *pgxpool.Pool
	LockTimeout time.Duration
}

func NewCheckoutRepository(db *pgxpool.Pool, lockTimeout time.Duration) *CheckoutRepository {
	return &CheckoutRepository{DB: db, LockTimeout: lockTimeout}
}

// WithTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; every other path rolls back.
func (r *CheckoutRepository) WithTx(ctx context.Context, fn func(tx CheckoutTx) error) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if r.LockTimeout > 0 {
		// SET does not take bind parameters
		q := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.LockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, q); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	if err := fn(&checkoutTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type checkoutTx struct {
	tx pgx.Tx
}

func (t *checkoutTx) CartLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	query := `
		SELECT id, user_id, item_type, item_id, quantity, unit_price
		FROM cart_items
		WHERE user_id=$1
		ORDER BY id
		FOR UPDATE
	`
	rows, err := t.tx.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.CartLineID, &l.UserID, &l.ItemType, &l.ItemID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (t *checkoutTx) LockStock(ctx context.Context, it model.ItemType, itemID int64) (int, error) {
	table, err := itemTable(it)
	if err != nil {
		return 0, err
	}
	var stock int
	query := `SELECT stock FROM ` + table + ` WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`
	if err := t.tx.QueryRow(ctx, query, itemID).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound(fmt.Sprintf("%s %d", it, itemID))
		}
		return 0, mapLockError(err)
	}
	return stock, nil
}

func (t *checkoutTx) InsertOrder(ctx context.Context, o model.NewOrder) (int64, error) {
	var id int64
	query := `
		INSERT INTO orders (user_id, reference, total, status, payment_mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := t.tx.QueryRow(ctx, query, o.UserID, o.Reference, o.Total, o.Status, o.PaymentMode, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (t *checkoutTx) InsertOrderLine(ctx context.Context, orderID int64, l model.CartLine) error {
	query := `
		INSERT INTO order_lines (order_id, item_type, item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := t.tx.Exec(ctx, query, orderID, l.ItemType, l.ItemID, l.Quantity, l.UnitPrice)
	return err
}

func (t *checkoutTx) DecrementStock(ctx context.Context, it model.ItemType, itemID int64, qty int) error {
	table, err := itemTable(it)
	if err != nil {
		return err
	}
	query := `UPDATE ` + table + ` SET stock = stock - $1 WHERE id=$2 AND stock >= $1`
	tag, err := t.tx.Exec(ctx, query, qty, itemID)
	if err != nil {
		return mapLockError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decrement stock of %s %d: not enough units", it, itemID)
	}
	return nil
}

func (t *checkoutTx) IncrementStock(ctx context.Context, it model.ItemType, itemID int64, qty int) error {
	table, err := itemTable(it)
	if err != nil {
		return err
	}
	query := `UPDATE ` + table + ` SET stock = stock + $1 WHERE id=$2`
	if _, err := t.tx.Exec(ctx, query, qty, itemID); err != nil {
		return mapLockError(err)
	}
	return nil
}

func (t *checkoutTx) ClearCart(ctx context.Context, userID int64, lineIDs []int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1 AND id = ANY($2)`, userID, lineIDs)
	return err
}

func (t *checkoutTx) LockOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	var o model.Order
	query := `
		SELECT id, user_id, reference, total, status, payment_mode, created_at
		FROM orders WHERE id=$1 FOR UPDATE
	`
	if err := t.tx.QueryRow(ctx, query, orderID).Scan(
		&o.OrderID, &o.UserID, &o.Reference, &o.Total, &o.Status, &o.PaymentMode, &o.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("order")
		}
		return nil, mapLockError(err)
	}
	lines, err := scanOrderLines(ctx, t.tx, orderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (t *checkoutTx) SetOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE orders SET status=$1 WHERE id=$2`, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("order")
	}
	return nil
}

func (t *checkoutTx) MarkPaymentFailed(ctx context.Context, orderID int64, payload []byte) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE payments
		SET status='Failed',
		    provider_payload=$2
		WHERE order_id=$1
		  AND status='Pending'
	`, orderID, payload)
	if err != nil {
		return false, mapLockError(err)
	}
	return tag.RowsAffected() > 0, nil
}

// lock_not_available
const pgLockNotAvailable = "55P03"

func mapLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return fmt.Errorf("%w: %s", ErrLockTimeout, pgErr.Message)
	}
	return err
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanOrderLines(ctx context.Context, q querier, orderID int64) ([]model.OrderLine, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, item_type, item_id, quantity, unit_price
		FROM order_lines
		WHERE order_id=$1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.OrderLineID, &l.OrderID, &l.ItemType, &l.ItemID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
