package repository

import (
	"context"
	"errors"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) CreatePending(
	ctx context.Context,
	orderID int64,
	amount decimal.Decimal,
	provider string,
	providerRef string,
	payload []byte,
) (int64, error) {

	var paymentID int64
	q := `
		INSERT INTO payments
			(order_id, amount, status, provider, provider_ref, provider_payload, created_at)
		VALUES
			($1, $2, 'Pending', $3, $4, $5, NOW())
		RETURNING id
	`
	err := r.DB.QueryRow(
		ctx, q,
		orderID, amount, provider, providerRef, payload,
	).Scan(&paymentID)

	return paymentID, err
}

// GetByOrderID returns nil, nil when the order has no payment yet.
func (r *PaymentRepository) GetByOrderID(
	ctx context.Context,
	orderID int64,
) (*model.Payment, error) {

	var p model.Payment

	q := `
		SELECT id, order_id, amount, status,
		       provider, provider_ref, provider_payload,
		       created_at, paid_at
		FROM payments
		WHERE order_id=$1
	`

	err := r.DB.QueryRow(ctx, q, orderID).Scan(
		&p.PaymentID,
		&p.OrderID,
		&p.Amount,
		&p.PaymentStatus,
		&p.PaymentProvider,
		&p.ProviderRef,
		&p.ProviderPayload,
		&p.CreatedAt,
		&p.PaidAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *PaymentRepository) MarkPaid(
	ctx context.Context,
	orderID int64,
	payload []byte,
) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET status='Paid',
		    provider_payload=$2,
		    paid_at=NOW()
		WHERE order_id=$1 AND status='Pending'
	`, orderID, payload)
	return err
}
