package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidPaymentMode = model.ErrInvalidPaymentMode
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrItemNotFound       = errors.New("item in cart no longer exists")
	ErrStockLockTimeout   = repository.ErrLockTimeout
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrForbidden          = errors.New("forbidden")
)

// InsufficientStockError names the first cart line that cannot be served.
type InsufficientStockError struct {
	ItemType  model.ItemType
	ItemID    int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s %d: requested %d, available %d",
		e.ItemType, e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// CheckoutStore runs a function inside one database transaction, committing
// only when it returns nil.
type CheckoutStore interface {
	WithTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error
}

type OrderReader interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListAll(ctx context.Context, status *model.OrderStatus) ([]model.Order, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	UserEmail(ctx context.Context, userID int64) (email, name string, err error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

type Broadcaster interface {
	Broadcast(v any)
}

const (
	RKOrderConfirmed     = "order.confirmed"
	RKOrderStatusChanged = "order.status_changed"
)

// OrderEvent is published on the message bus and pushed to the admin feed.
type OrderEvent struct {
	Event       string            `json:"event"`
	OrderID     int64             `json:"order_id"`
	UserID      int64             `json:"user_id"`
	Reference   string            `json:"reference"`
	Total       string            `json:"total"`
	Status      model.OrderStatus `json:"status"`
	PaymentMode model.PaymentMode `json:"payment_mode"`
	Lines       []model.OrderLine `json:"lines,omitempty"`
	At          time.Time         `json:"at"`
}

type OrderService struct {
	Checkout CheckoutStore
	Orders   OrderReader

	// optional collaborators, nil disables them
	Events EventPublisher
	Feed   Broadcaster
	Mail   Mailer

	newReference func() string
}

func NewOrderService(cs CheckoutStore, or OrderReader) *OrderService {
	return &OrderService{
		Checkout:     cs,
		Orders:       or,
		newReference: func() string { return "RF-" + uuid.NewString() },
	}
}

// ConfirmOrder turns the user's cart into an order in one transaction: it
// locks the stock of every line, writes the order and its lines, decrements
// stock and clears the cart. Any failure leaves cart, stock and orders as
// they were. Nothing is retried.
func (s *OrderService) ConfirmOrder(ctx context.Context, userID int64, paymentMode string) (*model.OrderSummary, error) {
	mode, err := model.ParsePaymentMode(paymentMode)
	if err != nil {
		return nil, ErrInvalidPaymentMode
	}

	var (
		summary model.OrderSummary
		lines   []model.OrderLine
	)
	err = s.Checkout.WithTx(ctx, func(tx repository.CheckoutTx) error {
		cart, err := tx.CartLines(ctx, userID)
		if err != nil {
			return fmt.Errorf("read cart: %w", err)
		}
		if len(cart) == 0 {
			return ErrEmptyCart
		}

		for _, l := range cart {
			available, err := tx.LockStock(ctx, l.ItemType, l.ItemID)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %s %d", ErrItemNotFound, l.ItemType, l.ItemID)
			}
			if err != nil {
				return fmt.Errorf("lock stock: %w", err)
			}
			if l.Quantity > available {
				return &InsufficientStockError{
					ItemType:  l.ItemType,
					ItemID:    l.ItemID,
					Requested: l.Quantity,
					Available: available,
				}
			}
		}

		head := model.NewOrder{
			UserID:      userID,
			Reference:   s.newReference(),
			Total:       model.CartTotal(cart),
			Status:      mode.InitialStatus(),
			PaymentMode: mode,
		}
		orderID, err := tx.InsertOrder(ctx, head)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		lines = make([]model.OrderLine, 0, len(cart))
		for _, l := range cart {
			if err := tx.InsertOrderLine(ctx, orderID, l); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
			if err := tx.DecrementStock(ctx, l.ItemType, l.ItemID, l.Quantity); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			lines = append(lines, model.OrderLine{
				OrderID:   orderID,
				ItemType:  l.ItemType,
				ItemID:    l.ItemID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			})
		}

		ids := make([]int64, len(cart))
		for i, l := range cart {
			ids[i] = l.CartLineID
		}
		if err := tx.ClearCart(ctx, userID, ids); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		summary = model.OrderSummary{
			OrderID:     orderID,
			UserID:      userID,
			Reference:   head.Reference,
			Total:       head.Total,
			Status:      head.Status,
			PaymentMode: mode,
			ItemCount:   len(cart),
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("payment_mode", paymentMode).Msg("order confirmation failed")
		return nil, err
	}

	log.Info().
		Int64("order_id", summary.OrderID).
		Int64("user_id", userID).
		Str("total", summary.Total.StringFixed(2)).
		Str("status", string(summary.Status)).
		Msg("order confirmed")

	s.notify(ctx, RKOrderConfirmed, summary, lines)
	if s.Mail != nil {
		go s.sendConfirmation(context.WithoutCancel(ctx), summary, lines)
	}
	return &summary, nil
}

// UpdateStatus applies an administrative status transition. Cancelling an
// order puts its units back in stock within the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, to model.OrderStatus) (*model.Order, error) {
	var updated *model.Order
	err := s.Checkout.WithTx(ctx, func(tx repository.CheckoutTx) error {
		o, err := transition(ctx, tx, orderID, to)
		updated = o
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", orderID).Str("status", string(to)).Msg("order status changed")
	s.notifyStatus(ctx, updated)
	return updated, nil
}

// CancelUnpaid fails the order's pending payment and cancels the order, with
// its restock, in one transaction. It reports false when the payment was no
// longer pending. An order that can no longer be cancelled keeps its status
// while the payment is still marked failed.
func (s *OrderService) CancelUnpaid(ctx context.Context, orderID int64, payload []byte) (bool, error) {
	var (
		failed    bool
		cancelled *model.Order
	)
	err := s.Checkout.WithTx(ctx, func(tx repository.CheckoutTx) error {
		ok, err := tx.MarkPaymentFailed(ctx, orderID, payload)
		if err != nil {
			return fmt.Errorf("mark payment failed: %w", err)
		}
		if !ok {
			return nil
		}
		failed = true

		o, err := transition(ctx, tx, orderID, model.OrderCancelled)
		if errors.Is(err, ErrInvalidTransition) {
			log.Warn().Int64("order_id", orderID).Msg("payment failed for an order that can no longer be cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return false, err
	}

	if cancelled != nil {
		log.Info().Int64("order_id", orderID).Msg("payment failed, order cancelled")
		s.notifyStatus(ctx, cancelled)
	}
	return failed, nil
}

func transition(ctx context.Context, tx repository.CheckoutTx, orderID int64, to model.OrderStatus) (*model.Order, error) {
	o, err := tx.LockOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	if to == model.OrderCancelled {
		for _, l := range o.Lines {
			if err := tx.IncrementStock(ctx, l.ItemType, l.ItemID, l.Quantity); err != nil {
				return nil, fmt.Errorf("restock: %w", err)
			}
		}
	}
	if err := tx.SetOrderStatus(ctx, orderID, to); err != nil {
		return nil, err
	}
	o.Status = to
	return o, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context, status string) ([]model.Order, error) {
	if status == "" {
		return s.Orders.ListAll(ctx, nil)
	}
	st, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return s.Orders.ListAll(ctx, &st)
}

// Get returns an order with its lines. Non-admins only see their own orders.
func (s *OrderService) Get(ctx context.Context, userID int64, isAdmin bool, orderID int64) (*model.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrForbidden
	}
	return o, nil
}

// notify is best effort; the order is already committed.
func (s *OrderService) notify(ctx context.Context, event string, o model.OrderSummary, lines []model.OrderLine) {
	evt := OrderEvent{
		Event:       event,
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		Reference:   o.Reference,
		Total:       o.Total.StringFixed(2),
		Status:      o.Status,
		PaymentMode: o.PaymentMode,
		Lines:       lines,
		At:          time.Now(),
	}
	if s.Events != nil {
		if err := s.Events.PublishJSON(ctx, event, evt); err != nil {
			log.Warn().Err(err).Int64("order_id", o.OrderID).Str("event", event).Msg("publish order event")
		}
	}
	if s.Feed != nil {
		s.Feed.Broadcast(evt)
	}
}

func (s *OrderService) notifyStatus(ctx context.Context, o *model.Order) {
	s.notify(ctx, RKOrderStatusChanged, model.OrderSummary{
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		Reference:   o.Reference,
		Total:       o.Total,
		Status:      o.Status,
		PaymentMode: o.PaymentMode,
		ItemCount:   len(o.Lines),
	}, nil)
}

func (s *OrderService) sendConfirmation(ctx context.Context, o model.OrderSummary, lines []model.OrderLine) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	email, name, err := s.Orders.UserEmail(ctx, o.UserID)
	if err != nil {
		log.Warn().Err(err).Int64("order_id", o.OrderID).Msg("confirmation mail: lookup user")
		return
	}
	html, err := renderOrderEmail(name, o, lines)
	if err != nil {
		log.Warn().Err(err).Int64("order_id", o.OrderID).Msg("confirmation mail: render")
		return
	}
	if err := s.Mail.SendHTML(ctx, email, "Tu pedido "+o.Reference, html); err != nil {
		log.Warn().Err(err).Int64("order_id", o.OrderID).Msg("confirmation mail: send")
	}
}
