package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPaid      OrderStatus = "Paid"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderPaid, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrInvalidOrderStatus
}

// allowed administrative transitions; Delivered and Cancelled are final
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderDelivered, OrderCancelled},
	OrderPaid:    {OrderDelivered, OrderCancelled},
}

// CanTransition reports whether an order in status from may move to to.
func (from OrderStatus) CanTransition(to OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PaymentMode is chosen by the customer when confirming the cart.
type PaymentMode string

const (
	PayInStore PaymentMode = "in_store"
	PayOnline  PaymentMode = "online"
)

var ErrInvalidPaymentMode = errors.New("payment mode must be 'in_store' or 'online'")

func ParsePaymentMode(s string) (PaymentMode, error) {
	switch PaymentMode(s) {
	case PayInStore:
		return PayInStore, nil
	case PayOnline:
		return PayOnline, nil
	}
	return "", ErrInvalidPaymentMode
}

// InitialStatus is the status an order is created with.
func (m PaymentMode) InitialStatus() OrderStatus {
	if m == PayOnline {
		return OrderPaid
	}
	return OrderPending
}

// Order represents an entry in the orders table
type Order struct {
	OrderID     int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Reference   string          `json:"reference"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	PaymentMode PaymentMode     `json:"payment_mode"`
	CreatedAt   time.Time       `json:"created_at"`
	Lines       []OrderLine     `json:"lines,omitempty"`
}

// OrderLine is the immutable price/quantity record of one purchased item.
type OrderLine struct {
	OrderLineID int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ItemType    ItemType        `json:"item_type"`
	ItemID      int64           `json:"item_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewOrder is the header written by a confirmation.
type NewOrder struct {
	UserID      int64
	Reference   string
	Total       decimal.Decimal
	Status      OrderStatus
	PaymentMode PaymentMode
}

// OrderSummary is returned by a successful confirmation.
type OrderSummary struct {
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	Reference   string          `json:"reference"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	PaymentMode PaymentMode     `json:"payment_mode"`
	ItemCount   int             `json:"item_count"`
}
