package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type stockKey struct {
	t  model.ItemType
	id int64
}

// shopStore is a single-lock in-memory checkout store. Writes stay staged
// until the transaction function returns nil.
type shopStore struct {
	mu     sync.Mutex
	carts  map[int64][]model.CartLine
	stock  map[stockKey]int
	orders map[int64]*model.Order
}

func newShopStore() *shopStore {
	return &shopStore{carts: map[int64][]model.CartLine{}, stock: map[stockKey]int{}, orders: map[int64]*model.Order{}}
}

func (s *shopStore) WithTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &shopTx{s: s, stock: map[stockKey]int{}, cleared: map[int64]bool{}}
	for k, v := range s.stock {
		tx.stock[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.stock = tx.stock
	for u := range tx.cleared {
		delete(s.carts, u)
	}
	for _, o := range tx.orders {
		s.orders[o.OrderID] = o
	}
	for id, st := range tx.status {
		s.orders[id].Status = st
	}
	return nil
}

func (s *shopStore) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return nil, nil
}

func (s *shopStore) ListAll(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	return nil, nil
}

func (s *shopStore) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %w", repository.ErrNotFound)
	}
	return o, nil
}

func (s *shopStore) UserEmail(ctx context.Context, userID int64) (string, string, error) {
	return "", "", errors.New("not used")
}

type shopTx struct {
	s       *shopStore
	stock   map[stockKey]int
	cleared map[int64]bool
	orders  []*model.Order
	status  map[int64]model.OrderStatus
}

func (t *shopTx) CartLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return t.s.carts[userID], nil
}

func (t *shopTx) LockStock(ctx context.Context, it model.ItemType, id int64) (int, error) {
	n, ok := t.stock[stockKey{it, id}]
	if !ok {
		return 0, fmt.Errorf("%s %w", it, repository.ErrNotFound)
	}
	return n, nil
}

func (t *shopTx) InsertOrder(ctx context.Context, o model.NewOrder) (int64, error) {
	id := int64(len(t.s.orders) + len(t.orders) + 1)
	t.orders = append(t.orders, &model.Order{OrderID: id, UserID: o.UserID, Reference: o.Reference,
		Total: o.Total, Status: o.Status, PaymentMode: o.PaymentMode, CreatedAt: time.Now()})
	return id, nil
}

func (t *shopTx) InsertOrderLine(ctx context.Context, orderID int64, l model.CartLine) error {
	for _, o := range t.orders {
		if o.OrderID == orderID {
			o.Lines = append(o.Lines, model.OrderLine{OrderID: orderID, ItemType: l.ItemType,
				ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
		}
	}
	return nil
}

func (t *shopTx) DecrementStock(ctx context.Context, it model.ItemType, id int64, qty int) error {
	t.stock[stockKey{it, id}] -= qty
	return nil
}

func (t *shopTx) IncrementStock(ctx context.Context, it model.ItemType, id int64, qty int) error {
	t.stock[stockKey{it, id}] += qty
	return nil
}

func (t *shopTx) ClearCart(ctx context.Context, userID int64, lineIDs []int64) error {
	t.cleared[userID] = true
	return nil
}

func (t *shopTx) MarkPaymentFailed(ctx context.Context, orderID int64, payload []byte) (bool, error) {
	return false, nil
}

func (t *shopTx) LockOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %w", repository.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (t *shopTx) SetOrderStatus(ctx context.Context, id int64, st model.OrderStatus) error {
	if t.status == nil {
		t.status = map[int64]model.OrderStatus{}
	}
	t.status[id] = st
	return nil
}

func newOrderTestServer(t *testing.T, store *shopStore) (*echo.Echo, *middleware.Tokens) {
	t.Helper()
	tokens := middleware.NewTokens("test-secret", time.Hour)
	e := echo.New()
	registerOrderRoutes(e.Group("/api"), services.NewOrderService(store, store), nil, nil, tokens)
	return e, tokens
}

func postConfirm(t *testing.T, e *echo.Echo, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/confirm", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedExampleCart(s *shopStore, userID int64) {
	s.stock[stockKey{model.ItemProduct, 7}] = 10
	s.stock[stockKey{model.ItemCard, 3}] = 1
	s.carts[userID] = []model.CartLine{
		{CartLineID: 1, UserID: userID, ItemType: model.ItemProduct, ItemID: 7, Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
		{CartLineID: 2, UserID: userID, ItemType: model.ItemCard, ItemID: 3, Quantity: 1, UnitPrice: decimal.RequireFromString("4.50")},
	}
}

func TestConfirmEndpointCreated(t *testing.T) {
	store := newShopStore()
	seedExampleCart(store, 1)
	e, tokens := newOrderTestServer(t, store)
	tok, _ := tokens.Generate(1, "ana@example.com", model.RoleUser)

	rec := postConfirm(t, e, tok, `{"id_usuario": 1, "tipoPago": "online"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		OrderID   int64  `json:"order_id"`
		Total     string `json:"total"`
		Status    string `json:"status"`
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OrderID == 0 || resp.Total != "24.48" || resp.Status != "Paid" || resp.Reference == "" {
		t.Errorf("response = %+v", resp)
	}
	if store.stock[stockKey{model.ItemCard, 3}] != 0 || len(store.carts[1]) != 0 {
		t.Error("stock or cart not updated")
	}
}

func TestConfirmEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		role   string
		seed   bool
		body   string
		want   int
	}{
		{"invalid payment mode", 1, model.RoleUser, true, `{"tipoPago": "bitcoin"}`, http.StatusBadRequest},
		{"empty cart", 1, model.RoleUser, false, `{"tipoPago": "in_store"}`, http.StatusBadRequest},
		{"other user's cart", 2, model.RoleUser, true, `{"id_usuario": 1, "tipoPago": "in_store"}`, http.StatusForbidden},
		{"admin confirms for user", 9, model.RoleAdmin, true, `{"id_usuario": 1, "tipoPago": "in_store"}`, http.StatusCreated},
		{"malformed body", 1, model.RoleUser, true, `{"tipoPago": `, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newShopStore()
			if tt.seed {
				seedExampleCart(store, 1)
			}
			e, tokens := newOrderTestServer(t, store)
			tok, _ := tokens.Generate(tt.userID, "x@example.com", tt.role)

			rec := postConfirm(t, e, tok, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestConfirmEndpointInsufficientStock(t *testing.T) {
	store := newShopStore()
	seedExampleCart(store, 1)
	store.stock[stockKey{model.ItemCard, 3}] = 0
	e, tokens := newOrderTestServer(t, store)
	tok, _ := tokens.Generate(1, "ana@example.com", model.RoleUser)

	rec := postConfirm(t, e, tok, `{"tipoPago": "online"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "insufficient stock") {
		t.Errorf("body = %s", rec.Body)
	}
	if len(store.carts[1]) != 2 || store.stock[stockKey{model.ItemProduct, 7}] != 10 {
		t.Error("state changed after failed confirmation")
	}
}

func TestConfirmEndpointRequiresToken(t *testing.T) {
	e, _ := newOrderTestServer(t, newShopStore())
	if rec := postConfirm(t, e, "", `{"tipoPago": "online"}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrInvalidPaymentMode, http.StatusBadRequest},
		{services.ErrEmptyCart, http.StatusBadRequest},
		{&services.InsufficientStockError{ItemType: model.ItemCard, ItemID: 3}, http.StatusConflict},
		{fmt.Errorf("%w: card 3", services.ErrItemNotFound), http.StatusConflict},
		{fmt.Errorf("lock stock: %w", repository.ErrLockTimeout), http.StatusServiceUnavailable},
		{fmt.Errorf("order %w", repository.ErrNotFound), http.StatusNotFound},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := errorStatus(tt.err); got != tt.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
