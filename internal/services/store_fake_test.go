package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

type itemKey struct {
	t  model.ItemType
	id int64
}

type memState struct {
	carts       map[int64][]model.CartLine
	stock       map[itemKey]int
	orders      map[int64]*model.Order
	payments    map[int64]*model.Payment
	nextOrderID int64
	nextLineID  int64
}

// memStore is an in-memory CheckoutStore with row locks. A transaction locks
// the cart, stock, order and payment rows it touches until it ends, so
// transactions over disjoint rows run side by side. Writes are staged in the
// transaction and applied only when fn returns nil.
type memStore struct {
	mu        sync.Mutex // guards state and the counters
	state     memState
	txCount   int
	cartReads int

	failClear   bool
	failRestock bool
	// onLock runs after a stock row lock is taken, outside mu.
	onLock func(k itemKey)

	rowMu sync.Mutex
	rows  map[string]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			carts:    map[int64][]model.CartLine{},
			stock:    map[itemKey]int{},
			orders:   map[int64]*model.Order{},
			payments: map[int64]*model.Payment{},
		},
		rows: map[string]*sync.Mutex{},
	}
}

func (m *memStore) setStock(t model.ItemType, id int64, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.stock[itemKey{t, id}] = n
}

func (m *memStore) addToCart(userID int64, t model.ItemType, id int64, qty int, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.nextLineID++
	m.state.carts[userID] = append(m.state.carts[userID], model.CartLine{
		CartLineID: m.state.nextLineID,
		UserID:     userID,
		ItemType:   t,
		ItemID:     id,
		Quantity:   qty,
		UnitPrice:  decimal.RequireFromString(price),
	})
}

func (m *memStore) stockOf(t model.ItemType, id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.stock[itemKey{t, id}]
}

func (m *memStore) cartOf(userID int64) []model.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CartLine(nil), m.state.carts[userID]...)
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders)
}

func (m *memStore) rowLock(key string) *sync.Mutex {
	m.rowMu.Lock()
	defer m.rowMu.Unlock()
	l, ok := m.rows[key]
	if !ok {
		l = &sync.Mutex{}
		m.rows[key] = l
	}
	return l
}

func (m *memStore) WithTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error {
	m.mu.Lock()
	m.txCount++
	m.mu.Unlock()

	tx := &memTx{
		store:    m,
		held:     map[string]*sync.Mutex{},
		stock:    map[itemKey]int{},
		orders:   map[int64]*model.Order{},
		cleared:  map[int64][]int64{},
		payments: map[int64]string{},
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tx.apply(&m.state)
	return nil
}

// OrderReader side, outside transactions.

func (m *memStore) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for id := int64(1); id <= m.state.nextOrderID; id++ {
		if o, ok := m.state.orders[id]; ok && o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) ListAll(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Order
	for id := int64(1); id <= m.state.nextOrderID; id++ {
		if o, ok := m.state.orders[id]; ok && (status == nil || o.Status == *status) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.state.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %w", repository.ErrNotFound)
	}
	cp := *o
	cp.Lines = append([]model.OrderLine(nil), o.Lines...)
	return &cp, nil
}

func (m *memStore) UserEmail(ctx context.Context, userID int64) (string, string, error) {
	return fmt.Sprintf("user%d@example.com", userID), "Cliente", nil
}

type memTx struct {
	store *memStore
	held  map[string]*sync.Mutex

	stock    map[itemKey]int // deltas
	orders   map[int64]*model.Order
	cleared  map[int64][]int64
	payments map[int64]string
}

func (t *memTx) lock(key string) {
	if _, ok := t.held[key]; ok {
		return
	}
	l := t.store.rowLock(key)
	l.Lock()
	t.held[key] = l
}

func (t *memTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
}

func (t *memTx) apply(st *memState) {
	for k, d := range t.stock {
		st.stock[k] += d
	}
	for id, o := range t.orders {
		st.orders[id] = o
	}
	for userID, ids := range t.cleared {
		drop := make(map[int64]bool, len(ids))
		for _, id := range ids {
			drop[id] = true
		}
		var kept []model.CartLine
		for _, l := range st.carts[userID] {
			if !drop[l.CartLineID] {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			delete(st.carts, userID)
		} else {
			st.carts[userID] = kept
		}
	}
	for orderID, status := range t.payments {
		st.payments[orderID].PaymentStatus = status
	}
}

func (t *memTx) CartLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	t.lock(fmt.Sprintf("cart:%d", userID))
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.cartReads++
	return append([]model.CartLine(nil), t.store.state.carts[userID]...), nil
}

func (t *memTx) LockStock(ctx context.Context, it model.ItemType, itemID int64) (int, error) {
	k := itemKey{it, itemID}
	t.lock(fmt.Sprintf("item:%s:%d", it, itemID))
	if t.store.onLock != nil {
		t.store.onLock(k)
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	n, ok := t.store.state.stock[k]
	if !ok {
		return 0, fmt.Errorf("%s %w", it, repository.ErrNotFound)
	}
	return n + t.stock[k], nil
}

func (t *memTx) current(k itemKey) int {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.store.state.stock[k] + t.stock[k]
}

func (t *memTx) InsertOrder(ctx context.Context, o model.NewOrder) (int64, error) {
	t.store.mu.Lock()
	t.store.state.nextOrderID++
	id := t.store.state.nextOrderID
	t.store.mu.Unlock()

	t.lock(fmt.Sprintf("order:%d", id))
	t.orders[id] = &model.Order{
		OrderID:     id,
		UserID:      o.UserID,
		Reference:   o.Reference,
		Total:       o.Total,
		Status:      o.Status,
		PaymentMode: o.PaymentMode,
		CreatedAt:   time.Now(),
	}
	return id, nil
}

func (t *memTx) InsertOrderLine(ctx context.Context, orderID int64, l model.CartLine) error {
	o, ok := t.orders[orderID]
	if !ok {
		return errors.New("order line without order")
	}
	o.Lines = append(o.Lines, model.OrderLine{
		OrderLineID: int64(len(o.Lines) + 1),
		OrderID:     orderID,
		ItemType:    l.ItemType,
		ItemID:      l.ItemID,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
	})
	return nil
}

func (t *memTx) DecrementStock(ctx context.Context, it model.ItemType, itemID int64, qty int) error {
	k := itemKey{it, itemID}
	if t.current(k) < qty {
		return fmt.Errorf("decrement stock of %s %d: not enough units", it, itemID)
	}
	t.stock[k] -= qty
	return nil
}

func (t *memTx) IncrementStock(ctx context.Context, it model.ItemType, itemID int64, qty int) error {
	t.store.mu.Lock()
	fail := t.store.failRestock
	t.store.mu.Unlock()
	if fail {
		return errors.New("connection reset")
	}
	t.stock[itemKey{it, itemID}] += qty
	return nil
}

func (t *memTx) ClearCart(ctx context.Context, userID int64, lineIDs []int64) error {
	if t.store.failClear {
		return errors.New("connection reset")
	}
	t.cleared[userID] = append(t.cleared[userID], lineIDs...)
	return nil
}

func (t *memTx) LockOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	t.lock(fmt.Sprintf("order:%d", orderID))
	if o, ok := t.orders[orderID]; ok {
		cp := *o
		return &cp, nil
	}

	t.store.mu.Lock()
	o, ok := t.store.state.orders[orderID]
	var staged model.Order
	if ok {
		staged = *o
		staged.Lines = append([]model.OrderLine(nil), o.Lines...)
	}
	t.store.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("order %w", repository.ErrNotFound)
	}

	t.orders[orderID] = &staged
	cp := staged
	return &cp, nil
}

func (t *memTx) SetOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	if _, err := t.LockOrder(ctx, orderID); err != nil {
		return err
	}
	t.orders[orderID].Status = status
	return nil
}

func (t *memTx) MarkPaymentFailed(ctx context.Context, orderID int64, payload []byte) (bool, error) {
	t.lock(fmt.Sprintf("payment:%d", orderID))
	if st, ok := t.payments[orderID]; ok {
		return st == model.PaymentPending, nil
	}

	t.store.mu.Lock()
	p, ok := t.store.state.payments[orderID]
	pending := ok && p.PaymentStatus == model.PaymentPending
	t.store.mu.Unlock()
	if !pending {
		return false, nil
	}
	t.payments[orderID] = model.PaymentFailed
	return true, nil
}

// memPayments is the PaymentStore view of a memStore, so that payment rows
// and the checkout transaction share one state.
type memPayments struct {
	m *memStore
}

func (p memPayments) CreatePending(ctx context.Context, orderID int64, amount decimal.Decimal, provider, ref string, payload []byte) (int64, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	id := int64(len(p.m.state.payments) + 1)
	p.m.state.payments[orderID] = &model.Payment{PaymentID: id, OrderID: orderID, Amount: amount,
		PaymentStatus: model.PaymentPending, PaymentProvider: provider, ProviderRef: ref}
	return id, nil
}

func (p memPayments) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	v, ok := p.m.state.payments[orderID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (p memPayments) MarkPaid(ctx context.Context, orderID int64, payload []byte) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if v, ok := p.m.state.payments[orderID]; ok && v.PaymentStatus == model.PaymentPending {
		v.PaymentStatus = model.PaymentPaid
	}
	return nil
}

func (p memPayments) status(orderID int64) string {
	v, _ := p.GetByOrderID(context.Background(), orderID)
	if v == nil {
		return ""
	}
	return v.PaymentStatus
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, routingKey string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

type recordingFeed struct {
	mu   sync.Mutex
	sent []OrderEvent
}

func (f *recordingFeed) Broadcast(v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := v.(OrderEvent); ok {
		f.sent = append(f.sent, e)
	}
}
