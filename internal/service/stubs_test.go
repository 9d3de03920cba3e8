package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/solucionesrptech/pasteleria-api/internal/model"
	"github.com/solucionesrptech/pasteleria-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
//
// In-memory repository implementations. The Tx variants ignore the *gorm.DB
// handle: stubTxManager serializes whole transactions with a mutex and
// restores a pre-transaction snapshot when fn returns an error, emulating
// rollback.

// snapshotter lets stubTxManager save and restore repository state.
type snapshotter interface {
	snapshot() interface{}
	restore(interface{})
}

type stubTxManager struct {
	mu    sync.Mutex
	repos []snapshotter
}

func (m *stubTxManager) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]interface{}, len(m.repos))
	for i, r := range m.repos {
		saved[i] = r.snapshot()
	}
	if err := fn(nil); err != nil {
		for i, r := range m.repos {
			r.restore(saved[i])
		}
		return err
	}
	return nil
}

var _ repository.TxManager = (*stubTxManager)(nil)

// ── Products ──────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products []*model.Product

	// lockOrder records every FindByIDForUpdateTx call in sequence, so
	// tests can assert the row-lock acquisition order.
	lockOrder []uuid.UUID
}

func newStubProductRepo() *stubProductRepo { return &stubProductRepo{} }

func (r *stubProductRepo) seed(name string, priceCLP, stock int, active bool) *model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &model.Product{
		ID:        uuid.New(),
		Name:      name,
		PriceCLP:  priceCLP,
		Stock:     stock,
		Active:    active,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.products = append(r.products, p)
	return p
}

func (r *stubProductRepo) find(id uuid.UUID) *model.Product {
	for _, p := range r.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	cp := *p
	r.products = append(r.products, &cp)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) ListActive(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for i := len(r.products) - 1; i >= 0; i-- { // newest first
		if r.products[i].Active {
			out = append(out, *r.products[i])
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.find(p.ID)
	if stored == nil {
		return gorm.ErrRecordNotFound
	}
	*stored = *p
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	return r.setActive(id, false)
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	return r.setActive(id, true)
}

func (r *stubProductRepo) setActive(id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.Active = active
	return nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context, threshold int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.Stock <= threshold {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (r *stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockOrder = append(r.lockOrder, id)
	p := r.find(id)
	if p == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil || !p.Active || p.Stock < qty {
		return repository.ErrStockGuard
	}
	p.Stock -= qty
	return nil
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductRepo) snapshot() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make([]*model.Product, len(r.products))
	for i, p := range r.products {
		cp := *p
		saved[i] = &cp
	}
	return saved
}

func (r *stubProductRepo) restore(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = v.([]*model.Product)
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Orders ────────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	mu       sync.Mutex
	orders   []*model.Order
	items    []model.OrderItem
	payments []model.Payment
}

func newStubOrderRepo() *stubOrderRepo { return &stubOrderRepo{} }

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.PublicToken == o.PublicToken {
			return errors.New("duplicate key value violates unique constraint \"idx_orders_public_token\"")
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	cp := *o
	cp.Items = nil
	cp.Payment = nil
	r.orders = append(r.orders, &cp)
	return nil
}

func (r *stubOrderRepo) CreateItemTx(_ *gorm.DB, item *model.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	r.items = append(r.items, *item)
	return nil
}

func (r *stubOrderRepo) CreatePaymentTx(_ *gorm.DB, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return r.hydrate(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) FindByPublicToken(_ context.Context, token string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PublicToken == token {
			return r.hydrate(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// hydrate attaches items and payment, emulating the Preloads. Caller holds mu.
func (r *stubOrderRepo) hydrate(o *model.Order) *model.Order {
	cp := *o
	for _, item := range r.items {
		if item.OrderID == o.ID {
			cp.Items = append(cp.Items, item)
		}
	}
	for i := range r.payments {
		if r.payments[i].OrderID == o.ID {
			p := r.payments[i]
			cp.Payment = &p
			break
		}
	}
	return &cp
}

func (r *stubOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*model.Order
	for _, o := range r.orders {
		if filter.Status == "" || o.Status == filter.Status {
			matched = append(matched, o)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]model.Order, 0, end-start)
	for _, o := range matched[start:end] {
		out = append(out, *r.hydrate(o))
	}
	return out, total, nil
}

func (r *stubOrderRepo) Summary(_ context.Context) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count, revenue int64
	for _, o := range r.orders {
		if o.Status == model.OrderStatusPagado {
			count++
			revenue += int64(o.TotalCLP)
		}
	}
	return count, revenue, nil
}

type orderRepoState struct {
	orders   []*model.Order
	items    []model.OrderItem
	payments []model.Payment
}

func (r *stubOrderRepo) snapshot() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := orderRepoState{
		items:    append([]model.OrderItem(nil), r.items...),
		payments: append([]model.Payment(nil), r.payments...),
	}
	for _, o := range r.orders {
		cp := *o
		st.orders = append(st.orders, &cp)
	}
	return st
}

func (r *stubOrderRepo) restore(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := v.(orderRepoState)
	r.orders = st.orders
	r.items = st.items
	r.payments = st.payments
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Movements ─────────────────────────────────────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.InventoryMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	// Strictly increasing timestamps keep the newest-first ordering stable.
	m.CreatedAt = time.Now().Add(time.Duration(len(r.movements)) * time.Microsecond)
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, productID *uuid.UUID) ([]model.InventoryMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryMovement
	for i := len(r.movements) - 1; i >= 0; i-- { // newest first
		m := r.movements[i]
		if productID != nil && m.ProductID != *productID {
			continue
		}
		out = append(out, m)
		if len(out) == repository.MovementListLimit {
			break
		}
	}
	return out, nil
}

func (r *stubMovementRepo) byProduct(id uuid.UUID) []model.InventoryMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if m.ProductID == id {
			out = append(out, m)
		}
	}
	return out
}

func (r *stubMovementRepo) snapshot() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.InventoryMovement(nil), r.movements...)
}

func (r *stubMovementRepo) restore(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = v.([]model.InventoryMovement)
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

// ── Users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: make(map[string]*model.User)} }

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.Email] = u
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Payments ──────────────────────────────────────────────────────────────────

// stubPayments counts charges and optionally fails every call.
type stubPayments struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *stubPayments) Charge(_ context.Context, _ uuid.UUID, _ int) (string, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return "", "", p.err
	}
	return model.PaymentProviderMock, model.PaymentStatusPaid, nil
}

func (p *stubPayments) chargeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
