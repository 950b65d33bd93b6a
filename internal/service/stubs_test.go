package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"shopcentral/internal/dto"
	"shopcentral/internal/model"
	"shopcentral/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repository implementations. The mutex on stubProductRepo matters:
// checkout serializes concurrent stock writes through it the same way the row
// lock does in Postgres.

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.Stock <= p.LowStockAt {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListUnenriched(_ context.Context, limit int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Active && (p.Category == "" || p.ImageURL == "") {
			out = append(out, *p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return false, errors.New("not found")
	}
	if p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubLoyaltyRepo keeps members in memory.
type stubLoyaltyRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID]*model.LoyaltyMember
}

func newStubLoyaltyRepo() *stubLoyaltyRepo {
	return &stubLoyaltyRepo{members: make(map[uuid.UUID]*model.LoyaltyMember)}
}

func (r *stubLoyaltyRepo) Create(_ context.Context, m *model.LoyaltyMember) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID] = m
	return nil
}

func (r *stubLoyaltyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LoyaltyMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *m
	return &cp, nil
}

func (r *stubLoyaltyRepo) List(_ context.Context, _ dto.MemberFilter) ([]model.LoyaltyMember, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.LoyaltyMember
	for _, m := range r.members {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubLoyaltyRepo) TotalDebt(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, m := range r.members {
		total = total.Add(m.Debt)
	}
	return total, nil
}

func (r *stubLoyaltyRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.LoyaltyMember, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubLoyaltyRepo) AddPointsTx(_ *gorm.DB, id uuid.UUID, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return errors.New("not found")
	}
	m.Points += points
	return nil
}

func (r *stubLoyaltyRepo) AddDebtTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return errors.New("not found")
	}
	m.Debt = m.Debt.Add(amount)
	return nil
}

var _ repository.LoyaltyRepository = (*stubLoyaltyRepo)(nil)

// stubSaleRepo is append-only, like the real one.
type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Status != "" && filter.Status != "all" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) PaidTotals(_ context.Context) (decimal.Decimal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	var count int64
	for _, s := range r.sales {
		if s.Status == model.SaleStatusPaid {
			total = total.Add(s.Total)
			count++
		}
	}
	return total, count, nil
}

func (r *stubSaleRepo) DailyRevenue(_ context.Context, _ int) ([]repository.DailyRevenueRow, error) {
	return nil, nil
}

func (r *stubSaleRepo) TopProducts(_ context.Context, _ int) ([]repository.TopProductRow, error) {
	return nil, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubMovementRepo captures audit rows for assertion.
type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, _ int) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubExpenseRepo keeps expenses in memory.
type stubExpenseRepo struct {
	mu       sync.Mutex
	expenses []model.Expense
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *stubExpenseRepo) List(_ context.Context, _ dto.ExpenseFilter) ([]model.Expense, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Expense, len(r.expenses))
	copy(out, r.expenses)
	return out, int64(len(out)), nil
}

func (r *stubExpenseRepo) SumSince(_ context.Context, since time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, e := range r.expenses {
		if !e.Date.Before(since) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name string, price float64, stock int) *model.Product {
	p := &model.Product{
		ID:         uuid.New(),
		Name:       name,
		Brand:      "House",
		Price:      decimal.NewFromFloat(price),
		Category:   "General",
		Stock:      stock,
		LowStockAt: 5,
		Unit:       "pcs",
		Active:     true,
	}
	repo.mu.Lock()
	repo.products[p.ID] = p
	repo.mu.Unlock()
	return p
}

func seedMember(repo *stubLoyaltyRepo, name string, points int) *model.LoyaltyMember {
	m := &model.LoyaltyMember{
		ID:     uuid.New(),
		Name:   name,
		Phone:  "0712000000",
		Points: points,
		Debt:   decimal.Zero,
	}
	repo.mu.Lock()
	repo.members[m.ID] = m
	repo.mu.Unlock()
	return m
}
