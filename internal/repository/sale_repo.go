package repository

import (
	"context"

	"shopcentral/internal/dto"
	"shopcentral/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyRevenueRow is one day of paid-sale revenue for the reports dashboard.
type DailyRevenueRow struct {
	Day   string
	Total decimal.Decimal
}

// TopProductRow aggregates units sold per product over paid sales.
type TopProductRow struct {
	ProductID uuid.UUID
	Name      string
	Units     int
}

type SaleRepository interface {
	// Create inserts the sale and its item snapshots. Sales are append-only:
	// there is no update or delete method on purpose.
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)

	// Report aggregations — all restricted to status = Paid.
	PaidTotals(ctx context.Context) (revenue decimal.Decimal, count int64, err error)
	DailyRevenue(ctx context.Context, days int) ([]DailyRevenueRow, error)
	TopProducts(ctx context.Context, limit int) ([]TopProductRow, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) PaidTotals(ctx context.Context) (decimal.Decimal, int64, error) {
	var row struct {
		Revenue decimal.Decimal
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").
		Where("status = ?", model.SaleStatusPaid).
		Scan(&row).Error
	return row.Revenue, row.Count, err
}

func (r *saleRepo) DailyRevenue(ctx context.Context, days int) ([]DailyRevenueRow, error) {
	var rows []DailyRevenueRow
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS day, SUM(total) AS total").
		Where("status = ? AND created_at >= CURRENT_DATE - make_interval(days => ?)", model.SaleStatusPaid, days).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) TopProducts(ctx context.Context, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("sale_items.product_id, sale_items.name, SUM(sale_items.quantity) AS units").
		Joins("JOIN sales ON sales.id = sale_items.sale_id AND sales.status = ?", model.SaleStatusPaid).
		Group("sale_items.product_id, sale_items.name").
		Order("units DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
