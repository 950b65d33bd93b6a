package repository

import (
	"context"

	"shopcentral/internal/dto"
	"shopcentral/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyRepository is the data access contract for loyalty members.
type LoyaltyRepository interface {
	Create(ctx context.Context, m *model.LoyaltyMember) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LoyaltyMember, error)
	List(ctx context.Context, filter dto.MemberFilter) ([]model.LoyaltyMember, int64, error)
	TotalDebt(ctx context.Context) (decimal.Decimal, error)

	// Transaction-scoped: used by the checkout coordinator.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.LoyaltyMember, error)
	AddPointsTx(tx *gorm.DB, id uuid.UUID, points int) error
	AddDebtTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error
}

type loyaltyRepo struct{ db *gorm.DB }

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository { return &loyaltyRepo{db: db} }

func (r *loyaltyRepo) Create(ctx context.Context, m *model.LoyaltyMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *loyaltyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LoyaltyMember, error) {
	var m model.LoyaltyMember
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *loyaltyRepo) List(ctx context.Context, filter dto.MemberFilter) ([]model.LoyaltyMember, int64, error) {
	var members []model.LoyaltyMember
	var total int64

	q := r.db.WithContext(ctx).Model(&model.LoyaltyMember{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&members).Error
	return members, total, err
}

func (r *loyaltyRepo) TotalDebt(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.LoyaltyMember{}).
		Select("COALESCE(SUM(debt), 0)").Scan(&total).Error
	return total, err
}

func (r *loyaltyRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.LoyaltyMember, error) {
	var m model.LoyaltyMember
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error
	return &m, err
}

func (r *loyaltyRepo) AddPointsTx(tx *gorm.DB, id uuid.UUID, points int) error {
	return tx.Model(&model.LoyaltyMember{}).Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", points)).Error
}

func (r *loyaltyRepo) AddDebtTx(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	return tx.Model(&model.LoyaltyMember{}).Where("id = ?", id).
		Update("debt", gorm.Expr("debt + ?", amount)).Error
}
