package service

import (
	"context"
	"encoding/json"
	"time"

	"shopcentral/internal/dto"
	"shopcentral/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	reportCacheKey = "cache:report:summary"
	reportCacheTTL = 60 * time.Second
	revenueDays    = 30
	topProductsMax = 5
)

type ReportService interface {
	Summary(ctx context.Context) (*dto.ReportSummary, error)
}

type reportService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	loyaltyRepo repository.LoyaltyRepository
	expenseRepo repository.ExpenseRepository
	rdb         *redis.Client
}

func NewReportService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	loyaltyRepo repository.LoyaltyRepository,
	expenseRepo repository.ExpenseRepository,
	rdb *redis.Client,
) ReportService {
	return &reportService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		loyaltyRepo: loyaltyRepo,
		expenseRepo: expenseRepo,
		rdb:         rdb,
	}
}

// Summary builds the dashboard payload. Aggregations hit four tables, so the
// result is cached in Redis for 60 seconds; the dashboard polls far more often
// than the numbers actually move.
func (s *reportService) Summary(ctx context.Context) (*dto.ReportSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, reportCacheKey).Result(); err == nil {
			var summary dto.ReportSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	revenue, count, err := s.saleRepo.PaidTotals(ctx)
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if count > 0 {
		average = revenue.Div(decimal.NewFromInt(count)).Round(2)
	}

	debt, err := s.loyaltyRepo.TotalDebt(ctx)
	if err != nil {
		return nil, err
	}

	monthStart := time.Now().AddDate(0, 0, -30)
	monthExpenses, err := s.expenseRepo.SumSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	dailyRows, err := s.saleRepo.DailyRevenue(ctx, revenueDays)
	if err != nil {
		return nil, err
	}
	daily := make([]dto.DailyTotal, len(dailyRows))
	for i, row := range dailyRows {
		daily[i] = dto.DailyTotal{Date: row.Day, Total: row.Total}
	}

	topRows, err := s.saleRepo.TopProducts(ctx, topProductsMax)
	if err != nil {
		return nil, err
	}
	top := make([]dto.TopProduct, len(topRows))
	for i, row := range topRows {
		top[i] = dto.TopProduct{ProductID: row.ProductID.String(), Name: row.Name, Units: row.Units}
	}

	lowStockProducts, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]dto.LowStockProduct, len(lowStockProducts))
	for i, p := range lowStockProducts {
		low[i] = dto.LowStockProduct{
			ProductID:  p.ID.String(),
			Name:       p.Name,
			Stock:      p.Stock,
			LowStockAt: p.LowStockAt,
		}
	}

	summary := &dto.ReportSummary{
		TotalRevenue:    revenue,
		SaleCount:       count,
		AverageSale:     average,
		OutstandingDebt: debt,
		MonthExpenses:   monthExpenses,
		DailyTotals:     daily,
		TopProducts:     top,
		LowStock:        low,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.rdb.Set(ctx, reportCacheKey, data, reportCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("report summary cache write failed")
			}
		}
	}

	return summary, nil
}
