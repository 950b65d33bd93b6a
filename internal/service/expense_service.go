package service

import (
	"context"
	"fmt"
	"time"

	"shopcentral/internal/dto"
	"shopcentral/internal/model"
	"shopcentral/internal/repository"
)

type ExpenseService interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	ListExpenses(ctx context.Context, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error)
}

type expenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	expense := &model.Expense{
		Name:     req.Name,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	resp := expenseToResponse(expense)
	return &resp, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	expenses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		items[i] = expenseToResponse(&expenses[i])
	}
	return &dto.ExpenseListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func expenseToResponse(e *model.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:       e.ID.String(),
		Name:     e.Name,
		Category: e.Category,
		Amount:   e.Amount,
		Date:     e.Date.Format("2006-01-02"),
	}
}
