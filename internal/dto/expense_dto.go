package dto

import "github.com/shopspring/decimal"

type CreateExpenseRequest struct {
	Name     string          `json:"name"     validate:"required,min=2,max=120"`
	Category string          `json:"category" validate:"required"`
	Amount   decimal.Decimal `json:"amount"   validate:"required,gt=0"`
	Date     string          `json:"date"     validate:"required,datetime=2006-01-02"`
}

type ExpenseResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
}

type ExpenseFilter struct {
	Category string `form:"category"`
	From     string `form:"from"` // YYYY-MM-DD inclusive
	To       string `form:"to"`   // YYYY-MM-DD inclusive
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ExpenseListResponse struct {
	Data  []ExpenseResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
