package dto

import "github.com/shopspring/decimal"

type CreateMemberRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"required,min=7,max=20"`
}

type MemberResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Phone  string          `json:"phone"`
	Points int             `json:"points"`
	Debt   decimal.Decimal `json:"debt"`
}

type MemberFilter struct {
	Search string `form:"search"` // matches name or phone
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MemberListResponse struct {
	Data  []MemberResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
