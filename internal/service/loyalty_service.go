package service

import (
	"context"

	"shopcentral/internal/apierror"
	"shopcentral/internal/dto"
	"shopcentral/internal/model"
	"shopcentral/internal/repository"

	"github.com/google/uuid"
)

type LoyaltyService interface {
	CreateMember(ctx context.Context, req dto.CreateMemberRequest) (*dto.MemberResponse, error)
	GetMember(ctx context.Context, id uuid.UUID) (*dto.MemberResponse, error)
	ListMembers(ctx context.Context, filter dto.MemberFilter) (*dto.MemberListResponse, error)
}

type loyaltyService struct {
	repo repository.LoyaltyRepository
}

func NewLoyaltyService(repo repository.LoyaltyRepository) LoyaltyService {
	return &loyaltyService{repo: repo}
}

func (s *loyaltyService) CreateMember(ctx context.Context, req dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	member := &model.LoyaltyMember{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	resp := memberToResponse(member)
	return &resp, nil
}

func (s *loyaltyService) GetMember(ctx context.Context, id uuid.UUID) (*dto.MemberResponse, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("loyalty member", id.String())
	}
	resp := memberToResponse(member)
	return &resp, nil
}

func (s *loyaltyService) ListMembers(ctx context.Context, filter dto.MemberFilter) (*dto.MemberListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MemberResponse, len(members))
	for i := range members {
		items[i] = memberToResponse(&members[i])
	}
	return &dto.MemberListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func memberToResponse(m *model.LoyaltyMember) dto.MemberResponse {
	return dto.MemberResponse{
		ID:     m.ID.String(),
		Name:   m.Name,
		Email:  m.Email,
		Phone:  m.Phone,
		Points: m.Points,
		Debt:   m.Debt,
	}
}
