package service

import (
	"context"
	"io"

	"shopcentral/internal/dto"
	"shopcentral/internal/infra"
)

// CatalogAIService fronts the vision sidecar for interactive catalog helpers.
// Every call goes through the circuit breaker: when the sidecar is down the
// UI gets a fast failure instead of a hanging request.
type CatalogAIService interface {
	SuggestCategory(ctx context.Context, req dto.SuggestCategoryRequest) (*dto.SuggestCategoryResponse, error)
	RecognizeProduct(ctx context.Context, req dto.RecognizeProductRequest) (*dto.RecognizeProductResponse, error)
	GenerateImage(ctx context.Context, req dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
	UploadImage(ctx context.Context, fileName string, content io.Reader) (*dto.UploadResponse, error)
}

type catalogAIService struct {
	vision *infra.VisionClient
	media  *infra.MediaClient
	cb     *infra.CircuitBreaker
}

func NewCatalogAIService(vision *infra.VisionClient, media *infra.MediaClient, cb *infra.CircuitBreaker) CatalogAIService {
	return &catalogAIService{vision: vision, media: media, cb: cb}
}

func (s *catalogAIService) SuggestCategory(ctx context.Context, req dto.SuggestCategoryRequest) (*dto.SuggestCategoryResponse, error) {
	var result *infra.SuggestCategoryResult
	err := s.cb.Execute(func() error {
		res, err := s.vision.SuggestCategory(ctx, req.ProductName)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.SuggestCategoryResponse{Category: result.Category}, nil
}

func (s *catalogAIService) RecognizeProduct(ctx context.Context, req dto.RecognizeProductRequest) (*dto.RecognizeProductResponse, error) {
	var result *infra.RecognizeResult
	err := s.cb.Execute(func() error {
		res, err := s.vision.Recognize(ctx, req.PhotoDataURI)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.RecognizeProductResponse{
		ProductName: result.ProductName,
		Brand:       result.Brand,
		Category:    result.Category,
	}, nil
}

func (s *catalogAIService) GenerateImage(ctx context.Context, req dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	var result *infra.GenerateImageResult
	err := s.cb.Execute(func() error {
		res, err := s.vision.GenerateImage(ctx, req.ProductName, req.Brand, req.Description)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.GenerateImageResponse{ImageURL: result.ImageURL}, nil
}

func (s *catalogAIService) UploadImage(ctx context.Context, fileName string, content io.Reader) (*dto.UploadResponse, error) {
	url, err := s.media.Upload(ctx, fileName, content)
	if err != nil {
		return nil, err
	}
	return &dto.UploadResponse{URL: url}, nil
}
