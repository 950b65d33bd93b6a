package service

import (
	"context"
	"fmt"

	"shopcentral/internal/apierror"
	"shopcentral/internal/dto"
	"shopcentral/internal/model"
	"shopcentral/internal/repository"
	"shopcentral/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	ListMovements(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockMovementResponse, error)
	ListLowStock(ctx context.Context) ([]dto.ProductResponse, error)
}

type productService struct {
	repo         repository.ProductRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
}

func NewProductService(
	repo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) ProductService {
	return &productService{repo: repo, movementRepo: movementRepo, dispatcher: dispatcher}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Name:           req.Name,
		Brand:          req.Brand,
		Barcode:        req.Barcode,
		Price:          req.Price,
		WholesalePrice: req.WholesalePrice,
		Category:       req.Category,
		Stock:          req.Stock,
		LowStockAt:     req.LowStockAt,
		Unit:           req.Unit,
		ImageURL:       req.ImageURL,
		Active:         true,
	}
	if product.LowStockAt == 0 {
		product.LowStockAt = 5
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	if req.Stock > 0 {
		mov := &model.StockMovement{
			ProductID:   product.ID,
			Type:        "restock",
			Quantity:    req.Stock,
			StockBefore: 0,
			StockAfter:  req.Stock,
			Reason:      "Initial stock",
		}
		if err := s.movementRepo.Create(ctx, mov); err != nil {
			log.Warn().Err(err).Str("product_id", product.ID.String()).Msg("failed to record initial stock movement")
		}
	}

	// Missing category or image: the enrichment worker fills the gap async.
	if s.dispatcher != nil && (product.Category == "" || product.ImageURL == "") {
		payload := worker.EnrichmentJobPayload{ProductID: product.ID.String()}
		if err := s.dispatcher.EnqueueEnrichment(ctx, payload); err != nil {
			log.Warn().Err(err).Str("product_id", product.ID.String()).Msg("failed to enqueue enrichment job")
		}
	}

	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("product", id.String())
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, len(products))
	for i := range products {
		items[i] = productToResponse(&products[i])
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("product", id.String())
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Barcode != nil {
		product.Barcode = req.Barcode
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.WholesalePrice != nil {
		product.WholesalePrice = req.WholesalePrice
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.LowStockAt != nil {
		product.LowStockAt = *req.LowStockAt
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NewNotFound("product", id.String())
	}
	return s.repo.SoftDelete(ctx, id)
}

// AdjustStock applies a signed delta with an audit reason. Negative adjustments
// beyond the available stock are rejected before touching the row.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("product", id.String())
	}
	newStock := product.Stock + req.Delta
	if newStock < 0 {
		return nil, &apierror.InsufficientStockError{
			Product:   product.Name,
			Requested: -req.Delta,
			Available: product.Stock,
		}
	}

	if err := s.repo.AdjustStock(ctx, id, req.Delta); err != nil {
		return nil, err
	}

	movType := "manual_adjustment"
	if req.Delta > 0 {
		movType = "restock"
	}
	mov := &model.StockMovement{
		ProductID:   id,
		Type:        movType,
		Quantity:    req.Delta,
		StockBefore: product.Stock,
		StockAfter:  newStock,
		Reason:      req.Reason,
	}
	if err := s.movementRepo.Create(ctx, mov); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("failed to record stock movement")
	}

	product.Stock = newStock
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) ListMovements(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockMovementResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apierror.NewNotFound("product", id.String())
	}
	movements, err := s.movementRepo.ListByProduct(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		var ref *string
		if m.ReferenceID != nil {
			r := m.ReferenceID.String()
			ref = &r
		}
		resp[i] = dto.StockMovementResponse{
			ID:          m.ID.String(),
			Type:        m.Type,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			ReferenceID: ref,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	return resp, nil
}

func (s *productService) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(&products[i])
	}
	return resp, nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Brand:          p.Brand,
		Barcode:        p.Barcode,
		Price:          p.Price,
		WholesalePrice: p.WholesalePrice,
		Category:       p.Category,
		Stock:          p.Stock,
		LowStockAt:     p.LowStockAt,
		Unit:           p.Unit,
		ImageURL:       p.ImageURL,
		Active:         p.Active,
	}
}
