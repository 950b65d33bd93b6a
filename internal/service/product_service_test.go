package service_test

import (
	"context"
	"testing"

	"shopcentral/internal/apierror"
	"shopcentral/internal/dto"
	"shopcentral/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductSvc() (service.ProductService, *stubProductRepo, *stubMovementRepo) {
	productRepo := newStubProductRepo()
	movementRepo := &stubMovementRepo{}
	svc := service.NewProductService(productRepo, movementRepo, nil)
	return svc, productRepo, movementRepo
}

func TestCreateProduct_InitialStockMovement(t *testing.T) {
	svc, _, movementRepo := buildProductSvc()

	resp, err := svc.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:     "Blue Band 250g",
		Brand:    "Blue Band",
		Price:    decimal.NewFromInt(180),
		Category: "Spreads",
		Stock:    24,
		Unit:     "pcs",
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.Equal(t, 5, resp.LowStockAt, "low stock threshold defaults to 5")

	require.Len(t, movementRepo.movements, 1)
	mov := movementRepo.movements[0]
	assert.Equal(t, "restock", mov.Type)
	assert.Equal(t, 24, mov.Quantity)
	assert.Equal(t, 0, mov.StockBefore)
	assert.Equal(t, 24, mov.StockAfter)
	assert.Equal(t, "Initial stock", mov.Reason)
}

func TestCreateProduct_ZeroStockNoMovement(t *testing.T) {
	svc, _, movementRepo := buildProductSvc()

	_, err := svc.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:     "Pre-order Item",
		Brand:    "House",
		Price:    decimal.NewFromInt(500),
		Category: "General",
		Unit:     "pcs",
	})
	require.NoError(t, err)
	assert.Empty(t, movementRepo.movements)
}

func TestAdjustStock_Restock(t *testing.T) {
	svc, productRepo, movementRepo := buildProductSvc()
	p := seedProduct(productRepo, "Omo 1kg", 250, 3)

	resp, err := svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta:  20,
		Reason: "Weekly delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, 23, resp.Stock)

	require.Len(t, movementRepo.movements, 1)
	mov := movementRepo.movements[0]
	assert.Equal(t, "restock", mov.Type)
	assert.Equal(t, 3, mov.StockBefore)
	assert.Equal(t, 23, mov.StockAfter)
	assert.Equal(t, "Weekly delivery", mov.Reason)
}

func TestAdjustStock_ManualWriteOff(t *testing.T) {
	svc, productRepo, movementRepo := buildProductSvc()
	p := seedProduct(productRepo, "Yoghurt 500ml", 120, 10)

	resp, err := svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta:  -4,
		Reason: "Expired batch",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Stock)

	require.Len(t, movementRepo.movements, 1)
	assert.Equal(t, "manual_adjustment", movementRepo.movements[0].Type)
	assert.Equal(t, -4, movementRepo.movements[0].Quantity)
}

func TestAdjustStock_CannotGoNegative(t *testing.T) {
	svc, productRepo, movementRepo := buildProductSvc()
	p := seedProduct(productRepo, "Biscuits", 50, 3)

	_, err := svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta:  -5,
		Reason: "Miscount",
	})
	var is *apierror.InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, 3, is.Available)

	// Untouched
	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 3, stored.Stock)
	assert.Empty(t, movementRepo.movements)
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	svc, productRepo, _ := buildProductSvc()
	p := seedProduct(productRepo, "Soda 300ml", 60, 40)

	newPrice := decimal.NewFromInt(70)
	resp, err := svc.UpdateProduct(context.Background(), p.ID, dto.UpdateProductRequest{
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "70", resp.Price.String())
	// Untouched fields survive
	assert.Equal(t, "Soda 300ml", resp.Name)
	assert.Equal(t, 40, resp.Stock)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, _, _ := buildProductSvc()

	name := "Ghost"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), dto.UpdateProductRequest{Name: &name})
	var nf *apierror.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeactivateProduct(t *testing.T) {
	svc, productRepo, _ := buildProductSvc()
	p := seedProduct(productRepo, "Seasonal Item", 100, 5)

	require.NoError(t, svc.DeactivateProduct(context.Background(), p.ID))
	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.False(t, stored.Active)
}

func TestListLowStock_ThresholdInclusive(t *testing.T) {
	svc, productRepo, _ := buildProductSvc()
	seedProduct(productRepo, "Plenty", 100, 50)    // above threshold
	at := seedProduct(productRepo, "At Limit", 100, 5) // stock == LowStockAt
	below := seedProduct(productRepo, "Scarce", 100, 1)

	low, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	names := []string{low[0].Name, low[1].Name}
	assert.Contains(t, names, at.Name)
	assert.Contains(t, names, below.Name)
}

func TestListMovements_AuditTrail(t *testing.T) {
	svc, productRepo, _ := buildProductSvc()
	p := seedProduct(productRepo, "Tracked Item", 90, 10)

	_, err := svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{Delta: 5, Reason: "Restock"})
	require.NoError(t, err)
	_, err = svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{Delta: -2, Reason: "Damaged"})
	require.NoError(t, err)

	movements, err := svc.ListMovements(context.Background(), p.ID, 100)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, "restock", movements[0].Type)
	assert.Equal(t, "manual_adjustment", movements[1].Type)
	assert.Equal(t, 15, movements[0].StockAfter)
	assert.Equal(t, 13, movements[1].StockAfter)
}
