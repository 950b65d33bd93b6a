package service_test

import (
	"context"
	"sync"
	"testing"

	"shopcentral/internal/apierror"
	"shopcentral/internal/dto"
	"shopcentral/internal/model"
	"shopcentral/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCheckoutSvc() (service.CheckoutService, *stubSaleRepo, *stubProductRepo, *stubLoyaltyRepo, *stubMovementRepo) {
	saleRepo := newStubSaleRepo()
	productRepo := newStubProductRepo()
	loyaltyRepo := newStubLoyaltyRepo()
	movementRepo := &stubMovementRepo{}
	svc := service.NewCheckoutService(saleRepo, productRepo, loyaltyRepo, movementRepo, nil)
	return svc, saleRepo, productRepo, loyaltyRepo, movementRepo
}

func TestCheckout_WalkInCashSale(t *testing.T) {
	svc, saleRepo, productRepo, _, movementRepo := buildCheckoutSvc()
	p := seedProduct(productRepo, "Milk 500ml", 210, 10)

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 3}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	assert.Equal(t, "630", resp.Total.String())
	assert.Equal(t, "630", resp.Subtotal.String())
	assert.Equal(t, model.SaleStatusPaid, resp.Status)
	assert.Equal(t, model.WalkInCustomer, resp.CustomerName)
	assert.Nil(t, resp.CustomerID)
	assert.Equal(t, 0, resp.PointsEarned)

	// Stock decremented 10 → 7
	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 7, stored.Stock)

	// Sale persisted with a snapshot line
	sale, err := saleRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Milk 500ml", sale.Items[0].Name)
	assert.Equal(t, 3, sale.Items[0].Quantity)

	// Audit row: -3 with sale reference
	require.Len(t, movementRepo.movements, 1)
	mov := movementRepo.movements[0]
	assert.Equal(t, "sale", mov.Type)
	assert.Equal(t, -3, mov.Quantity)
	assert.Equal(t, 10, mov.StockBefore)
	assert.Equal(t, 7, mov.StockAfter)
	require.NotNil(t, mov.ReferenceID)
	assert.Equal(t, sale.ID, *mov.ReferenceID)
}

func TestCheckout_MemberEarnsPoints(t *testing.T) {
	svc, _, productRepo, loyaltyRepo, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Rice 2kg", 400, 20)
	m := seedMember(loyaltyRepo, "Jane Wanjiku", 450)
	memberID := m.ID.String()

	// total = 400 × 3 = 1200 → 12 points, 450 + 12 = 462
	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 3}},
		PaymentMethod: model.PaymentMPesa,
		CustomerID:    &memberID,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.PointsEarned)
	assert.Equal(t, "Jane Wanjiku", resp.CustomerName)

	stored, _ := loyaltyRepo.FindByID(context.Background(), m.ID)
	assert.Equal(t, 462, stored.Points)
	assert.True(t, stored.Debt.IsZero())
}

func TestCheckout_PointsFloorFractionalTotal(t *testing.T) {
	svc, _, productRepo, loyaltyRepo, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Bread", 99.99, 10)
	m := seedMember(loyaltyRepo, "Otieno", 0)
	memberID := m.ID.String()

	// total = 99.99 → floor(0.9999) = 0 points
	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
		CustomerID:    &memberID,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.PointsEarned)

	stored, _ := loyaltyRepo.FindByID(context.Background(), m.ID)
	assert.Equal(t, 0, stored.Points)
}

func TestCheckout_InsufficientStockAbortsEverything(t *testing.T) {
	svc, saleRepo, productRepo, loyaltyRepo, movementRepo := buildCheckoutSvc()
	ok := seedProduct(productRepo, "Sugar 1kg", 150, 10)
	scarce := seedProduct(productRepo, "Cooking Oil 1L", 320, 2)
	m := seedMember(loyaltyRepo, "Amina", 100)
	memberID := m.ID.String()

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items: []dto.CartLineRequest{
			{ProductID: ok.ID.String(), Quantity: 2},
			{ProductID: scarce.ID.String(), Quantity: 5},
		},
		PaymentMethod: model.PaymentCash,
		CustomerID:    &memberID,
	})
	require.Error(t, err)

	var is *apierror.InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, "Cooking Oil 1L", is.Product)
	assert.Equal(t, 5, is.Requested)
	assert.Equal(t, 2, is.Available)

	// Nothing changed: no sale, no stock movement, no points, full stock
	assert.Empty(t, saleRepo.sales)
	assert.Empty(t, movementRepo.movements)
	p1, _ := productRepo.FindByID(context.Background(), ok.ID)
	assert.Equal(t, 10, p1.Stock)
	p2, _ := productRepo.FindByID(context.Background(), scarce.ID)
	assert.Equal(t, 2, p2.Stock)
	member, _ := loyaltyRepo.FindByID(context.Background(), m.ID)
	assert.Equal(t, 100, member.Points)
}

func TestCheckout_UnknownProduct(t *testing.T) {
	svc, _, _, _, _ := buildCheckoutSvc()

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: uuid.NewString(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	var nf *apierror.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCheckout_InactiveProductRejected(t *testing.T) {
	svc, _, productRepo, _, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Discontinued Soda", 80, 10)
	p.Active = false

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	var nf *apierror.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCheckout_WholesalePrice(t *testing.T) {
	svc, _, productRepo, _, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Flour 2kg", 200, 50)
	wholesale := decimal.NewFromInt(170)
	p.WholesalePrice = &wholesale

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 10, Wholesale: true}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "1700", resp.Total.String())
	assert.Equal(t, "170", resp.Items[0].Price.String())
}

func TestCheckout_WholesaleFlagIgnoredWithoutWholesalePrice(t *testing.T) {
	svc, _, productRepo, _, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Salt 500g", 50, 50)

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 2, Wholesale: true}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "100", resp.Total.String())
}

func TestCheckout_DuplicateLinesMerged(t *testing.T) {
	svc, saleRepo, productRepo, _, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Eggs Tray", 360, 5)

	// 3 + 3 = 6 > 5 in stock: merged demand must be rejected even though each
	// line individually fits.
	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items: []dto.CartLineRequest{
			{ProductID: p.ID.String(), Quantity: 3},
			{ProductID: p.ID.String(), Quantity: 3},
		},
		PaymentMethod: model.PaymentCash,
	})
	var is *apierror.InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, 6, is.Requested)
	assert.Empty(t, saleRepo.sales)

	// 2 + 2 = 4 fits and lands as a single merged line
	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items: []dto.CartLineRequest{
			{ProductID: p.ID.String(), Quantity: 2},
			{ProductID: p.ID.String(), Quantity: 2},
		},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 4, resp.Items[0].Quantity)

	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 1, stored.Stock)
}

func TestCheckout_OnCreditRequiresMember(t *testing.T) {
	svc, _, productRepo, _, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Gas Refill", 1200, 5)

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentOnCredit,
	})
	assert.ErrorContains(t, err, "requires a loyalty member")
}

func TestCheckout_OnCreditAddsDebtAndStaysUnpaid(t *testing.T) {
	svc, _, productRepo, loyaltyRepo, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Maize Flour Bale", 2500, 8)
	m := seedMember(loyaltyRepo, "Mutua", 0)
	memberID := m.ID.String()

	resp, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentOnCredit,
		CustomerID:    &memberID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusUnpaid, resp.Status)
	assert.Equal(t, 25, resp.PointsEarned)

	stored, _ := loyaltyRepo.FindByID(context.Background(), m.ID)
	assert.Equal(t, "2500", stored.Debt.String())
	assert.Equal(t, 25, stored.Points)
}

func TestCheckout_ConcurrentSalesNeverOversell(t *testing.T) {
	svc, saleRepo, productRepo, _, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Hotcake Batteries", 100, 10)

	// Two cashiers sell 6 each against 10 in stock. Exactly one must win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
				Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 6}},
				PaymentMethod: model.PaymentCash,
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			var is *apierror.InsufficientStockError
			require.ErrorAs(t, err, &is)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two overlapping sales must fail")

	stored, _ := productRepo.FindByID(context.Background(), p.ID)
	assert.Equal(t, 4, stored.Stock)
	assert.Len(t, saleRepo.sales, 1)
}

func TestListSales_FilterByStatus(t *testing.T) {
	svc, _, productRepo, loyaltyRepo, _ := buildCheckoutSvc()
	p := seedProduct(productRepo, "Soap Bar", 120, 100)
	m := seedMember(loyaltyRepo, "Njeri", 0)
	memberID := m.ID.String()

	_, err := svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	_, err = svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{
		Items:         []dto.CartLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: model.PaymentOnCredit,
		CustomerID:    &memberID,
	})
	require.NoError(t, err)

	unpaid, err := svc.ListSales(context.Background(), dto.SaleFilter{Status: model.SaleStatusUnpaid})
	require.NoError(t, err)
	require.Len(t, unpaid.Data, 1)
	assert.Equal(t, model.SaleStatusUnpaid, unpaid.Data[0].Status)

	all, err := svc.ListSales(context.Background(), dto.SaleFilter{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, all.Data, 2)
}
