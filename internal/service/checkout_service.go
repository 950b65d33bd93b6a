package service

import (
	"context"
	"errors"
	"fmt"

	"shopcentral/internal/apierror"
	"shopcentral/internal/dto"
	"shopcentral/internal/model"
	"shopcentral/internal/repository"
	"shopcentral/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// pointsDivisor: one loyalty point per KSH 100 of the final sale total.
var pointsDivisor = decimal.NewFromInt(100)

type CheckoutService interface {
	Checkout(ctx context.Context, cashierID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type checkoutService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	loyaltyRepo  repository.LoyaltyRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
}

func NewCheckoutService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	loyaltyRepo repository.LoyaltyRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) CheckoutService {
	return &checkoutService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		loyaltyRepo:  loyaltyRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Checkout ──────────────────────────────────────────────────────────────────
// Single ACID transaction per checkout:
//   1. Merge duplicate cart lines, resolve products, pick retail/wholesale price
//   2. Resolve the loyalty member (when attached) and the "On Credit" rules
//   3. BEGIN TX: lock product rows, verify stock, create sale + item snapshots,
//      guarded stock decrements, movement audit rows, member points and debt
//   4. COMMIT
//   5. (async) dispatch receipt job
//
// Any failure inside the transaction aborts the whole sale: stock, points,
// debt and the sale record always move together.

func (s *checkoutService) Checkout(ctx context.Context, cashierID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	// 1. "On Credit" needs someone to owe the money.
	if req.PaymentMethod == model.PaymentOnCredit && (req.CustomerID == nil || *req.CustomerID == "") {
		return nil, errors.New("paying on credit requires a loyalty member")
	}

	// 2. Merge duplicate lines so the stock check sees the real demand per product.
	type cartLine struct {
		productID uuid.UUID
		quantity  int
		wholesale bool
	}
	merged := make([]cartLine, 0, len(req.Items))
	index := make(map[string]int, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		key := item.ProductID
		if item.Wholesale {
			key += ":w"
		}
		if i, ok := index[key]; ok {
			merged[i].quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, cartLine{productID: pid, quantity: item.Quantity, wholesale: item.Wholesale})
	}

	// 3. Resolve products and price each line (pre-flight, outside TX).
	type resolvedLine struct {
		productID uuid.UUID
		name      string
		brand     string
		quantity  int
		price     decimal.Decimal
		total     decimal.Decimal
	}
	resolved := make([]resolvedLine, 0, len(merged))
	subtotal := decimal.Zero

	for _, line := range merged {
		p, err := s.productRepo.FindByID(ctx, line.productID)
		if err != nil {
			return nil, apierror.NewNotFound("product", line.productID.String())
		}
		if !p.Active {
			return nil, apierror.NewNotFound("product", line.productID.String())
		}
		if p.Stock < line.quantity {
			return nil, &apierror.InsufficientStockError{
				Product:   p.Name,
				Requested: line.quantity,
				Available: p.Stock,
			}
		}

		price := p.Price
		if line.wholesale && p.WholesalePrice != nil && p.WholesalePrice.IsPositive() {
			price = *p.WholesalePrice
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(line.quantity)))
		subtotal = subtotal.Add(lineTotal)

		resolved = append(resolved, resolvedLine{
			productID: line.productID,
			name:      p.Name,
			brand:     p.Brand,
			quantity:  line.quantity,
			price:     price,
			total:     lineTotal,
		})
	}

	total := subtotal

	// 4. Resolve loyalty member.
	var member *model.LoyaltyMember
	if req.CustomerID != nil && *req.CustomerID != "" {
		memberID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id: %w", err)
		}
		member, err = s.loyaltyRepo.FindByID(ctx, memberID)
		if err != nil {
			return nil, apierror.NewNotFound("loyalty member", *req.CustomerID)
		}
	}

	// 5. Points accrue only for identified members: 1 per KSH 100 of the total.
	pointsEarned := 0
	if member != nil {
		pointsEarned = int(total.Div(pointsDivisor).Floor().IntPart())
	}

	status := model.SaleStatusPaid
	if req.PaymentMethod == model.PaymentOnCredit {
		status = model.SaleStatusUnpaid
	}

	customerName := model.WalkInCustomer
	var customerID *uuid.UUID
	if member != nil {
		customerName = member.Name
		id := member.ID
		customerID = &id
	}

	// 6. ACID transaction.
	var sale model.Sale
	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		// Lock every product row first so concurrent checkouts on overlapping
		// carts serialize, then re-verify stock against the locked rows.
		type lockedLine struct {
			resolvedLine
			stockBefore int
		}
		locked := make([]lockedLine, 0, len(resolved))
		for _, line := range resolved {
			p, err := s.productRepo.FindByIDForUpdateTx(tx, line.productID)
			if err != nil {
				return apierror.NewNotFound("product", line.productID.String())
			}
			if p.Stock < line.quantity {
				return &apierror.InsufficientStockError{
					Product:   p.Name,
					Requested: line.quantity,
					Available: p.Stock,
				}
			}
			locked = append(locked, lockedLine{resolvedLine: line, stockBefore: p.Stock})
		}

		sale = model.Sale{
			Subtotal:      subtotal,
			Total:         total,
			PaymentMethod: req.PaymentMethod,
			Status:        status,
			CustomerID:    customerID,
			CustomerName:  customerName,
			CashierID:     cashierID,
		}
		for _, line := range locked {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: line.productID,
				Name:      line.name,
				Brand:     line.brand,
				Quantity:  line.quantity,
				Price:     line.price,
				Total:     line.total,
			})
		}
		if err := s.saleRepo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		// Guarded decrements: the WHERE stock >= qty clause is the last line of
		// defense if anything slipped past the row locks.
		for _, line := range locked {
			ok, err := s.productRepo.DecrementStockTx(tx, line.productID, line.quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &apierror.InsufficientStockError{
					Product:   line.name,
					Requested: line.quantity,
					Available: line.stockBefore,
				}
			}

			saleRef := sale.ID
			mov := &model.StockMovement{
				ProductID:   line.productID,
				Type:        "sale",
				Quantity:    -line.quantity,
				StockBefore: line.stockBefore,
				StockAfter:  line.stockBefore - line.quantity,
				Reason:      fmt.Sprintf("Sale %s", sale.ID),
				ReferenceID: &saleRef,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		if member != nil {
			if pointsEarned > 0 {
				if err := s.loyaltyRepo.AddPointsTx(tx, member.ID, pointsEarned); err != nil {
					return err
				}
			}
			if req.PaymentMethod == model.PaymentOnCredit {
				if err := s.loyaltyRepo.AddDebtTx(tx, member.ID, total); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 7. Async receipt job (best-effort — fire & forget).
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{
			SaleID:        sale.ID.String(),
			PointsEarned:  pointsEarned,
			CustomerEmail: req.CustomerEmail,
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	return saleToResponse(&sale, pointsEarned), nil
}

func (s *checkoutService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("sale", id.String())
	}
	return saleToResponse(sale, pointsFor(sale)), nil
}

func (s *checkoutService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i], pointsFor(&sales[i])))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// pointsFor recomputes the points a historical sale earned. Walk-in sales
// never accrue.
func pointsFor(s *model.Sale) int {
	if s.CustomerID == nil {
		return 0
	}
	return int(s.Total.Div(pointsDivisor).Floor().IntPart())
}

func saleToResponse(s *model.Sale, pointsEarned int) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Brand:     item.Brand,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Total:     item.Total,
		})
	}
	var customerID *string
	if s.CustomerID != nil {
		id := s.CustomerID.String()
		customerID = &id
	}
	return &dto.SaleResponse{
		ID:            s.ID.String(),
		Items:         items,
		Subtotal:      s.Subtotal,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		CustomerID:    customerID,
		CustomerName:  s.CustomerName,
		PointsEarned:  pointsEarned,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
