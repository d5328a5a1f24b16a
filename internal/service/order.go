package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Xlizer1/janah-server-sub000/internal/catalog"
	"github.com/Xlizer1/janah-server-sub000/internal/logging"
	"github.com/Xlizer1/janah-server-sub000/internal/models"
	"github.com/Xlizer1/janah-server-sub000/internal/notify"
	"github.com/Xlizer1/janah-server-sub000/internal/ordernum"
	"github.com/Xlizer1/janah-server-sub000/internal/repo"
	"github.com/Xlizer1/janah-server-sub000/internal/transport"
)

// maxNumberAttempts bounds the retry loop on order-number collisions. The
// unique index rejects the duplicate; we regenerate and try again.
const maxNumberAttempts = 5

type OrderService struct {
	Repo       *repo.OrderRepo
	Catalog    catalog.Catalog
	Numbers    *ordernum.Generator
	Dispatcher notify.Dispatcher
}

// CreateOrder validates the item list against the catalog, prices it, and
// persists the order with its item snapshots atomically. Stock is validated
// but not decremented.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("op", "order.create")

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))

	for i := range req.Items {
		it := req.Items[i]
		if it.ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}

		product, err := s.Catalog.GetByID(ctx, it.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, it.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: look up product %d: %w", ErrDatabase, it.ProductID, err)
		}

		if !product.IsActive {
			return nil, fmt.Errorf("%w: product %q is not active", ErrBusinessLogic, product.Name)
		}
		if product.StockQuantity < it.Quantity {
			return nil, fmt.Errorf("%w: insufficient stock for product %q: have %d, requested %d",
				ErrBusinessLogic, product.Name, product.StockQuantity, it.Quantity)
		}

		subtotal := product.Price * float64(it.Quantity)
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductCode:  product.Code,
			CategoryCode: product.CategoryCode,
			FullCode:     product.FullCode,
			Price:        product.Price,
			Quantity:     it.Quantity,
			Subtotal:     subtotal,
		})
		total += subtotal
	}

	var created *models.Order
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := s.Numbers.Next(ctx, attempt)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
		}

		order := &models.Order{
			OrderNumber:     number,
			UserID:          req.UserID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			TotalAmount:     total,
			DeliveryAddress: req.DeliveryAddress,
			DeliveryNotes:   req.DeliveryNotes,
			Status:          models.StatusPending,
		}

		err = s.Repo.CreateOrderWithItems(ctx, order, items)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("order number collision", "order_number", number, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: create order: %w", ErrDatabase, err)
		}
		created = order
		break
	}
	if created == nil {
		return nil, fmt.Errorf("%w: could not assign a unique order number after %d attempts", ErrDatabase, maxNumberAttempts)
	}

	full, err := s.Repo.GetOrder(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: reload order: %w", ErrDatabase, err)
	}

	l.Info("order created", "order_number", full.OrderNumber, "total_amount", full.TotalAmount, "items", len(full.Items))
	return full, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get order: %w", ErrDatabase, err)
	}
	return order, nil
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	order, err := s.Repo.GetByNumber(ctx, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, number)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get order: %w", ErrDatabase, err)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, f repo.ListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.Repo.ListOrders(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list orders: %w", ErrDatabase, err)
	}
	return orders, total, nil
}
