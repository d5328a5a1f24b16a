package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xlizer1/janah-server-sub000/internal/models"
	"github.com/Xlizer1/janah-server-sub000/internal/transport"
)

var numberPattern = regexp.MustCompile(`^ORD\d{6}\d{3}(\d{1,2})?$`)

func TestCreateOrder_TotalAmount(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedProduct(t, models.Product{Name: "widget", Price: 10, StockQuantity: 5, IsActive: true})
	b := env.seedProduct(t, models.Product{Name: "gadget", Code: "P02", Price: 5, StockQuantity: 5, IsActive: true})

	order := env.createOrder(t,
		transport.CreateOrderItem{ProductID: a.ID, Quantity: 2},
		transport.CreateOrderItem{ProductID: b.ID, Quantity: 1},
	)

	assert.Equal(t, float64(25), order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, float64(20), order.Items[0].Subtotal)
	assert.Equal(t, float64(5), order.Items[1].Subtotal)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Regexp(t, numberPattern, order.OrderNumber)
}

func TestCreateOrder_Validation(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, models.Product{Name: "widget", Price: 10, StockQuantity: 5, IsActive: true})
	ctx := context.Background()

	tests := []struct {
		name  string
		items []transport.CreateOrderItem
	}{
		{name: "empty item list", items: nil},
		{name: "zero quantity", items: []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 0}}},
		{name: "missing product id", items: []transport.CreateOrderItem{{Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Svc.CreateOrder(ctx, transport.CreateOrderRequest{
				UserID:          1,
				CustomerName:    "Test Customer",
				CustomerPhone:   "+100000001",
				DeliveryAddress: "1 Test St",
				Items:           tt.items,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Equal(t, int64(0), env.orderCount(t))
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Svc.CreateOrder(context.Background(), transport.CreateOrderRequest{
		UserID:          1,
		CustomerName:    "Test Customer",
		CustomerPhone:   "+100000001",
		DeliveryAddress: "1 Test St",
		Items:           []transport.CreateOrderItem{{ProductID: 42, Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), env.orderCount(t))
	assert.Equal(t, int64(0), env.itemCount(t))
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, models.Product{Name: "retired widget", Price: 10, StockQuantity: 5, IsActive: false})

	_, err := env.Svc.CreateOrder(context.Background(), transport.CreateOrderRequest{
		UserID:          1,
		CustomerName:    "Test Customer",
		CustomerPhone:   "+100000001",
		DeliveryAddress: "1 Test St",
		Items:           []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusinessLogic)
	assert.Contains(t, err.Error(), "retired widget")
	assert.Equal(t, int64(0), env.orderCount(t))
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, models.Product{Name: "scarce widget", Price: 10, StockQuantity: 2, IsActive: true})

	_, err := env.Svc.CreateOrder(context.Background(), transport.CreateOrderRequest{
		UserID:          1,
		CustomerName:    "Test Customer",
		CustomerPhone:   "+100000001",
		DeliveryAddress: "1 Test St",
		Items:           []transport.CreateOrderItem{{ProductID: p.ID, Quantity: 3}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusinessLogic)
	assert.Contains(t, err.Error(), "scarce widget")
	assert.Equal(t, int64(0), env.orderCount(t))
	assert.Equal(t, int64(0), env.itemCount(t))
}

func TestCreateOrder_StockNotDecremented(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, models.Product{Name: "widget", Price: 10, StockQuantity: 5, IsActive: true})

	env.createOrder(t, transport.CreateOrderItem{ProductID: p.ID, Quantity: 3})

	var got models.Product
	require.NoError(t, env.DB.First(&got, p.ID).Error)
	assert.Equal(t, uint(5), got.StockQuantity)
}

func TestCreateOrder_SnapshotSurvivesCatalogChanges(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, models.Product{Name: "widget", Price: 10, StockQuantity: 5, IsActive: true})

	order := env.createOrder(t, transport.CreateOrderItem{ProductID: p.ID, Quantity: 2})

	require.NoError(t, env.DB.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]any{"name": "widget deluxe", "price": 99.0}).Error)

	got, err := env.Svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "widget", got.Items[0].ProductName)
	assert.Equal(t, float64(10), got.Items[0].Price)
	assert.Equal(t, float64(20), got.TotalAmount)
	assert.Equal(t, "widget deluxe", got.Items[0].CurrentName, "display name follows the catalog")
}

func TestCreateOrder_NumbersUnique(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, models.Product{Name: "widget", Price: 10, StockQuantity: 100, IsActive: true})

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		order := env.createOrder(t, transport.CreateOrderItem{ProductID: p.ID, Quantity: 1})
		assert.Regexp(t, numberPattern, order.OrderNumber)
		assert.False(t, seen[order.OrderNumber], "duplicate order number %s", order.OrderNumber)
		seen[order.OrderNumber] = true
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Svc.GetOrder(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.Svc.GetOrderByNumber(context.Background(), "ORD000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
