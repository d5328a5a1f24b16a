package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xlizer1/janah-server-sub000/internal/catalog"
	"github.com/Xlizer1/janah-server-sub000/internal/models"
	"github.com/Xlizer1/janah-server-sub000/internal/notify"
	"github.com/Xlizer1/janah-server-sub000/internal/ordernum"
	"github.com/Xlizer1/janah-server-sub000/internal/repo"
	"github.com/Xlizer1/janah-server-sub000/internal/transport"
	"github.com/Xlizer1/janah-server-sub000/pkg/db"
)

type fakeDispatcher struct {
	events []notify.Event
	fail   bool
}

func (d *fakeDispatcher) Notify(_ context.Context, e notify.Event) error {
	if d.fail {
		return errors.New("broker unavailable")
	}
	d.events = append(d.events, e)
	return nil
}

type testEnv struct {
	DB         *gorm.DB
	Svc        *OrderService
	Dispatcher *fakeDispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	dispatcher := &fakeDispatcher{}
	orderRepo := &repo.OrderRepo{DB: gdb}

	return &testEnv{
		DB:         gdb,
		Dispatcher: dispatcher,
		Svc: &OrderService{
			Repo:       orderRepo,
			Catalog:    &catalog.GormCatalog{DB: gdb},
			Numbers:    &ordernum.Generator{Repo: orderRepo},
			Dispatcher: dispatcher,
		},
	}
}

func (env *testEnv) seedProduct(t *testing.T, p models.Product) models.Product {
	t.Helper()
	if p.Code == "" {
		p.Code = "P01"
	}
	if p.CategoryCode == "" {
		p.CategoryCode = "CAT"
	}
	if p.FullCode == "" {
		p.FullCode = p.CategoryCode + "-" + p.Code
	}
	// GORM substitutes the default:true for a zero-valued IsActive on insert
	// (and writes it back into the struct), so restore the seeded value with an
	// explicit column update.
	active := p.IsActive
	require.NoError(t, env.DB.Create(&p).Error)
	require.NoError(t, env.DB.Model(&p).UpdateColumn("is_active", active).Error)
	p.IsActive = active
	return p
}

func (env *testEnv) createOrder(t *testing.T, items ...transport.CreateOrderItem) *models.Order {
	t.Helper()
	order, err := env.Svc.CreateOrder(context.Background(), transport.CreateOrderRequest{
		UserID:          1,
		CustomerName:    "Test Customer",
		CustomerPhone:   "+100000001",
		DeliveryAddress: "1 Test St",
		Items:           items,
	})
	require.NoError(t, err)
	return order
}

func (env *testEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&n).Error)
	return n
}

func (env *testEnv) itemCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.DB.Model(&models.OrderItem{}).Count(&n).Error)
	return n
}

func (env *testEnv) historyCount(t *testing.T, orderID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.DB.Model(&models.OrderStatusHistory{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}
