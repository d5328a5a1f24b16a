package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Xlizer1/janah-server-sub000/internal/models"
)

// AnalyticsService is read-only aggregation over persisted orders. All rates
// and averages are computed over the filtered set, not globally.
type AnalyticsService struct {
	DB *gorm.DB
}

// DateRange bounds a query; nil endpoints mean unbounded. To is exclusive.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type Summary struct {
	TotalOrders       int64            `json:"total_orders"`
	StatusCounts      map[string]int64 `json:"status_counts"`
	TotalRevenue      float64          `json:"total_revenue"`
	AverageOrderValue float64          `json:"average_order_value"`
	UniqueCustomers   int64            `json:"unique_customers"`
	DeliveryRate      float64          `json:"delivery_rate"`
	CancellationRate  float64          `json:"cancellation_rate"`
}

type DailyPoint struct {
	Day     string  `json:"day"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type TopProduct struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	FullCode     string  `json:"full_code"`
	QuantitySold int64   `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

type TopCustomer struct {
	UserID       uint    `json:"user_id"`
	CustomerName string  `json:"customer_name"`
	OrdersCount  int64   `json:"orders_count"`
	TotalSpend   float64 `json:"total_spend"`
}

type FulfillmentTiming struct {
	DeliveredOrders            int64   `json:"delivered_orders"`
	AvgCreatedToConfirmedHours float64 `json:"avg_created_to_confirmed_hours"`
	AvgConfirmedToShippedHours float64 `json:"avg_confirmed_to_shipped_hours"`
	AvgShippedToDeliveredHours float64 `json:"avg_shipped_to_delivered_hours"`
	AvgTotalFulfillmentHours   float64 `json:"avg_total_fulfillment_time_hours"`
	DeliverySuccessRate        float64 `json:"delivery_success_rate"`
	CancellationRate           float64 `json:"cancellation_rate"`
}

func (a *AnalyticsService) inRange(q *gorm.DB, r DateRange, col string) *gorm.DB {
	if r.From != nil {
		q = q.Where(col+" >= ?", *r.From)
	}
	if r.To != nil {
		q = q.Where(col+" < ?", *r.To)
	}
	return q
}

func (a *AnalyticsService) Summary(ctx context.Context, r DateRange) (*Summary, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	q := a.inRange(a.DB.WithContext(ctx).Model(&models.Order{}), r, "created_at")
	if err := q.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: status counts: %w", ErrDatabase, err)
	}

	s := &Summary{StatusCounts: make(map[string]int64)}
	for _, row := range rows {
		s.StatusCounts[row.Status] = row.Count
		s.TotalOrders += row.Count
	}

	// Revenue over non-cancelled orders only.
	var rev struct {
		Total float64
		Count int64
	}
	q = a.inRange(a.DB.WithContext(ctx).Model(&models.Order{}), r, "created_at").
		Where("status <> ?", models.StatusCancelled)
	if err := q.Select("COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count").Scan(&rev).Error; err != nil {
		return nil, fmt.Errorf("%w: revenue: %w", ErrDatabase, err)
	}
	s.TotalRevenue = rev.Total
	if rev.Count > 0 {
		s.AverageOrderValue = rev.Total / float64(rev.Count)
	}

	q = a.inRange(a.DB.WithContext(ctx).Model(&models.Order{}), r, "created_at")
	if err := q.Distinct("user_id").Count(&s.UniqueCustomers).Error; err != nil {
		return nil, fmt.Errorf("%w: unique customers: %w", ErrDatabase, err)
	}

	if s.TotalOrders > 0 {
		s.DeliveryRate = float64(s.StatusCounts[models.StatusDelivered]) / float64(s.TotalOrders) * 100
		s.CancellationRate = float64(s.StatusCounts[models.StatusCancelled]) / float64(s.TotalOrders) * 100
	}
	return s, nil
}

// DailyTrend returns per-day order count and revenue over the last N days.
// Bucketing happens in Go; SQL date functions differ per dialect.
func (a *AnalyticsService) DailyTrend(ctx context.Context, days int) ([]DailyPoint, error) {
	if days < 1 {
		days = 7
	}
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	var rows []struct {
		CreatedAt   time.Time
		TotalAmount float64
	}
	err := a.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("created_at, total_amount").
		Where("created_at >= ?", start).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: daily trend: %w", ErrDatabase, err)
	}

	points := make([]DailyPoint, days)
	index := make(map[string]*DailyPoint, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		points[i].Day = day
		index[day] = &points[i]
	}
	for _, row := range rows {
		if p, ok := index[row.CreatedAt.UTC().Format("2006-01-02")]; ok {
			p.Orders++
			p.Revenue += row.TotalAmount
		}
	}
	return points, nil
}

func (a *AnalyticsService) TopProducts(ctx context.Context, r DateRange, limit int) ([]TopProduct, error) {
	if limit < 1 {
		limit = 10
	}
	var out []TopProduct
	q := a.DB.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, order_items.product_name, order_items.full_code, "+
			"SUM(order_items.quantity) AS quantity_sold, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.StatusCancelled)
	q = a.inRange(q, r, "orders.created_at")
	err := q.Group("order_items.product_id, order_items.product_name, order_items.full_code").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%w: top products: %w", ErrDatabase, err)
	}
	return out, nil
}

func (a *AnalyticsService) TopCustomers(ctx context.Context, r DateRange, limit int) ([]TopCustomer, error) {
	if limit < 1 {
		limit = 10
	}
	var out []TopCustomer
	q := a.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("user_id, customer_name, COUNT(*) AS orders_count, SUM(total_amount) AS total_spend").
		Where("status <> ?", models.StatusCancelled)
	q = a.inRange(q, r, "created_at")
	err := q.Group("user_id, customer_name").
		Order("total_spend DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%w: top customers: %w", ErrDatabase, err)
	}
	return out, nil
}

// Timing averages the hours between milestone pairs over orders that have
// both endpoints set. Intervals are computed in Go for dialect portability.
func (a *AnalyticsService) Timing(ctx context.Context, r DateRange) (*FulfillmentTiming, error) {
	var rows []struct {
		Status      string
		CreatedAt   time.Time
		ConfirmedAt *time.Time
		ShippedAt   *time.Time
		DeliveredAt *time.Time
	}
	q := a.inRange(a.DB.WithContext(ctx).Model(&models.Order{}), r, "created_at")
	err := q.Select("status, created_at, confirmed_at, shipped_at, delivered_at").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: fulfillment timing: %w", ErrDatabase, err)
	}

	t := &FulfillmentTiming{}
	var (
		total                               int64
		cancelled                           int64
		confSum, shipSum, delivSum, fullSum float64
		confN, shipN, delivN, fullN         int64
	)
	for _, row := range rows {
		total++
		if row.Status == models.StatusCancelled {
			cancelled++
		}
		if row.Status == models.StatusDelivered {
			t.DeliveredOrders++
		}
		if row.ConfirmedAt != nil {
			confSum += row.ConfirmedAt.Sub(row.CreatedAt).Hours()
			confN++
		}
		if row.ConfirmedAt != nil && row.ShippedAt != nil {
			shipSum += row.ShippedAt.Sub(*row.ConfirmedAt).Hours()
			shipN++
		}
		if row.ShippedAt != nil && row.DeliveredAt != nil {
			delivSum += row.DeliveredAt.Sub(*row.ShippedAt).Hours()
			delivN++
		}
		if row.DeliveredAt != nil {
			fullSum += row.DeliveredAt.Sub(row.CreatedAt).Hours()
			fullN++
		}
	}

	if confN > 0 {
		t.AvgCreatedToConfirmedHours = confSum / float64(confN)
	}
	if shipN > 0 {
		t.AvgConfirmedToShippedHours = shipSum / float64(shipN)
	}
	if delivN > 0 {
		t.AvgShippedToDeliveredHours = delivSum / float64(delivN)
	}
	if fullN > 0 {
		t.AvgTotalFulfillmentHours = fullSum / float64(fullN)
	}
	if total > 0 {
		t.DeliverySuccessRate = float64(t.DeliveredOrders) / float64(total) * 100
		t.CancellationRate = float64(cancelled) / float64(total) * 100
	}
	return t, nil
}
