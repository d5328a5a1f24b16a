package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xlizer1/janah-server-sub000/internal/models"
	"github.com/Xlizer1/janah-server-sub000/internal/util"
)

type OrderRepo struct {
	DB *gorm.DB
}

// ListFilter narrows ListOrders. Zero values mean "no filter"; Page and Size
// are normalized by util.Calculate.
type ListFilter struct {
	Status string
	UserID uint
	From   *time.Time
	To     *time.Time
	Search string
	Page   int
	Size   int
}

// CreateOrderWithItems persists the header and all line items in one
// transaction; a reader never observes the header without its items.
func (r *OrderRepo) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

// orderQuery joins the milestone actor ids to usernames for display.
func (r *OrderRepo) orderQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("orders.*, cu.username AS confirmed_by_name, su.username AS shipped_by_name, du.username AS delivered_by_name").
		Joins("LEFT JOIN users cu ON cu.id = orders.confirmed_by").
		Joins("LEFT JOIN users su ON su.id = orders.shipped_by").
		Joins("LEFT JOIN users du ON du.id = orders.delivered_by")
}

func (r *OrderRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order := models.Order{}
	if err := r.orderQuery(ctx).Where("orders.id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	order := models.Order{}
	if err := r.orderQuery(ctx).Where("orders.order_number = ?", number).First(&order).Error; err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// loadDetails hydrates items and history. Items carry the current product
// name/image for display; the stored snapshot columns stay untouched.
func (r *OrderRepo) loadDetails(ctx context.Context, order *models.Order) error {
	var items []models.OrderItem
	err := r.DB.WithContext(ctx).
		Table("order_items").
		Select("order_items.*, products.name AS current_name, products.image_url AS current_image").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", order.ID).
		Order("order_items.id ASC").
		Find(&items).Error
	if err != nil {
		return err
	}
	order.Items = items

	history, err := r.GetHistory(ctx, order.ID)
	if err != nil {
		return err
	}
	order.History = history
	return nil
}

func (r *OrderRepo) GetHistory(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := r.DB.WithContext(ctx).
		Table("order_status_histories").
		Select("order_status_histories.*, users.username AS changed_by_name").
		Joins("LEFT JOIN users ON users.id = order_status_histories.changed_by").
		Where("order_status_histories.order_id = ?", orderID).
		Order("order_status_histories.created_at ASC, order_status_histories.id ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (r *OrderRepo) ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("order_number LIKE ? OR customer_name LIKE ? OR customer_phone LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := util.Calculate(f.Page, f.Size)

	var orders []models.Order
	if err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus writes the mutated order row and appends its history row
// atomically. Both succeed or both fail.
func (r *OrderRepo) UpdateStatus(ctx context.Context, order *models.Order, hist *models.OrderStatusHistory) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return err
		}
		return tx.Create(hist).Error
	})
}

func (r *OrderRepo) CountCreatedOn(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OrderRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
