package models

import (
	"time"
)

const (
	StatusPending     = "pending"
	StatusConfirmed   = "confirmed"
	StatusPreparing   = "preparing"
	StatusReadyToShip = "ready_to_ship"
	StatusShipped     = "shipped"
	StatusDelivered   = "delivered"
	StatusCancelled   = "cancelled"
)

// Statuses lists every valid order status value.
var Statuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyToShip,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type Product struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name          string  `gorm:"not null"                  json:"name"`
	Code          string  `gorm:"not null"                  json:"code"`
	CategoryCode  string  `gorm:"not null"                  json:"category_code"`
	FullCode      string  `gorm:"index;not null"            json:"full_code"`
	Description   string  `json:"description"`
	Price         float64 `gorm:"not null"                  json:"price"`
	StockQuantity uint    `gorm:"not null;default:0"        json:"stock_quantity"`
	IsActive      bool    `gorm:"not null;default:true"     json:"is_active"`
	ImageURL      string  `json:"image_url"`
}

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"unique;not null"          json:"username"`
	Role     string `gorm:"not null;default:user"    json:"role"`
}

type Order struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null"      json:"order_number"`

	UserID        uint   `gorm:"index;not null"  json:"user_id"`
	CustomerName  string `gorm:"not null"        json:"customer_name"`
	CustomerPhone string `gorm:"not null"        json:"customer_phone"`

	TotalAmount     float64 `gorm:"not null"  json:"total_amount"`
	DeliveryAddress string  `gorm:"not null"  json:"delivery_address"`
	DeliveryNotes   string  `json:"delivery_notes"`

	Status      string     `gorm:"index;not null;default:pending"  json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	ConfirmedBy *uint      `json:"confirmed_by"`
	ShippedAt   *time.Time `json:"shipped_at"`
	ShippedBy   *uint      `json:"shipped_by"`
	DeliveredAt *time.Time `json:"delivered_at"`
	DeliveredBy *uint      `json:"delivered_by"`
	AdminNotes  string     `json:"admin_notes"`

	CreatedAt time.Time `gorm:"index"  json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items   []OrderItem          `gorm:"foreignKey:OrderID"  json:"items,omitempty"`
	History []OrderStatusHistory `gorm:"foreignKey:OrderID"  json:"history,omitempty"`

	// Display-only, joined from users on reads.
	ConfirmedByName string `gorm:"->;-:migration"  json:"confirmed_by_name,omitempty"`
	ShippedByName   string `gorm:"->;-:migration"  json:"shipped_by_name,omitempty"`
	DeliveredByName string `gorm:"->;-:migration"  json:"delivered_by_name,omitempty"`
}

// OrderItem is an immutable snapshot of a product at order time. Later catalog
// changes never alter a placed order.
type OrderItem struct {
	ID      uint `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID uint `gorm:"index;not null"            json:"order_id"`

	ProductID    uint    `gorm:"not null"                    json:"product_id"`
	ProductName  string  `gorm:"not null"                    json:"product_name"`
	ProductCode  string  `gorm:"not null"                    json:"product_code"`
	CategoryCode string  `gorm:"not null"                    json:"category_code"`
	FullCode     string  `gorm:"not null"                    json:"full_code"`
	Price        float64 `gorm:"not null"                    json:"price"`
	Quantity     uint    `gorm:"not null;check:quantity>0"   json:"quantity"`
	Subtotal     float64 `gorm:"not null"                    json:"subtotal"`

	// Display-only, joined from the current product row on reads.
	CurrentName  string `gorm:"->;-:migration"  json:"current_name,omitempty"`
	CurrentImage string `gorm:"->;-:migration"  json:"current_image,omitempty"`
}

// OrderStatusHistory rows are append-only; one row per executed transition.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID   uint      `gorm:"index;not null"            json:"order_id"`
	OldStatus string    `gorm:"not null"                  json:"old_status"`
	NewStatus string    `gorm:"not null"                  json:"new_status"`
	ChangedBy uint      `gorm:"not null"                  json:"changed_by"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `gorm:"index"                     json:"created_at"`

	ChangedByName string `gorm:"->;-:migration"  json:"changed_by_name,omitempty"`
}
