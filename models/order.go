package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Paid and accepted
	OrderStatusPacked    OrderStatus = "packed"    // Packed and ready for dispatch
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the fruit
	OrderStatusReturned  OrderStatus = "returned"  // Customer returned the order
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

// ParseOrderStatus maps free-form input onto a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPacked,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusReturned,
		OrderStatusCancelled:
		return st, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

type Order struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	UserID         string        `gorm:"index;not null;size:128" json:"user_id"`
	User           *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IdempotencyKey string        `gorm:"uniqueIndex;not null;size:64" json:"-"`
	TrackingID     string        `gorm:"uniqueIndex;not null;size:16" json:"tracking_id"`
	Items          []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal       float64       `json:"subtotal"`
	Shipping       float64       `json:"shipping"`
	Tax            float64       `json:"tax"`
	Total          float64       `json:"total"`
	Currency       string        `gorm:"size:3" json:"currency"`
	Status         OrderStatus   `gorm:"type:VARCHAR(20);default:'confirmed'" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentRef     string        `gorm:"index" json:"payment_ref"`
	GatewayOrderID string        `gorm:"uniqueIndex:idx_orders_gateway_order_id,where:gateway_order_id <> ''" json:"gateway_order_id"`
	Customer       CustomerInfo  `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	TrackingLogs   []TrackingLog `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"tracking_logs,omitempty"`
	ShippedAt      *time.Time    `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time    `json:"delivered_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     string  `gorm:"index;size:36" json:"order_id"`
	ProductID   string  `gorm:"size:64" json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CustomerInfo is the shipping contact captured on the checkout form.
type CustomerInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (c CustomerInfo) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type TrackingLog struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderID     string      `gorm:"index;size:36" json:"order_id"`
	Status      OrderStatus `gorm:"type:VARCHAR(20)" json:"status"`
	Location    string      `json:"location,omitempty"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"timestamp"`
}
