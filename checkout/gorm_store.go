package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fruitika/storefront-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxCreateAttempts = 3

// GormOrderStore is the order repository backed by Postgres. The database
// should be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
type GormOrderStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db, now: time.Now}
}

// NewTrackingID returns a short public reference such as FRK-3F9A12BC.
func NewTrackingID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "FRK-" + strings.ToUpper(raw[:8])
}

// CreateOrder inserts the order, its items and the first tracking entry in
// one transaction. A key that was seen before returns the existing order,
// and so does a payment that already funded one of the buyer's orders.
// A payment that funded somebody else's order is ErrPaymentUsed.
func (s *GormOrderStore) CreateOrder(ctx context.Context, req *OrderRequest) (string, bool, error) {
	if req.IdempotencyKey == "" {
		return "", false, errors.New("idempotency key is required")
	}

	db := s.db.WithContext(ctx)
	if id, found, err := s.findExisting(db, req); err != nil || found {
		return id, found, err
	}

	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		order := s.buildOrder(req)
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&order).Error
		})
		if err == nil {
			return order.ID, false, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", false, fmt.Errorf("create order: %w", err)
		}

		// A concurrent submit with the same key or payment won the race, or
		// the tracking id collided and a fresh one is needed.
		if id, found, ferr := s.findExisting(db, req); ferr != nil || found {
			return id, found, ferr
		}
		lastErr = err
	}
	return "", false, fmt.Errorf("create order: %w", lastErr)
}

// findExisting looks for an order recorded under the same idempotency key or
// funded by the same payment.
func (s *GormOrderStore) findExisting(db *gorm.DB, req *OrderRequest) (string, bool, error) {
	var order models.Order
	err := db.Select("id").Where("idempotency_key = ?", req.IdempotencyKey).First(&order).Error
	if err == nil {
		return order.ID, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	if req.GatewayOrderID == "" && req.PaymentReference == "" {
		return "", false, nil
	}
	q := db.Select("id", "user_id")
	switch {
	case req.GatewayOrderID != "" && req.PaymentReference != "":
		q = q.Where("gateway_order_id = ? OR payment_ref = ?", req.GatewayOrderID, req.PaymentReference)
	case req.GatewayOrderID != "":
		q = q.Where("gateway_order_id = ?", req.GatewayOrderID)
	default:
		q = q.Where("payment_ref = ?", req.PaymentReference)
	}
	err = q.First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if order.UserID != req.BuyerID {
		return "", false, ErrPaymentUsed
	}
	return order.ID, true, nil
}

func (s *GormOrderStore) buildOrder(req *OrderRequest) models.Order {
	id := uuid.NewString()
	items := make([]models.OrderItem, len(req.Lines))
	for i, l := range req.Lines {
		items[i] = models.OrderItem{
			OrderID:     id,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}

	b := req.Breakdown
	return models.Order{
		ID:             id,
		UserID:         req.BuyerID,
		IdempotencyKey: req.IdempotencyKey,
		TrackingID:     NewTrackingID(),
		Items:          items,
		Subtotal:       b.Subtotal.InexactFloat64(),
		Shipping:       b.Shipping.InexactFloat64(),
		Tax:            b.Tax.InexactFloat64(),
		Total:          b.Total.InexactFloat64(),
		Currency:       req.Currency,
		Status:         models.OrderStatusConfirmed,
		PaymentStatus:  models.PaymentStatusPaid,
		PaymentRef:     req.PaymentReference,
		GatewayOrderID: req.GatewayOrderID,
		Customer:       req.Customer,
		TrackingLogs: []models.TrackingLog{{
			OrderID:     id,
			Status:      models.OrderStatusConfirmed,
			Description: "Order confirmed and payment received",
		}},
		CreatedAt: s.now(),
	}
}

func (s *GormOrderStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.first(ctx, "id = ?", orderID)
}

// GetByTrackingID backs the public tracking page.
func (s *GormOrderStore) GetByTrackingID(ctx context.Context, trackingID string) (*models.Order, error) {
	return s.first(ctx, "tracking_id = ?", strings.ToUpper(strings.TrimSpace(trackingID)))
}

func (s *GormOrderStore) first(ctx context.Context, query string, arg any) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("TrackingLogs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where(query, arg).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForUser returns a buyer's orders, newest first.
func (s *GormOrderStore) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListAll returns every order with its buyer, newest first.
func (s *GormOrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// StatusUpdate is an admin transition plus the tracking entry that records it.
type StatusUpdate struct {
	Status      models.OrderStatus
	Location    string
	Description string
}

// UpdateStatus moves an order to a new status and appends a tracking log.
func (s *GormOrderStore) UpdateStatus(ctx context.Context, orderID string, u StatusUpdate) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}

		now := s.now()
		updates := map[string]any{"status": u.Status}
		switch u.Status {
		case models.OrderStatusShipped:
			updates["shipped_at"] = now
		case models.OrderStatusDelivered:
			updates["delivered_at"] = now
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return err
		}

		desc := u.Description
		if desc == "" {
			desc = "Order " + string(u.Status)
		}
		return tx.Create(&models.TrackingLog{
			OrderID:     orderID,
			Status:      u.Status,
			Location:    u.Location,
			Description: desc,
			CreatedAt:   now,
		}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

// MarkPaid flags the order opened against a gateway order as paid. It
// returns how many orders matched, at most one.
func (s *GormOrderStore) MarkPaid(ctx context.Context, gatewayOrderID, paymentRef string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("gateway_order_id = ? AND payment_status <> ?", gatewayOrderID, models.PaymentStatusPaid).
		Updates(map[string]any{
			"payment_status": models.PaymentStatusPaid,
			"payment_ref":    paymentRef,
		})
	return res.RowsAffected, res.Error
}

// MarkPaymentFailed records a failed capture reported by the gateway. Checkout
// only records orders after the payment is confirmed, so this matches nothing
// unless an order was moved back to pending by hand. A failed retry on an
// already paid gateway order never downgrades it.
func (s *GormOrderStore) MarkPaymentFailed(ctx context.Context, gatewayOrderID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("gateway_order_id = ? AND payment_status = ?", gatewayOrderID, models.PaymentStatusPending).
		Update("payment_status", models.PaymentStatusFailed)
	return res.RowsAffected, res.Error
}
