package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/cart"
	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/realtime"
	"github.com/tableside/restaurant-order/utils"
)

var (
	// ErrEmptyCart rejects checkout before any persistence attempt.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrStoreUnavailable signals the persistence layer is not ready.
	ErrStoreUnavailable = errors.New("order store unavailable")
)

// UnknownTable is the sentinel table number used when no table context
// can be resolved for a submission.
const UnknownTable = "UNKNOWN"

// OrderService turns carts into orders. Submission is the one operation
// that must block until the store round-trip completes: either the order
// exists in full with a store-assigned id and timestamp, or nothing was
// written and the cart is left intact for a retry.
type OrderService struct {
	DB    *gorm.DB
	Carts *cart.Store
}

func NewOrderService(db *gorm.DB, carts *cart.Store) *OrderService {
	return &OrderService{DB: db, Carts: carts}
}

// ResolveTableNo picks the table number for a submission: the explicit
// argument, then the stored table context, then the UNKNOWN sentinel.
func (s *OrderService) ResolveTableNo(cartKey, tableNo string) string {
	if tableNo != "" {
		return tableNo
	}
	if stored := s.Carts.TableNo(cartKey); stored != "" {
		return stored
	}
	return UnknownTable
}

// Submit freezes the cart into a pending order inside one transaction,
// then clears the cart. A failed write leaves the cart untouched.
func (s *OrderService) Submit(cartKey, tableNo string) (*models.Order, error) {
	if s.DB == nil {
		return nil, ErrStoreUnavailable
	}

	c, err := s.Carts.Get(cartKey)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	order := models.Order{
		TableNo:   s.ResolveTableNo(cartKey, tableNo),
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	var total float64
	for _, line := range c.Lines {
		item := models.OrderLine{
			Name:      line.Item.Name,
			Price:     line.Item.Price,
			SubTotal:  line.Total(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := item.SetAddOns(line.SelectedAddOns); err != nil {
			return nil, err
		}
		total += item.SubTotal
		order.Items = append(order.Items, item)
	}
	order.TotalAmount = total

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		return nil, err
	}

	// The order is durable; clearing the cart is best effort and a
	// failure here must not undo the submission.
	if err := s.Carts.Clear(cartKey); err != nil {
		utils.ErrorLogger.Printf("Error clearing cart %s after submit: %v", cartKey, err)
	}

	realtime.BroadcastStaffNotification(
		fmt.Sprintf("New order #%d for table %s", order.ID, order.TableNo))
	s.PublishOrders()

	return &order, nil
}

// PublishOrders pushes a full replacement snapshot of the order
// collection (created_at desc) to the projection layer.
func (s *OrderService) PublishOrders() {
	var orders []models.Order
	if err := s.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading orders snapshot: %v", err)
		return
	}
	realtime.PublishOrders(orders)
}
