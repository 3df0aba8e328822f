// internal/domain/order/service.go
package order

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/dberr"
	"gorm.io/gorm"
)

// PageSize is the fixed number of orders per admin listing page
const PageSize = 5

var (
	// ErrEmptyCart is returned by CreateOrder when there is nothing to check out
	ErrEmptyCart = apperror.NotFound("Cart is empty")
	// ErrOrderNotFound covers both missing orders and orders the caller cannot see
	ErrOrderNotFound = apperror.NotFound("Order not found")

	errCartChanged       = apperror.Conflict("Cart changed during checkout, please try again")
	errNoShippingAddress = apperror.Validation("Default shipping address is not set", map[string]string{
		"defaultShippingAddress": "required",
	})
)

// Service runs the order workflow
type Service struct {
	db        *gorm.DB
	publisher EventPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

// NewService creates a new order service. A nil publisher disables events.
func NewService(db *gorm.DB, publisher EventPublisher, logger *logrus.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		db:        db,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ChangeStatusRequest represents an admin status change
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListFilter narrows and pages order listings
type ListFilter struct {
	Status string `form:"status"`
	Skip   int    `form:"skip"`
}

// CreateOrder converts the user's cart into a PENDING order. Reading the
// cart, writing the order with its lines and creation event, and draining the
// cart happen in one transaction.
func (s *Service) CreateOrder(ctx context.Context, userID uint) (*Order, error) {
	var created Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := cart.LoadForCheckout(tx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		address, err := defaultShippingAddress(tx, userID)
		if err != nil {
			return err
		}

		created = Order{
			UserID:    userID,
			NetAmount: cart.Total(items).Round(2),
			Address:   address.FormattedAddress(),
			Status:    StatusPending,
			Products:  make([]OrderProduct, 0, len(items)),
		}
		for _, item := range items {
			created.Products = append(created.Products, OrderProduct{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			})
		}

		if err := tx.Create(&created).Error; err != nil {
			return apperror.Internal("failed to create order", err)
		}

		if err := tx.Create(&OrderEvent{OrderID: created.ID}).Error; err != nil {
			return apperror.Internal("failed to record order event", err)
		}

		drained, err := cart.Drain(tx, userID)
		if err != nil {
			return err
		}
		if drained != int64(len(items)) {
			return errCartChanged
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Wrap(err, "failed to create order")
	}

	s.publish(ctx, newEvent(EventOrderCreated, &created, "", s.now()))

	return s.load(ctx, created.ID)
}

// CancelOrder moves one of the user's orders to CANCELED. Orders of other
// users are reported as not found.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID uint) (*Order, error) {
	return s.transition(ctx, orderID, &userID, StatusCanceled)
}

// ChangeStatus applies an administrative status change to any order
func (s *Service) ChangeStatus(ctx context.Context, orderID uint, req *ChangeStatusRequest) (*Order, error) {
	next, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, orderID, nil, next)
}

// transition checks the state machine and updates the status only if it is
// still the one that was checked, so concurrent changes cannot both win
func (s *Service) transition(ctx context.Context, orderID uint, ownerID *uint, next Status) (*Order, error) {
	var (
		current  Order
		previous Status
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := func(db *gorm.DB) *gorm.DB {
			db = db.Where("id = ?", orderID)
			if ownerID != nil {
				db = db.Where("user_id = ?", *ownerID)
			}
			return db
		}

		if err := tx.Scopes(scope).First(&current).Error; err != nil {
			if dberr.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return apperror.Internal("failed to retrieve order", err)
		}

		previous = current.Status
		if !previous.CanTransitionTo(next) {
			return apperror.InvalidTransition(previous.String(), next.String())
		}

		result := tx.Model(&Order{}).
			Scopes(scope).
			Where("status = ?", previous).
			Update("status", next)
		if result.Error != nil {
			return apperror.Internal("failed to update order status", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.InvalidTransition(previous.String(), next.String())
		}

		status := next
		if err := tx.Create(&OrderEvent{OrderID: current.ID, Status: &status}).Error; err != nil {
			return apperror.Internal("failed to record order event", err)
		}

		current.Status = next
		return nil
	})
	if err != nil {
		return nil, apperror.Wrap(err, "failed to change order status")
	}

	s.publish(ctx, newEvent(EventOrderStatusChanged, &current, previous, s.now()))

	return s.load(ctx, current.ID)
}

// ListOrders returns every order of the user
func (s *Service) ListOrders(ctx context.Context, userID uint) ([]Order, error) {
	orders := []Order{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, apperror.Internal("failed to retrieve orders", err)
	}
	return orders, nil
}

// GetOrder loads an order with its lines and events. Only the owner and
// admins can see it; anyone else gets ErrOrderNotFound.
func (s *Service) GetOrder(ctx context.Context, viewer *user.User, orderID uint) (*Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if viewer == nil || (!viewer.IsAdmin() && !order.IsOwnedBy(viewer.ID)) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAllOrders pages through every order, optionally filtered by status
func (s *Service) ListAllOrders(ctx context.Context, filter ListFilter) ([]Order, error) {
	return s.page(ctx, s.db.WithContext(ctx), filter)
}

// ListUserOrders pages through one user's orders, optionally filtered by status
func (s *Service) ListUserOrders(ctx context.Context, userID uint, filter ListFilter) ([]Order, error) {
	return s.page(ctx, s.db.WithContext(ctx).Where("user_id = ?", userID), filter)
}

func (s *Service) page(ctx context.Context, query *gorm.DB, filter ListFilter) ([]Order, error) {
	if filter.Status != "" {
		status, err := ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		query = query.Where("status = ?", status)
	}

	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}

	orders := []Order{}
	if err := query.Order("id ASC").Offset(skip).Limit(PageSize).Find(&orders).Error; err != nil {
		return nil, apperror.Internal("failed to retrieve orders", err)
	}
	return orders, nil
}

func (s *Service) load(ctx context.Context, orderID uint) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Products.Product", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&order, orderID).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, apperror.Internal("failed to retrieve order", err)
	}
	return &order, nil
}

func (s *Service) publish(ctx context.Context, event Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"event_type": event.Type,
			"order_id":   event.OrderID,
		}).Warn("Failed to publish order event")
	}
}

// defaultShippingAddress resolves the user's default shipping address,
// which must still belong to the user
func defaultShippingAddress(tx *gorm.DB, userID uint) (*user.Address, error) {
	var owner user.User
	if err := tx.Select("id", "default_shipping_address_id").First(&owner, userID).Error; err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperror.NotFound("User Not Found!")
		}
		return nil, apperror.Internal("failed to retrieve user", err)
	}
	if owner.DefaultShippingAddressID == nil {
		return nil, errNoShippingAddress
	}

	address, err := user.FindOwnedAddress(tx, userID, *owner.DefaultShippingAddressID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, errNoShippingAddress
		}
		return nil, err
	}
	return address, nil
}
