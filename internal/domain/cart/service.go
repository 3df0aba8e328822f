// internal/domain/cart/service.go
package cart

import (
	"context"

	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/dberr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrItemNotFound covers both missing items and items owned by someone else
	ErrItemNotFound    = apperror.NotFound("This item does not exist in your cart")
	errProductNotFound = apperror.NotFound("Product Not Found!")
)

// Service handles cart business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new cart service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// ChangeQuantityRequest represents a quantity change
type ChangeQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// RemoveResponse is returned when an item leaves the cart
type RemoveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AddItem adds quantity of a product to the user's cart. An existing line is
// incremented in place; created reports whether a new line was inserted.
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddToCartRequest) (*CartItem, bool, error) {
	if req.Quantity < 1 {
		return nil, false, apperror.Validation("Invalid cart item", map[string]string{"quantity": "must be at least 1"})
	}

	var (
		item    CartItem
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p product.Product
		if err := tx.Select("id").First(&p, req.ProductID).Error; err != nil {
			if dberr.IsNotFound(err) {
				return errProductNotFound
			}
			return apperror.Internal("failed to retrieve product", err)
		}

		incremented, err := incrementQuantity(tx, userID, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}

		if !incremented {
			line := CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
			result := tx.Omit("Product").Clauses(clause.OnConflict{DoNothing: true}).Create(&line)
			if result.Error != nil {
				return apperror.Internal("failed to add item to cart", result.Error)
			}
			created = result.RowsAffected > 0

			// A concurrent request inserted the same line first
			if !created {
				if _, err := incrementQuantity(tx, userID, req.ProductID, req.Quantity); err != nil {
					return err
				}
			}
		}

		return tx.Preload("Product").
			Where("user_id = ? AND product_id = ?", userID, req.ProductID).
			First(&item).Error
	})
	if err != nil {
		return nil, false, apperror.Wrap(err, "failed to add item to cart")
	}

	return &item, created, nil
}

// RemoveItem deletes one of the user's cart items. The ownership check and
// the delete are the same statement.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uint) (*RemoveResponse, error) {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&CartItem{})
	if result.Error != nil {
		return nil, apperror.Internal("failed to remove cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}

	return &RemoveResponse{Success: true, Message: "Item has been removed from cart"}, nil
}

// ChangeQuantity replaces the quantity of one of the user's cart items
func (s *Service) ChangeQuantity(ctx context.Context, userID, itemID uint, req *ChangeQuantityRequest) (*CartItem, error) {
	if req.Quantity < 1 {
		return nil, apperror.Validation("Invalid cart item", map[string]string{"quantity": "must be at least 1"})
	}

	var item CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&CartItem{}).
			Where("id = ? AND user_id = ?", itemID, userID).
			Update("quantity", req.Quantity)
		if result.Error != nil {
			return apperror.Internal("failed to update cart item", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}

		return tx.Preload("Product").First(&item, itemID).Error
	})
	if err != nil {
		return nil, apperror.Wrap(err, "failed to update cart item")
	}

	return &item, nil
}

// GetCart lists the user's cart items with their products
func (s *Service) GetCart(ctx context.Context, userID uint) ([]CartItem, error) {
	items := []CartItem{}
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperror.Internal("failed to retrieve cart", err)
	}
	return items, nil
}

// LoadForCheckout reads the user's cart inside tx with products preloaded.
// On PostgreSQL the rows are locked until tx ends.
func LoadForCheckout(tx *gorm.DB, userID uint) ([]CartItem, error) {
	query := tx.Preload("Product").Where("user_id = ?", userID).Order("id ASC")
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	items := []CartItem{}
	if err := query.Find(&items).Error; err != nil {
		return nil, apperror.Internal("failed to read cart", err)
	}
	return items, nil
}

// Drain deletes every cart item of the user inside tx and returns how many
// rows were removed
func Drain(tx *gorm.DB, userID uint) (int64, error) {
	result := tx.Where("user_id = ?", userID).Delete(&CartItem{})
	if result.Error != nil {
		return 0, apperror.Internal("failed to drain cart", result.Error)
	}
	return result.RowsAffected, nil
}

func incrementQuantity(tx *gorm.DB, userID, productID uint, quantity int) (bool, error) {
	result := tx.Model(&CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return false, apperror.Internal("failed to update cart item", result.Error)
	}
	return result.RowsAffected > 0, nil
}
