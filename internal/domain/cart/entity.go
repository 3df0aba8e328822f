// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/domain/product"
)

// CartItem is one product line in a user's cart. A user holds at most one
// row per product; adding the same product again increments Quantity.
type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_cart_items_user_product,priority:1" json:"userId"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_cart_items_user_product,priority:2;index" json:"productId"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	Product   product.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is quantity times the current product price
func (c *CartItem) LineTotal() decimal.Decimal {
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// Total sums the line totals of items
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return total
}
