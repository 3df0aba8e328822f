// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/domain/product"
)

// Order is an immutable snapshot of a checked-out cart plus its status
type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"userId"`
	NetAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"netAmount"`
	Address   string          `gorm:"type:text;not null" json:"address"`
	Status    Status          `gorm:"not null;size:32;default:'PENDING';index" json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`

	// Relationships
	Products []OrderProduct `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"products,omitempty"`
	Events   []OrderEvent   `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"events,omitempty"`
}

// OrderProduct is one line of an order, copied from the cart at checkout.
// Price is the unit price at that moment.
type OrderProduct struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	OrderID   uint             `gorm:"not null;index" json:"orderId"`
	ProductID uint             `gorm:"not null;index" json:"productId"`
	Quantity  int              `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	Product   *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// OrderEvent is one entry of an order's append-only audit trail. The
// creation marker has a nil Status.
type OrderEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"orderId"`
	Status    *Status   `gorm:"size:32" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides
func (Order) TableName() string        { return "orders" }
func (OrderProduct) TableName() string { return "order_products" }
func (OrderEvent) TableName() string   { return "order_events" }

// LineTotal returns quantity times the captured unit price
func (p *OrderProduct) LineTotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// ItemCount sums the quantities of all lines
func (o *Order) ItemCount() int {
	count := 0
	for _, p := range o.Products {
		count += p.Quantity
	}
	return count
}

// IsOwnedBy reports whether the order belongs to userID
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
