// internal/domain/product/service.go
package product

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/dberr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PageSize is the fixed number of products per listing or search page
const PageSize = 5

// ErrProductNotFound is returned for any missing product
var ErrProductNotFound = apperror.NotFound("Product not found!")

// Service handles product business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new product service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Tags        []string         `json:"tags" binding:"omitempty,dive,min=1"`
}

// UpdateProductRequest represents product update data; nil fields are left unchanged
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Tags        []string         `json:"tags" binding:"omitempty,dive,min=1"`
}

// ProductListResponse is one page of products with the catalog size
type ProductListResponse struct {
	Count int64     `json:"count"`
	Data  []Product `json:"data"`
}

// CreateProduct stores a new product
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}

	product := Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Tags:        NewTags(req.Tags...),
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, apperror.Internal("failed to create product", err)
	}

	return &product, nil
}

// UpdateProduct applies the non-nil fields of req
func (s *Service) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if dberr.IsNotFound(err) {
				return ErrProductNotFound
			}
			return apperror.Internal("failed to retrieve product", err)
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			if err := validatePrice(*req.Price); err != nil {
				return err
			}
			product.Price = req.Price.Round(2)
		}
		if req.Tags != nil {
			product.Tags = NewTags(req.Tags...)
		}

		if err := tx.Save(&product).Error; err != nil {
			return apperror.Internal("failed to update product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// DeleteProduct soft-deletes the product and removes it from every cart.
// Order lines keep referencing the soft-deleted row.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Product{}, id)
		if result.Error != nil {
			return apperror.Internal("failed to delete product", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}

		if err := tx.Exec("DELETE FROM cart_items WHERE product_id = ?", id).Error; err != nil {
			return apperror.Internal("failed to remove product from carts", err)
		}
		return nil
	})
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, apperror.Internal("failed to retrieve product", err)
	}
	return &product, nil
}

// GetProducts returns one page of products and the total count
func (s *Service) GetProducts(ctx context.Context, skip int) (*ProductListResponse, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Count(&count).Error; err != nil {
		return nil, apperror.Internal("failed to count products", err)
	}

	products := []Product{}
	if err := s.db.WithContext(ctx).Order("id ASC").Offset(clampSkip(skip)).Limit(PageSize).Find(&products).Error; err != nil {
		return nil, apperror.Internal("failed to retrieve products", err)
	}

	return &ProductListResponse{Count: count, Data: products}, nil
}

// SearchProducts runs a text search over name, description and tags. On
// PostgreSQL it uses the built-in full-text search; other dialects fall back
// to a case-insensitive substring match.
func (s *Service) SearchProducts(ctx context.Context, q string, skip int) ([]Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.Validation("Search query is required", map[string]string{"q": "required"})
	}

	query := s.db.WithContext(ctx).Model(&Product{})
	if s.db.Dialector.Name() == "postgres" {
		query = query.
			Where(searchDocument+" @@ plainto_tsquery('english', ?)", q).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "ts_rank(" + searchDocument + ", plainto_tsquery('english', ?)) DESC, id ASC",
				Vars:               []interface{}{q},
				WithoutParentheses: true,
			}})
	} else {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?", pattern, pattern, pattern).
			Order("id ASC")
	}

	products := []Product{}
	if err := query.Offset(clampSkip(skip)).Limit(PageSize).Find(&products).Error; err != nil {
		return nil, apperror.Internal("failed to search products", err)
	}
	return products, nil
}

// searchDocument is the expression indexed by idx_products_search
const searchDocument = "to_tsvector('english', coalesce(name, '') || ' ' || coalesce(description, '') || ' ' || replace(coalesce(tags, ''), ',', ' '))"

// SearchIndexSQL creates the GIN index backing SearchProducts
func SearchIndexSQL() string {
	return "CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN (" + searchDocument + ")"
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.Validation("Invalid product data", map[string]string{"price": "must be greater than or equal to 0"})
	}
	return nil
}

func clampSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}
