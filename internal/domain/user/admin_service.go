// internal/domain/user/admin_service.go
package user

import (
	"context"

	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/dberr"
	"gorm.io/gorm"
)

// PageSize is the fixed number of rows returned by paginated listings
const PageSize = 5

// AdminService handles admin user management
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates a new admin service
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// ChangeRoleRequest represents a role change
type ChangeRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=ADMIN USER"`
}

// ListUsers returns one page of users starting at skip
func (s *AdminService) ListUsers(ctx context.Context, skip int) ([]User, error) {
	if skip < 0 {
		skip = 0
	}

	users := []User{}
	if err := s.db.WithContext(ctx).Order("id ASC").Offset(skip).Limit(PageSize).Find(&users).Error; err != nil {
		return nil, apperror.Internal("failed to retrieve users", err)
	}
	return users, nil
}

// GetUser loads a user with their addresses
func (s *AdminService) GetUser(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&user, id).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperror.NotFound("User Not Found!")
		}
		return nil, apperror.Internal("failed to retrieve user", err)
	}
	return &user, nil
}

// ChangeRole sets a user's role
func (s *AdminService) ChangeRole(ctx context.Context, id uint, role Role) (*User, error) {
	if !role.IsValid() {
		return nil, apperror.Validation("Invalid role", map[string]string{"role": "must be ADMIN or USER"})
	}

	var user User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&User{}).Where("id = ?", id).Update("role", role)
		if result.Error != nil {
			return apperror.Internal("failed to update role", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("User Not Found!")
		}
		if err := tx.First(&user, id).Error; err != nil {
			return apperror.Internal("failed to reload user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
