// internal/domain/user/address_service.go
package user

import (
	"context"

	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/dberr"
	"gorm.io/gorm"
)

var errAddressNotFound = apperror.NotFound("Address not found!")

// AddressService handles address business logic
type AddressService struct {
	db *gorm.DB
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// CreateAddressRequest represents address creation data
type CreateAddressRequest struct {
	LineOne string `json:"lineOne" binding:"required"`
	LineTwo string `json:"lineTwo"`
	City    string `json:"city" binding:"required"`
	Country string `json:"country" binding:"required"`
	Pincode string `json:"pincode" binding:"required,len=5"`
}

// GetUserAddresses retrieves all addresses for a user
func (s *AddressService) GetUserAddresses(ctx context.Context, userID uint) ([]Address, error) {
	addresses := []Address{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&addresses).Error; err != nil {
		return nil, apperror.Internal("failed to retrieve addresses", err)
	}
	return addresses, nil
}

// CreateAddress creates a new address owned by the user
func (s *AddressService) CreateAddress(ctx context.Context, userID uint, req *CreateAddressRequest) (*Address, error) {
	address := Address{
		UserID:  userID,
		LineOne: req.LineOne,
		LineTwo: req.LineTwo,
		City:    req.City,
		Country: req.Country,
		Pincode: req.Pincode,
	}

	if err := s.db.WithContext(ctx).Create(&address).Error; err != nil {
		return nil, apperror.Internal("failed to create address", err)
	}

	return &address, nil
}

// DeleteAddress removes one of the user's addresses and clears any default
// that pointed at it. Addresses of other users are reported as not found.
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{})
		if result.Error != nil {
			return apperror.Internal("failed to delete address", result.Error)
		}
		if result.RowsAffected == 0 {
			return errAddressNotFound
		}

		if err := tx.Model(&User{}).
			Where("id = ? AND default_shipping_address_id = ?", userID, addressID).
			Update("default_shipping_address_id", nil).Error; err != nil {
			return apperror.Internal("failed to clear default shipping address", err)
		}
		if err := tx.Model(&User{}).
			Where("id = ? AND default_billing_address_id = ?", userID, addressID).
			Update("default_billing_address_id", nil).Error; err != nil {
			return apperror.Internal("failed to clear default billing address", err)
		}
		return nil
	})
}

// GetOwnedAddress loads an address scoped to its owner
func (s *AddressService) GetOwnedAddress(ctx context.Context, userID, addressID uint) (*Address, error) {
	return FindOwnedAddress(s.db.WithContext(ctx), userID, addressID)
}

// FindOwnedAddress loads an address scoped to its owner using db, which may
// be a transaction
func FindOwnedAddress(db *gorm.DB, userID, addressID uint) (*Address, error) {
	var address Address
	err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, errAddressNotFound
		}
		return nil, apperror.Internal("failed to retrieve address", err)
	}
	return &address, nil
}
