// internal/domain/user/service.go
package user

import (
	"context"
	"fmt"

	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/auth"
	"github.com/your-org/storefront-api/internal/pkg/dberr"
	"gorm.io/gorm"
)

// invalidCredentials is shared by the unknown-email and wrong-password paths
const invalidCredentials = "Invalid Credentials!"

// ErrUserExists is returned by Signup when the email is taken
var ErrUserExists = apperror.Conflict("User already exists!")

// Service handles signup, login and identity lookups
type Service struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// SignupRequest represents user registration data
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Signup creates a new account with the USER role
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*User, error) {
	email := NormalizeEmail(req.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Validation(err.Error(), map[string]string{"password": err.Error()})
	}

	user := User{
		Name:     req.Name,
		Email:    email,
		Password: hashedPassword,
		Role:     RoleUser,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Lost a race with a concurrent signup for the same email.
		if dberr.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, apperror.Internal("failed to create user", err)
	}

	return &user, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords fail identically.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperror.Validation(invalidCredentials, nil)
		}
		return nil, apperror.Internal("failed to look up user", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, apperror.Validation(invalidCredentials, nil)
	}

	token, err := s.jwtManager.GenerateToken(user.ID)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}

	return &AuthResponse{User: &user, Token: token}, nil
}

// GetByID loads a user without relationships
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperror.NotFound("User Not Found!")
		}
		return nil, apperror.Internal("failed to retrieve user", err)
	}
	return &user, nil
}

// Authenticate resolves a bearer token to its user. Every failure, whether a
// bad signature, an expired token or a deleted user, returns the same
// Unauthorized error.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, apperror.Unauthorized()
	}

	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, apperror.Unauthorized()
	}

	var user User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperror.Unauthorized()
		}
		return nil, apperror.Internal("failed to resolve token owner", err)
	}
	return &user, nil
}

// UpdateProfileRequest represents the fields a user may change on themselves
type UpdateProfileRequest struct {
	Name                   *string `json:"name" binding:"omitempty,min=1"`
	DefaultShippingAddress *uint   `json:"defaultShippingAddress"`
	DefaultBillingAddress  *uint   `json:"defaultBillingAddress"`
}

// UpdateProfile changes the user's name and default addresses. A default
// address must be one of the user's own addresses.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*User, error) {
	var updated User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}

		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.DefaultShippingAddress != nil {
			if err := ensureOwnedAddress(tx, userID, *req.DefaultShippingAddress); err != nil {
				return err
			}
			updates["default_shipping_address_id"] = *req.DefaultShippingAddress
		}
		if req.DefaultBillingAddress != nil {
			if err := ensureOwnedAddress(tx, userID, *req.DefaultBillingAddress); err != nil {
				return err
			}
			updates["default_billing_address_id"] = *req.DefaultBillingAddress
		}

		if len(updates) > 0 {
			result := tx.Model(&User{}).Where("id = ?", userID).Updates(updates)
			if result.Error != nil {
				return apperror.Internal("failed to update user", result.Error)
			}
			if result.RowsAffected == 0 {
				return apperror.NotFound("User Not Found!")
			}
		}

		if err := tx.First(&updated, userID).Error; err != nil {
			if dberr.IsNotFound(err) {
				return apperror.NotFound("User Not Found!")
			}
			return apperror.Internal("failed to reload user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func ensureOwnedAddress(tx *gorm.DB, userID, addressID uint) error {
	var count int64
	if err := tx.Model(&Address{}).Where("id = ? AND user_id = ?", addressID, userID).Count(&count).Error; err != nil {
		return apperror.Internal("failed to check address", err)
	}
	if count == 0 {
		return fmt.Errorf("address %d: %w", addressID, errAddressNotFound)
	}
	return nil
}
