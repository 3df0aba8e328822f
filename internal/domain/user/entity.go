// internal/domain/user/entity.go
package user

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents a user's access level
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents the user entity
type User struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	Name                     string    `gorm:"not null;size:255" json:"name"`
	Email                    string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password                 string    `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	Role                     Role      `gorm:"not null;size:16;default:'USER'" json:"role"`
	DefaultShippingAddressID *uint     `gorm:"index" json:"defaultShippingAddress"`
	DefaultBillingAddressID  *uint     `gorm:"index" json:"defaultBillingAddress"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`

	// Relationships
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"addresses,omitempty"`
}

// Address represents user addresses
type Address struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	LineOne   string    `gorm:"size:255;not null" json:"lineOne"`
	LineTwo   string    `gorm:"size:255" json:"lineTwo"`
	City      string    `gorm:"size:100;not null" json:"city"`
	Country   string    `gorm:"size:100;not null" json:"country"`
	Pincode   string    `gorm:"size:5;not null" json:"pincode"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Address
func (Address) TableName() string {
	return "addresses"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the ADMIN role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// FormattedAddress renders the address as a single line, the form stored on orders
func (a *Address) FormattedAddress() string {
	parts := []string{a.LineOne}
	if strings.TrimSpace(a.LineTwo) != "" {
		parts = append(parts, a.LineTwo)
	}
	parts = append(parts, a.City, fmt.Sprintf("%s-%s", a.Country, a.Pincode))
	return strings.Join(parts, ", ")
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
