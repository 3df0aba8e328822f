// Package testdb opens throwaway in-memory databases for service tests
package testdb

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/infrastructure/database/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory SQLite database private to t. A single
// connection is used so transactions behave like one PostgreSQL session.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(postgres.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given role. The password hash is a
// placeholder; use user.Service.Signup when login matters.
func CreateUser(t testing.TB, db *gorm.DB, name string, role user.Role) *user.User {
	t.Helper()

	u := user.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return &u
}

// CreateProduct inserts a product priced at price, a decimal string
func CreateProduct(t testing.TB, db *gorm.DB, name, price string, tags ...string) *product.Product {
	t.Helper()

	p := product.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Tags:        product.NewTags(tags...),
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create product %s: %v", name, err)
	}
	return &p
}

// CreateAddress inserts an address owned by userID and, when asDefault is
// set, makes it the user's default shipping address
func CreateAddress(t testing.TB, db *gorm.DB, userID uint, asDefault bool) *user.Address {
	t.Helper()

	a := user.Address{
		UserID:  userID,
		LineOne: "12 Market Street",
		LineTwo: "Floor 2",
		City:    "Springfield",
		Country: "US",
		Pincode: "12345",
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("failed to create address: %v", err)
	}

	if asDefault {
		if err := db.Model(&user.User{}).Where("id = ?", userID).
			Update("default_shipping_address_id", a.ID).Error; err != nil {
			t.Fatalf("failed to set default shipping address: %v", err)
		}
	}
	return &a
}
