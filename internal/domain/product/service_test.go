package product_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/testdb"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateProductNormalizesTagsAndPrice(t *testing.T) {
	db := testdb.Open(t)
	svc := product.NewService(db)

	created, err := svc.CreateProduct(context.Background(), &product.CreateProductRequest{
		Name:        "Desk",
		Description: "Oak desk",
		Price:       price("120.456"),
		Tags:        []string{" wood", "office", "wood"},
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if created.Price.String() != "120.46" {
		t.Fatalf("expected price rounded to 120.46, got %s", created.Price)
	}

	loaded, err := svc.GetProduct(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetProduct returned error: %v", err)
	}
	if len(loaded.Tags) != 2 || loaded.Tags[0] != "wood" || loaded.Tags[1] != "office" {
		t.Fatalf("unexpected tags %q", loaded.Tags)
	}
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	db := testdb.Open(t)
	svc := product.NewService(db)

	_, err := svc.CreateProduct(context.Background(), &product.CreateProductRequest{
		Name:        "Refund",
		Description: "Not a product",
		Price:       price("-1"),
	})
	if !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestUpdateProductKeepsUnsetFields(t *testing.T) {
	db := testdb.Open(t)
	svc := product.NewService(db)
	existing := testdb.CreateProduct(t, db, "shelf", "15.00", "wood")

	name := "bookshelf"
	updated, err := svc.UpdateProduct(context.Background(), existing.ID, &product.UpdateProductRequest{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}
	if updated.Name != "bookshelf" || !updated.Price.Equal(decimal.RequireFromString("15")) || !updated.Tags.Contains("wood") {
		t.Fatalf("unexpected product after update %+v", updated)
	}

	if _, err := svc.UpdateProduct(context.Background(), 999, &product.UpdateProductRequest{Name: &name}); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected NotFound for missing product, got %v", err)
	}
}

func TestDeleteProductRemovesItFromCarts(t *testing.T) {
	db := testdb.Open(t)
	svc := product.NewService(db)
	carts := cart.NewService(db)
	ctx := context.Background()

	buyer := testdb.CreateUser(t, db, "buyer", user.RoleUser)
	vase := testdb.CreateProduct(t, db, "vase", "22.00")
	if _, _, err := carts.AddItem(ctx, buyer.ID, &cart.AddToCartRequest{ProductID: vase.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	if err := svc.DeleteProduct(ctx, vase.ID); err != nil {
		t.Fatalf("DeleteProduct returned error: %v", err)
	}

	if _, err := svc.GetProduct(ctx, vase.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected deleted product to be hidden, got %v", err)
	}
	items, err := carts.GetCart(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected product removed from cart, got %d lines", len(items))
	}

	if err := svc.DeleteProduct(ctx, vase.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected NotFound on second delete, got %v", err)
	}
}

func TestGetProductsPagesWithCount(t *testing.T) {
	db := testdb.Open(t)
	svc := product.NewService(db)

	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		testdb.CreateProduct(t, db, name, "1.00")
	}

	first, err := svc.GetProducts(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetProducts returned error: %v", err)
	}
	if first.Count != 7 || len(first.Data) != product.PageSize {
		t.Fatalf("expected count 7 and a full page, got count %d and %d rows", first.Count, len(first.Data))
	}

	second, err := svc.GetProducts(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetProducts returned error: %v", err)
	}
	if len(second.Data) != 2 || second.Data[0].Name != "f" {
		t.Fatalf("unexpected second page %+v", second.Data)
	}
}

func TestSearchProductsMatchesNameDescriptionAndTags(t *testing.T) {
	db := testdb.Open(t)
	svc := product.NewService(db)
	ctx := context.Background()

	testdb.CreateProduct(t, db, "Blue Teapot", "1.00", "kitchen")
	testdb.CreateProduct(t, db, "Garden Hose", "1.00", "outdoor")
	testdb.CreateProduct(t, db, "Frying Pan", "1.00", "Kitchen", "steel")

	byName, err := svc.SearchProducts(ctx, "teapot", 0)
	if err != nil {
		t.Fatalf("SearchProducts returned error: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Blue Teapot" {
		t.Fatalf("unexpected name matches %+v", byName)
	}

	byTag, err := svc.SearchProducts(ctx, "KITCHEN", 0)
	if err != nil {
		t.Fatalf("SearchProducts returned error: %v", err)
	}
	if len(byTag) != 2 {
		t.Fatalf("expected 2 tag matches, got %d", len(byTag))
	}

	if _, err := svc.SearchProducts(ctx, "   ", 0); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected Validation for empty query, got %v", err)
	}
}
