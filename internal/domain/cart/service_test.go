package cart_test

import (
	"context"
	"testing"

	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/testdb"
)

func TestAddItemAccumulatesIntoOneLine(t *testing.T) {
	db := testdb.Open(t)
	svc := cart.NewService(db)
	ctx := context.Background()

	buyer := testdb.CreateUser(t, db, "buyer", user.RoleUser)
	mug := testdb.CreateProduct(t, db, "mug", "4.50")

	first, created, err := svc.AddItem(ctx, buyer.ID, &cart.AddToCartRequest{ProductID: mug.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("first AddItem returned error: %v", err)
	}
	if !created {
		t.Fatalf("expected first AddItem to create a line")
	}

	second, created, err := svc.AddItem(ctx, buyer.ID, &cart.AddToCartRequest{ProductID: mug.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second AddItem returned error: %v", err)
	}
	if created {
		t.Fatalf("expected second AddItem to update the existing line")
	}
	if second.ID != first.ID {
		t.Fatalf("expected same line id %d, got %d", first.ID, second.ID)
	}
	if second.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", second.Quantity)
	}

	items, err := svc.GetCart(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly one cart line, got %d", len(items))
	}
	if items[0].Product.Name != "mug" {
		t.Fatalf("expected product to be preloaded, got %+v", items[0].Product)
	}
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	db := testdb.Open(t)
	svc := cart.NewService(db)
	buyer := testdb.CreateUser(t, db, "buyer", user.RoleUser)

	_, _, err := svc.AddItem(context.Background(), buyer.ID, &cart.AddToCartRequest{ProductID: 999, Quantity: 1})
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCartMutationsAreScopedToOwner(t *testing.T) {
	db := testdb.Open(t)
	svc := cart.NewService(db)
	ctx := context.Background()

	alice := testdb.CreateUser(t, db, "alice", user.RoleUser)
	bob := testdb.CreateUser(t, db, "bob", user.RoleUser)
	lamp := testdb.CreateProduct(t, db, "lamp", "30.00")

	item, _, err := svc.AddItem(ctx, bob.ID, &cart.AddToCartRequest{ProductID: lamp.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	if _, err := svc.RemoveItem(ctx, alice.ID, item.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected NotFound when removing another user's item, got %v", err)
	}
	if _, err := svc.ChangeQuantity(ctx, alice.ID, item.ID, &cart.ChangeQuantityRequest{Quantity: 9}); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected NotFound when changing another user's item, got %v", err)
	}

	items, err := svc.GetCart(ctx, bob.ID)
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected bob's cart untouched, got %+v", items)
	}

	updated, err := svc.ChangeQuantity(ctx, bob.ID, item.ID, &cart.ChangeQuantityRequest{Quantity: 4})
	if err != nil {
		t.Fatalf("ChangeQuantity returned error: %v", err)
	}
	if updated.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", updated.Quantity)
	}

	resp, err := svc.RemoveItem(ctx, bob.ID, item.ID)
	if err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success marker, got %+v", resp)
	}

	if _, err := svc.RemoveItem(ctx, bob.ID, item.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected NotFound on second removal, got %v", err)
	}
}

func TestChangeQuantityRejectsZero(t *testing.T) {
	db := testdb.Open(t)
	svc := cart.NewService(db)

	_, err := svc.ChangeQuantity(context.Background(), 1, 1, &cart.ChangeQuantityRequest{Quantity: 0})
	if !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestDrainEmptiesOnlyOneUsersCart(t *testing.T) {
	db := testdb.Open(t)
	svc := cart.NewService(db)
	ctx := context.Background()

	alice := testdb.CreateUser(t, db, "alice", user.RoleUser)
	bob := testdb.CreateUser(t, db, "bob", user.RoleUser)
	pen := testdb.CreateProduct(t, db, "pen", "1.25")
	ink := testdb.CreateProduct(t, db, "ink", "3.00")

	for _, req := range []cart.AddToCartRequest{{ProductID: pen.ID, Quantity: 1}, {ProductID: ink.ID, Quantity: 2}} {
		req := req
		if _, _, err := svc.AddItem(ctx, alice.ID, &req); err != nil {
			t.Fatalf("AddItem returned error: %v", err)
		}
	}
	if _, _, err := svc.AddItem(ctx, bob.ID, &cart.AddToCartRequest{ProductID: pen.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	items, err := cart.LoadForCheckout(db, alice.ID)
	if err != nil {
		t.Fatalf("LoadForCheckout returned error: %v", err)
	}
	if total := cart.Total(items); total.String() != "7.25" {
		t.Fatalf("expected cart total 7.25, got %s", total)
	}

	drained, err := cart.Drain(db, alice.ID)
	if err != nil {
		t.Fatalf("Drain returned error: %v", err)
	}
	if drained != 2 {
		t.Fatalf("expected 2 drained rows, got %d", drained)
	}

	left, err := svc.GetCart(ctx, bob.ID)
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("expected bob's cart to keep 1 line, got %d", len(left))
	}
}
