package conn

import (
	"context"
	"testing"

	"github.com/masteryyh/storefront/pkg/models"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenLocalStore(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	var missing []models.CartItem
	found, err := store.Get(ctx, "cart", &missing)
	if err != nil || found {
		t.Fatalf("expected missing key, got %v %v", found, err)
	}

	cart := []models.CartItem{{ID: 1, Name: "Dune", Quantity: 2}}
	if err := store.Set(ctx, "cart", cart); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	cart[0].Quantity = 3
	if err := store.Set(ctx, "cart", cart); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	var got []models.CartItem
	found, err = store.Get(ctx, "cart", &got)
	if err != nil || !found {
		t.Fatalf("expected stored cart, got %v %v", found, err)
	}
	if len(got) != 1 || got[0].Quantity != 3 {
		t.Fatalf("unexpected cart %+v", got)
	}

	if err := store.Set(ctx, "role", "admin"); err != nil {
		t.Fatalf("failed to set role: %v", err)
	}
	if err := store.Delete(ctx, "cart", "role"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	var role string
	if found, _ := store.Get(ctx, "role", &role); found {
		t.Fatal("expected role to be deleted")
	}
}

func TestLocalStoreReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := OpenLocalStore(ctx, dir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Set(ctx, "isLoggedIn", true); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	store.Close()

	reopened, err := OpenLocalStore(ctx, dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	var loggedIn bool
	found, err := reopened.Get(ctx, "isLoggedIn", &loggedIn)
	if err != nil || !found || !loggedIn {
		t.Fatalf("expected persisted flag, got %v %v %v", loggedIn, found, err)
	}
}
