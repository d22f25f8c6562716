package testsupport

import (
	"context"
	"testing"

	"grocerylens/internal/config"
	"grocerylens/internal/grocery"
)

// MustOpenStore opens a grocery.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *grocery.Store {
	t.Helper()

	store, err := grocery.Open(cfg)
	if err != nil {
		t.Fatalf("grocery.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddItem creates a list item with the given name and quantity.
func AddItem(t testing.TB, store *grocery.Store, name string, quantity int) *grocery.Item {
	t.Helper()

	item, err := store.Create(context.Background(), grocery.Item{Name: name, Quantity: quantity})
	if err != nil {
		t.Fatalf("store.Create(%q): %v", name, err)
	}
	return item
}
