package cartstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/sync/errgroup"
)

// testStoreContract runs the behaviour every CartStore must share against a
// freshly initialized store returned by newStore.
func testStoreContract(t *testing.T, newStore func(t *testing.T) CartStore) {
	t.Run("unknown user reads as empty cart", func(t *testing.T) {
		store := newStore(t)
		userID := uuid.NewString()

		cart, err := store.GetCart(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if diff := cmp.Diff(NewCart(userID), cart); diff != "" {
			t.Errorf("cart mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("adding an existing product merges quantity", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		userID := uuid.NewString()

		mustAdd(t, store, userID, "1", 1)
		mustAdd(t, store, userID, "1", 1)

		want := &Cart{UserID: userID, Items: []CartItem{{ProductID: "1", Quantity: 2}}}
		cart, err := store.GetCart(ctx, userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if diff := cmp.Diff(want, cart); diff != "" {
			t.Errorf("cart mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("items keep first-add order", func(t *testing.T) {
		store := newStore(t)
		userID := uuid.NewString()

		mustAdd(t, store, userID, "OLJCESPC7Z", 3)
		mustAdd(t, store, userID, "66VCHSJNUP", 1)
		mustAdd(t, store, userID, "1YMWWN1N4O", 2)
		mustAdd(t, store, userID, "OLJCESPC7Z", 4)

		want := []CartItem{
			{ProductID: "OLJCESPC7Z", Quantity: 7},
			{ProductID: "66VCHSJNUP", Quantity: 1},
			{ProductID: "1YMWWN1N4O", Quantity: 2},
		}
		cart, err := store.GetCart(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if diff := cmp.Diff(want, cart.Items); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("carts of different users are independent", func(t *testing.T) {
		store := newStore(t)
		alice, bob := uuid.NewString(), uuid.NewString()

		mustAdd(t, store, alice, "p", 2)
		mustAdd(t, store, bob, "p", 5)
		if err := store.EmptyCart(context.Background(), alice); err != nil {
			t.Fatalf("EmptyCart: %v", err)
		}

		cart, err := store.GetCart(context.Background(), bob)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if got := cart.Quantity("p"); got != 5 {
			t.Errorf("bob quantity = %d, want 5", got)
		}
	})

	t.Run("empty cart removes all items", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		userID := uuid.NewString()

		mustAdd(t, store, userID, "1", 1)
		if err := store.EmptyCart(ctx, userID); err != nil {
			t.Fatalf("EmptyCart: %v", err)
		}
		cart, err := store.GetCart(ctx, userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if diff := cmp.Diff(NewCart(userID), cart); diff != "" {
			t.Errorf("cart mismatch (-want +got):\n%s", diff)
		}

		// The cart behaves like a never-written one afterwards.
		mustAdd(t, store, userID, "2", 1)
		cart, err = store.GetCart(ctx, userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if diff := cmp.Diff([]CartItem{{ProductID: "2", Quantity: 1}}, cart.Items); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty cart on unknown user succeeds", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		userID := uuid.NewString()

		for i := 0; i < 2; i++ {
			if err := store.EmptyCart(ctx, userID); err != nil {
				t.Fatalf("EmptyCart #%d: %v", i+1, err)
			}
		}
		cart, err := store.GetCart(ctx, userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if len(cart.Items) != 0 {
			t.Errorf("got %d items, want 0", len(cart.Items))
		}
	})

	t.Run("concurrent adds lose no update", func(t *testing.T) {
		store := newStore(t)
		userID := uuid.NewString()
		productID := uuid.NewString()

		const n = 100
		g, ctx := errgroup.WithContext(context.Background())
		for i := 0; i < n; i++ {
			g.Go(func() error {
				return store.AddItem(ctx, userID, productID, 1)
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("concurrent AddItem: %v", err)
		}

		cart, err := store.GetCart(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if len(cart.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(cart.Items))
		}
		if got := cart.Quantity(productID); got != n {
			t.Errorf("quantity = %d, want %d", got, n)
		}
	})

	t.Run("quantity overflow is rejected", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		userID := uuid.NewString()

		mustAdd(t, store, userID, "p", MaxQuantity)
		if err := store.AddItem(ctx, userID, "p", 1); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("AddItem past MaxQuantity: got %v, want ErrInvalidArgument", err)
		}
		cart, err := store.GetCart(ctx, userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if got := cart.Quantity("p"); got != MaxQuantity {
			t.Errorf("quantity = %d, want %d", got, MaxQuantity)
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		checks := map[string]error{
			"add with empty user":        store.AddItem(ctx, "", "p", 1),
			"add with zero quantity":     store.AddItem(ctx, "u", "p", 0),
			"add with negative quantity": store.AddItem(ctx, "u", "p", -3),
			"empty with empty user":      store.EmptyCart(ctx, ""),
		}
		_, err := store.GetCart(ctx, "")
		checks["get with empty user"] = err

		for name, err := range checks {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("%s: got %v, want ErrInvalidArgument", name, err)
			}
		}

		cart, err := store.GetCart(ctx, "u")
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if len(cart.Items) != 0 {
			t.Errorf("rejected adds reached the store: %+v", cart.Items)
		}
	})

	t.Run("returned cart is a snapshot", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		userID := uuid.NewString()

		mustAdd(t, store, userID, "p", 1)
		cart, err := store.GetCart(ctx, userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		cart.Items[0].Quantity = 99

		again, err := store.GetCart(ctx, userID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		if got := again.Quantity("p"); got != 1 {
			t.Errorf("quantity = %d after mutating a returned cart, want 1", got)
		}
	})
}

func mustAdd(t *testing.T, store CartStore, userID, productID string, quantity int32) {
	t.Helper()
	if err := store.AddItem(context.Background(), userID, productID, quantity); err != nil {
		t.Fatalf("AddItem(%q, %q, %d): %v", userID, productID, quantity, err)
	}
}

func TestLocalCartStore(t *testing.T) {
	testStoreContract(t, func(t *testing.T) CartStore {
		log, _ := logtest.NewNullLogger()
		store := NewLocalCartStore(log)
		if err := store.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		return store
	})
}
