package cartstore

import (
	"context"
)

// CartStore is an interface for cart storage operations.
//
// Initialize must be called once before any other method. AddItem is atomic for
// concurrent additions to the same user and product. GetCart returns an empty
// cart for unknown users and EmptyCart is idempotent.
type CartStore interface {
	Initialize(ctx context.Context) error

	AddItem(ctx context.Context, userID, productID string, quantity int32) error
	EmptyCart(ctx context.Context, userID string) error
	GetCart(ctx context.Context, userID string) (*Cart, error)

	Ping(ctx context.Context) bool
	Close() error
}
