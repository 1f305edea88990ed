package cartstore

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/sirupsen/logrus"
)

const localShardCount = 32

type localShard struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// LocalCartStore is a simple in-memory cart storage used when no Redis address
// is configured. Carts are spread over lock-striped shards so that writes for
// one user never wait on writes for a user in another shard. State does not
// survive a restart.
type LocalCartStore struct {
	log    logrus.FieldLogger
	shards [localShardCount]localShard
}

// NewLocalCartStore constructor
func NewLocalCartStore(log logrus.FieldLogger) *LocalCartStore {
	l := &LocalCartStore{log: log.WithField("component", "LocalCartStore")}
	for i := range l.shards {
		l.shards[i].carts = make(map[string]*Cart)
	}
	return l
}

func (l *LocalCartStore) shard(userID string) *localShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &l.shards[h.Sum32()%localShardCount]
}

// Initialize does nothing in this implementation.
func (l *LocalCartStore) Initialize(ctx context.Context) error {
	l.log.Info("LocalCartStore initialized")
	return nil
}

// AddItem adds a product to the user's cart.
func (l *LocalCartStore) AddItem(ctx context.Context, userID, productID string, quantity int32) error {
	if err := validateAdd(userID, quantity); err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	}).Debug("AddItem called")

	s := l.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, exists := s.carts[userID]
	if !exists {
		cart = NewCart(userID)
	}
	if !cart.Add(productID, quantity) {
		return overflowError(userID, productID, quantity)
	}
	s.carts[userID] = cart
	return nil
}

// EmptyCart empties a user's cart.
func (l *LocalCartStore) EmptyCart(ctx context.Context, userID string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	l.log.WithField("user_id", userID).Debug("EmptyCart called")

	s := l.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}

// GetCart retrieves a copy of the user's cart.
func (l *LocalCartStore) GetCart(ctx context.Context, userID string) (*Cart, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	l.log.WithField("user_id", userID).Debug("GetCart called")

	s := l.shard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cart, exists := s.carts[userID]; exists {
		return cart.Clone(), nil
	}
	// Return an empty cart if it doesn't exist.
	return NewCart(userID), nil
}

// Ping is a health check that always returns true.
func (l *LocalCartStore) Ping(ctx context.Context) bool {
	return true
}

// Close is a no-op.
func (l *LocalCartStore) Close() error {
	return nil
}
