package cartstore

import (
	"context"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultRedisPort = "6379"
	pingTimeout      = 5 * time.Second
)

// addItemScript merges quantity ARGV[2] for product ARGV[1] into the items hash
// KEYS[1], recording first insertions in the order list KEYS[2]. ARGV[3] is the
// largest quantity an item may reach. Redis runs scripts atomically, so
// concurrent additions from any number of processes never lose an update.
var addItemScript = redis.NewScript(`
local raw = redis.call('HGET', KEYS[1], ARGV[1])
local current = 0
if raw then
	current = tonumber(raw)
	if current == nil then
		return redis.error_reply('CORRUPT stored quantity is not an integer')
	end
end
local delta = tonumber(ARGV[2])
if current + delta > tonumber(ARGV[3]) then
	return redis.error_reply('OVERFLOW quantity exceeds maximum')
end
local updated = redis.call('HINCRBY', KEYS[1], ARGV[1], delta)
if not raw then
	redis.call('RPUSH', KEYS[2], ARGV[1])
end
return updated
`)

// RedisCartStore is a cart store backed by Redis.
//
// Each user owns two keys sharing a cluster hash tag: a hash of product id to
// quantity and a list of product ids in the order they were first added.
type RedisCartStore struct {
	client *redis.Client
	log    logrus.FieldLogger
}

// NewRedisCartStore accepts a Redis address ("host", "host:port" or a
// redis:// URL) and returns a store instance. No connection is made until
// Initialize.
func NewRedisCartStore(redisAddr string, log logrus.FieldLogger) (*RedisCartStore, error) {
	opts, err := redisOptions(redisAddr)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())

	return &RedisCartStore{
		client: client,
		log:    log.WithFields(logrus.Fields{"component": "RedisCartStore", "redis_addr": opts.Addr}),
	}, nil
}

func redisOptions(redisAddr string) (*redis.Options, error) {
	if strings.HasPrefix(redisAddr, "redis://") || strings.HasPrefix(redisAddr, "rediss://") {
		opts, err := redis.ParseURL(redisAddr)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "parse redis url: %v", err)
		}
		opts.MaxRetries = -1
		return opts, nil
	}

	addr := strings.TrimSpace(redisAddr)
	if addr == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "redis address must not be empty")
	}
	// Append the default port only if none is given.
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, defaultRedisPort)
	}
	// Client retries are disabled, retry policy belongs to the caller.
	return &redis.Options{
		Addr:         addr,
		MinIdleConns: 1,
		MaxRetries:   -1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		PoolTimeout:  4 * time.Second,
		IdleTimeout:  180 * time.Second,
	}, nil
}

func itemsKey(userID string) string { return "cart:{" + userID + "}:items" }
func orderKey(userID string) string { return "cart:{" + userID + "}:order" }

func unavailable(op string, err error) error {
	return errors.Wrapf(ErrBackendUnavailable, "redis %s: %v", op, err)
}

// Initialize pings Redis once and loads the add-item script. It does not retry.
func (r *RedisCartStore) Initialize(ctx context.Context) error {
	r.log.Info("initializing connection")

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.client.Ping(pingCtx).Err(); err != nil {
		return unavailable("ping", err)
	}
	if err := addItemScript.Load(pingCtx, r.client).Err(); err != nil {
		return unavailable("script load", err)
	}

	r.log.Info("RedisCartStore initialized successfully")
	return nil
}

// AddItem merges the product into the user's cart with a single atomic script call.
func (r *RedisCartStore) AddItem(ctx context.Context, userID, productID string, quantity int32) error {
	if err := validateAdd(userID, quantity); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	}).Debug("AddItem called")

	keys := []string{itemsKey(userID), orderKey(userID)}
	err := addItemScript.Run(ctx, r.client, keys, productID, quantity, MaxQuantity).Err()
	switch {
	case err == nil:
		return nil
	case strings.Contains(err.Error(), "OVERFLOW"):
		return overflowError(userID, productID, quantity)
	case strings.Contains(err.Error(), "CORRUPT"):
		return errors.Wrapf(ErrCorruptCart, "cart of user %q: %v", userID, err)
	default:
		return unavailable("add item", err)
	}
}

// EmptyCart deletes the user's cart keys. Deleting missing keys is not an error.
func (r *RedisCartStore) EmptyCart(ctx context.Context, userID string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	r.log.WithField("user_id", userID).Debug("EmptyCart called")

	if err := r.client.Del(ctx, itemsKey(userID), orderKey(userID)).Err(); err != nil {
		return unavailable("empty cart", err)
	}
	return nil
}

// GetCart reads the user's cart in one MULTI/EXEC round trip, returning an
// empty cart if nothing is stored.
func (r *RedisCartStore) GetCart(ctx context.Context, userID string) (*Cart, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	r.log.WithField("user_id", userID).Debug("GetCart called")

	var (
		orderCmd *redis.StringSliceCmd
		itemsCmd *redis.StringStringMapCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		orderCmd = pipe.LRange(ctx, orderKey(userID), 0, -1)
		itemsCmd = pipe.HGetAll(ctx, itemsKey(userID))
		return nil
	})
	if err != nil {
		return nil, unavailable("get cart", err)
	}
	return decodeCart(userID, orderCmd.Val(), itemsCmd.Val())
}

// decodeCart rebuilds a cart from its stored hash and order list. Items follow
// the list order; hash fields missing from the list are appended sorted by
// product id so the output stays deterministic.
func decodeCart(userID string, order []string, fields map[string]string) (*Cart, error) {
	cart := NewCart(userID)
	seen := make(map[string]bool, len(fields))

	appendItem := func(productID, raw string) error {
		q, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || q < 1 {
			return errors.Wrapf(ErrCorruptCart, "cart of user %q has quantity %q for product %q", userID, raw, productID)
		}
		cart.Items = append(cart.Items, CartItem{ProductID: productID, Quantity: int32(q)})
		seen[productID] = true
		return nil
	}

	for _, productID := range order {
		raw, ok := fields[productID]
		if !ok || seen[productID] {
			continue
		}
		if err := appendItem(productID, raw); err != nil {
			return nil, err
		}
	}

	var stray []string
	for productID := range fields {
		if !seen[productID] {
			stray = append(stray, productID)
		}
	}
	sort.Strings(stray)
	for _, productID := range stray {
		if err := appendItem(productID, fields[productID]); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// Ping checks if Redis is alive.
func (r *RedisCartStore) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		r.log.WithError(err).Warn("Ping failed")
		return false
	}
	return true
}

// Close closes the underlying client.
func (r *RedisCartStore) Close() error {
	return r.client.Close()
}
