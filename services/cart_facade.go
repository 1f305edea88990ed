package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/norun9/cartservice/cartstore"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	BackendLocal = "local"
	BackendRedis = "redis"
)

var (
	// ErrStartupFailure marks a failed Start. The process must not serve after it.
	ErrStartupFailure = errors.New("cart store startup failed")

	// ErrNotReady is returned by cart operations issued before Start succeeded.
	ErrNotReady = errors.Wrap(cartstore.ErrBackendUnavailable, "cart store not initialized")
)

type startupError struct {
	backend string
	err     error
}

func (e *startupError) Error() string {
	return fmt.Sprintf("%v: initialize %s cart store: %v", ErrStartupFailure, e.backend, e.err)
}

func (e *startupError) Is(target error) bool { return target == ErrStartupFailure }

func (e *startupError) Unwrap() error { return e.err }

// CartFacadeOptions configures NewCartFacade.
type CartFacadeOptions struct {
	// RedisAddr selects the Redis store; empty selects the in-memory store.
	RedisAddr string
	Log       logrus.FieldLogger
	// Meter records operation metrics. Defaults to the global meter.
	Meter metric.Meter
}

// CartFacade owns the one cart store of the process and forwards every
// request to it. It holds no cart state itself.
type CartFacade struct {
	store   cartstore.CartStore
	backend string
	log     logrus.FieldLogger

	started atomic.Bool
	ready   atomic.Bool

	operations metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewCartFacade selects the backend from opts. The store is not usable until
// Start returns nil.
func NewCartFacade(opts CartFacadeOptions) (*CartFacade, error) {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.RedisAddr == "" {
		opts.Log.Info("REDIS_ADDR not set, using LocalCartStore")
		return newCartFacade(cartstore.NewLocalCartStore(opts.Log), BackendLocal, opts)
	}

	opts.Log.WithField("redis_addr", opts.RedisAddr).Info("using RedisCartStore")
	store, err := cartstore.NewRedisCartStore(opts.RedisAddr, opts.Log)
	if err != nil {
		return nil, &startupError{backend: BackendRedis, err: err}
	}
	return newCartFacade(store, BackendRedis, opts)
}

func newCartFacade(store cartstore.CartStore, backend string, opts CartFacadeOptions) (*CartFacade, error) {
	meter := opts.Meter
	if meter == nil {
		meter = otel.Meter("cartservice")
	}
	operations, err := meter.Int64Counter("app.cart.operations",
		metric.WithDescription("Cart store operations by outcome."))
	if err != nil {
		return nil, errors.Wrap(err, "create operations counter")
	}
	duration, err := meter.Float64Histogram("app.cart.operation.duration",
		metric.WithDescription("Cart store operation latency."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, errors.Wrap(err, "create duration histogram")
	}

	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CartFacade{
		store:      store,
		backend:    backend,
		log:        log.WithFields(logrus.Fields{"component": "CartFacade", "backend": backend}),
		operations: operations,
		duration:   duration,
	}, nil
}

// Backend names the selected store, BackendLocal or BackendRedis.
func (f *CartFacade) Backend() string { return f.backend }

// Start initializes the store. It may be called once; the returned error
// matches ErrStartupFailure.
func (f *CartFacade) Start(ctx context.Context) error {
	if !f.started.CompareAndSwap(false, true) {
		return &startupError{backend: f.backend, err: errors.New("already started")}
	}
	if err := f.store.Initialize(ctx); err != nil {
		return &startupError{backend: f.backend, err: err}
	}
	f.ready.Store(true)
	f.log.Info("cart store ready")
	return nil
}

// Ready reports whether Start has completed successfully.
func (f *CartFacade) Ready() bool { return f.ready.Load() }

// Ping reports whether the store is ready and its backend answers.
func (f *CartFacade) Ping(ctx context.Context) bool {
	return f.Ready() && f.store.Ping(ctx)
}

// Close marks the facade not ready and releases the store.
func (f *CartFacade) Close() error {
	f.ready.Store(false)
	return f.store.Close()
}

func (f *CartFacade) AddItem(ctx context.Context, userID, productID string, quantity int32) error {
	start := time.Now()
	err := f.checkReady()
	if err == nil {
		err = f.store.AddItem(ctx, userID, productID, quantity)
	}
	f.record(ctx, "AddItem", start, err)
	return err
}

func (f *CartFacade) GetCart(ctx context.Context, userID string) (*cartstore.Cart, error) {
	start := time.Now()
	var cart *cartstore.Cart
	err := f.checkReady()
	if err == nil {
		cart, err = f.store.GetCart(ctx, userID)
	}
	f.record(ctx, "GetCart", start, err)
	return cart, err
}

func (f *CartFacade) EmptyCart(ctx context.Context, userID string) error {
	start := time.Now()
	err := f.checkReady()
	if err == nil {
		err = f.store.EmptyCart(ctx, userID)
	}
	f.record(ctx, "EmptyCart", start, err)
	return err
}

func (f *CartFacade) checkReady() error {
	if !f.ready.Load() {
		return ErrNotReady
	}
	return nil
}

func (f *CartFacade) record(ctx context.Context, op string, start time.Time, err error) {
	outcome := outcomeOf(err)
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
		attribute.String("backend", f.backend),
	)
	f.operations.Add(ctx, 1, attrs)
	f.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil && outcome != "invalid_argument" {
		f.log.WithError(err).WithField("operation", op).Warn("cart operation failed")
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, cartstore.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, cartstore.ErrBackendUnavailable):
		return "unavailable"
	case errors.Is(err, cartstore.ErrCorruptCart):
		return "corrupt"
	default:
		return "error"
	}
}
