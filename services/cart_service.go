package services

import (
	"context"

	"github.com/norun9/cartservice/cartpb"
	"github.com/norun9/cartservice/cartstore"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Carts is the cart API the gRPC service forwards to.
type Carts interface {
	AddItem(ctx context.Context, userID, productID string, quantity int32) error
	GetCart(ctx context.Context, userID string) (*cartstore.Cart, error)
	EmptyCart(ctx context.Context, userID string) error
}

// CartServiceServer implements hipstershop.CartService.
type CartServiceServer struct {
	carts  Carts
	tracer trace.Tracer
}

var _ cartpb.CartServiceServer = (*CartServiceServer)(nil)

// NewCartServiceServer creates a server instance forwarding to carts.
func NewCartServiceServer(carts Carts) *CartServiceServer {
	return &CartServiceServer{
		carts:  carts,
		tracer: otel.Tracer("cartservice"),
	}
}

// AddItem RPC implementation.
func (s *CartServiceServer) AddItem(ctx context.Context, req *cartpb.AddItemRequest) (*cartpb.Empty, error) {
	ctx, span := s.tracer.Start(ctx, "AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("app.user_id", req.UserId),
		attribute.String("app.product_id", req.GetItem().GetProductId()),
		attribute.Int64("app.quantity", int64(req.GetItem().GetQuantity())),
	)

	if req.Item == nil {
		return nil, failSpan(span, status.Error(codes.InvalidArgument, "AddItem failed: item is required"))
	}
	if err := s.carts.AddItem(ctx, req.UserId, req.Item.ProductId, req.Item.Quantity); err != nil {
		return nil, failSpan(span, toStatus("AddItem", err))
	}
	return &cartpb.Empty{}, nil
}

// GetCart RPC implementation.
func (s *CartServiceServer) GetCart(ctx context.Context, req *cartpb.GetCartRequest) (*cartpb.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "GetCart")
	defer span.End()
	span.SetAttributes(attribute.String("app.user_id", req.UserId))

	cart, err := s.carts.GetCart(ctx, req.UserId)
	if err != nil {
		return nil, failSpan(span, toStatus("GetCart", err))
	}
	span.SetAttributes(attribute.Int("app.cart.items.count", len(cart.Items)))
	return toProto(cart), nil
}

// EmptyCart RPC implementation.
func (s *CartServiceServer) EmptyCart(ctx context.Context, req *cartpb.EmptyCartRequest) (*cartpb.Empty, error) {
	ctx, span := s.tracer.Start(ctx, "EmptyCart")
	defer span.End()
	span.SetAttributes(attribute.String("app.user_id", req.UserId))

	if err := s.carts.EmptyCart(ctx, req.UserId); err != nil {
		return nil, failSpan(span, toStatus("EmptyCart", err))
	}
	return &cartpb.Empty{}, nil
}

func toProto(cart *cartstore.Cart) *cartpb.Cart {
	out := &cartpb.Cart{
		UserId: cart.UserID,
		Items:  make([]*cartpb.CartItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		out.Items = append(out.Items, &cartpb.CartItem{
			ProductId: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return out
}

// toStatus maps store errors onto gRPC codes so clients can tell retryable
// failures from rejected requests.
func toStatus(op string, err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, cartstore.ErrInvalidArgument):
		code = codes.InvalidArgument
	case errors.Is(err, cartstore.ErrBackendUnavailable):
		code = codes.Unavailable
	case errors.Is(err, cartstore.ErrCorruptCart):
		code = codes.DataLoss
	}
	return status.Errorf(code, "%s failed: %v", op, err)
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	return err
}
