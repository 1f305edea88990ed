package services

import (
	"context"

	"github.com/norun9/cartservice/cartpb"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Readiness is what health reporting needs from the facade.
type Readiness interface {
	Ready() bool
	Ping(ctx context.Context) bool
}

// HealthCheckService implements gRPC health checking for the cart service.
type HealthCheckService struct {
	healthpb.UnimplementedHealthServer
	readiness Readiness
	log       logrus.FieldLogger
}

// NewHealthCheckService constructor
func NewHealthCheckService(readiness Readiness, log logrus.FieldLogger) *HealthCheckService {
	return &HealthCheckService{
		readiness: readiness,
		log:       log.WithField("component", "HealthCheckService"),
	}
}

// Check reports SERVING once the cart store is initialized and its backend
// answers a ping. The empty service name and the cart service name are known.
func (h *HealthCheckService) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != cartpb.CartService_ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}
	if h.readiness.Ping(ctx) {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
	}
	h.log.WithField("ready", h.readiness.Ready()).Debug("reporting NOT_SERVING")
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
}
