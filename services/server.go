package services

import (
	"github.com/norun9/cartservice/cartpb"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewGRPCServer returns a gRPC server with the cart, health and reflection
// services registered against facade.
func NewGRPCServer(facade *CartFacade, log logrus.FieldLogger) *grpc.Server {
	srv := grpc.NewServer(
		cartpb.ServerOption(),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	cartpb.RegisterCartServiceServer(srv, NewCartServiceServer(facade))
	healthpb.RegisterHealthServer(srv, NewHealthCheckService(facade, log))
	reflection.Register(srv)
	return srv
}
