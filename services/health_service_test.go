package services

import (
	"context"
	"testing"

	"github.com/norun9/cartservice/cartpb"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type fakeReadiness struct {
	ready bool
	alive bool
}

func (f fakeReadiness) Ready() bool { return f.ready }
func (f fakeReadiness) Ping(ctx context.Context) bool { return f.ready && f.alive }

func TestHealthCheck(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	tests := []struct {
		name      string
		readiness fakeReadiness
		service   string
		want      healthpb.HealthCheckResponse_ServingStatus
		wantCode  codes.Code
	}{
		{name: "not started", readiness: fakeReadiness{}, want: healthpb.HealthCheckResponse_NOT_SERVING},
		{name: "backend down", readiness: fakeReadiness{ready: true}, want: healthpb.HealthCheckResponse_NOT_SERVING},
		{name: "serving", readiness: fakeReadiness{ready: true, alive: true}, want: healthpb.HealthCheckResponse_SERVING},
		{name: "cart service name", readiness: fakeReadiness{ready: true, alive: true}, service: cartpb.CartService_ServiceName, want: healthpb.HealthCheckResponse_SERVING},
		{name: "unknown service", readiness: fakeReadiness{ready: true, alive: true}, service: "grpc.health.v1.Unknown", wantCode: codes.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthCheckService(tt.readiness, log)
			resp, err := h.Check(context.Background(), &healthpb.HealthCheckRequest{Service: tt.service})
			if tt.wantCode != codes.OK {
				if got := status.Code(err); got != tt.wantCode {
					t.Fatalf("Check: got code %v, want %v", got, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("Check = %v, want %v", resp.Status, tt.want)
			}
		})
	}
}

func TestHealthCheckFollowsFacade(t *testing.T) {
	store := &recordingStore{alive: true}
	f := newTestFacade(t, store, CartFacadeOptions{})
	log, _ := logtest.NewNullLogger()
	h := NewHealthCheckService(f, log)
	ctx := context.Background()

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		t.Helper()
		resp, err := h.Check(ctx, &healthpb.HealthCheckRequest{})
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		return resp.Status
	}

	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("before Start: %v, want NOT_SERVING", got)
	}
	if err := f.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("after Start: %v, want SERVING", got)
	}
	store.alive = false
	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("backend down: %v, want NOT_SERVING", got)
	}
}
