package server

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	healthhandler "tenant-accounts/backend/internal/health/handler"
)

// mockServiceRegistrar implements grpc.ServiceRegistrar for testing.
type mockServiceRegistrar struct {
	services []string
}

func (m *mockServiceRegistrar) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	m.services = append(m.services, desc.ServiceName)
}

type downPinger struct{}

func (downPinger) PingContext(context.Context) error { return errors.New("down") }

func TestRegisterServices(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, healthhandler.NewServer(nil))
	if len(mockReg.services) != 1 || mockReg.services[0] != "grpc.health.v1.Health" {
		t.Errorf("registered %v, want [grpc.health.v1.Health]", mockReg.services)
	}
}

func TestGRPCHealth_OverBufconn(t *testing.T) {
	testCases := []struct {
		name   string
		pinger healthhandler.Pinger
		want   healthpb.HealthCheckResponse_ServingStatus
	}{
		{"serving", nil, healthpb.HealthCheckResponse_SERVING},
		{"database down", downPinger{}, healthpb.HealthCheckResponse_NOT_SERVING},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lis := bufconn.Listen(1 << 20)
			srv := NewGRPCServer(healthhandler.NewServer(tc.pinger))
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- serveGRPC(ctx, srv, lis) }()

			conn, err := grpc.NewClient("passthrough:///bufnet",
				grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
				grpc.WithTransportCredentials(insecure.NewCredentials()),
			)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
			conn.Close()
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if resp.GetStatus() != tc.want {
				t.Errorf("status = %v, want %v", resp.GetStatus(), tc.want)
			}

			cancel()
			if err := <-done; err != nil {
				t.Errorf("serveGRPC: %v", err)
			}
		})
	}
}
