// Package handler reports service readiness over HTTP (/healthz) and the standard gRPC health protocol.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB and the in-memory store.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server implements grpc.health.v1.Health and the HTTP health endpoint.
type Server struct {
	healthpb.UnimplementedHealthServer
	pinger Pinger
}

// NewServer returns a health Server. A nil pinger reports healthy.
func NewServer(pinger Pinger) *Server {
	return &Server{pinger: pinger}
}

// Ready pings the database with a short timeout.
func (s *Server) Ready(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.pinger.PingContext(ctx)
}

// Check answers for the whole server ("") and reports NOT_SERVING while the database is unreachable.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if req.GetService() != "" {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
	if err := s.Ready(ctx); err != nil {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

// Healthz is the gin handler for GET /healthz.
func (s *Server) Healthz(c *gin.Context) {
	if err := s.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
