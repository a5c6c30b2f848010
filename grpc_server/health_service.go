package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"tierlist-restful/interceptors"
)

// Server is the gRPC side of the service. It answers the standard health
// protocol for serviceName and for the empty name, and exposes reflection.
type Server struct {
	grpc        *grpc.Server
	health      *health.Server
	serviceName string
	logger      *zap.Logger
}

func NewServer(serviceName string, logger *zap.Logger) *Server {
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptors.ZapLoggingInterceptor(logger)),
		grpc.ChainStreamInterceptor(interceptors.ZapStreamLoggingInterceptor(logger)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	s := &Server{grpc: gs, health: hs, serviceName: serviceName, logger: logger.Named("grpc")}
	s.SetServing(false)
	return s
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", zap.String("address", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// SetServing reports the service as SERVING or NOT_SERVING.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.serviceName, status)
}

// MonitorDatabase updates the serving status from ping every interval until
// ctx is done. The first check runs immediately.
func (s *Server) MonitorDatabase(ctx context.Context, ping func(context.Context) error, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := false
	for {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := ping(pingCtx)
		cancel()
		if ok := err == nil; ok != serving {
			serving = ok
			s.SetServing(serving)
			if serving {
				s.logger.Info("Database reachable, serving")
			} else {
				s.logger.Warn("Database unreachable, not serving", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop marks every service NOT_SERVING, then drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
