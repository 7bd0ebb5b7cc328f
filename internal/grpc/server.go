package grpcserver

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"employeePortal/internal/auth"
	"employeePortal/internal/config"
	"employeePortal/internal/logger"
	"employeePortal/internal/portal"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// NewServer builds a gRPC server exposing PortalService and the health
// service. Login, Register, Options and health checks need no token.
func NewServer(secret string, p *portal.Portal, log *slog.Logger) *grpc.Server {
	if log == nil {
		log = logger.Discard()
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(log),
		auth.NewUnaryAuthInterceptor(secret,
			healthCheckMethod,
			FullMethod("Login"),
			FullMethod("Register"),
			FullMethod("Options"),
		),
	))
	RegisterPortalServiceServer(srv, &PortalServer{Portal: p})

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC starts the gRPC server on cfg.GRPC.Address and returns a shutdown function.
func StartGRPC(cfg *config.Config, p *portal.Portal, log *slog.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := NewServer(cfg.Auth.JWTSecret, p, log)
	go func() {
		if err := srv.Serve(lis); err != nil {
			log.Error("grpc serve", "error", err)
		}
	}()
	log.Info("grpc listening", "addr", lis.Addr().String())

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}

func loggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start))
		return resp, err
	}
}
