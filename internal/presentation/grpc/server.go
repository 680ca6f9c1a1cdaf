package grpc

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/andresv02/loan-management-system/pkg/auth"
)

// Requests are small JSON documents; a schedule preview for the longest
// term stays well under this.
const maxMessageBytes = 1 << 20

var publicMethods = []string{
	"/grpc.health.v1.Health/Check",
	"/grpc.health.v1.Health/Watch",
}

// Mutations need a back-office role that may write; every valid token may
// read and preview.
var writeRoles = auth.MethodRoles{
	"/" + ServiceName + "/ApproveApplication": {auth.RoleAdmin, auth.RoleOperator},
	"/" + ServiceName + "/RecordPayment":      {auth.RoleAdmin, auth.RoleOperator},
	"/" + ServiceName + "/ReversePayment":     {auth.RoleAdmin, auth.RoleOperator},
}

// ServerOptions configures transport security and extra interceptors.
type ServerOptions struct {
	// TLS enables transport security when set.
	TLS          *tls.Config
	Reflection   bool
	Interceptors []grpc.UnaryServerInterceptor
}

// Server is the gRPC listener for LendingService plus the standard health
// service.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer builds the server. Extra interceptors run before authentication
// so rejected calls are still measured.
func NewServer(handler *LendingHandler, logger *slog.Logger, jwtService *auth.JWTService, opts ServerOptions) (*Server, error) {
	chain := make([]grpc.UnaryServerInterceptor, 0, len(opts.Interceptors)+2)
	chain = append(chain, opts.Interceptors...)
	chain = append(chain,
		auth.UnaryAuthInterceptor(jwtService, publicMethods),
		auth.UnaryRoleInterceptor(writeRoles),
	)

	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(chain...),
		grpc.MaxRecvMsgSize(maxMessageBytes),
		grpc.KeepaliveParams(keepalive.ServerParameters{MaxConnectionIdle: 5 * time.Minute}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{MinTime: 30 * time.Second, PermitWithoutStream: true}),
	}
	transport := "plaintext"
	if opts.TLS != nil {
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(opts.TLS)))
		transport = "tls"
	}

	gs := grpc.NewServer(serverOpts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	RegisterLendingServiceServer(gs, handler)
	if opts.Reflection {
		reflection.Register(gs)
	}

	logger = logger.With("component", "grpc", "transport", transport)
	return &Server{gs: gs, health: hs, logger: logger}, nil
}

// Serve listens on addr and blocks until the server stops.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc: listen %s: %w", addr, err)
	}
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// GracefulStop reports NOT_SERVING to health probes, then drains in-flight
// calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server draining")
	s.health.Shutdown()
	s.gs.GracefulStop()
}
