package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Pinger 数据库连通性检查，*sql.DB 满足该接口
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wraps the gRPC server
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	health     *health.Server
	db         Pinger
}

// NewServer 创建只暴露健康检查的 gRPC 服务，初始状态为 NOT_SERVING
func NewServer(port int, db Pinger, jwtSecret string) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor(jwtSecret)))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		listener:   listener,
		health:     hs,
		db:         db,
	}, nil
}

// CheckReady 数据库可用时切换为 SERVING
func (s *Server) CheckReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			return fmt.Errorf("数据库不可用: %w", err)
		}
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return nil
}

// WatchReady 立即检查一次，之后按 interval 周期检查直到 ctx 结束，仅在状态变化时记录日志
func (s *Server) WatchReady(ctx context.Context, interval time.Duration) {
	ready := s.CheckReady(ctx) == nil
	if !ready {
		zap.L().Warn("gRPC 健康检查未就绪")
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.CheckReady(ctx)
			switch {
			case err != nil && ready:
				zap.L().Warn("gRPC 健康检查失败，切换为 NOT_SERVING", zap.Error(err))
			case err == nil && !ready:
				zap.L().Info("gRPC 健康检查恢复，切换为 SERVING")
			}
			ready = err == nil
		}
	}
}

// Start starts the gRPC server (blocking)
func (s *Server) Start() error {
	zap.L().Info("gRPC 服务启动", zap.String("addr", s.GetAddr()))
	return s.grpcServer.Serve(s.listener)
}

// Stop 先标记 NOT_SERVING 再优雅退出
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}
