package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mooner2666/inke3/config"
	"github.com/mooner2666/inke3/internal/database"
	grpcserver "github.com/mooner2666/inke3/internal/grpc"
	"github.com/mooner2666/inke3/internal/route"
	"github.com/mooner2666/inke3/packages/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务（默认命令）",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "只执行数据库迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := database.InitDatabase(conf); err != nil {
				return err
			}
			defer database.Close()

			if err := database.Migrate(); err != nil {
				return err
			}
			zap.L().Info("数据库迁移完成")
			return nil
		},
	}
}

// bootstrap 加载配置并初始化全局日志
func bootstrap() (*config.AppConfig, func(), error) {
	if err := config.Load(configPath); err != nil {
		return nil, nil, err
	}
	conf := config.Conf

	cleanup, err := logger.Init(logger.Options{
		Level:  conf.Log.Level,
		Format: conf.Log.Format,
		Output: conf.Log.Output,
		Path:   conf.Log.Path,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return conf, cleanup, nil
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	conf, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := database.InitDatabase(conf); err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := route.SetupRouter(route.Deps{
		Config:   conf,
		DB:       database.GetDB(),
		Cache:    database.GetRedis(),
		Registry: registry,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler:      router,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	var grpcSrv *grpcserver.Server
	if conf.GRPC.Enabled {
		sqlDB, err := database.GetDB().DB()
		if err != nil {
			return fmt.Errorf("获取数据库连接失败: %w", err)
		}
		grpcSrv, err = grpcserver.NewServer(conf.GRPC.Port, sqlDB, conf.JWT.Secret)
		if err != nil {
			return err
		}
		go grpcSrv.WatchReady(ctx, conf.GRPC.HealthInterval)
		go func() {
			if err := grpcSrv.Start(); err != nil {
				errCh <- fmt.Errorf("gRPC 服务异常退出: %w", err)
			}
		}()
	}

	go func() {
		zap.L().Info("HTTP 服务启动", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP 服务异常退出: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		zap.L().Info("收到退出信号，开始关闭服务")
	case runErr = <-errCh:
		zap.L().Error("服务异常", zap.Error(runErr))
	}

	if grpcSrv != nil {
		grpcSrv.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP 服务关闭失败", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	zap.L().Info("服务已停止")
	return runErr
}
