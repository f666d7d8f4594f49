package api

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/LENAX/step-scheduler/pkg/core/engine"
)

// Service API服务器与定时调度器的组合，CLI和独立服务入口共用同一套启动/关闭流程
type Service struct {
	server *APIServer
	cron   *engine.CronScheduler
	errCh  chan error
}

// StartService 注册配置中的定时Job，启动定时调度器和API服务器（不阻塞）
func StartService(eng *engine.Engine, config ServerConfig, version string) (*Service, error) {
	cronScheduler := engine.NewCronScheduler(eng)
	if err := cronScheduler.RegisterConfiguredJobs(); err != nil {
		return nil, fmt.Errorf("注册定时Job失败: %w", err)
	}

	svc := &Service{
		server: NewAPIServer(eng, config, version),
		cron:   cronScheduler,
		errCh:  make(chan error, 1),
	}

	cronScheduler.Start()
	go func() {
		if err := svc.server.Start(); err != nil {
			log.Printf("❌ [API] 服务器异常退出: %v", err)
			svc.errCh <- err
		}
	}()
	return svc, nil
}

// Addr 监听地址
func (s *Service) Addr() string {
	return s.server.Addr()
}

// Jobs 已注册的定时Job名称
func (s *Service) Jobs() []string {
	return s.cron.GetRegisteredJobs()
}

// Wait 阻塞直到收到 SIGINT/SIGTERM、ctx 取消或API服务器异常退出
// 正常结束返回nil，服务器异常时返回其错误
func (s *Service) Wait(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		return nil
	case err := <-s.errCh:
		return err
	}
}

// Shutdown 先关闭API服务器，再停止定时调度器并等待正在执行的Job结束
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.cron.Stop()
	return err
}
