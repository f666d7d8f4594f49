package main

import (
	"context"
	"flag"
	"log"

	"github.com/LENAX/step-scheduler/pkg/api"
	"github.com/LENAX/step-scheduler/pkg/config"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	// 命令行参数
	configPath := flag.String("config", "./configs/step-scheduler.yaml", "配置文件路径")
	host := flag.String("host", "", "监听地址（覆盖配置文件）")
	port := flag.Int("port", 0, "监听端口（覆盖配置文件）")
	flag.Parse()

	log.Printf("Step Scheduler Server v%s (commit %s, built %s)", Version, GitCommit, BuildTime)
	log.Printf("配置文件: %s", *configPath)

	// 1. 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 构建Engine
	eng, err := engine.NewEngineBuilder(cfg).Build()
	if err != nil {
		log.Fatalf("创建Engine失败: %v", err)
	}

	// 3. 启动定时调度和API服务器
	serverConfig := api.ServerConfigFrom(cfg)
	if *host != "" {
		serverConfig.Host = *host
	}
	if *port > 0 {
		serverConfig.Port = *port
	}

	svc, err := api.StartService(eng, serverConfig, Version)
	if err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
	log.Printf("✅ Step Scheduler Server started on %s", svc.Addr())

	// 4. 等待中断信号
	if err := svc.Wait(context.Background()); err != nil {
		log.Printf("API服务器错误: %v", err)
	}

	log.Println("正在关闭服务...")

	// 5. 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.WriteTimeout)
	defer cancel()

	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Printf("关闭服务失败: %v", err)
	}
	if err := eng.Close(); err != nil {
		log.Printf("关闭Engine失败: %v", err)
	}
	log.Println("✅ 服务已停止")
}
