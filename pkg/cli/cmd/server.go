package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/LENAX/step-scheduler/pkg/api"
	"github.com/LENAX/step-scheduler/pkg/cli/output"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
)

var (
	serverPort int
	serverHost string
)

// serverCmd server子命令
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "服务管理命令",
	Long:  `管理Step Scheduler HTTP API服务。`,
}

// serverStartCmd 启动服务
var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "启动HTTP API服务",
	Long: `启动Step Scheduler HTTP API服务，同时按配置注册定时调度Job。

示例：
  # 使用默认配置启动
  step-scheduler server start

  # 指定端口启动
  step-scheduler server start --port 8080

  # 指定配置文件启动
  step-scheduler server start --config ./configs/step-scheduler.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			output.Error("加载配置失败: %v", err)
			return err
		}

		eng, err := engine.NewEngineBuilder(cfg).Build()
		if err != nil {
			output.Error("创建Engine失败: %v", err)
			return err
		}
		defer eng.Close()

		// 命令行参数覆盖配置文件
		serverConfig := api.ServerConfigFrom(cfg)
		if cmd.Flags().Changed("host") {
			serverConfig.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			serverConfig.Port = serverPort
		}

		svc, err := api.StartService(eng, serverConfig, Version)
		if err != nil {
			output.Error("启动服务失败: %v", err)
			return err
		}
		output.Success("Step Scheduler Server started on %s", svc.Addr())

		waitErr := svc.Wait(cmd.Context())
		if waitErr != nil {
			output.Error("API服务器错误: %v", waitErr)
		}

		output.Info("正在关闭服务...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.WriteTimeout)
		defer cancel()
		if err := svc.Shutdown(shutdownCtx); err != nil {
			output.Error("关闭服务失败: %v", err)
		}
		if waitErr != nil {
			return waitErr
		}
		output.Success("服务已停止")
		return nil
	},
}

func init() {
	serverStartCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "监听端口")
	serverStartCmd.Flags().StringVarP(&serverHost, "host", "H", "0.0.0.0", "监听地址")

	serverCmd.AddCommand(serverStartCmd)
}
