package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/LENAX/step-scheduler/pkg/config"
)

var (
	// 全局变量
	configPath string
	outputJSON bool
)

// defaultConfigPaths 未指定 --config 时依次尝试的配置文件
var defaultConfigPaths = []string{
	"./configs/step-scheduler.yaml",
	"./config/step-scheduler.yaml",
	"./step-scheduler.yaml",
}

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "step-scheduler",
	Short: "Step Scheduler CLI - 按依赖约束确定步骤执行顺序",
	Long: `Step Scheduler CLI 根据 "步骤X完成后步骤Y才能开始" 形式的约束，
计算出满足全部约束的唯一执行顺序：多个步骤同时就绪时，标识最小的先执行。

支持的功能：
  - 计算调度顺序（文本/YAML/HTML输入）
  - 校验约束是否存在环
  - 查询历史运行记录
  - 启动HTTP API服务

使用示例：
  # 调度一个约束文件
  step-scheduler schedule ./steps.txt

  # 从标准输入读取
  cat steps.txt | step-scheduler schedule -

  # 启动HTTP服务
  step-scheduler server start --port 8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "使用JSON格式输出")

	// 添加子命令
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig 加载配置，未指定路径时尝试默认路径，都不存在则使用默认配置
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		for _, p := range defaultConfigPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}
