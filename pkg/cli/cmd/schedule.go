package cmd

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LENAX/step-scheduler/pkg/cli/output"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
	"github.com/LENAX/step-scheduler/pkg/core/graph"
)

var (
	scheduleFormat   string
	scheduleStrategy string
	scheduleRecord   bool
)

// scheduleCmd 计算调度顺序
var scheduleCmd = &cobra.Command{
	Use:   "schedule [file|-]",
	Short: "计算满足全部约束的执行顺序",
	Long: `读取约束并输出执行顺序。存在环时列出无法调度的步骤并以非零状态退出。

示例：
  step-scheduler schedule ./steps.txt
  step-scheduler schedule ./pipeline.yaml --strategy scan
  step-scheduler schedule ./steps.txt --record`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			output.Error("加载配置失败: %v", err)
			return err
		}
		if scheduleStrategy != "" {
			cfg.StepScheduler.Scheduler.Strategy = scheduleStrategy
		}
		// 只有 --record 时才写入运行记录
		cfg.StepScheduler.Storage.Database.Enabled = scheduleRecord

		doc, err := readDocument(argOrStdin(args), scheduleFormat, cmd.InOrStdin())
		if err != nil {
			output.Error("解析约束失败: %v", err)
			return err
		}

		eng, err := engine.NewEngineBuilder(cfg).Build()
		if err != nil {
			output.Error("创建Engine失败: %v", err)
			return err
		}
		defer eng.Close()

		result, err := eng.Schedule(cmd.Context(), doc)
		if err != nil && !errors.Is(err, graph.ErrCycleDetected) {
			output.Error("调度失败: %v", err)
			return err
		}

		if outputJSON {
			if jsonErr := output.PrintJSON(result); jsonErr != nil {
				return jsonErr
			}
			return err
		}

		if err != nil {
			output.Error("存在环，无法完成调度")
			output.Stuck(result.Stuck, result.Cycle)
			if scheduleRecord {
				output.Info("运行记录: %s", result.RunID)
			}
			return err
		}

		output.Order(result.Order)
		if len(result.Order) > 0 {
			table := output.NewTable([]string{"#", "STEP"})
			for i, step := range result.Order {
				table.AddRow([]string{strconv.Itoa(i + 1), step})
			}
			table.Render()
		}
		if scheduleRecord {
			output.Success("已记录运行: %s", result.RunID)
		}
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVarP(&scheduleFormat, "format", "f", "", "输入格式 text|yaml|html（默认按扩展名推断）")
	scheduleCmd.Flags().StringVar(&scheduleStrategy, "strategy", "", "调度策略 sorted|scan（默认取配置）")
	scheduleCmd.Flags().BoolVar(&scheduleRecord, "record", false, "将本次运行写入配置的数据库")
}
