package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LENAX/step-scheduler/pkg/cli/output"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
	"github.com/LENAX/step-scheduler/pkg/storage"
)

var runsLimit int

// runsCmd runs子命令
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "运行记录查询命令",
	Long:  `查询配置的数据库中保存的调度运行记录。`,
}

// runsListCmd 列出运行记录
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出最近的运行记录",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openRecordedEngine()
		if err != nil {
			output.Error("打开运行记录失败: %v", err)
			return err
		}
		defer eng.Close()

		runs, err := eng.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(runs)
		}

		if len(runs) == 0 {
			output.Info("暂无运行记录")
			return nil
		}

		table := output.NewTable([]string{"RUN_ID", "NAME", "STATUS", "STEPS", "STRATEGY", "CREATED"})
		for _, run := range runs {
			table.AddRow([]string{
				run.ID,
				run.Name,
				formatStatus(run.Status),
				fmt.Sprintf("%d", run.StepCount),
				run.Strategy,
				run.CreateTime.Local().Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

// runsShowCmd 查看运行记录详情
var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "查看运行记录详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openRecordedEngine()
		if err != nil {
			output.Error("打开运行记录失败: %v", err)
			return err
		}
		defer eng.Close()

		run, err := eng.GetRun(cmd.Context(), args[0])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(run)
		}

		fmt.Fprintf(output.Writer, "运行ID:   %s\n", run.ID)
		fmt.Fprintf(output.Writer, "名称:     %s\n", run.Name)
		fmt.Fprintf(output.Writer, "状态:     %s\n", formatStatus(run.Status))
		fmt.Fprintf(output.Writer, "策略:     %s\n", run.Strategy)
		fmt.Fprintf(output.Writer, "步骤/约束: %d/%d\n", run.StepCount, run.EdgeCount)
		fmt.Fprintf(output.Writer, "指纹:     %s\n", run.Fingerprint)
		fmt.Fprintf(output.Writer, "耗时:     %s\n", run.Duration)
		fmt.Fprintf(output.Writer, "创建时间: %s\n", run.CreateTime.Local().Format("2006-01-02 15:04:05"))
		if run.Status == storage.RunStatusStuck {
			output.Stuck(run.Stuck, run.Cycle)
		} else {
			fmt.Fprintf(output.Writer, "顺序:     %s\n", strings.Join(run.Order, " "))
		}
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "l", 20, "返回数量限制，<=0 返回全部")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}

// openRecordedEngine 创建启用了运行记录存储的Engine
func openRecordedEngine() (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.StepScheduler.Storage.Database.Enabled = true
	return engine.NewEngineBuilder(cfg).Build()
}

// formatStatus 格式化状态显示
func formatStatus(status string) string {
	switch status {
	case storage.RunStatusComplete:
		return "✅ complete"
	case storage.RunStatusStuck:
		return "❌ stuck"
	default:
		return status
	}
}
