package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/LENAX/step-scheduler/pkg/cli/output"
)

var validateFormat string

// validateReport 校验结果
type validateReport struct {
	Valid     bool     `json:"valid"`
	Steps     []string `json:"steps"`
	EdgeCount int      `json:"edge_count"`
	Cycle     []string `json:"cycle,omitempty"`
}

// validateCmd 校验约束
var validateCmd = &cobra.Command{
	Use:   "validate [file|-]",
	Short: "校验约束是否构成有向无环图",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(argOrStdin(args), validateFormat, cmd.InOrStdin())
		if err != nil {
			output.Error("解析约束失败: %v", err)
			return err
		}

		g, err := doc.BuildGraph()
		if err != nil {
			output.Error("构建依赖图失败: %v", err)
			return err
		}

		report := validateReport{Valid: true, Steps: g.Nodes(), EdgeCount: g.EdgeCount()}
		verifyErr := g.Verify()
		if verifyErr != nil {
			report.Valid = false
			report.Cycle = g.FindCycle()
		}

		if outputJSON {
			if err := output.PrintJSON(report); err != nil {
				return err
			}
			return verifyErr
		}

		if verifyErr != nil {
			output.Error("约束存在环: %s", strings.Join(report.Cycle, " -> "))
			return verifyErr
		}
		output.Success("约束有效: %d个步骤, %d条约束", len(report.Steps), report.EdgeCount)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "", "输入格式 text|yaml|html（默认按扩展名推断）")
}
