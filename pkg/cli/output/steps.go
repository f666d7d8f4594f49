package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Sequence 将调度顺序拼成一行
// 所有标识都是单字符时直接拼接（如 CABDFE），否则以空格分隔
func Sequence(order []string) string {
	for _, step := range order {
		if len([]rune(step)) != 1 {
			return strings.Join(order, " ")
		}
	}
	return strings.Join(order, "")
}

// Order 输出调度顺序
func Order(order []string) {
	fmt.Fprintln(Writer, Sequence(order))
}

// Stuck 以红色输出无法调度的步骤和检测到的环
func Stuck(stuck, cycle []string) {
	red := color.New(color.FgRed)
	red.Fprintf(Writer, "无法调度的步骤: %s\n", strings.Join(stuck, ", "))
	if len(cycle) > 0 {
		red.Fprintf(Writer, "环: %s\n", strings.Join(cycle, " -> "))
	}
}
