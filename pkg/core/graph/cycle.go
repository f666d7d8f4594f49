package graph

import (
	"fmt"

	dag "github.com/begmaroman/go-dag"
)

// FindCycle 使用DFS三色标记法查找一个环（对外导出）
// 返回闭合的环路径（首尾相同），无环时返回nil
// 节点和子节点均按升序遍历，同一张图总是返回同一个环
func (g *Graph[T]) FindCycle() []T {
	// 0=白色（未访问），1=灰色（正在访问），2=黑色（已访问）
	color := make(map[T]int, len(g.nodes))
	stack := make([]T, 0)
	var cycle []T

	var dfs func(step T) bool
	dfs = func(step T) bool {
		color[step] = 1
		stack = append(stack, step)

		for _, child := range g.DependentsOf(step) {
			switch color[child] {
			case 0:
				if dfs(child) {
					return true
				}
			case 1:
				// 后向边：从栈中child的位置截取到当前节点即为环
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == child {
						cycle = append(cycle, stack[i:]...)
						cycle = append(cycle, child)
						return true
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[step] = 2
		return false
	}

	for _, step := range g.Nodes() {
		if color[step] == 0 && dfs(step) {
			return cycle
		}
	}
	return nil
}

// Verify 将依赖图镜像到 go-dag 中做一次独立的无环校验（对外导出）
// 顶点以标识字符串本身作为值，go-dag 按值哈希去重，不同步骤的哈希不会冲突
// go-dag 在 AddEdge 时会拒绝形成环的边（包括自环）；边按排序后的顺序插入，报告的冲突边是确定的
func (g *Graph[T]) Verify() error {
	d := dag.NewDAG[string]()

	for _, step := range g.Nodes() {
		id := fmt.Sprint(step)
		if err := d.AddVertexByID(id, id); err != nil {
			return fmt.Errorf("添加节点失败: %v, Error=%w", step, err)
		}
	}

	for _, e := range g.Edges() {
		if err := d.AddEdge(fmt.Sprint(e.Prerequisite), fmt.Sprint(e.Dependent)); err != nil {
			return fmt.Errorf("%w: 边 %v -> %v 无法加入: %v", ErrCycleDetected, e.Prerequisite, e.Dependent, err)
		}
	}

	return nil
}
