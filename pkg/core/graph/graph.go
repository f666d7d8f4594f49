package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// Graph 依赖图（对外导出）
// 构建完成后边结构不可变，可以被多个调度器并发读取
type Graph[T cmp.Ordered] struct {
	nodes      set[T]
	prereqs    map[T]set[T] // 步骤 -> 前置步骤集合
	dependents map[T]set[T] // 步骤 -> 后置步骤集合
	edgeCount  int
}

// Build 从约束列表构建依赖图（对外导出）
func Build[T cmp.Ordered](constraints []Constraint[T]) (*Graph[T], error) {
	return BuildWithOptions(constraints, BuildOptions[T]{})
}

// BuildWithOptions 从约束列表构建依赖图（带选项）
// 重复约束会被合并，约束顺序不影响结果；自环不做校验，由调度器作为循环检测出来
func BuildWithOptions[T cmp.Ordered](constraints []Constraint[T], options BuildOptions[T]) (*Graph[T], error) {
	g := &Graph[T]{
		nodes:      make(set[T]),
		prereqs:    make(map[T]set[T]),
		dependents: make(map[T]set[T]),
	}

	var zero T
	for _, step := range options.Steps {
		if !options.AllowZero && step == zero {
			return nil, fmt.Errorf("%w: 步骤标识不能为空", ErrMalformedConstraint)
		}
		g.addNode(step)
	}

	for i, c := range constraints {
		if !options.AllowZero && (c.Prerequisite == zero || c.Dependent == zero) {
			return nil, fmt.Errorf("%w: 第%d条约束包含空标识 (%v -> %v)", ErrMalformedConstraint, i+1, c.Prerequisite, c.Dependent)
		}
		g.addEdge(c.Prerequisite, c.Dependent)
	}

	return g, nil
}

func (g *Graph[T]) addNode(step T) {
	if _, exists := g.nodes[step]; exists {
		return
	}
	g.nodes[step] = struct{}{}
	g.prereqs[step] = make(set[T])
	g.dependents[step] = make(set[T])
}

func (g *Graph[T]) addEdge(prerequisite, dependent T) {
	g.addNode(prerequisite)
	g.addNode(dependent)
	if _, exists := g.dependents[prerequisite][dependent]; exists {
		return
	}
	g.dependents[prerequisite][dependent] = struct{}{}
	g.prereqs[dependent][prerequisite] = struct{}{}
	g.edgeCount++
}

// Nodes 返回所有步骤，按升序排列
func (g *Graph[T]) Nodes() []T {
	return sortedKeys(g.nodes)
}

// Len 步骤数量
func (g *Graph[T]) Len() int {
	return len(g.nodes)
}

// EdgeCount 去重后的边数量
func (g *Graph[T]) EdgeCount() int {
	return g.edgeCount
}

// Has 判断步骤是否存在
func (g *Graph[T]) Has(step T) bool {
	_, ok := g.nodes[step]
	return ok
}

// PrerequisitesOf 返回步骤的直接前置步骤（升序）
// 没有前置步骤或步骤不存在时返回空切片，不是错误
func (g *Graph[T]) PrerequisitesOf(step T) []T {
	return sortedKeys(g.prereqs[step])
}

// DependentsOf 返回直接依赖该步骤的后置步骤（升序）
func (g *Graph[T]) DependentsOf(step T) []T {
	return sortedKeys(g.dependents[step])
}

// InDegree 前置步骤数量
func (g *Graph[T]) InDegree(step T) int {
	return len(g.prereqs[step])
}

// Edges 返回去重后的全部约束，按 (Prerequisite, Dependent) 排序
func (g *Graph[T]) Edges() []Constraint[T] {
	edges := make([]Constraint[T], 0, g.edgeCount)
	for _, from := range g.Nodes() {
		for _, to := range g.DependentsOf(from) {
			edges = append(edges, Constraint[T]{Prerequisite: from, Dependent: to})
		}
	}
	return edges
}

func sortedKeys[T cmp.Ordered](s set[T]) []T {
	keys := make([]T, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
