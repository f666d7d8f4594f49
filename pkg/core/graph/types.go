package graph

import (
	"cmp"
	"errors"
)

var (
	// ErrMalformedConstraint 约束中的步骤标识非法（为空/零值）
	ErrMalformedConstraint = errors.New("malformed constraint")
	// ErrCycleDetected 依赖图中存在循环
	ErrCycleDetected = errors.New("cycle detected")
)

// Constraint 一条"先于"约束：Prerequisite 必须在 Dependent 之前完成（对外导出）
type Constraint[T cmp.Ordered] struct {
	Prerequisite T `json:"before" yaml:"before"`
	Dependent    T `json:"after" yaml:"after"`
}

// NewConstraint 创建约束
func NewConstraint[T cmp.Ordered](prerequisite, dependent T) Constraint[T] {
	return Constraint[T]{Prerequisite: prerequisite, Dependent: dependent}
}

// BuildOptions 依赖图构建选项
type BuildOptions[T cmp.Ordered] struct {
	Steps     []T  // 额外的步骤（没有任何约束的孤立步骤也需要出现在结果中）
	AllowZero bool // 允许零值标识（如整数步骤0）
}

// set 简单集合
type set[T comparable] map[T]struct{}
