package scheduler

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/LENAX/step-scheduler/pkg/core/graph"
)

var (
	// ErrCycleDetected 就绪集合为空但仍有未调度的步骤
	ErrCycleDetected = graph.ErrCycleDetected
	// ErrUnsatisfiableSchedule ErrCycleDetected 的别名
	ErrUnsatisfiableSchedule = ErrCycleDetected
)

// CycleError 调度卡住时返回的错误，携带无法调度的步骤
type CycleError[T cmp.Ordered] struct {
	Stuck []T // 未被调度的步骤（升序）
	Cycle []T // 其中一个具体的环（首尾相同），用于诊断
}

func (e *CycleError[T]) Error() string {
	msg := fmt.Sprintf("%s: %d个步骤无法调度 %v", ErrCycleDetected.Error(), len(e.Stuck), e.Stuck)
	if len(e.Cycle) > 0 {
		parts := make([]string, len(e.Cycle))
		for i, step := range e.Cycle {
			parts[i] = fmt.Sprint(step)
		}
		msg += ", 环: " + strings.Join(parts, " -> ")
	}
	return msg
}

func (e *CycleError[T]) Unwrap() error { return ErrCycleDetected }
