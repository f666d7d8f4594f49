package scheduler

import (
	"cmp"
	"slices"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/LENAX/step-scheduler/pkg/core/graph"
)

// Scheduler 确定性步骤调度器（对外导出）
// 每次调度创建一个实例，调度状态归实例所有，不在调用方之间共享，也不是并发安全的
type Scheduler[T cmp.Ordered] struct {
	graph    *graph.Graph[T]
	strategy Strategy
	nodes    []T // 升序，Scan 策略按此顺序扫描

	state     State
	scheduled []T
	placed    map[T]struct{}
	remaining map[T]int    // 步骤 -> 尚未调度的前置步骤数量
	ready     *treeset.Set // 仅 StrategySortedSet 使用
	err       error
}

// New 创建调度器并完成初始化：remaining(step) = |prerequisites_of(step)|
func New[T cmp.Ordered](g *graph.Graph[T], opts ...Option) *Scheduler[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	s := &Scheduler[T]{
		graph:     g,
		strategy:  o.strategy,
		nodes:     g.Nodes(),
		state:     StateInitialized,
		scheduled: make([]T, 0, g.Len()),
		placed:    make(map[T]struct{}, g.Len()),
		remaining: make(map[T]int, g.Len()),
	}

	if s.strategy == StrategySortedSet {
		s.ready = treeset.NewWith(func(a, b interface{}) int {
			return cmp.Compare(a.(T), b.(T))
		})
	}

	for _, step := range s.nodes {
		s.remaining[step] = g.InDegree(step)
		if s.ready != nil && s.remaining[step] == 0 {
			s.ready.Add(step)
		}
	}

	return s
}

// Schedule 对依赖图做一次完整调度（对外导出）
func Schedule[T cmp.Ordered](g *graph.Graph[T], opts ...Option) ([]T, error) {
	return New(g, opts...).Run()
}

// Run 持续调度直到 Complete 或 Stuck
// Complete 时返回完整顺序；Stuck 时返回 *CycleError，不返回部分结果
func (s *Scheduler[T]) Run() ([]T, error) {
	for !s.state.IsTerminal() {
		if _, _, err := s.Step(); err != nil {
			return nil, err
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.Scheduled(), nil
}

// Step 执行主循环的一次迭代
// 返回本轮选中的步骤；到达终止状态后返回 ok=false
func (s *Scheduler[T]) Step() (step T, ok bool, err error) {
	if s.state.IsTerminal() {
		return step, false, s.err
	}
	if len(s.scheduled) == len(s.nodes) {
		s.state = StateComplete
		return step, false, nil
	}

	step, ok = s.next()
	if !ok {
		s.state = StateStuck
		s.err = s.cycleError()
		return step, false, s.err
	}

	s.scheduled = append(s.scheduled, step)
	s.placed[step] = struct{}{}
	if s.ready != nil {
		s.ready.Remove(step)
	}

	for _, dependent := range s.graph.DependentsOf(step) {
		s.remaining[dependent]--
		if s.ready != nil && s.remaining[dependent] == 0 {
			if _, done := s.placed[dependent]; !done {
				s.ready.Add(dependent)
			}
		}
	}

	s.state = StateRunning
	if len(s.scheduled) == len(s.nodes) {
		s.state = StateComplete
	}
	return step, true, nil
}

// next 选出就绪集合中最小的步骤
func (s *Scheduler[T]) next() (T, bool) {
	var zero T
	if s.ready != nil {
		it := s.ready.Iterator()
		if !it.First() {
			return zero, false
		}
		return it.Value().(T), true
	}

	for _, step := range s.nodes {
		if s.isReady(step) {
			return step, true
		}
	}
	return zero, false
}

func (s *Scheduler[T]) isReady(step T) bool {
	if _, done := s.placed[step]; done {
		return false
	}
	return s.remaining[step] == 0
}

// Ready 返回当前就绪且未调度的步骤（升序）
func (s *Scheduler[T]) Ready() []T {
	if s.ready != nil {
		values := s.ready.Values()
		ready := make([]T, len(values))
		for i, v := range values {
			ready[i] = v.(T)
		}
		return ready
	}

	ready := make([]T, 0)
	for _, step := range s.nodes {
		if s.isReady(step) {
			ready = append(ready, step)
		}
	}
	return ready
}

// State 当前状态
func (s *Scheduler[T]) State() State {
	return s.state
}

// Scheduled 已调度的步骤（副本）
func (s *Scheduler[T]) Scheduled() []T {
	return slices.Clone(s.scheduled)
}

// Err Stuck 状态下的错误
func (s *Scheduler[T]) Err() error {
	return s.err
}

func (s *Scheduler[T]) cycleError() *CycleError[T] {
	stuck := make([]T, 0, len(s.nodes)-len(s.scheduled))
	for _, step := range s.nodes {
		if _, done := s.placed[step]; !done {
			stuck = append(stuck, step)
		}
	}
	return &CycleError[T]{
		Stuck: stuck,
		Cycle: s.graph.FindCycle(),
	}
}
