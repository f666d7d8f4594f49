package scheduler

import "fmt"

// Strategy 就绪集合的维护方式
type Strategy string

const (
	// StrategySortedSet 使用有序集合维护就绪步骤，O((V+E) log V)
	StrategySortedSet Strategy = "sorted"
	// StrategyScan 每轮全量扫描所有步骤，O(V²)，仅适合小图
	StrategyScan Strategy = "scan"
)

// ParseStrategy 解析策略名称，空字符串返回默认策略
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", StrategySortedSet:
		return StrategySortedSet, nil
	case StrategyScan:
		return StrategyScan, nil
	default:
		return "", fmt.Errorf("未知的调度策略: %q（可选: sorted/scan）", name)
	}
}

// options 内部配置选项
type options struct {
	strategy Strategy
}

// defaultOptions 返回默认配置
func defaultOptions() *options {
	return &options{
		strategy: StrategySortedSet,
	}
}

// Option 配置选项函数类型
type Option func(*options)

// WithStrategy 设置就绪集合策略，未知的策略被忽略，保留默认值
func WithStrategy(strategy Strategy) Option {
	return func(o *options) {
		switch strategy {
		case StrategySortedSet, StrategyScan:
			o.strategy = strategy
		}
	}
}
