package scheduler

// State 调度器状态
type State int

const (
	StateInitialized State = iota // 已初始化，尚未调度任何步骤
	StateRunning                  // 已调度部分步骤
	StateComplete                 // 全部步骤已调度
	StateStuck                    // 仍有步骤未调度但没有就绪步骤（存在环）
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "Initialized"
	case StateRunning:
		return "Running"
	case StateComplete:
		return "Complete"
	case StateStuck:
		return "Stuck"
	default:
		return "Unknown"
	}
}

// IsTerminal 是否为终止状态
func (s State) IsTerminal() bool {
	return s == StateComplete || s == StateStuck
}
