package dao

import (
	"time"
)

// RunDAO schedule_run表的数据访问对象（内部使用）
type RunDAO struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Fingerprint string    `db:"fingerprint"`
	Strategy    string    `db:"strategy"`
	Status      string    `db:"status"`
	StepOrder   string    `db:"step_order"`  // JSON格式存储
	StuckSteps  string    `db:"stuck_steps"` // JSON格式存储
	CyclePath   string    `db:"cycle_path"`  // JSON格式存储
	StepCount   int       `db:"step_count"`
	EdgeCount   int       `db:"edge_count"`
	DurationNs  int64     `db:"duration_ns"`
	CreateTime  time.Time `db:"create_time"`
}
