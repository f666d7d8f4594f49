package storage

import (
	"context"
	"errors"
	"time"
)

// 运行状态
const (
	RunStatusComplete = "complete"
	RunStatusStuck    = "stuck"
)

// ErrRunNotFound 运行记录不存在
var ErrRunNotFound = errors.New("run not found")

// Run 一次调度的运行记录（对外导出）
type Run struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Fingerprint string        `json:"fingerprint"`
	Strategy    string        `json:"strategy"`
	Status      string        `json:"status"`
	Order       []string      `json:"order,omitempty"`
	Stuck       []string      `json:"stuck,omitempty"`
	Cycle       []string      `json:"cycle,omitempty"`
	StepCount   int           `json:"step_count"`
	EdgeCount   int           `json:"edge_count"`
	Duration    time.Duration `json:"duration"`
	CreateTime  time.Time     `json:"create_time"`
}

// RunRepository 运行记录存储接口（对外导出）
type RunRepository interface {
	// Save 保存运行记录，ID相同则覆盖
	Save(ctx context.Context, run *Run) error
	// GetByID 根据ID查询，不存在时返回 ErrRunNotFound
	GetByID(ctx context.Context, id string) (*Run, error)
	// List 按创建时间倒序列出最近的记录，limit <= 0 时返回全部
	List(ctx context.Context, limit int) ([]*Run, error)
	// Close 关闭底层连接
	Close() error
}

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}
