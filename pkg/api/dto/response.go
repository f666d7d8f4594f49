package dto

import (
	"time"

	"github.com/LENAX/step-scheduler/pkg/core/engine"
	"github.com/LENAX/step-scheduler/pkg/storage"
)

// APIResponse 通用API响应结构
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) APIResponse[any] {
	return APIResponse[any]{
		Code:    code,
		Message: message,
	}
}

// NewErrorResponseWithData 创建携带数据的错误响应（如调度卡住时返回卡住的步骤）
func NewErrorResponseWithData[T any](code int, message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// ScheduleResponse 调度结果
type ScheduleResponse struct {
	RunID       string   `json:"run_id"`
	Name        string   `json:"name,omitempty"`
	Fingerprint string   `json:"fingerprint"`
	Strategy    string   `json:"strategy"`
	Status      string   `json:"status"`
	Order       []string `json:"order"`
	Sequence    string   `json:"sequence"` // 顺序拼接，便于对照
	Stuck       []string `json:"stuck,omitempty"`
	Cycle       []string `json:"cycle,omitempty"`
	StepCount   int      `json:"step_count"`
	EdgeCount   int      `json:"edge_count"`
	Cached      bool     `json:"cached"`
	Duration    string   `json:"duration"`
}

// NewScheduleResponse 由引擎结果构建响应
func NewScheduleResponse(r *engine.Result) ScheduleResponse {
	order := r.Order
	if order == nil {
		order = []string{}
	}
	sequence := ""
	for _, step := range order {
		sequence += step
	}
	return ScheduleResponse{
		RunID:       r.RunID,
		Name:        r.Name,
		Fingerprint: r.Fingerprint,
		Strategy:    string(r.Strategy),
		Status:      r.Status,
		Order:       order,
		Sequence:    sequence,
		Stuck:       r.Stuck,
		Cycle:       r.Cycle,
		StepCount:   r.StepCount,
		EdgeCount:   r.EdgeCount,
		Cached:      r.Cached,
		Duration:    r.Duration.String(),
	}
}

// ValidateResponse 依赖图校验结果
type ValidateResponse struct {
	Valid     bool     `json:"valid"`
	Steps     []string `json:"steps"`
	EdgeCount int      `json:"edge_count"`
	Roots     []string `json:"roots"`
	Cycle     []string `json:"cycle,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// RunSummary 运行记录摘要
type RunSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	Strategy    string    `json:"strategy"`
	Status      string    `json:"status"`
	StepCount   int       `json:"step_count"`
	EdgeCount   int       `json:"edge_count"`
	Duration    string    `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
}

// RunDetail 运行记录详情
type RunDetail struct {
	RunSummary
	Order []string `json:"order"`
	Stuck []string `json:"stuck,omitempty"`
	Cycle []string `json:"cycle,omitempty"`
}

// NewRunSummary 由运行记录构建摘要
func NewRunSummary(run *storage.Run) RunSummary {
	return RunSummary{
		ID:          run.ID,
		Name:        run.Name,
		Fingerprint: run.Fingerprint,
		Strategy:    run.Strategy,
		Status:      run.Status,
		StepCount:   run.StepCount,
		EdgeCount:   run.EdgeCount,
		Duration:    run.Duration.String(),
		CreatedAt:   run.CreateTime,
	}
}

// NewRunDetail 由运行记录构建详情
func NewRunDetail(run *storage.Run) RunDetail {
	order := run.Order
	if order == nil {
		order = []string{}
	}
	return RunDetail{
		RunSummary: NewRunSummary(run),
		Order:      order,
		Stuck:      run.Stuck,
		Cycle:      run.Cycle,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// ListResponse 列表响应
type ListResponse[T any] struct {
	Total   int  `json:"total"`
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}
