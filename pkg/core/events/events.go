// Package events 提供调度生命周期事件，基于 watermill 的 gochannel 发布订阅
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType 事件类型
type EventType string

const (
	EventScheduleCompleted EventType = "schedule.completed" // 调度完成
	EventScheduleStuck     EventType = "schedule.stuck"     // 调度卡住（存在环）
)

// AllEventTypes 全部事件类型
var AllEventTypes = []EventType{EventScheduleCompleted, EventScheduleStuck}

// ScheduleEvent 调度事件
type ScheduleEvent struct {
	ID          string    `json:"id"`          // 事件ID（UUID）
	Type        EventType `json:"type"`        // 事件类型
	RunID       string    `json:"run_id"`      // 关联的运行记录ID
	Name        string    `json:"name"`        // 约束文档名称
	Fingerprint string    `json:"fingerprint"` // 依赖图指纹
	Order       []string  `json:"order,omitempty"`
	Stuck       []string  `json:"stuck,omitempty"`
	Cycle       []string  `json:"cycle,omitempty"`
	Cached      bool      `json:"cached"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewScheduleEvent 创建调度事件
func NewScheduleEvent(eventType EventType, runID string) *ScheduleEvent {
	return &ScheduleEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		RunID:     runID,
		Timestamp: time.Now(),
	}
}
