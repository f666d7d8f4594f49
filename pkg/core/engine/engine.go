// Package engine 调度服务门面：解析 → 建图 → 调度 → 缓存 → 持久化 → 发布事件
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/LENAX/step-scheduler/pkg/config"
	"github.com/LENAX/step-scheduler/pkg/core/cache"
	"github.com/LENAX/step-scheduler/pkg/core/events"
	"github.com/LENAX/step-scheduler/pkg/core/graph"
	"github.com/LENAX/step-scheduler/pkg/core/parser"
	"github.com/LENAX/step-scheduler/pkg/core/scheduler"
	"github.com/LENAX/step-scheduler/pkg/storage"
)

// ErrStorageDisabled 未配置运行记录存储
var ErrStorageDisabled = errors.New("run storage is not enabled")

// Result 一次调度的结果（对外导出）
type Result struct {
	RunID       string             `json:"run_id"`
	Name        string             `json:"name"`
	Fingerprint string             `json:"fingerprint"`
	Strategy    scheduler.Strategy `json:"strategy"`
	Status      string             `json:"status"`
	Order       []string           `json:"order,omitempty"`
	Stuck       []string           `json:"stuck,omitempty"`
	Cycle       []string           `json:"cycle,omitempty"`
	StepCount   int                `json:"step_count"`
	EdgeCount   int                `json:"edge_count"`
	Cached      bool               `json:"cached"`
	Duration    time.Duration      `json:"duration"`
}

// outcome 缓存的调度结论，与运行记录无关
type outcome struct {
	order []string
	stuck []string
	cycle []string
}

// Engine 调度引擎（对外导出）
type Engine struct {
	cfg      *config.Config
	strategy scheduler.Strategy
	repo     storage.RunRepository
	cache    cache.ResultCache
	cacheTTL time.Duration
	bus      *events.Bus
}

// Strategy 当前使用的调度策略
func (e *Engine) Strategy() scheduler.Strategy {
	return e.strategy
}

// Config 获取引擎配置
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// HasStorage 是否启用了运行记录存储
func (e *Engine) HasStorage() bool {
	return e.repo != nil
}

// Schedule 调度一份约束文档
// 存在环时运行记录照常保存并发布 schedule.stuck 事件，
// 然后同时返回结果和 *scheduler.CycleError[string]
func (e *Engine) Schedule(ctx context.Context, doc *parser.Document) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: 约束文档为空", graph.ErrMalformedConstraint)
	}

	g, err := doc.BuildGraph()
	if err != nil {
		return nil, fmt.Errorf("构建依赖图失败: %w", err)
	}

	start := time.Now()
	fingerprint := Fingerprint(g)

	out, cached := e.lookup(fingerprint)
	if !cached {
		out = e.run(g)
		if e.cache != nil {
			if err := e.cache.Set(fingerprint, out, e.cacheTTL); err != nil {
				log.Printf("⚠️ [Engine] 写入结果缓存失败: fingerprint=%s, Error=%v", fingerprint, err)
			}
		}
	}

	result := &Result{
		RunID:       uuid.NewString(),
		Name:        doc.Name,
		Fingerprint: fingerprint,
		Strategy:    e.strategy,
		Status:      storage.RunStatusComplete,
		Order:       slices.Clone(out.order), // 缓存的结论可能被多次命中，不能与调用方共享
		Stuck:       slices.Clone(out.stuck),
		Cycle:       slices.Clone(out.cycle),
		StepCount:   g.Len(),
		EdgeCount:   g.EdgeCount(),
		Cached:      cached,
		Duration:    time.Since(start),
	}
	if out.stuck != nil {
		result.Status = storage.RunStatusStuck
	}

	if err := e.record(ctx, result, start); err != nil {
		return nil, err
	}
	e.publish(ctx, result)

	if result.Status == storage.RunStatusStuck {
		log.Printf("❌ [Engine] 调度卡住: RunID=%s, Stuck=%v, Cycle=%v", result.RunID, result.Stuck, result.Cycle)
		return result, &scheduler.CycleError[string]{Stuck: result.Stuck, Cycle: result.Cycle}
	}
	log.Printf("✅ [Engine] 调度完成: RunID=%s, Steps=%d, Cached=%v", result.RunID, result.StepCount, result.Cached)
	return result, nil
}

// GetRun 查询运行记录
func (e *Engine) GetRun(ctx context.Context, id string) (*storage.Run, error) {
	if e.repo == nil {
		return nil, ErrStorageDisabled
	}
	return e.repo.GetByID(ctx, id)
}

// ListRuns 列出最近的运行记录
func (e *Engine) ListRuns(ctx context.Context, limit int) ([]*storage.Run, error) {
	if e.repo == nil {
		return nil, ErrStorageDisabled
	}
	return e.repo.List(ctx, limit)
}

// Subscribe 订阅调度事件，ctx取消后通道关闭
func (e *Engine) Subscribe(ctx context.Context, types ...events.EventType) (<-chan *events.ScheduleEvent, error) {
	return e.bus.Subscribe(ctx, types...)
}

// Close 释放存储、缓存和事件总线
func (e *Engine) Close() error {
	var errs []error
	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := e.cache.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.bus != nil {
		if err := e.bus.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) lookup(fingerprint string) (*outcome, bool) {
	if e.cache == nil {
		return nil, false
	}
	value, ok := e.cache.Get(fingerprint)
	if !ok {
		return nil, false
	}
	out, ok := value.(*outcome)
	return out, ok
}

func (e *Engine) run(g *graph.Graph[string]) *outcome {
	order, err := scheduler.Schedule(g, scheduler.WithStrategy(e.strategy))
	if err == nil {
		return &outcome{order: order}
	}

	var cycleErr *scheduler.CycleError[string]
	if errors.As(err, &cycleErr) {
		return &outcome{stuck: cycleErr.Stuck, cycle: cycleErr.Cycle}
	}
	// Schedule 只会返回 CycleError，这里兜底为全部步骤卡住
	return &outcome{stuck: g.Nodes(), cycle: g.FindCycle()}
}

func (e *Engine) record(ctx context.Context, result *Result, start time.Time) error {
	if e.repo == nil {
		return nil
	}
	run := &storage.Run{
		ID:          result.RunID,
		Name:        result.Name,
		Fingerprint: result.Fingerprint,
		Strategy:    string(result.Strategy),
		Status:      result.Status,
		Order:       result.Order,
		Stuck:       result.Stuck,
		Cycle:       result.Cycle,
		StepCount:   result.StepCount,
		EdgeCount:   result.EdgeCount,
		Duration:    result.Duration,
		CreateTime:  start,
	}
	if err := e.repo.Save(ctx, run); err != nil {
		return fmt.Errorf("保存运行记录失败: %w", err)
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, result *Result) {
	if e.bus == nil {
		return
	}
	eventType := events.EventScheduleCompleted
	if result.Status == storage.RunStatusStuck {
		eventType = events.EventScheduleStuck
	}

	ev := events.NewScheduleEvent(eventType, result.RunID)
	ev.Name = result.Name
	ev.Fingerprint = result.Fingerprint
	ev.Order = result.Order
	ev.Stuck = result.Stuck
	ev.Cycle = result.Cycle
	ev.Cached = result.Cached

	if err := e.bus.Publish(ctx, ev); err != nil {
		log.Printf("⚠️ [Engine] 发布事件失败: RunID=%s, Type=%s, Error=%v", result.RunID, eventType, err)
	}
}

// Fingerprint 依赖图指纹：按序写入全部步骤和约束后取SHA-256
// 与约束的书写顺序和重复无关
func Fingerprint(g *graph.Graph[string]) string {
	h := sha256.New()
	writeToken(h, "nodes")
	for _, step := range g.Nodes() {
		writeToken(h, step)
	}
	writeToken(h, "edges")
	for _, c := range g.Edges() {
		writeToken(h, c.Prerequisite)
		writeToken(h, c.Dependent)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeToken 长度前缀写入，避免拼接歧义
func writeToken(h hash.Hash, token string) {
	fmt.Fprintf(h, "%d:%s;", len(token), token)
}
