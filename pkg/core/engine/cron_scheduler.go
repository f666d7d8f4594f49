package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/LENAX/step-scheduler/pkg/config"
	"github.com/LENAX/step-scheduler/pkg/core/parser"
)

// CronScheduler 定时调度器（对外导出）
// 每次触发都会重新读取约束文件，文件变更在下一次触发时生效
type CronScheduler struct {
	cron    *cron.Cron
	engine  *Engine
	jobs    map[string]config.JobConfig // jobName -> Job配置
	entries map[string]cron.EntryID     // jobName -> cron.EntryID
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewCronScheduler 创建定时调度器（对外导出）
func NewCronScheduler(eng *Engine) *CronScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &CronScheduler{
		cron:    cron.New(cron.WithSeconds()), // 支持秒级精度
		engine:  eng,
		jobs:    make(map[string]config.JobConfig),
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// RegisterConfiguredJobs 注册配置文件中的全部Job
func (cs *CronScheduler) RegisterConfiguredJobs() error {
	for _, job := range cs.engine.Config().StepScheduler.Jobs {
		if err := cs.RegisterJob(job); err != nil {
			return err
		}
	}
	return nil
}

// RegisterJob 注册Job到定时调度器（对外导出）
func (cs *CronScheduler) RegisterJob(job config.JobConfig) error {
	if job.Name == "" {
		return fmt.Errorf("Job名称不能为空")
	}
	if job.File == "" {
		return fmt.Errorf("Job %s 未设置约束文件", job.Name)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, exists := cs.jobs[job.Name]; exists {
		return fmt.Errorf("Job %s 已注册到定时调度器", job.Name)
	}

	// 验证Cron表达式（使用Parser支持秒级精度）
	p := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := p.Parse(job.Cron); err != nil {
		return fmt.Errorf("Job %s 的Cron表达式无效: %w", job.Name, err)
	}

	entryID, err := cs.cron.AddFunc(job.Cron, func() {
		cs.trigger(job.Name)
	})
	if err != nil {
		return fmt.Errorf("添加Cron任务失败: %w", err)
	}

	cs.jobs[job.Name] = job
	cs.entries[job.Name] = entryID

	log.Printf("✅ [Cron调度器] 已注册Job: Name=%s, File=%s, CronExpr=%s", job.Name, job.File, job.Cron)
	return nil
}

// UnregisterJob 取消注册Job（对外导出）
func (cs *CronScheduler) UnregisterJob(name string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	entryID, exists := cs.entries[name]
	if !exists {
		return fmt.Errorf("Job %s 未注册到定时调度器", name)
	}

	cs.cron.Remove(entryID)
	delete(cs.jobs, name)
	delete(cs.entries, name)

	log.Printf("✅ [Cron调度器] 已取消注册Job: Name=%s", name)
	return nil
}

// RunJob 立即执行一次Job，不影响其Cron计划
func (cs *CronScheduler) RunJob(ctx context.Context, name string) (*Result, error) {
	cs.mu.RLock()
	job, exists := cs.jobs[name]
	cs.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("Job %s 未注册到定时调度器", name)
	}

	f, err := os.Open(job.File)
	if err != nil {
		return nil, fmt.Errorf("打开约束文件失败: %w", err)
	}
	defer f.Close()

	doc, err := parser.Parse(job.Format, f)
	if err != nil {
		return nil, fmt.Errorf("解析约束文件失败: Job=%s, %w", name, err)
	}
	if doc.Name == "" {
		doc.Name = job.Name
	}
	return cs.engine.Schedule(ctx, doc)
}

// trigger Cron回调（内部方法）
func (cs *CronScheduler) trigger(name string) {
	log.Printf("🕐 [Cron调度器] 触发Job: Name=%s", name)

	result, err := cs.RunJob(cs.ctx, name)
	if err != nil {
		log.Printf("❌ [Cron调度器] Job执行失败: Name=%s, Error=%v", name, err)
		return
	}
	log.Printf("✅ [Cron调度器] Job执行完成: Name=%s, RunID=%s, Order=%v", name, result.RunID, result.Order)
}

// Start 启动定时调度器（对外导出）
func (cs *CronScheduler) Start() {
	cs.cron.Start()
	log.Println("✅ [Cron调度器] 已启动")
}

// Stop 停止定时调度器，等待正在执行的Job结束（对外导出）
func (cs *CronScheduler) Stop() {
	<-cs.cron.Stop().Done()
	cs.cancel()
	log.Println("✅ [Cron调度器] 已停止")
}

// GetRegisteredJobs 获取已注册的Job名称（升序）
func (cs *CronScheduler) GetRegisteredJobs() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	names := make([]string, 0, len(cs.jobs))
	for name := range cs.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
