package engine

import (
	"errors"
	"fmt"
	"log"

	internalstorage "github.com/LENAX/step-scheduler/internal/storage"
	"github.com/LENAX/step-scheduler/pkg/config"
	"github.com/LENAX/step-scheduler/pkg/core/cache"
	"github.com/LENAX/step-scheduler/pkg/core/events"
	"github.com/LENAX/step-scheduler/pkg/core/scheduler"
	"github.com/LENAX/step-scheduler/pkg/storage"
)

// EngineBuilder 引擎构建器（链式调用）
// 未显式注入的组件按配置创建：数据库启用时创建运行记录Repository，缓存启用时创建内存缓存
type EngineBuilder struct {
	cfg   *config.Config
	repo  storage.RunRepository
	cache cache.ResultCache
	bus   *events.Bus
	err   error
}

// NewEngineBuilder 创建引擎构建器（入口），cfg为nil时使用默认配置
func NewEngineBuilder(cfg *config.Config) *EngineBuilder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &EngineBuilder{cfg: cfg}
}

// WithRepository 注入运行记录Repository（链式）
func (b *EngineBuilder) WithRepository(repo storage.RunRepository) *EngineBuilder {
	if b.err != nil {
		return b
	}
	if repo == nil {
		b.err = errors.New("repository cannot be nil")
		return b
	}
	b.repo = repo
	return b
}

// WithCache 注入结果缓存（链式）
func (b *EngineBuilder) WithCache(c cache.ResultCache) *EngineBuilder {
	if b.err != nil {
		return b
	}
	if c == nil {
		b.err = errors.New("cache cannot be nil")
		return b
	}
	b.cache = c
	return b
}

// WithEventBus 注入事件总线（链式）
func (b *EngineBuilder) WithEventBus(bus *events.Bus) *EngineBuilder {
	if b.err != nil {
		return b
	}
	if bus == nil {
		b.err = errors.New("event bus cannot be nil")
		return b
	}
	b.bus = bus
	return b
}

// Build 构建Engine
func (b *EngineBuilder) Build() (*Engine, error) {
	if b.err != nil {
		return nil, b.err
	}

	s := &b.cfg.StepScheduler
	strategy, err := scheduler.ParseStrategy(s.Scheduler.Strategy)
	if err != nil {
		return nil, err
	}

	repo := b.repo
	if repo == nil && s.Storage.Database.Enabled {
		db := s.Storage.Database
		repo, err = internalstorage.NewRunRepository(db.Type, db.DSN, storage.PoolConfig{
			MaxOpenConns:    db.MaxOpenConns,
			MaxIdleConns:    db.MaxIdleConns,
			ConnMaxLifetime: db.ConnMaxLifetime,
			ConnMaxIdleTime: db.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, fmt.Errorf("初始化运行记录存储失败: %w", err)
		}
		log.Printf("✅ [Engine] 运行记录存储已启用: type=%s", db.Type)
	}

	resultCache := b.cache
	if resultCache == nil && s.Storage.Cache.Enabled {
		resultCache = cache.NewMemoryResultCache(s.Storage.Cache.CleanInterval)
	}

	bus := b.bus
	if bus == nil {
		bus = events.NewBus(s.General.LogLevel == "debug")
	}

	return &Engine{
		cfg:      b.cfg,
		strategy: strategy,
		repo:     repo,
		cache:    resultCache,
		cacheTTL: b.cfg.GetCacheTTL(),
		bus:      bus,
	}, nil
}
