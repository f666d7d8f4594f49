package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LENAX/step-scheduler/pkg/storage/dao"
)

const runTable = "schedule_run"

var runColumns = []string{
	"id", "name", "fingerprint", "strategy", "status",
	"step_order", "stuck_steps", "cycle_path",
	"step_count", "edge_count", "duration_ns", "create_time",
}

// runSchema 通用DDL，由方言转换
const runSchema = `
CREATE TABLE IF NOT EXISTS schedule_run (
	id VARCHAR(64) PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT '',
	fingerprint VARCHAR(64) NOT NULL,
	strategy VARCHAR(16) NOT NULL,
	status VARCHAR(16) NOT NULL,
	step_order TEXT,
	stuck_steps TEXT,
	cycle_path TEXT,
	step_count INTEGER NOT NULL DEFAULT 0,
	edge_count INTEGER NOT NULL DEFAULT 0,
	duration_ns BIGINT NOT NULL DEFAULT 0,
	create_time DATETIME NOT NULL
)`

// SQLRunRepo 基于sqlx的运行记录Repository，SQL差异由Dialect处理（对外导出）
type SQLRunRepo struct {
	db      *sqlx.DB
	dialect Dialect
}

// NewSQLRunRepo 创建Repository并初始化表结构
func NewSQLRunRepo(db *sqlx.DB, dialect Dialect) (*SQLRunRepo, error) {
	repo := &SQLRunRepo{db: db, dialect: dialect}
	for _, stmt := range dialect.ConfigureDB() {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("配置%s失败: %w", dialect.Name(), err)
		}
	}
	if _, err := db.Exec(dialect.CreateTableSQL(runSchema)); err != nil {
		return nil, fmt.Errorf("初始化表结构失败: %w", err)
	}
	return repo, nil
}

// ApplyPool 应用连接池配置
func ApplyPool(db *sqlx.DB, pool PoolConfig) {
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}
}

// GetDB 获取底层数据库连接
func (r *SQLRunRepo) GetDB() *sqlx.DB {
	return r.db
}

// Save 保存运行记录
func (r *SQLRunRepo) Save(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("运行记录ID不能为空")
	}

	d, err := toDAO(run)
	if err != nil {
		return err
	}

	query := r.dialect.UpsertSQL(runTable, runColumns, "id", runColumns[1:])
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("保存运行记录失败: RunID=%s, Error=%w", run.ID, err)
	}
	return nil
}

// GetByID 根据ID查询运行记录
func (r *SQLRunRepo) GetByID(ctx context.Context, id string) (*Run, error) {
	var d dao.RunDAO
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", columnList(), runTable))
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("查询运行记录失败: RunID=%s, Error=%w", id, err)
	}
	return fromDAO(&d)
}

// List 列出最近的运行记录
func (r *SQLRunRepo) List(ctx context.Context, limit int) ([]*Run, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY create_time DESC, id DESC", columnList(), runTable)
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []dao.RunDAO
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("查询运行记录列表失败: %w", err)
	}

	runs := make([]*Run, 0, len(rows))
	for i := range rows {
		run, err := fromDAO(&rows[i])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Close 关闭数据库连接
func (r *SQLRunRepo) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func columnList() string {
	list := ""
	for i, c := range runColumns {
		if i > 0 {
			list += ", "
		}
		list += c
	}
	return list
}

func toDAO(run *Run) (*dao.RunDAO, error) {
	order, err := marshalSteps(run.Order)
	if err != nil {
		return nil, err
	}
	stuck, err := marshalSteps(run.Stuck)
	if err != nil {
		return nil, err
	}
	cycle, err := marshalSteps(run.Cycle)
	if err != nil {
		return nil, err
	}

	createTime := run.CreateTime
	if createTime.IsZero() {
		createTime = time.Now()
	}

	return &dao.RunDAO{
		ID:          run.ID,
		Name:        run.Name,
		Fingerprint: run.Fingerprint,
		Strategy:    run.Strategy,
		Status:      run.Status,
		StepOrder:   order,
		StuckSteps:  stuck,
		CyclePath:   cycle,
		StepCount:   run.StepCount,
		EdgeCount:   run.EdgeCount,
		DurationNs:  int64(run.Duration),
		CreateTime:  createTime.UTC(),
	}, nil
}

func fromDAO(d *dao.RunDAO) (*Run, error) {
	run := &Run{
		ID:          d.ID,
		Name:        d.Name,
		Fingerprint: d.Fingerprint,
		Strategy:    d.Strategy,
		Status:      d.Status,
		StepCount:   d.StepCount,
		EdgeCount:   d.EdgeCount,
		Duration:    time.Duration(d.DurationNs),
		CreateTime:  d.CreateTime,
	}
	var err error
	if run.Order, err = unmarshalSteps(d.StepOrder); err != nil {
		return nil, err
	}
	if run.Stuck, err = unmarshalSteps(d.StuckSteps); err != nil {
		return nil, err
	}
	if run.Cycle, err = unmarshalSteps(d.CyclePath); err != nil {
		return nil, err
	}
	return run, nil
}

func marshalSteps(steps []string) (string, error) {
	if len(steps) == 0 {
		return "", nil
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("序列化步骤列表失败: %w", err)
	}
	return string(data), nil
}

func unmarshalSteps(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	var steps []string
	if err := json.Unmarshal([]byte(data), &steps); err != nil {
		return nil, fmt.Errorf("反序列化步骤列表失败: %w", err)
	}
	return steps, nil
}
