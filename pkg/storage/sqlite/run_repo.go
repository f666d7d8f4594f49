package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/LENAX/step-scheduler/pkg/storage"
)

// NewRunRepo 基于已有连接创建SQLite运行记录Repository（对外导出）
func NewRunRepo(db *sqlx.DB) (*storage.SQLRunRepo, error) {
	return storage.NewSQLRunRepo(db, NewSQLiteDialect())
}

// NewRunRepoFromDSN 通过DSN创建SQLite运行记录Repository（对外导出）
func NewRunRepoFromDSN(dsn string, pool storage.PoolConfig) (*storage.SQLRunRepo, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	storage.ApplyPool(db, pool)

	repo, err := NewRunRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}
