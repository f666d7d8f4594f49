package mysql

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/LENAX/step-scheduler/pkg/storage"
)

// NewRunRepo 基于已有连接创建MySQL运行记录Repository（对外导出）
func NewRunRepo(db *sqlx.DB) (*storage.SQLRunRepo, error) {
	return storage.NewSQLRunRepo(db, NewMySQLDialect())
}

// NewRunRepoFromDSN 通过DSN创建MySQL运行记录Repository（对外导出）
// dsn格式: user:password@tcp(host:port)/dbname
func NewRunRepoFromDSN(dsn string, pool storage.PoolConfig) (*storage.SQLRunRepo, error) {
	normalized, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("mysql", normalized)
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

// NormalizeDSN 确保DSN开启parseTime并使用UTC
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("解析MySQL DSN失败: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
