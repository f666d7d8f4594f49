package storage

import (
	"fmt"

	"github.com/LENAX/step-scheduler/pkg/storage"
	"github.com/LENAX/step-scheduler/pkg/storage/mysql"
	"github.com/LENAX/step-scheduler/pkg/storage/postgres"
	pkgsqlite "github.com/LENAX/step-scheduler/pkg/storage/sqlite"
)

// NewRunRepository 按数据库类型创建运行记录Repository（内部方法）
// dbType: 数据库类型（sqlite/mysql/postgres）
// dsn: 数据库连接字符串
func NewRunRepository(dbType, dsn string, pool storage.PoolConfig) (storage.RunRepository, error) {
	switch dbType {
	case "sqlite", "sqlite3":
		repo, err := pkgsqlite.NewRunRepoFromDSN(dsn, pool)
		if err != nil {
			return nil, fmt.Errorf("create sqlite repository failed: %w", err)
		}
		return repo, nil
	case "mysql":
		repo, err := mysql.NewRunRepoFromDSN(dsn, pool)
		if err != nil {
			return nil, fmt.Errorf("create mysql repository failed: %w", err)
		}
		return repo, nil
	case "postgres", "postgresql":
		repo, err := postgres.NewRunRepoFromDSN(dsn, pool)
		if err != nil {
			return nil, fmt.Errorf("create postgres repository failed: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}
