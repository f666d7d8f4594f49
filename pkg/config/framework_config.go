package config

import (
	"time"
)

// Config 调度服务配置（对外导出）
type Config struct {
	StepScheduler struct {
		General struct {
			InstanceName string `yaml:"instance_name"`
			LogLevel     string `yaml:"log_level"`
			Env          string `yaml:"env"`
		} `yaml:"general"`
		Scheduler struct {
			Strategy string `yaml:"strategy"` // sorted / scan
		} `yaml:"scheduler"`
		Storage struct {
			Database struct {
				Enabled         bool          `yaml:"enabled"`
				Type            string        `yaml:"type"`
				DSN             string        `yaml:"dsn"`
				MaxOpenConns    int           `yaml:"max_open_conns"`
				MaxIdleConns    int           `yaml:"max_idle_conns"`
				ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
				ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
			} `yaml:"database"`
			Cache struct {
				Enabled       bool          `yaml:"enabled"`
				DefaultTTL    time.Duration `yaml:"default_ttl"`
				CleanInterval time.Duration `yaml:"clean_interval"`
			} `yaml:"cache"`
		} `yaml:"storage"`
		Server struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"server"`
		Jobs []JobConfig `yaml:"jobs"`
	} `yaml:"step-scheduler"`
}

// JobConfig 定时调度任务：按Cron表达式周期性地重新调度一个约束文件
type JobConfig struct {
	Name   string `yaml:"name"`
	Cron   string `yaml:"cron"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

// GetDatabaseType 获取数据库类型
func (c *Config) GetDatabaseType() string {
	return c.StepScheduler.Storage.Database.Type
}

// GetDatabaseDSN 获取数据库DSN
func (c *Config) GetDatabaseDSN() string {
	return c.StepScheduler.Storage.Database.DSN
}

// GetStrategy 获取调度策略
func (c *Config) GetStrategy() string {
	return c.StepScheduler.Scheduler.Strategy
}

// GetCacheTTL 获取结果缓存有效期
func (c *Config) GetCacheTTL() time.Duration {
	ttl := c.StepScheduler.Storage.Cache.DefaultTTL
	if ttl <= 0 {
		return 1 * time.Hour // 默认值
	}
	return ttl
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() {
	s := &c.StepScheduler

	// General默认值
	if s.General.InstanceName == "" {
		s.General.InstanceName = "step-scheduler"
	}
	if s.General.LogLevel == "" {
		s.General.LogLevel = "info"
	}
	if s.General.Env == "" {
		s.General.Env = "dev"
	}

	if s.Scheduler.Strategy == "" {
		s.Scheduler.Strategy = "sorted"
	}

	// Database默认值
	if s.Storage.Database.Type == "" {
		s.Storage.Database.Type = "sqlite"
	}
	if s.Storage.Database.DSN == "" {
		s.Storage.Database.DSN = "./step-scheduler.db"
	}
	if s.Storage.Database.MaxOpenConns <= 0 {
		s.Storage.Database.MaxOpenConns = 10
	}
	if s.Storage.Database.MaxIdleConns <= 0 {
		s.Storage.Database.MaxIdleConns = 5
	}
	if s.Storage.Database.ConnMaxLifetime <= 0 {
		s.Storage.Database.ConnMaxLifetime = 2 * time.Hour
	}
	if s.Storage.Database.ConnMaxIdleTime <= 0 {
		s.Storage.Database.ConnMaxIdleTime = 1 * time.Hour
	}

	// Cache默认值
	if s.Storage.Cache.DefaultTTL <= 0 {
		s.Storage.Cache.DefaultTTL = 1 * time.Hour
	}
	if s.Storage.Cache.CleanInterval <= 0 {
		s.Storage.Cache.CleanInterval = 30 * time.Minute
	}

	// Server默认值
	if s.Server.Host == "" {
		s.Server.Host = "0.0.0.0"
	}
	if s.Server.Port <= 0 {
		s.Server.Port = 8080
	}
	if s.Server.ReadTimeout <= 0 {
		s.Server.ReadTimeout = 30 * time.Second
	}
	if s.Server.WriteTimeout <= 0 {
		s.Server.WriteTimeout = 30 * time.Second
	}

	for i := range s.Jobs {
		if s.Jobs[i].Format == "" {
			s.Jobs[i].Format = "text"
		}
	}
}

// Default 返回应用了默认值的配置
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}
