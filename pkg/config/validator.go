package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate 校验配置合法性
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("配置不能为空")
	}
	s := &cfg.StepScheduler

	// 校验General
	if s.General.InstanceName == "" {
		return fmt.Errorf("instance_name不能为空")
	}
	if s.General.LogLevel != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[s.General.LogLevel] {
			return fmt.Errorf("log_level必须是debug/info/warn/error之一")
		}
	}

	switch s.Scheduler.Strategy {
	case "sorted", "scan":
	default:
		return fmt.Errorf("scheduler.strategy必须是sorted/scan之一")
	}

	// 校验Storage.Database
	validDBTypes := map[string]bool{
		"sqlite":     true,
		"postgres":   true,
		"postgresql": true,
		"mysql":      true,
	}
	if !validDBTypes[s.Storage.Database.Type] {
		return fmt.Errorf("database.type必须是sqlite/postgres/mysql之一")
	}
	if s.Storage.Database.Enabled && s.Storage.Database.DSN == "" {
		return fmt.Errorf("database.dsn不能为空")
	}
	if s.Storage.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns必须大于0")
	}
	if s.Storage.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns不能为负数")
	}

	// 校验Server
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port必须在1-65535之间")
	}

	// 校验Jobs
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	names := make(map[string]bool, len(s.Jobs))
	for i, job := range s.Jobs {
		if job.Name == "" {
			return fmt.Errorf("jobs[%d].name不能为空", i)
		}
		if names[job.Name] {
			return fmt.Errorf("jobs[%d].name重复: %s", i, job.Name)
		}
		names[job.Name] = true
		if job.File == "" {
			return fmt.Errorf("jobs[%d].file不能为空", i)
		}
		if _, err := parser.Parse(job.Cron); err != nil {
			return fmt.Errorf("jobs[%d].cron无效: %w", i, err)
		}
	}

	return nil
}
