package api

import (
	"github.com/gin-gonic/gin"

	"github.com/LENAX/step-scheduler/pkg/api/handler"
	"github.com/LENAX/step-scheduler/pkg/api/middleware"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
)

// SetupRouter 设置路由
// 日志级别为debug时启用gin调试模式和请求日志
func SetupRouter(eng *engine.Engine, version string) *gin.Engine {
	debug := eng.Config().StepScheduler.General.LogLevel == "debug"
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 全局中间件
	router.Use(middleware.Recovery())
	if debug {
		router.Use(middleware.Logger())
	}
	router.Use(middleware.CORS())

	// 创建handlers
	healthHandler := handler.NewHealthHandler(eng, version)
	scheduleHandler := handler.NewScheduleHandler(eng)
	runHandler := handler.NewRunHandler(eng)
	eventHandler := handler.NewEventHandler(eng)

	// 健康检查路由（不带前缀）
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		v1.POST("/schedules", scheduleHandler.Schedule)
		v1.POST("/validate", scheduleHandler.Validate)

		runs := v1.Group("/runs")
		{
			runs.GET("", runHandler.List)
			runs.GET("/:id", runHandler.Get)
		}

		v1.GET("/events", eventHandler.Stream)
	}

	return router
}
