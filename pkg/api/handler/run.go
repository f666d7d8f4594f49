package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/step-scheduler/pkg/api/dto"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
)

// RunHandler 运行记录API处理器
type RunHandler struct {
	engine *engine.Engine
}

// NewRunHandler 创建RunHandler
func NewRunHandler(eng *engine.Engine) *RunHandler {
	return &RunHandler{engine: eng}
}

// List 列出最近的运行记录
// GET /api/v1/runs?limit=20
func (h *RunHandler) List(c *gin.Context) {
	var req dto.ListQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("查询参数错误: %v", err)))
		return
	}

	limit := req.GetDefaultLimit()
	// 多取一条用于判断是否还有更多
	runs, err := h.engine.ListRuns(c.Request.Context(), limit+1)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, dto.NewErrorResponse(status, fmt.Sprintf("查询运行记录失败: %v", err)))
		return
	}

	hasMore := len(runs) > limit
	if hasMore {
		runs = runs[:limit]
	}

	items := make([]dto.RunSummary, 0, len(runs))
	for _, run := range runs {
		items = append(items, dto.NewRunSummary(run))
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.RunSummary]{
		Total:   len(items),
		Items:   items,
		HasMore: hasMore,
	}))
}

// Get 获取运行记录详情
// GET /api/v1/runs/:id
func (h *RunHandler) Get(c *gin.Context) {
	run, err := h.engine.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, dto.NewErrorResponse(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewRunDetail(run)))
}
