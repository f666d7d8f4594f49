package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/step-scheduler/pkg/api/dto"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
	"github.com/LENAX/step-scheduler/pkg/core/graph"
)

// ScheduleHandler 调度API处理器
type ScheduleHandler struct {
	engine *engine.Engine
}

// NewScheduleHandler 创建ScheduleHandler
func NewScheduleHandler(eng *engine.Engine) *ScheduleHandler {
	return &ScheduleHandler{engine: eng}
}

// Schedule 调度一组约束
// POST /api/v1/schedules
func (h *ScheduleHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求格式错误: %v", err)))
		return
	}

	doc, err := req.ToDocument()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, err.Error()))
		return
	}

	result, err := h.engine.Schedule(c.Request.Context(), doc)
	if err != nil {
		if errors.Is(err, graph.ErrCycleDetected) && result != nil {
			c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithData(422, err.Error(), dto.NewScheduleResponse(result)))
			return
		}
		status := statusFor(err)
		c.JSON(status, dto.NewErrorResponse(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewScheduleResponse(result)))
}

// Validate 校验约束能否构成有向无环图，不记录运行
// POST /api/v1/validate
func (h *ScheduleHandler) Validate(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求格式错误: %v", err)))
		return
	}

	doc, err := req.ToDocument()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, err.Error()))
		return
	}

	g, err := doc.BuildGraph()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, err.Error()))
		return
	}

	resp := dto.ValidateResponse{
		Valid:     true,
		Steps:     g.Nodes(),
		EdgeCount: g.EdgeCount(),
		Roots:     make([]string, 0),
	}
	for _, step := range resp.Steps {
		if g.InDegree(step) == 0 {
			resp.Roots = append(resp.Roots, step)
		}
	}
	if err := g.Verify(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
		resp.Cycle = g.FindCycle()
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
