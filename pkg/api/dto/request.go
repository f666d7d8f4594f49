package dto

import (
	"fmt"
	"strings"

	"github.com/LENAX/step-scheduler/pkg/core/graph"
	"github.com/LENAX/step-scheduler/pkg/core/parser"
)

// ConstraintItem 一条约束：before 完成后 after 才能开始
type ConstraintItem struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// ScheduleRequest 调度请求
// 二选一：结构化的 steps/constraints，或 format + input 原始文本
type ScheduleRequest struct {
	Name        string           `json:"name"`
	Steps       []string         `json:"steps"`
	Constraints []ConstraintItem `json:"constraints"`
	Format      string           `json:"format" binding:"omitempty,oneof=text txt yaml yml html htm"`
	Input       string           `json:"input"`
}

// ToDocument 转换为约束文档
func (r *ScheduleRequest) ToDocument() (*parser.Document, error) {
	if r.Input != "" {
		if len(r.Constraints) > 0 || len(r.Steps) > 0 {
			return nil, fmt.Errorf("%w: input 与 constraints/steps 不能同时提供", graph.ErrMalformedConstraint)
		}
		doc, err := parser.Parse(r.Format, strings.NewReader(r.Input))
		if err != nil {
			return nil, err
		}
		if r.Name != "" {
			doc.Name = r.Name
		}
		return doc, nil
	}

	doc := &parser.Document{
		Name:        r.Name,
		Steps:       r.Steps,
		Constraints: make([]graph.Constraint[string], 0, len(r.Constraints)),
	}
	for i, c := range r.Constraints {
		if c.Before == "" || c.After == "" {
			return nil, fmt.Errorf("%w: 第%d条约束缺少before或after", graph.ErrMalformedConstraint, i+1)
		}
		doc.Constraints = append(doc.Constraints, graph.NewConstraint(c.Before, c.After))
	}
	return doc, nil
}

// ListQueryRequest 通用列表查询请求
type ListQueryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetDefaultLimit 获取默认limit
func (r *ListQueryRequest) GetDefaultLimit() int {
	if r.Limit <= 0 {
		return 20
	}
	return r.Limit
}
