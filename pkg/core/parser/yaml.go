package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML 解析YAML格式的约束文档
//
//	name: build
//	steps: [lint]
//	constraints:
//	  - {before: fetch, after: compile}
func ParseYAML(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取输入失败: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: YAML解析失败: %v", ErrMalformedConstraint, err)
	}

	for i, c := range doc.Constraints {
		if c.Prerequisite == "" || c.Dependent == "" {
			return nil, fmt.Errorf("%w: 第%d条约束缺少before/after", ErrMalformedConstraint, i+1)
		}
	}
	return &doc, nil
}
