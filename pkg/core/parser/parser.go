// Package parser 将外部输入（文本/YAML/HTML）转换为步骤约束
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/LENAX/step-scheduler/pkg/core/graph"
)

// 输入格式
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// ErrMalformedConstraint 与 graph.ErrMalformedConstraint 是同一个哨兵错误
var ErrMalformedConstraint = graph.ErrMalformedConstraint

// MalformedConstraintError 无法识别的约束行
type MalformedConstraintError struct {
	Line int
	Text string
}

func (e *MalformedConstraintError) Error() string {
	return fmt.Sprintf("%s: 第%d行无法解析: %q", ErrMalformedConstraint.Error(), e.Line, e.Text)
}

func (e *MalformedConstraintError) Unwrap() error { return ErrMalformedConstraint }

// constraintLine 匹配 "Step C must be finished before step A can begin."
// 标识可以是任意不含空白的token，不限于单个大写字母
var constraintLine = regexp.MustCompile(`^Step (\S+) must be finished before step (\S+) can begin\.?$`)

// Document 解析结果
type Document struct {
	Name        string                     `json:"name" yaml:"name"`
	Steps       []string                   `json:"steps,omitempty" yaml:"steps"`
	Constraints []graph.Constraint[string] `json:"constraints" yaml:"constraints"`
}

// BuildGraph 从文档构建依赖图
func (d *Document) BuildGraph() (*graph.Graph[string], error) {
	return graph.BuildWithOptions(d.Constraints, graph.BuildOptions[string]{Steps: d.Steps})
}

// Parse 按格式解析输入
func Parse(format string, r io.Reader) (*Document, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		constraints, err := ParseText(r)
		if err != nil {
			return nil, err
		}
		return &Document{Constraints: constraints}, nil
	case FormatYAML, "yml":
		return ParseYAML(r)
	case FormatHTML, "htm":
		constraints, err := ParseHTML(r)
		if err != nil {
			return nil, err
		}
		return &Document{Constraints: constraints}, nil
	default:
		return nil, fmt.Errorf("不支持的输入格式: %s", format)
	}
}

// ParseText 逐行解析约束文本，空行和 # 开头的注释行会被跳过
func ParseText(r io.Reader) ([]graph.Constraint[string], error) {
	constraints := make([]graph.Constraint[string], 0)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := parseLine(line)
		if err != nil {
			var malformed *MalformedConstraintError
			if errors.As(err, &malformed) {
				malformed.Line = lineNo
			}
			return nil, err
		}
		constraints = append(constraints, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取输入失败: %w", err)
	}
	return constraints, nil
}

func parseLine(line string) (graph.Constraint[string], error) {
	m := constraintLine.FindStringSubmatch(line)
	if m == nil {
		return graph.Constraint[string]{}, &MalformedConstraintError{Text: line}
	}
	return graph.NewConstraint(m[1], m[2]), nil
}
