package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/LENAX/step-scheduler/pkg/core/graph"
)

// ParseHTML 从HTML页面中提取 <pre> 块（没有时退回 <code> 块）的文本再按行解析
func ParseHTML(r io.Reader) ([]graph.Constraint[string], error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	blocks := doc.Find("pre")
	if blocks.Length() == 0 {
		blocks = doc.Find("code")
	}

	var sb strings.Builder
	blocks.Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteString("\n")
	})

	return ParseText(strings.NewReader(sb.String()))
}
