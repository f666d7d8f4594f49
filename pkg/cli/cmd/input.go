package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LENAX/step-scheduler/pkg/core/parser"
)

// detectFormat 按文件扩展名推断输入格式，无法推断时使用文本格式
func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parser.FormatYAML
	case ".html", ".htm":
		return parser.FormatHTML
	default:
		return parser.FormatText
	}
}

// readDocument 读取约束文档，path为空或"-"时读取标准输入
func readDocument(path, format string, stdin io.Reader) (*parser.Document, error) {
	var r io.Reader = stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("打开约束文件失败: %w", err)
		}
		defer f.Close()
		r = f
		if format == "" {
			format = detectFormat(path)
		}
	}

	doc, err := parser.Parse(format, r)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" && path != "" && path != "-" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
