// Package report 把记录渲染为表格文本或 JSON
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"resume-fields/internal/types"

	"github.com/olekukonko/tablewriter"
)

// Renderer 把记录列表写到 w
type Renderer interface {
	Render(w io.Writer, records []types.Record) error
}

// NewRenderer 按格式名创建渲染器
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "grid", "":
		return GridRenderer{}, nil
	case "json":
		return JSONRenderer{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// RenderString 渲染为字符串
func RenderString(r Renderer, records []types.Record) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, records); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GridRenderer 带边框的网格表格，每行之间有分隔线
type GridRenderer struct{}

// Render 实现 Renderer
func (GridRenderer) Render(w io.Writer, records []types.Record) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(types.Headers())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetRowLine(true)
	for _, r := range records {
		table.Append(r.Row())
	}
	table.Render()
	return nil
}

// JSONRenderer 输出 JSON 数组，字段名与表头一致
type JSONRenderer struct {
	Indent string
}

// Render 实现 Renderer
func (j JSONRenderer) Render(w io.Writer, records []types.Record) error {
	if records == nil {
		records = []types.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", j.Indent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}
