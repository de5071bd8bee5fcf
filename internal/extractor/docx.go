package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

const docxBodyPart = "word/document.xml"

// DocxExtractor 从 word/document.xml 中按段落顺序提取文本
type DocxExtractor struct{}

// NewDocxExtractor 创建DOCX提取器
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// Extract 段落之间用换行连接，空段落保留为空行，不做首尾裁剪
func (d *DocxExtractor) Extract(_ context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", NewReadError(path, "cannot open file", err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", NewReadError(path, "cannot open file", err)
		}
		return "", NewParseError(path, "not a valid docx archive", err)
	}
	defer r.Close()

	var body *zip.File
	for _, f := range r.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", NewParseError(path, docxBodyPart+" not found in archive", nil)
	}

	rc, err := body.Open()
	if err != nil {
		return "", NewParseError(path, "open "+docxBodyPart, err)
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", NewParseError(path, "decode "+docxBodyPart, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs 逐个 token 扫描 WordprocessingML
// 只收集正文段落中 run 内 <w:t> 的文字；表格单元格和文本框（嵌套在段落里的 <w:p>）不属于正文段落
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		paraDepth  int
		tableDepth int
		inRun      bool
		inText     bool
	)
	// 只有最外层正文段落里的内容才计入
	inBody := func() bool { return paraDepth == 1 && tableDepth == 0 }

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml token: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "p":
				if tableDepth == 0 {
					paraDepth++
					if paraDepth == 1 {
						current.Reset()
					}
				}
			case "r":
				inRun = inBody()
			case "t":
				inText = inRun && inBody()
			case "tab":
				// <w:tabs> 下的制表位定义不在 run 内
				if inRun && inBody() {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inRun && inBody() {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText && inBody() {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				if tableDepth == 0 && paraDepth > 0 {
					if paraDepth == 1 {
						paragraphs = append(paragraphs, current.String())
					}
					paraDepth--
				}
			}
		}
	}
	return paragraphs, nil
}
