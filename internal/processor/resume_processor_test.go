package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"resume-fields/internal/extractor"
	"resume-fields/internal/tracing"
	"resume-fields/internal/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExtractor 按路径返回预设文本，用于不依赖真实文件的测试
type mockExtractor struct {
	texts map[string]string
	delay time.Duration
	calls atomic.Int32
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	text, ok := m.texts[path]
	if !ok {
		return "", extractor.NewReadError(path, "cannot open file", os.ErrNotExist)
	}
	return text, nil
}

// panicOnPath 对指定路径 panic，模拟第三方解析库的越界访问
type panicOnPath struct {
	inner extractor.TextExtractor
	path  string
}

func (p panicOnPath) Extract(ctx context.Context, path string) (string, error) {
	if path == p.path {
		var offsets []int
		return fmt.Sprint(offsets[len(offsets)-1]), nil
	}
	return p.inner.Extract(ctx, path)
}

// stubFetcher 记录 Fetch 和 cleanup 的调用
type stubFetcher struct {
	localPath string
	err       error
	fetched   []string
	cleaned   int
}

func (s *stubFetcher) Fetch(_ context.Context, path string) (string, func(), error) {
	s.fetched = append(s.fetched, path)
	if s.err != nil {
		return "", nil, s.err
	}
	return s.localPath, func() { s.cleaned++ }, nil
}

func newLocalProcessor(workers int) *ResumeProcessor {
	return NewResumeProcessor(
		Components{
			Extractor: extractor.NewDispatcher(extractor.NewPlainTextExtractor(), nil, extractor.NewDocxExtractor()),
		},
		Settings{Workers: workers, Logger: zerolog.Nop()},
	)
}

func writeResume(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := writeResume(t, dir, "john.txt", "John Smith\njohn@x.com\nSkills: Python, Java")

	record, err := newLocalProcessor(1).ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, types.Record{
		File:   path,
		Name:   "John Smith",
		Emails: "john@x.com",
		Phones: types.NotFound,
		Skills: "Python, Java",
	}, record)
}

func TestProcessFile_Errors(t *testing.T) {
	ctx := context.Background()
	p := newLocalProcessor(1)

	record, err := p.ProcessFile(ctx, "resume.rtf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, extractor.ErrUnsupportedFormat))
	assert.True(t, record.IsError())
	assert.Equal(t, "Error: unsupported file format: please use .txt, .pdf, or .docx", record.Skills)

	missing := filepath.Join(t.TempDir(), "missing.txt")
	record, err = p.ProcessFile(ctx, missing)
	require.Error(t, err)
	assert.Equal(t, missing, record.File)
	assert.True(t, strings.HasPrefix(record.Skills, "Error: failed to read file"), record.Skills)
}

func TestProcess_OneRecordPerPathInOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeResume(t, dir, "a.txt", "Alice\nalice@example.com\n555-123-4567\nExcel")
	missing := filepath.Join(dir, "b.txt")
	c := writeResume(t, dir, "c.txt", "\n\n\n\n\n\nlinux")

	records := newLocalProcessor(1).Process(context.Background(), []string{a, missing, c})
	require.Len(t, records, 3)

	assert.Equal(t, a, records[0].File)
	assert.Equal(t, "Alice", records[0].Name)
	assert.Equal(t, "alice@example.com", records[0].Emails)
	assert.Contains(t, records[0].Phones, "555-123-4567")
	assert.Equal(t, "Excel", records[0].Skills)

	assert.Equal(t, missing, records[1].File)
	assert.True(t, records[1].IsError(), "缺失的文件应产生错误记录，不中断整批")

	assert.Equal(t, c, records[2].File)
	assert.Equal(t, types.NameNotFound, records[2].Name)
	assert.Equal(t, types.NotFound, records[2].Emails)
	assert.Equal(t, "Linux", records[2].Skills)
}

func TestProcess_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeResume(t, dir, "r.txt", "Bob\nbob@b.io\nPython SQL")
	p := newLocalProcessor(1)

	first := p.Process(context.Background(), []string{path})
	second := p.Process(context.Background(), []string{path})
	assert.Equal(t, first, second)
}

func TestProcess_ConcurrentPreservesOrder(t *testing.T) {
	texts := make(map[string]string)
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = fmt.Sprintf("resume-%02d.txt", i)
		texts[paths[i]] = fmt.Sprintf("Candidate %02d\nc%02d@example.com", i, i)
	}
	paths = append(paths, "resume-missing.txt")

	mock := &mockExtractor{texts: texts, delay: time.Millisecond}
	p := NewResumeProcessor(Components{Extractor: mock}, Settings{Workers: 4, Logger: zerolog.Nop()})

	records := p.Process(context.Background(), paths)
	require.Len(t, records, len(paths))
	for i := 0; i < 20; i++ {
		assert.Equal(t, paths[i], records[i].File)
		assert.Equal(t, fmt.Sprintf("Candidate %02d", i), records[i].Name)
		assert.Equal(t, fmt.Sprintf("c%02d@example.com", i), records[i].Emails)
	}
	assert.True(t, records[20].IsError())
	assert.EqualValues(t, len(paths), mock.calls.Load())
}

func TestProcess_PanicBecomesErrorRecord(t *testing.T) {
	dir := t.TempDir()
	a := writeResume(t, dir, "a.txt", "Alice\nalice@example.com")
	b := writeResume(t, dir, "b.pdf", "%PDF-1.4\n")

	for _, workers := range []int{1, 2} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			p := NewResumeProcessor(
				Components{Extractor: panicOnPath{inner: extractor.NewPlainTextExtractor(), path: b}},
				Settings{Workers: workers, Logger: zerolog.Nop()},
			)

			var records []types.Record
			require.NotPanics(t, func() {
				records = p.Process(context.Background(), []string{a, b, a})
			})
			require.Len(t, records, 3)
			assert.Equal(t, "Alice", records[0].Name)
			assert.Equal(t, b, records[1].File)
			assert.True(t, records[1].IsError(), "panic 应转为错误记录")
			assert.Contains(t, records[1].Skills, "panic")
			assert.Equal(t, "Alice", records[2].Name, "panic 之后的文件继续处理")
		})
	}

	p := NewResumeProcessor(
		Components{Extractor: panicOnPath{inner: extractor.NewPlainTextExtractor(), path: b}},
		Settings{Logger: zerolog.Nop()},
	)
	_, err := p.ProcessFile(context.Background(), b)
	assert.ErrorIs(t, err, ErrPanic)
	assert.Equal(t, tracing.ErrorTypeInternal, errorTypeFor(err))
}

func TestProcess_MalformedPDF(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := writeResume(t, dir, "a.txt", "Alice\nalice@example.com")
	b := writeResume(t, dir, "b.pdf", "%PDF-1.4\n"+strings.Repeat("\n", 120))

	pdfPages, err := extractor.NewEinoPDFExtractor(ctx)
	require.NoError(t, err)
	p := NewResumeProcessor(
		Components{Extractor: extractor.NewDispatcher(
			extractor.NewPlainTextExtractor(),
			extractor.NewPDFExtractor(pdfPages, false),
			extractor.NewDocxExtractor(),
		)},
		Settings{Workers: 2, Logger: zerolog.Nop()},
	)

	records := p.Process(ctx, []string{a, b, a})
	require.Len(t, records, 3)
	assert.Equal(t, "Alice", records[0].Name)
	assert.True(t, records[1].IsError(), "损坏的 PDF 产生错误记录")
	assert.Equal(t, "Alice", records[2].Name)
}

func TestProcess_UsesContextLogger(t *testing.T) {
	var buf strings.Builder
	scoped := zerolog.New(&buf).With().Str("request_id", "req-7").Logger()
	ctx := scoped.WithContext(context.Background())

	p := NewResumeProcessor(
		Components{Extractor: &mockExtractor{texts: map[string]string{"a.txt": "Ann"}}},
		Settings{Logger: zerolog.Nop()},
	)
	p.Process(ctx, []string{"a.txt"})
	assert.Contains(t, buf.String(), `"request_id":"req-7"`, "批处理日志应带上请求上下文中的字段")
	assert.Contains(t, buf.String(), "batch finished")
}

func TestProcess_Empty(t *testing.T) {
	records := newLocalProcessor(2).Process(context.Background(), nil)
	assert.Empty(t, records)
}

func TestProcessInput(t *testing.T) {
	dir := t.TempDir()
	a := writeResume(t, dir, "a.txt", "Ann")

	records := newLocalProcessor(1).ProcessInput(context.Background(), a+", , notes.rtf")
	require.Len(t, records, 3)
	assert.Equal(t, "Ann", records[0].Name)
	assert.Equal(t, "", records[1].File)
	assert.True(t, records[1].IsError(), "空路径项产生错误行")
	assert.True(t, records[2].IsError())
}

func TestProcessFile_UsesFetcher(t *testing.T) {
	dir := t.TempDir()
	local := writeResume(t, dir, "cv.txt", "Remote Person\nremote@x.com")

	fetcher := &stubFetcher{localPath: local}
	p := NewResumeProcessor(
		Components{Extractor: extractor.NewPlainTextExtractor(), Fetcher: fetcher},
		Settings{Logger: zerolog.Nop()},
	)

	record, err := p.ProcessFile(context.Background(), "minio://resumes/cv.txt")
	require.NoError(t, err)
	assert.Equal(t, "minio://resumes/cv.txt", record.File, "记录中保留原始输入路径")
	assert.Equal(t, "Remote Person", record.Name)
	assert.Equal(t, []string{"minio://resumes/cv.txt"}, fetcher.fetched)
	assert.Equal(t, 1, fetcher.cleaned, "提取结束后应清理临时文件")

	fetcher.err = extractor.NewReadError("minio://resumes/x.txt", "download object", errors.New("access denied"))
	record, err = p.ProcessFile(context.Background(), "minio://resumes/x.txt")
	require.Error(t, err)
	assert.True(t, record.IsError())
}

func TestErrorTypeFor(t *testing.T) {
	assert.Equal(t, tracing.ErrorTypeUnsupportedFormat, errorTypeFor(extractor.NewUnsupportedFormatError("a.doc")))
	assert.Equal(t, tracing.ErrorTypeRead, errorTypeFor(extractor.NewReadError("a.txt", "x", nil)))
	assert.Equal(t, tracing.ErrorTypeParse, errorTypeFor(extractor.NewParseError("a.pdf", "x", nil)))
	assert.Equal(t, tracing.ErrorTypeInternal, errorTypeFor(errors.New("other")))
}
