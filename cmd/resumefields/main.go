// Command resumefields 从一批简历文件中提取姓名、邮箱、电话和技能，并输出表格报表。
//
//	resumefields -f "alice.pdf, bob.docx, carol.txt"
//	resumefields alice.pdf bob.docx
//	resumefields            # 交互式输入
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"resume-fields/internal/config"
	"resume-fields/internal/logger"
	"resume-fields/internal/processor"
	"resume-fields/internal/report"
	"resume-fields/internal/tracing"

	"github.com/spf13/pflag"
)

const prompt = "Enter paths of resume files separated by commas (e.g., resume1.pdf, resume2.docx): "

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run 返回进程退出码；只有参数或配置错误才返回非0
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("resumefields", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath string
		files      string
		format     string
		workers    int
		logLevel   string
	)
	flags.StringVarP(&configPath, "config", "c", "", "Path to config file")
	flags.StringVarP(&files, "files", "f", "", "Comma-separated list of resume files")
	flags.StringVarP(&format, "format", "o", "", "Report format: grid or json")
	flags.IntVarP(&workers, "workers", "w", 0, "Number of files processed concurrently")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "加载配置失败: %v\n", err)
		return 1
	}
	if format != "" {
		cfg.Report.Format = format
	}
	if workers > 0 {
		cfg.Batch.Workers = workers
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	log := logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	}, stderr)

	renderer, err := report.NewRenderer(cfg.Report.Format)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	paths, err := collectPaths(files, flags.Args(), stdin, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "读取文件列表失败: %v\n", err)
		return 1
	}

	ctx := logger.WithContext(context.Background())
	shutdown, err := tracing.InitProvider(ctx, cfg.Tracing)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Warn().Err(err).Msg("tracing shutdown failed")
			}
		}()
	}

	proc, err := processor.NewFromConfig(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "初始化处理器失败: %v\n", err)
		return 1
	}

	records := proc.Process(ctx, paths)
	if err := renderer.Render(stdout, records); err != nil {
		fmt.Fprintf(stderr, "输出报表失败: %v\n", err)
		return 1
	}
	return 0
}

// collectPaths 合并 --files 与位置参数；两者都为空时从 stdin 读取一行
func collectPaths(files string, args []string, stdin io.Reader, promptOut io.Writer) ([]string, error) {
	var paths []string
	if files != "" {
		paths = append(paths, processor.ParsePathList(files)...)
	}
	for _, arg := range args {
		paths = append(paths, processor.ParsePathList(arg)...)
	}
	if len(paths) > 0 {
		return paths, nil
	}

	fmt.Fprint(promptOut, prompt)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return processor.ParsePathList(strings.TrimRight(line, "\r\n")), nil
}
