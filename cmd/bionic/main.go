package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/yockii/bionic_reader/internal/service"
	"github.com/yockii/bionic_reader/pkg/config"
	"github.com/yockii/bionic_reader/pkg/logger"
	"github.com/yockii/bionic_reader/pkg/util"
)

// prepare 加载配置并初始化日志，未指定配置文件时使用默认值
func prepare(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if file := cmd.String("config"); file != "" {
		if err := config.Init(file); err != nil {
			return ctx, fmt.Errorf("加载配置失败: %w", err)
		}
	} else {
		config.InitDefaults()
	}
	if cmd.Bool("verbose") {
		config.Set("log.console", true)
		logger.Init()
	} else {
		logger.InitNop()
	}
	return ctx, nil
}

func finish(context.Context, *cli.Command) error {
	// stdout/stderr 上的 Sync 可能返回 EINVAL，忽略
	_ = logger.Sync()
	return nil
}

func newConversionService(cmd *cli.Command) service.ConversionService {
	opts := service.OptionsFromConfig()
	if cmd.IsSet("limit") {
		opts.WordLimit = int(cmd.Int("limit"))
	}
	if cmd.Bool("slug") {
		opts.SlugNames = true
	}
	return service.NewConversionService(opts, nil, nil)
}

// runText 转换命令行参数或标准输入中的文本
func runText(ctx context.Context, cmd *cli.Command) error {
	var text string
	if cmd.NArg() == 0 || cmd.Args().First() == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("读取标准输入失败: %w", err)
		}
		text = string(data)
	} else {
		text = strings.Join(cmd.Args().Slice(), " ")
	}

	result, err := newConversionService(cmd).RenderText(ctx, &service.TextRequest{
		Text:     text,
		FileMode: cmd.Bool("file-mode"),
	})
	if err != nil {
		return err
	}
	if result.Truncated {
		logger.Warn("文本超过单词数上限，已截断", zap.Int("words", result.Words))
	}
	_, err = fmt.Fprintln(os.Stdout, result.Markup)
	return err
}

// runConvert 转换文件，默认输出到源文件所在目录
func runConvert(ctx context.Context, cmd *cli.Command) error {
	src := cmd.Args().First()
	if src == "" {
		return errors.New("未指定输入文件")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}

	result, err := newConversionService(cmd).ConvertFile(ctx, &service.FileRequest{
		Name: filepath.Base(src),
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("转换 %s 失败: %w", src, err)
	}

	dst := cmd.String("output")
	if result.Markup != nil {
		if dst == "" {
			_, err = fmt.Fprintln(os.Stdout, result.Markup.Markup)
			return err
		}
		return util.SaveFile(dst, []byte(result.Markup.Markup))
	}

	if dst == "" {
		dst = filepath.Join(filepath.Dir(src), result.FileName)
	}
	if err := util.SaveFile(dst, result.Data); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	logger.Info("转换完成", zap.String("source", src), zap.String("output", dst), zap.Int("paragraphs", result.Paragraphs))
	fmt.Fprintln(os.Stderr, dst)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "bionic",
		Usage:           "仿生阅读转换工具",
		HideHelpCommand: true,
		Before:          prepare,
		After:           finish,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "加载配置 `FILE` (YAML)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "输出日志"},
		},
		Commands: []*cli.Command{
			{
				Name:      "text",
				Usage:     "将文本转换为仿生阅读标记",
				Action:    runText,
				ArgsUsage: "[TEXT|-]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "单词数上限，0表示不限制"},
					&cli.BoolFlag{Name: "file-mode", Aliases: []string{"f"}, Usage: "文件模式，不限制单词数"},
				},
			},
			{
				Name:      "convert",
				Usage:     "将HTML、Markdown、DOCX或TXT文件转换为仿生阅读版",
				Action:    runConvert,
				ArgsUsage: "INPUT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "输出 `FILE`，默认为源目录下的 <name>_bionic.docx"},
					&cli.BoolFlag{Name: "slug", Usage: "输出文件名转换为slug"},
				},
			},
		},
	}

	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "执行失败: %v\n", err)
		os.Exit(1)
	}
}
