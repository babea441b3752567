package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yleoer/zhsync/pkg/config"
	"github.com/yleoer/zhsync/pkg/converter"
	"github.com/yleoer/zhsync/pkg/database"
	"github.com/yleoer/zhsync/pkg/processor"
	"github.com/yleoer/zhsync/pkg/scanner"
	"github.com/yleoer/zhsync/pkg/scheduler"
	"github.com/yleoer/zhsync/pkg/util"
)

// newTextConverter 创建基础转换器，测试中可替换
var newTextConverter = converter.NewOpenCCConverter

// runOptions 是 sync 和 watch 共用的命令行选项
type runOptions struct {
	dryRun          bool
	keepGoing       bool
	noSubstitutions bool
	noHistory       bool
	skipUnchanged   bool
}

func (o *runOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noSubstitutions, "no-substitutions", false, "apply plain OpenCC conversion without the substitution table")
	cmd.Flags().BoolVar(&o.noHistory, "no-history", false, "do not record this run in the history database")
}

// app 持有一次命令执行所需的全部依赖
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	history   database.HistoryStore
	scheduler *scheduler.TaskScheduler
}

func newLogger(out io.Writer) *log.Logger {
	return log.New(out, "[zhsync] ", log.LstdFlags)
}

// loadConfig 加载配置；args 中的目录参数优先于其他来源
func loadConfig(v *viper.Viper, cfgFile string, args []string) (*config.Config, error) {
	if len(args) > 0 {
		v.Set(config.KeyChaptersDir, args[0])
	}
	return config.LoadConfig(v, cfgFile)
}

// openHistory 打开历史数据库，必要时创建数据目录
func openHistory(cfg *config.Config, logger *log.Logger) (database.HistoryStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", cfg.DataDir, err)
	}
	return database.NewSQLiteStore(cfg.DBPath, logger)
}

// newApp 按依赖顺序初始化转换器、处理器、历史存储和调度器
func newApp(cmd *cobra.Command, v *viper.Viper, cfgFile string, args []string, opts runOptions) (*app, error) {
	// 1. 初始化日志器
	logger := newLogger(cmd.OutOrStdout())
	// 2. 加载配置
	cfg, err := loadConfig(v, cfgFile, args)
	if err != nil {
		return nil, err
	}
	logger.Printf("Configuration loaded: ChaptersDir=%s, Pattern=%s, Conversion=%s, DBPath=%s",
		cfg.ChaptersDir, cfg.Pattern, cfg.Conversion, cfg.DBPath)
	if !util.IsDirectory(cfg.ChaptersDir) {
		return nil, fmt.Errorf("chapters directory %s does not exist", cfg.ChaptersDir)
	}
	// 3. 初始化依赖服务
	// 3.1 章节扫描器
	chapterScanner, err := scanner.NewChapterScanner(cfg.Pattern)
	if err != nil {
		return nil, err
	}
	// 3.2 繁简体转换器（启动前检查字典可用）
	base, err := newTextConverter(cfg.Conversion, logger)
	if err != nil {
		return nil, err
	}
	table := cfg.Substitutions
	if opts.noSubstitutions {
		table = converter.Table{}
	}
	logger.Printf("Substitution table: %d entries", table.Len())
	conv := converter.New(base, table)
	// 3.3 章节处理器
	chapterProcessor := processor.NewChapterProcessor(conv, processor.Options{
		SourceField:   cfg.SourceField,
		TargetField:   cfg.TargetField,
		DryRun:        opts.dryRun,
		SkipUnchanged: opts.skipUnchanged,
	}, logger)
	// 3.4 历史存储
	var history database.HistoryStore
	if !opts.noHistory && !opts.dryRun {
		history, err = openHistory(cfg, logger)
		if err != nil {
			return nil, err
		}
	}
	// 4. 初始化任务调度器
	taskScheduler := scheduler.NewTaskScheduler(chapterScanner, chapterProcessor, history, scheduler.Options{
		ContinueOnError:  opts.keepGoing,
		Debounce:         cfg.WatchDebounce,
		TableFingerprint: table.Fingerprint(),
	}, logger)

	return &app{cfg: cfg, logger: logger, history: history, scheduler: taskScheduler}, nil
}

func (a *app) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}
