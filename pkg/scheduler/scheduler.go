package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"

	"github.com/yleoer/zhsync/pkg/database"
	"github.com/yleoer/zhsync/pkg/processor"
	"github.com/yleoer/zhsync/pkg/scanner"
)

const separatorWidth = 60

// Options 控制 TaskScheduler 的行为
type Options struct {
	ContinueOnError  bool          // 读写或解析失败时记为 failed 并继续
	Debounce         time.Duration // 监听模式下同一文件的合并延迟
	TableFingerprint string        // 写入历史记录的替换表指纹
}

// Summary 汇总一次批量同步
type Summary struct {
	RunID     int64 // 未启用历史记录时为 0
	Total     int
	Succeeded int
	Results   []processor.Result
}

// TaskScheduler 负责批量同步和监听模式下的延迟同步
type TaskScheduler struct {
	scanner      *scanner.ChapterScanner
	processor    *processor.ChapterProcessor
	history      database.HistoryStore // 可为 nil
	opts         Options
	logger       *log.Logger
	syncMutex    sync.Mutex // 保证同一时间只处理一个文件
	pendingSyncs map[string]*time.Timer
	pendingMutex sync.Mutex     // 保护 pendingSyncs map
	inflight     sync.WaitGroup // 已排队或正在执行的延迟同步
}

// NewTaskScheduler 创建一个新的 TaskScheduler 实例
func NewTaskScheduler(
	chapterScanner *scanner.ChapterScanner,
	chapterProcessor *processor.ChapterProcessor,
	history database.HistoryStore,
	opts Options,
	logger *log.Logger,
) *TaskScheduler {
	return &TaskScheduler{
		scanner:      chapterScanner,
		processor:    chapterProcessor,
		history:      history,
		opts:         opts,
		logger:       logger,
		pendingSyncs: make(map[string]*time.Timer),
	}
}

// RunBatch 按文件名顺序逐个处理目录中的章节文件。
// 被跳过的文件不计入成功数，不影响后续文件；读写或解析错误会中止整个批次，
// 除非设置了 ContinueOnError。
func (ts *TaskScheduler) RunBatch(ctx context.Context, dir string) (Summary, error) {
	var summary Summary
	files, err := ts.scanner.FindChapterFiles(dir)
	if err != nil {
		return summary, err
	}
	summary.Total = len(files)
	ts.logger.Printf("Found %d chapter files in %s", len(files), dir)
	ts.logger.Println(strings.Repeat("=", separatorWidth))

	ts.syncMutex.Lock()
	defer ts.syncMutex.Unlock()

	summary.RunID = ts.beginRun(dir)
	defer func() { ts.finishRun(summary) }()

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			ts.logger.Printf("Sync interrupted after %d/%d files", len(summary.Results), len(files))
			return summary, err
		}
		res, err := ts.processor.Process(path)
		if err != nil {
			res.Status = processor.StatusFailed
			res.Err = err
			summary.Results = append(summary.Results, res)
			ts.recordResult(summary.RunID, res)
			if !ts.opts.ContinueOnError {
				return summary, err
			}
			ts.logger.Printf("  -> ERROR: %v", err)
			continue
		}
		if res.Status.Succeeded() {
			summary.Succeeded++
			ts.logger.Printf("  -> %s (%s)", res.Status, humanize.Bytes(uint64(res.Bytes)))
		}
		summary.Results = append(summary.Results, res)
		ts.recordResult(summary.RunID, res)
	}

	ts.logger.Println(strings.Repeat("=", separatorWidth))
	ts.logger.Printf("Successfully processed %d/%d files", summary.Succeeded, summary.Total)
	return summary, nil
}

// NewDirWatcher 创建监听 dir 的 fsnotify 监听器
func (ts *TaskScheduler) NewDirWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating file watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("error adding chapters directory %s to watcher: %w", dir, err)
	}
	ts.logger.Printf("Monitoring chapters directory %s for changes to %s...", dir, ts.scanner.Pattern())
	return watcher, nil
}

// Watch 监听目录直到 ctx 结束
func (ts *TaskScheduler) Watch(ctx context.Context, dir string) error {
	watcher, err := ts.NewDirWatcher(dir)
	if err != nil {
		return err
	}
	return ts.Serve(ctx, watcher)
}

// Serve 处理监听器事件直到 ctx 结束。返回前取消未执行的同步，
// 等待正在执行的同步完成，再关闭监听器。
func (ts *TaskScheduler) Serve(ctx context.Context, watcher *fsnotify.Watcher) error {
	defer func() {
		ts.cancelPending()
		ts.inflight.Wait()
		watcher.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			ts.logger.Println("Watcher stopped.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !ts.scanner.Match(filepath.Base(event.Name)) {
				continue
			}
			ts.logger.Printf("Watcher event: %s, on %s", event.Op.String(), event.Name)
			ts.TriggerSync(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ts.logger.Printf("ERROR: Watcher error: %v", err)
		}
	}
}

// TriggerSync 将一个文件加入延迟同步队列，重复触发会重置计时器
func (ts *TaskScheduler) TriggerSync(path string) {
	ts.pendingMutex.Lock()
	defer ts.pendingMutex.Unlock()
	if timer, ok := ts.pendingSyncs[path]; ok && timer.Stop() {
		ts.inflight.Done()
	}
	ts.inflight.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(ts.opts.Debounce, func() {
		defer ts.inflight.Done()
		ts.pendingMutex.Lock()
		if ts.pendingSyncs[path] == timer {
			delete(ts.pendingSyncs, path)
		}
		ts.pendingMutex.Unlock()
		ts.syncFile(path)
	})
	ts.pendingSyncs[path] = timer
}

func (ts *TaskScheduler) cancelPending() {
	ts.pendingMutex.Lock()
	defer ts.pendingMutex.Unlock()
	for path, timer := range ts.pendingSyncs {
		if timer.Stop() {
			ts.inflight.Done()
		}
		delete(ts.pendingSyncs, path)
	}
}

// syncFile 处理单个文件，并作为一次单文件同步写入历史
func (ts *TaskScheduler) syncFile(path string) {
	ts.syncMutex.Lock()
	defer ts.syncMutex.Unlock()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		ts.logger.Printf("  -> %s no longer exists. Skipping.", path)
		return
	}
	summary := Summary{Total: 1}
	summary.RunID = ts.beginRun(filepath.Dir(path))
	res, err := ts.processor.Process(path)
	if err != nil {
		ts.logger.Printf("ERROR: Failed to sync %s: %v", path, err)
		res.Status = processor.StatusFailed
		res.Err = err
	} else if res.Status.Succeeded() {
		summary.Succeeded = 1
	}
	summary.Results = append(summary.Results, res)
	ts.recordResult(summary.RunID, res)
	ts.finishRun(summary)
}

func (ts *TaskScheduler) beginRun(dir string) int64 {
	if ts.history == nil {
		return 0
	}
	id, err := ts.history.BeginRun(dir, ts.opts.TableFingerprint)
	if err != nil {
		ts.logger.Printf("WARN: %v", err)
		return 0
	}
	return id
}

func (ts *TaskScheduler) recordResult(runID int64, res processor.Result) {
	if ts.history == nil || runID == 0 {
		return
	}
	fr := database.FileResult{
		RunID:      runID,
		Path:       res.Path,
		Status:     string(res.Status),
		Paragraphs: res.Paragraphs,
	}
	if res.Err != nil {
		fr.Error = res.Err.Error()
	}
	if err := ts.history.RecordResult(runID, fr); err != nil {
		ts.logger.Printf("WARN: %v", err)
	}
}

func (ts *TaskScheduler) finishRun(summary Summary) {
	if ts.history == nil || summary.RunID == 0 {
		return
	}
	if err := ts.history.FinishRun(summary.RunID, summary.Total, summary.Succeeded); err != nil {
		ts.logger.Printf("WARN: %v", err)
	}
}
