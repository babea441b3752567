package database

import "time"

// Run 是一次批量同步的记录
type Run struct {
	ID               int64
	Dir              string
	TableFingerprint string
	StartedAt        time.Time
	FinishedAt       time.Time // 未完成时为零值
	Total            int
	Succeeded        int
}

// FileResult 是一次同步中单个文件的记录
type FileResult struct {
	RunID      int64
	Path       string
	Status     string
	Paragraphs int
	Error      string
}

// HistoryStore 定义同步历史存储接口
type HistoryStore interface {
	BeginRun(dir, tableFingerprint string) (int64, error) // 开始一次同步，返回记录 ID
	RecordResult(runID int64, result FileResult) error    // 记录单个文件的结果
	FinishRun(runID int64, total, succeeded int) error    // 标记同步结束
	RecentRuns(limit int) ([]Run, error)                  // 按时间倒序列出最近的同步
	RunResults(runID int64) ([]FileResult, error)         // 列出某次同步的文件结果
	Close() error                                         // 关闭数据库连接
}
