package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// sqliteStore 是 HistoryStore 接口的 SQLite 实现
type sqliteStore struct {
	db     *sql.DB
	logger *log.Logger
}

const createTablesSQL = `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dir TEXT NOT NULL,
		table_fingerprint TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		total INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS sync_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES sync_runs(id),
		path TEXT NOT NULL,
		status TEXT NOT NULL,
		paragraphs INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_sync_results_run ON sync_results(run_id);
	`

// NewSQLiteStore 初始化 SQLite 数据库并返回 HistoryStore 接口实例
func NewSQLiteStore(dataSourceName string, log *log.Logger) (HistoryStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// 尝试创建表，如果不存在
	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close() // 创建表失败也要关闭连接
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	log.Printf("SQLite history database initialized at: %s", dataSourceName)
	return &sqliteStore{db: db, logger: log}, nil
}

// Close 关闭数据库连接
func (s *sqliteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.logger.Println("SQLite database connection closed.")
		return err
	}
	return nil
}

// BeginRun 插入一条未完成的同步记录
func (s *sqliteStore) BeginRun(dir, tableFingerprint string) (int64, error) {
	res, err := s.db.Exec("INSERT INTO sync_runs (dir, table_fingerprint, started_at) VALUES (?, ?, ?)",
		dir, tableFingerprint, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to record sync run for %s: %w", dir, err)
	}
	return res.LastInsertId()
}

// RecordResult 记录单个文件的处理结果
func (s *sqliteStore) RecordResult(runID int64, result FileResult) error {
	_, err := s.db.Exec("INSERT INTO sync_results (run_id, path, status, paragraphs, error) VALUES (?, ?, ?, ?, ?)",
		runID, result.Path, result.Status, result.Paragraphs, result.Error)
	if err != nil {
		return fmt.Errorf("failed to record result for %s: %w", result.Path, err)
	}
	return nil
}

// FinishRun 写入结束时间和计数
func (s *sqliteStore) FinishRun(runID int64, total, succeeded int) error {
	_, err := s.db.Exec("UPDATE sync_runs SET finished_at = ?, total = ?, succeeded = ? WHERE id = ?",
		time.Now().UTC(), total, succeeded, runID)
	if err != nil {
		return fmt.Errorf("failed to finish sync run %d: %w", runID, err)
	}
	return nil
}

// RecentRuns 按 ID 倒序返回最近 limit 次同步
func (s *sqliteStore) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, dir, table_fingerprint, started_at, finished_at, total, succeeded
		FROM sync_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Dir, &r.TableFingerprint, &r.StartedAt, &finished, &r.Total, &r.Succeeded); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults 按记录顺序返回某次同步的文件结果
func (s *sqliteStore) RunResults(runID int64) ([]FileResult, error) {
	rows, err := s.db.Query(`SELECT run_id, path, status, paragraphs, error
		FROM sync_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []FileResult
	for rows.Next() {
		var r FileResult
		if err := rows.Scan(&r.RunID, &r.Path, &r.Status, &r.Paragraphs, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
