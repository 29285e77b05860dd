package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// RecordedLog tracks which battle IDs have already been written to parquet.
// It is backed by an append-only log file with one battle ID per line.
//
// On startup the file is read into memory for fast dedupe; on success the
// battle ID is appended and fsynced. It is not a general-purpose WAL, just a
// dedupe list, and it tolerates a partial final line after a crash.
type RecordedLog struct {
	mu   sync.RWMutex
	file *os.File
	seen map[string]struct{}
}

func OpenRecordedLog(path string) (*RecordedLog, error) {
	if path == "" {
		return nil, fmt.Errorf("log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &RecordedLog{
		file: file,
		seen: loadRecordedIDs(path),
	}, nil
}

// loadRecordedIDs is best-effort: a missing file means an empty log, and a
// partial final line is dropped by the blank check.
func loadRecordedIDs(path string) map[string]struct{} {
	seen := make(map[string]struct{})
	f, err := os.Open(path)
	if err != nil {
		return seen
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			seen[id] = struct{}{}
		}
	}
	return seen
}

func (l *RecordedLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *RecordedLog) Has(battleID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.seen[battleID]
	return ok
}

func (l *RecordedLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.seen)
}

func (l *RecordedLog) Add(battleID string) error {
	if battleID == "" {
		return fmt.Errorf("battleID is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[battleID]; ok {
		return nil
	}
	if l.file == nil {
		return fmt.Errorf("log file is closed")
	}

	if _, err := fmt.Fprintln(l.file, battleID); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}

	l.seen[battleID] = struct{}{}
	return nil
}
