package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// BatchWriter streams rows for one or more battles into a single parquet
// file. The file lives under outDir/tmp until Finalize renames it into
// outDir, so a crash leaves no half-written batch files behind. Battles are
// counted from the distinct battle IDs seen in the rows.
type BatchWriter struct {
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[RoundRow]

	battles map[string]struct{}
	rows    int
}

// BatchResult summarizes a finalized batch. Path is empty when no rows were
// written.
type BatchResult struct {
	Path    string
	Rows    int
	Battles int
}

func NewBatchWriter(outDir string) (*BatchWriter, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		absOut = outDir
	}
	tmpDir := filepath.Join(absOut, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("batch_%d.parquet", time.Now().UnixNano())
	tmpPath := filepath.Join(tmpDir, name)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}

	w := parquet.NewGenericWriter[RoundRow](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.SkipPageBounds("grid"),
	)
	w.SetKeyValueMetadata("schema", SchemaName)

	return &BatchWriter{
		tmpPath: tmpPath,
		outPath: filepath.Join(absOut, name),
		file:    f,
		writer:  w,
		battles: make(map[string]struct{}),
	}, nil
}

func (b *BatchWriter) WriteRows(rows []RoundRow) error {
	if b.writer == nil || b.file == nil {
		return fmt.Errorf("batch writer is closed")
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := b.writer.Write(rows); err != nil {
		return err
	}
	b.rows += len(rows)
	for _, r := range rows {
		b.battles[r.BattleID] = struct{}{}
	}
	return nil
}

// Finalize closes the parquet writer and moves the file from tmp/ to outDir.
// If no rows were written, the tmp file is removed and the result carries an
// empty path.
func (b *BatchWriter) Finalize() (BatchResult, error) {
	if b.writer == nil && b.file == nil {
		return BatchResult{}, nil
	}

	res := BatchResult{
		Path:    b.outPath,
		Rows:    b.rows,
		Battles: len(b.battles),
	}

	var closeErr error
	if b.writer != nil {
		closeErr = b.writer.Close()
		b.writer = nil
	}
	var fileErr error
	if b.file != nil {
		_ = b.file.Sync()
		fileErr = b.file.Close()
		b.file = nil
	}
	if closeErr != nil {
		return BatchResult{}, fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return BatchResult{}, fmt.Errorf("close parquet file: %w", fileErr)
	}

	if res.Rows == 0 {
		_ = os.Remove(b.tmpPath)
		return BatchResult{}, nil
	}
	if err := os.Rename(b.tmpPath, b.outPath); err != nil {
		return BatchResult{}, fmt.Errorf("rename parquet: %w", err)
	}
	return res, nil
}
