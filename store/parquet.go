// Package store persists battle recordings as Parquet. One row per completed
// round keeps files small and lets the viewer query any slice of a battle
// through DuckDB without replaying it.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/mrail/skirmish/game"
)

// SchemaName identifies the row layout in the parquet key-value metadata.
const SchemaName = "battle_round_v1"

// RoundRow is a single (battle, round) snapshot intended for long-term
// storage.
//
// It is optimized for compression: one row per round, the arena rendered once
// as a text grid, and nested unit data rather than one row per unit. Round 0
// is the starting state before any turns are taken.
type RoundRow struct {
	BattleID string `parquet:"battle_id,dict"`
	Round    int32  `parquet:"round"`
	Width    int32  `parquet:"width"`
	Height   int32  `parquet:"height"`

	// Grid is the rendered arena including unit symbols, newline separated.
	Grid []byte `parquet:"grid,zstd"`

	Units []UnitRow `parquet:"units"`

	Source string `parquet:"source,dict"`
}

// UnitRow is one living unit within a RoundRow, in reading order.
type UnitRow struct {
	ID      int32  `parquet:"id"`
	Faction string `parquet:"faction,dict"`
	Row     int32  `parquet:"row"`
	Col     int32  `parquet:"col"`
	Health  int32  `parquet:"health"`
	Power   int32  `parquet:"power"`
}

// BattleID derives a stable identifier from a starting grid, so replays of
// the same input dedupe naturally.
func BattleID(grid string) string {
	sum := sha256.Sum256([]byte(grid))
	return hex.EncodeToString(sum[:8])
}

// Snapshot converts the current battle state into a storable row.
func Snapshot(battleID, source string, b *game.Battle) RoundRow {
	row := RoundRow{
		BattleID: battleID,
		Round:    b.Rounds,
		Width:    b.Arena.Width,
		Height:   b.Arena.Height,
		Grid:     []byte(b.Render()),
		Source:   source,
	}
	for _, c := range b.Positions() {
		u := b.Units[c]
		row.Units = append(row.Units, UnitRow{
			ID:      u.ID,
			Faction: u.Faction.String(),
			Row:     c.Row,
			Col:     c.Col,
			Health:  u.Health,
			Power:   u.Power,
		})
	}
	return row
}

// WriteBattleParquet writes one battle's rows to a fixed path. The file is
// written to a temp path and renamed so readers never see a partial file.
func WriteBattleParquet(outPath string, rows []RoundRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.SkipPageBounds("grid"),
		parquet.KeyValueMetadata("schema", SchemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// WriteBatchParquetAtomic pushes rows through a BatchWriter in one shot.
// Recorders that buffer a whole battle in memory use this instead of
// managing the writer lifecycle themselves.
func WriteBatchParquetAtomic(outDir string, rows []RoundRow) (BatchResult, error) {
	w, err := NewBatchWriter(outDir)
	if err != nil {
		return BatchResult{}, err
	}
	if err := w.WriteRows(rows); err != nil {
		_, _ = w.Finalize()
		return BatchResult{}, err
	}
	return w.Finalize()
}
