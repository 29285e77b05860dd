package main

import (
	"context"
	"database/sql"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DBCache maintains a cached DuckDB connection over the recorded parquet
// shards, refreshing periodically so newly finalized batch files show up
// without a restart.
type DBCache struct {
	roots       []string
	refreshRate time.Duration

	mu          sync.RWMutex
	db          *sql.DB
	lastRefresh time.Time
}

func NewDBCache(roots []string, refreshRate time.Duration) *DBCache {
	return &DBCache{
		roots:       roots,
		refreshRate: refreshRate,
	}
}

// Get returns the cached DB connection, refreshing if needed.
func (c *DBCache) Get() (*sql.DB, error) {
	c.mu.RLock()
	if c.db != nil && time.Since(c.lastRefresh) < c.refreshRate {
		db := c.db
		c.mu.RUnlock()
		return db, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if c.db != nil && time.Since(c.lastRefresh) < c.refreshRate {
		return c.db, nil
	}
	return c.refreshLocked()
}

func (c *DBCache) refreshLocked() (*sql.DB, error) {
	start := time.Now()

	newDB, err := openDuckDBWithGlobs(c.roots)
	if err != nil {
		return nil, err
	}
	if c.db != nil {
		_ = c.db.Close()
	}
	c.db = newDB
	c.lastRefresh = time.Now()

	log.Printf("DBCache refreshed in %v", time.Since(start))
	return c.db, nil
}

// openDuckDBWithGlobs creates an in-memory DuckDB with a `rounds` view over
// every parquet shard under the roots, excluding tmp/ directories where
// half-written batches live.
func openDuckDBWithGlobs(roots []string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	// Basic pragmas; ignore errors for compatibility across versions.
	_, _ = db.Exec("PRAGMA threads=4")

	globs := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		glob := filepath.Join(root, "**", "*.parquet")
		globs = append(globs, "'"+escapeSQLString(glob)+"'")
	}

	if len(globs) == 0 {
		_, err := db.Exec(`CREATE OR REPLACE VIEW rounds AS
			SELECT * FROM (
				SELECT
					NULL::VARCHAR AS battle_id,
					NULL::INTEGER AS round,
					NULL::INTEGER AS width,
					NULL::INTEGER AS height,
					NULL::BLOB AS grid,
					NULL::STRUCT(
						id INTEGER,
						faction VARCHAR,
						row INTEGER,
						col INTEGER,
						health INTEGER,
						power INTEGER
					)[] AS units,
					NULL::VARCHAR AS source,
					NULL::VARCHAR AS filename
			) WHERE 1=0`)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	// union_by_name tolerates shards written before schema additions.
	sqlText := `CREATE OR REPLACE VIEW rounds AS
		SELECT * FROM read_parquet([` + strings.Join(globs, ",") + `], filename=true, union_by_name=true)
		WHERE NOT contains(filename, '/tmp/')`
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func queryBattles(ctx context.Context, db *sql.DB, limit, offset int) (BattlesResponse, error) {
	var total int64
	if err := db.QueryRowContext(ctx,
		`SELECT count(DISTINCT battle_id) FROM rounds`).Scan(&total); err != nil {
		return BattlesResponse{}, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT battle_id,
		        min(round)::INTEGER,
		        max(round)::INTEGER,
		        count(*)::INTEGER,
		        min(width)::INTEGER,
		        min(height)::INTEGER,
		        min(source),
		        min(filename)
		 FROM rounds
		 GROUP BY battle_id
		 ORDER BY battle_id
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return BattlesResponse{}, err
	}
	defer rows.Close()

	resp := BattlesResponse{Total: total, Battles: make([]BattleSummary, 0, limit)}
	for rows.Next() {
		var b BattleSummary
		if err := rows.Scan(&b.BattleID, &b.MinRound, &b.MaxRound, &b.RoundCount,
			&b.Width, &b.Height, &b.Source, &b.SourceFile); err != nil {
			return BattlesResponse{}, err
		}
		resp.Battles = append(resp.Battles, b)
	}
	return resp, rows.Err()
}

func queryRounds(ctx context.Context, db *sql.DB, battleID string) ([]RoundView, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT battle_id, round::INTEGER, width::INTEGER, height::INTEGER, grid, units, source
		 FROM rounds
		 WHERE battle_id = ?
		 ORDER BY round ASC`, battleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoundView, 0, 64)
	for rows.Next() {
		var rv RoundView
		var gridAny any
		var unitsAny any
		if err := rows.Scan(&rv.BattleID, &rv.Round, &rv.Width, &rv.Height, &gridAny, &unitsAny, &rv.Source); err != nil {
			return nil, err
		}
		rv.Grid = asGrid(gridAny)
		rv.Units = asUnits(unitsAny)
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
