// Command fetch downloads battle grids from a puzzle page and writes them to
// disk, ready for the simulator and the watch TUI.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mrail/skirmish/internal/logging"
	"github.com/mrail/skirmish/scrape"
)

func main() {
	year := flag.Int("year", 2018, "Puzzle year")
	day := flag.Int("day", 15, "Puzzle day")
	outDir := flag.String("out-dir", "grids", "Directory to write fetched grids")
	session := flag.String("session", os.Getenv("AOC_SESSION"), "Session cookie for the personal input")
	examplesOnly := flag.Bool("examples-only", false, "Skip the personal input even when a session is set")
	delay := flag.Duration("delay", 500*time.Millisecond, "Delay between HTTP requests")
	flag.Parse()

	logger := slog.New(logging.NewPrettyJSONHandler(os.Stderr, nil))

	cfg := scrape.DefaultConfig()
	cfg.Session = *session
	cfg.RequestDelay = *delay
	fetcher := scrape.NewFetcher(cfg, logger)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Error("create output dir", "err", err)
		os.Exit(1)
	}

	grids, err := fetcher.ExampleGrids(*year, *day)
	if err != nil {
		logger.Error("fetch examples", "err", err)
		os.Exit(1)
	}
	for i, grid := range grids {
		path := filepath.Join(*outDir, fmt.Sprintf("example_%02d.txt", i+1))
		if err := os.WriteFile(path, []byte(grid), 0o644); err != nil {
			logger.Error("write grid", "path", path, "err", err)
			os.Exit(1)
		}
		logger.Info("wrote example grid", "path", path)
	}

	if *examplesOnly || *session == "" {
		if *session == "" {
			logger.Info("no session cookie, skipping personal input")
		}
		return
	}

	input, err := fetcher.Input(*year, *day)
	if err != nil {
		logger.Error("fetch input", "err", err)
		os.Exit(1)
	}
	path := filepath.Join(*outDir, "input.txt")
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		logger.Error("write input", "path", path, "err", err)
		os.Exit(1)
	}
	logger.Info("wrote personal input", "path", path)
}
