// Command skirmish runs a battle to completion and then searches for the
// lowest elf power that wins without losses. The grid comes from a file or
// stdin; rounds can optionally be recorded to parquet for the viewer.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/mrail/skirmish/config"
	"github.com/mrail/skirmish/game"
	"github.com/mrail/skirmish/rules"
	"github.com/mrail/skirmish/search"
	"github.com/mrail/skirmish/store"
)

func main() {
	inputPath := flag.String("input", getEnvOrDefault("SKIRMISH_INPUT", ""), "Grid file to simulate (default: stdin)")
	configPath := flag.String("config", getEnvOrDefault("SKIRMISH_CONFIG", ""), "Optional YAML settings file")
	outDir := flag.String("out-dir", getEnvOrDefault("SKIRMISH_OUT_DIR", ""), "Optional directory to record rounds as .parquet")
	logPath := flag.String("log-path", getEnvOrDefault("SKIRMISH_LOG_PATH", "data/recorded_battles.log"), "Append-only log of battle IDs already recorded")
	source := flag.String("source", "cli", "Source label stored with recorded rounds")
	workers := flag.Int("workers", getEnvIntOrDefault("SKIRMISH_WORKERS", 0), "Workers for the power search (0 = all cores)")
	noSearch := flag.Bool("no-search", false, "Skip the lossless power search")
	verbose := flag.Bool("v", false, "Print the final grid with unit health")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		var err error
		settings, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	grid, err := readGrid(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read grid: %v", err)
	}

	battle, err := game.ParseWithOptions(grid, settings.ParseOptions())
	if err != nil {
		log.Fatalf("Failed to parse grid: %v", err)
	}
	battleID := store.BattleID(battle.Render())

	log.Printf("Battle %s: %dx%d, %d elves vs %d goblins",
		battleID, battle.Arena.Width, battle.Arena.Height,
		battle.Count(game.Elf), battle.Count(game.Goblin))

	var recorder *roundRecorder
	if *outDir != "" {
		recorder, err = newRoundRecorder(*outDir, *logPath, battleID, *source)
		if err != nil {
			log.Fatalf("Failed to open recorder: %v", err)
		}
	}

	run := battle.Clone()
	var onRound func(*game.Battle)
	if recorder != nil && !recorder.skip {
		recorder.observe(run)
		onRound = recorder.observe
	}

	out := rules.Run(run, onRound)
	log.Printf("Battle over after %d rounds: %s side wins with %d total health",
		out.Rounds, out.Winner, out.HealthSum)
	if *verbose {
		fmt.Print(run.RenderWithHealth())
	}
	fmt.Printf("score: %d\n", out.Score)

	if recorder != nil {
		if err := recorder.finalize(); err != nil {
			log.Fatalf("Failed to record battle: %v", err)
		}
	}

	if *noSearch {
		return
	}

	res, err := search.MinPowerParallel(battle, search.Options{
		Faction:  game.Elf,
		MinPower: settings.MinSearchPower,
		MaxPower: settings.MaxSearchPower,
	}, *workers)
	if err != nil {
		log.Fatalf("Power search failed: %v", err)
	}
	log.Printf("Elves first win losslessly at power %d (%d rounds, %d health)",
		res.Power, res.Outcome.Rounds, res.Outcome.HealthSum)
	fmt.Printf("lossless: power=%d score=%d\n", res.Power, res.Outcome.Score)
}

func readGrid(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// roundRecorder buffers every round of one battle and writes a single
// parquet file on finalize. Battles already present in the recorded log are
// skipped entirely.
type roundRecorder struct {
	outDir   string
	recorded *store.RecordedLog
	battleID string
	source   string
	skip     bool
	rows     []store.RoundRow
}

func newRoundRecorder(outDir, logPath, battleID, source string) (*roundRecorder, error) {
	recorded, err := store.OpenRecordedLog(logPath)
	if err != nil {
		return nil, err
	}
	if recorded.Has(battleID) {
		log.Printf("Battle %s already recorded, skipping parquet output", battleID)
		_ = recorded.Close()
		return &roundRecorder{skip: true}, nil
	}

	return &roundRecorder{
		outDir:   outDir,
		recorded: recorded,
		battleID: battleID,
		source:   source,
	}, nil
}

func (r *roundRecorder) observe(b *game.Battle) {
	r.rows = append(r.rows, store.Snapshot(r.battleID, r.source, b))
}

func (r *roundRecorder) finalize() error {
	if r.skip {
		return nil
	}
	defer r.recorded.Close()

	res, err := store.WriteBatchParquetAtomic(r.outDir, r.rows)
	if err != nil {
		return err
	}
	if err := r.recorded.Add(r.battleID); err != nil {
		return err
	}
	log.Printf("Recorded %d rounds to %s (%d battle(s) in log)",
		res.Rows, res.Path, r.recorded.Count())
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
