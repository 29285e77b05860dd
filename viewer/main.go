// Command viewer serves recorded battles and on-demand simulations over HTTP.
// Recorded rounds are read straight from the parquet shards through DuckDB;
// simulations replay grids in-process.
package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrail/skirmish/game"
	"github.com/mrail/skirmish/rules"
	"github.com/mrail/skirmish/search"
	"github.com/mrail/skirmish/store"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	listen := fs.String("listen", "127.0.0.1:8080", "HTTP listen address")
	dataDirs := fs.String("data-dirs", strings.Join(defaultDataDirs(), ","), "Comma-separated list of directories containing battle parquet shards (battle_round_v1)")
	staticDir := fs.String("static-dir", "", "Optional directory to serve as SPA static (e.g. viewer/web/dist)")
	refresh := fs.Duration("refresh", 30*time.Second, "How often to rescan the data dirs for new shards")
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	roots := parseDataRoots(*dataDirs)
	log.Printf("Viewer data roots: %s", strings.Join(roots, ","))

	cache := NewDBCache(roots, *refresh)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/battles", func(w http.ResponseWriter, r *http.Request) {
		withCORS(w, r)
		if r.Method == http.MethodOptions {
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		db, err := cache.Get()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		limit := parseIntQuery(r, "limit", 100)
		offset := parseIntQuery(r, "offset", 0)
		resp, err := queryBattles(r.Context(), db, limit, offset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, resp)
	})

	mux.HandleFunc("/api/battles/", func(w http.ResponseWriter, r *http.Request) {
		withCORS(w, r)
		if r.Method == http.MethodOptions {
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		db, err := cache.Get()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// /api/battles/{id}/rounds
		rest := strings.TrimPrefix(r.URL.Path, "/api/battles/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] != "rounds" {
			http.NotFound(w, r)
			return
		}
		battleID, err := url.PathUnescape(parts[0])
		if err != nil {
			http.Error(w, "bad battle id", http.StatusBadRequest)
			return
		}
		rounds, err := queryRounds(r.Context(), db, battleID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if len(rounds) == 0 {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, rounds)
	})

	mux.HandleFunc("/api/simulate", func(w http.ResponseWriter, r *http.Request) {
		withCORS(w, r)
		if r.Method == http.MethodOptions {
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req SimulateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		resp, err := simulate(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, resp)
	})

	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		withCORS(w, r)
		if r.Method == http.MethodOptions {
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		b, err := game.Parse(req.Grid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := search.MinPowerParallel(b, search.Options{Faction: game.Elf, MaxPower: req.MaxPower}, 0)
		if err != nil {
			if errors.Is(err, search.ErrExhausted) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, SearchResponse{
			Power:     res.Power,
			Rounds:    res.Outcome.Rounds,
			HealthSum: res.Outcome.HealthSum,
			Score:     res.Outcome.Score,
		})
	})

	mux.HandleFunc("/api/live", serveLive)

	if strings.TrimSpace(*staticDir) != "" {
		spa := spaHandler{staticPath: *staticDir, indexPath: filepath.Join(*staticDir, "index.html")}
		mux.Handle("/", spa)
	}

	srv := &http.Server{
		Addr:              *listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("Viewer API listening on http://%s", *listen)
	if strings.TrimSpace(*staticDir) != "" {
		log.Printf("Serving SPA from %s", *staticDir)
	}
	log.Fatal(srv.ListenAndServe())
}

// simulate replays a grid from scratch, optionally keeping every round.
func simulate(req SimulateRequest) (SimulateResponse, error) {
	opts := game.ParseOptions{InitialHealth: game.DefaultHealth, BasePower: game.DefaultPower}
	if req.InitialHealth > 0 {
		opts.InitialHealth = req.InitialHealth
	}
	if req.BasePower > 0 {
		opts.BasePower = req.BasePower
	}

	b, err := game.ParseWithOptions(req.Grid, opts)
	if err != nil {
		return SimulateResponse{}, err
	}
	if req.ElfPower > 0 {
		b.SetPower(game.Elf, req.ElfPower)
	}
	battleID := store.BattleID(b.Render())

	var roundLog []RoundView
	var onRound func(*game.Battle)
	if req.IncludeRounds {
		roundLog = append(roundLog, roundView(battleID, "api", b))
		onRound = func(state *game.Battle) {
			roundLog = append(roundLog, roundView(battleID, "api", state))
		}
	}

	out := rules.Run(b, onRound)
	return SimulateResponse{
		BattleID:  battleID,
		Winner:    out.Winner.String(),
		Rounds:    out.Rounds,
		HealthSum: out.HealthSum,
		Score:     out.Score,
		FinalGrid: b.Render(),
		RoundLog:  roundLog,
	}, nil
}

// roundView converts live state into the same shape recorded rounds use, via
// the store row so the two never drift apart.
func roundView(battleID, source string, b *game.Battle) RoundView {
	row := store.Snapshot(battleID, source, b)
	rv := RoundView{
		BattleID: row.BattleID,
		Round:    row.Round,
		Width:    row.Width,
		Height:   row.Height,
		Grid:     string(row.Grid),
		Source:   row.Source,
	}
	for _, u := range row.Units {
		rv.Units = append(rv.Units, UnitView(u))
	}
	return rv
}

func defaultDataDirs() []string {
	preferred := []string{
		filepath.Join("data", "battles"),
	}
	out := make([]string, 0, len(preferred))
	for _, p := range preferred {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, filepath.Join("data", "battles"))
	}
	return out
}

func parseDataRoots(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// spaHandler serves a single-page app: exact static assets when they exist,
// index.html for everything else so client-side routing works.
type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticPath, filepath.Clean(r.URL.Path))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		http.ServeFile(w, r, h.indexPath)
		return
	}
	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}
