package search

import (
	"errors"
	"testing"

	"github.com/mrail/skirmish/game"
)

func mustParse(t *testing.T, grid string) *game.Battle {
	t.Helper()
	b, err := game.Parse(grid)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return b
}

func TestMinPower(t *testing.T) {
	cases := []struct {
		name  string
		grid  string
		power int32
		score int32
	}{
		{
			name: "trapped elves need heavy strikes",
			grid: `
#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######
`,
			power: 15, score: 4988,
		},
		{
			name: "corridor fight barely needs a boost",
			grid: `
#######
#E..EG#
#.#G.E#
#E.##E#
#G..#.#
#..E#.#
#######
`,
			power: 4, score: 31284,
		},
		{
			name: "walled goblins",
			grid: `
#######
#E.G#.#
#.#G..#
#G.#.G#
#G..#.#
#...E.#
#######
`,
			power: 15, score: 3478,
		},
		{
			name: "split elves",
			grid: `
#######
#.E...#
#.#..G#
#.###.#
#E#G#G#
#...#G#
#######
`,
			power: 12, score: 6474,
		},
		{
			name: "open field swarm",
			grid: `
#########
#G......#
#.E.#...#
#..##..G#
#...##..#
#...#...#
#.G...G.#
#.....G.#
#########
`,
			power: 34, score: 1140,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.grid)
			res, err := MinPower(b, Options{Faction: game.Elf})
			if err != nil {
				t.Fatalf("MinPower: %v", err)
			}
			if res.Power != tc.power {
				t.Fatalf("power = %d, want %d", res.Power, tc.power)
			}
			if res.Outcome.Score != tc.score {
				t.Fatalf("score = %d, want %d", res.Outcome.Score, tc.score)
			}
			if res.Outcome.Winner != game.Elf {
				t.Fatalf("winner = %v, want elves", res.Outcome.Winner)
			}
		})
	}
}

func TestMinPowerLeavesInputUntouched(t *testing.T) {
	grid := `
#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######
`
	b := mustParse(t, grid)
	if _, err := MinPower(b, Options{Faction: game.Elf}); err != nil {
		t.Fatalf("MinPower: %v", err)
	}

	fresh := mustParse(t, grid)
	if b.Render() != fresh.Render() {
		t.Fatal("search mutated the input battle grid")
	}
	for c, u := range fresh.Units {
		got := b.Units[c]
		if got == nil || *got != *u {
			t.Fatalf("unit at %v changed: got %+v, want %+v", c, got, u)
		}
	}
}

func TestMinPowerExhausted(t *testing.T) {
	b := mustParse(t, `
#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######
`)

	_, err := MinPower(b, Options{Faction: game.Elf, MaxPower: 10})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
}

func TestMinPowerParallelMatchesSequential(t *testing.T) {
	grid := `
#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######
`
	seq, err := MinPower(mustParse(t, grid), Options{Faction: game.Elf})
	if err != nil {
		t.Fatalf("MinPower: %v", err)
	}
	par, err := MinPowerParallel(mustParse(t, grid), Options{Faction: game.Elf}, 4)
	if err != nil {
		t.Fatalf("MinPowerParallel: %v", err)
	}
	if seq != par {
		t.Fatalf("parallel result %+v differs from sequential %+v", par, seq)
	}
}

func TestMinPowerParallelExhausted(t *testing.T) {
	b := mustParse(t, `
#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######
`)

	_, err := MinPowerParallel(b, Options{Faction: game.Elf, MaxPower: 10}, 4)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
}
