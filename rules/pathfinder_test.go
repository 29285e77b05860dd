package rules

import (
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

func TestPathFinderDistances(t *testing.T) {
	b := mustParse(t, `
#######
#.E...#
#.....#
#...G.#
#######
`)

	pf := NewPathFinder(game.Coordinate{Row: 1, Col: 2}, b)

	cases := []struct {
		coord game.Coordinate
		steps int32
	}{
		{game.Coordinate{Row: 1, Col: 2}, 0},
		{game.Coordinate{Row: 1, Col: 3}, 1},
		{game.Coordinate{Row: 2, Col: 2}, 1},
		{game.Coordinate{Row: 2, Col: 4}, 3},
		{game.Coordinate{Row: 3, Col: 3}, 3},
		{game.Coordinate{Row: 3, Col: 5}, 5},
	}
	for _, c := range cases {
		if !pf.Reachable(c.coord) {
			t.Fatalf("%v should be reachable", c.coord)
		}
		if got := pf.Steps(c.coord); got != c.steps {
			t.Fatalf("steps to %v = %d, want %d", c.coord, got, c.steps)
		}
	}
}

func TestPathFinderBlockedByUnitsAndWalls(t *testing.T) {
	b := mustParse(t, `
#######
#E#...#
#G#.#.#
#.#.#G#
#######
`)

	pf := NewPathFinder(game.Coordinate{Row: 1, Col: 1}, b)

	if !pf.Reachable(game.Coordinate{Row: 1, Col: 1}) {
		t.Fatal("source must always be reachable")
	}
	// The goblin below blocks the only corridor.
	if pf.Reachable(game.Coordinate{Row: 3, Col: 1}) {
		t.Fatal("cell behind a blocking unit should be unreachable")
	}
	if pf.Reachable(game.Coordinate{Row: 1, Col: 3}) {
		t.Fatal("cell behind a wall should be unreachable")
	}
}

func TestPathFinderFirstStepPrefersReadingOrder(t *testing.T) {
	// Both up-then-right and right-then-up reach (1,2) in two steps. The
	// path through (1,1) wins because its predecessor reads earlier.
	b := mustParse(t, `
####
#..#
#..#
####
`)

	pf := NewPathFinder(game.Coordinate{Row: 2, Col: 1}, b)
	if got := pf.FirstStepToward(game.Coordinate{Row: 1, Col: 2}); got != (game.Coordinate{Row: 1, Col: 1}) {
		t.Fatalf("first step = %v, want (1,1)", got)
	}
}

func TestPathFinderFirstStepAdjacentDest(t *testing.T) {
	b := mustParse(t, `
####
#..#
####
`)

	pf := NewPathFinder(game.Coordinate{Row: 1, Col: 1}, b)
	if got := pf.FirstStepToward(game.Coordinate{Row: 1, Col: 2}); got != (game.Coordinate{Row: 1, Col: 2}) {
		t.Fatalf("first step = %v, want the destination itself", got)
	}
}

func TestPathFinderPanicsOnUnreachableQueries(t *testing.T) {
	b := mustParse(t, `
#####
#.#.#
#####
`)

	pf := NewPathFinder(game.Coordinate{Row: 1, Col: 1}, b)
	unreachable := game.Coordinate{Row: 1, Col: 3}

	for name, query := range map[string]func(){
		"steps":     func() { pf.Steps(unreachable) },
		"firstStep": func() { pf.FirstStepToward(unreachable) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s should panic for unreachable cell", name)
				}
			}()
			query()
		}()
	}
}
