// Package game defines the core battle state types for the combat simulator.
//
// These types represent the minimal state needed for turn resolution: a fixed
// arena of walls and open cells, and the units placed on it. The state is
// designed to be efficiently clonable so power-search drivers can rerun the
// same battle under different parameters.
package game

import "fmt"

// Coordinate is a grid position. Row 0 is the top of the arena and rows grow
// downward, so ordering by (Row, Col) matches the order cells appear when the
// grid is read line by line.
type Coordinate struct {
	Row int32
	Col int32
}

// Before reports whether c is read before other, row first then column.
func (c Coordinate) Before(other Coordinate) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Col < other.Col
}

func (c Coordinate) Up() Coordinate    { return Coordinate{Row: c.Row - 1, Col: c.Col} }
func (c Coordinate) Down() Coordinate  { return Coordinate{Row: c.Row + 1, Col: c.Col} }
func (c Coordinate) Left() Coordinate  { return Coordinate{Row: c.Row, Col: c.Col - 1} }
func (c Coordinate) Right() Coordinate { return Coordinate{Row: c.Row, Col: c.Col + 1} }

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Cell is the terrain of a single arena position.
type Cell uint8

const (
	Space Cell = iota
	Wall
)

// Faction identifies which side a unit fights for.
type Faction uint8

const (
	Elf Faction = iota
	Goblin
)

// Opposes reports whether the two factions fight each other.
func (f Faction) Opposes(other Faction) bool {
	return f != other
}

// Symbol returns the single byte used for the faction in grid renderings.
func (f Faction) Symbol() byte {
	if f == Elf {
		return 'E'
	}
	return 'G'
}

func (f Faction) String() string {
	if f == Elf {
		return "elf"
	}
	return "goblin"
}

// Unit is a single combatant. ID is stable across the whole battle and is
// assigned in the reading order of the starting grid.
type Unit struct {
	ID      int32
	Faction Faction
	Health  int32
	Power   int32
}

// Arena is the immutable terrain of a battle. Every parsed arena is fully
// enclosed by walls, so neighbor lookups never need bounds checks.
type Arena struct {
	Width  int32
	Height int32
	Cells  []Cell
}

// At returns the terrain at c.
func (a *Arena) At(c Coordinate) Cell {
	return a.Cells[c.Row*a.Width+c.Col]
}

// Adjacent returns the open cells orthogonally adjacent to c. The arena's
// wall border guarantees every neighbor index is in range; asking about a
// border cell itself is a caller bug.
func (a *Arena) Adjacent(c Coordinate) []Coordinate {
	if c.Row <= 0 || c.Row >= a.Height-1 || c.Col <= 0 || c.Col >= a.Width-1 {
		panic(fmt.Sprintf("game: adjacency query on border cell %v", c))
	}
	out := make([]Coordinate, 0, 4)
	for _, n := range [4]Coordinate{c.Up(), c.Down(), c.Left(), c.Right()} {
		if a.At(n) == Space {
			out = append(out, n)
		}
	}
	return out
}

// Battle is the complete mutable state of one fight: the shared arena plus
// the living units keyed by position. Rounds counts fully completed rounds.
type Battle struct {
	Arena  *Arena
	Units  map[Coordinate]*Unit
	Rounds int32
}

// Clone performs a deep copy of the battle. The arena is shared since it
// never changes after parsing.
func (b *Battle) Clone() *Battle {
	if b == nil {
		return nil
	}

	out := &Battle{
		Arena:  b.Arena,
		Units:  make(map[Coordinate]*Unit, len(b.Units)),
		Rounds: b.Rounds,
	}
	for c, u := range b.Units {
		cp := *u
		out.Units[c] = &cp
	}
	return out
}

// Count returns how many living units belong to f.
func (b *Battle) Count(f Faction) int {
	n := 0
	for _, u := range b.Units {
		if u.Faction == f {
			n++
		}
	}
	return n
}

// FactionsRemaining returns how many distinct factions still have units.
func (b *Battle) FactionsRemaining() int {
	seen := [2]bool{}
	n := 0
	for _, u := range b.Units {
		if !seen[u.Faction] {
			seen[u.Faction] = true
			n++
		}
	}
	return n
}

// HealthSum returns the total health of all living units.
func (b *Battle) HealthSum() int32 {
	return Sum(b.Healths())
}

// SetPower overrides the attack power of every unit in f.
func (b *Battle) SetPower(f Faction, power int32) {
	for _, u := range b.Units {
		if u.Faction == f {
			u.Power = power
		}
	}
}
