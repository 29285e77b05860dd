package game

import (
	"fmt"
	"sort"
	"strings"
)

// Defaults applied by Parse when no options are given.
const (
	DefaultHealth int32 = 200
	DefaultPower  int32 = 3
)

// ParseOptions control the stats assigned to units created during parsing.
type ParseOptions struct {
	InitialHealth int32
	BasePower     int32
}

// Parse builds a battle from a rendered grid using the default unit stats.
func Parse(input string) (*Battle, error) {
	return ParseWithOptions(input, ParseOptions{
		InitialHealth: DefaultHealth,
		BasePower:     DefaultPower,
	})
}

// ParseWithOptions builds a battle from a rendered grid. '#' is a wall, '.'
// is open ground, 'E' and 'G' are units standing on open ground. Unit IDs are
// assigned in reading order. Lines may be uneven; short lines are padded with
// walls so the arena stays fully enclosed.
func ParseWithOptions(input string, opts ParseOptions) (*Battle, error) {
	lines := gridLines(input)
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse battle: empty grid")
	}

	width := 0
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}

	arena := &Arena{
		Width:  int32(width),
		Height: int32(len(lines)),
		Cells:  make([]Cell, width*len(lines)),
	}
	units := make(map[Coordinate]*Unit)

	var nextID int32
	for row, line := range lines {
		for col := 0; col < width; col++ {
			c := Coordinate{Row: int32(row), Col: int32(col)}
			if col >= len(line) {
				arena.Cells[row*width+col] = Wall
				continue
			}
			switch line[col] {
			case '#':
				arena.Cells[row*width+col] = Wall
			case '.':
				arena.Cells[row*width+col] = Space
			case 'E', 'G':
				arena.Cells[row*width+col] = Space
				faction := Goblin
				if line[col] == 'E' {
					faction = Elf
				}
				units[c] = &Unit{
					ID:      nextID,
					Faction: faction,
					Health:  opts.InitialHealth,
					Power:   opts.BasePower,
				}
				nextID++
			default:
				return nil, fmt.Errorf("parse battle: unexpected character %q at row %d col %d", line[col], row, col)
			}
		}
	}

	// Adjacency lookups rely on a full wall border.
	for row := 0; row < len(lines); row++ {
		for col := 0; col < width; col++ {
			if row != 0 && row != len(lines)-1 && col != 0 && col != width-1 {
				continue
			}
			if arena.Cells[row*width+col] != Wall {
				return nil, fmt.Errorf("parse battle: arena is not enclosed at row %d col %d", row, col)
			}
		}
	}

	return &Battle{Arena: arena, Units: units}, nil
}

func gridLines(input string) []string {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimRight(line, " \r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Positions returns the coordinates of all living units in reading order.
func (b *Battle) Positions() []Coordinate {
	out := make([]Coordinate, 0, len(b.Units))
	for c := range b.Units {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Healths returns the health of all living units in reading order of their
// current positions.
func (b *Battle) Healths() []int32 {
	positions := b.Positions()
	out := make([]int32, len(positions))
	for i, c := range positions {
		out[i] = b.Units[c].Health
	}
	return out
}
