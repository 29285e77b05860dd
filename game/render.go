package game

import (
	"fmt"
	"strings"
)

// Render draws the battle as a grid. Output round-trips through Parse except
// for unit stats.
func (b *Battle) Render() string {
	var sb strings.Builder
	for row := int32(0); row < b.Arena.Height; row++ {
		for col := int32(0); col < b.Arena.Width; col++ {
			c := Coordinate{Row: row, Col: col}
			if u, ok := b.Units[c]; ok {
				sb.WriteByte(u.Faction.Symbol())
				continue
			}
			if b.Arena.At(c) == Wall {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderWithHealth draws the grid with each row annotated by the units on it,
// in the style used by the debugging CLI and the watch TUI.
func (b *Battle) RenderWithHealth() string {
	var sb strings.Builder
	for row := int32(0); row < b.Arena.Height; row++ {
		var annotations []string
		for col := int32(0); col < b.Arena.Width; col++ {
			c := Coordinate{Row: row, Col: col}
			if u, ok := b.Units[c]; ok {
				sb.WriteByte(u.Faction.Symbol())
				annotations = append(annotations, fmt.Sprintf("%c(%d)", u.Faction.Symbol(), u.Health))
				continue
			}
			if b.Arena.At(c) == Wall {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if len(annotations) > 0 {
			sb.WriteString("   ")
			sb.WriteString(strings.Join(annotations, ", "))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
