package rules

import (
	"fmt"

	"github.com/mrail/skirmish/game"
)

// ActionKind enumerates what a unit does with its turn.
type ActionKind uint8

const (
	// Stay means no opponent is reachable this turn.
	Stay ActionKind = iota
	// Move walks one step toward the chosen attack position.
	Move
	// Attack strikes an adjacent opponent without moving.
	Attack
	// MoveAndAttack walks one step and strikes from the new cell.
	MoveAndAttack
)

// Action is a unit's resolved decision for one turn. Dest is set for Move and
// MoveAndAttack; Target is set for Attack and MoveAndAttack.
type Action struct {
	Kind   ActionKind
	Dest   game.Coordinate
	Target game.Coordinate
}

// Decide works out the turn for the unit standing at pos. The decision
// follows fixed priorities: attack if already beside an opponent, otherwise
// walk toward the nearest cell beside one, breaking every tie in reading
// order. It never mutates the battle.
func Decide(pos game.Coordinate, b *game.Battle) Action {
	attacker, ok := b.Units[pos]
	if !ok {
		panic(fmt.Sprintf("rules: decide called for empty cell %v", pos))
	}

	// Cells worth standing in: every open or self-occupied cell adjacent to
	// an opponent.
	inRange := make(map[game.Coordinate]bool)
	for c, u := range b.Units {
		if !u.Faction.Opposes(attacker.Faction) {
			continue
		}
		for _, n := range b.Arena.Adjacent(c) {
			if _, occupied := b.Units[n]; occupied && n != pos {
				continue
			}
			inRange[n] = true
		}
	}

	if inRange[pos] {
		return Action{Kind: Attack, Target: chooseDefender(pos, attacker.Faction, b)}
	}

	pf := NewPathFinder(pos, b)
	var best game.Coordinate
	found := false
	for c := range inRange {
		if !pf.Reachable(c) {
			continue
		}
		if !found {
			best, found = c, true
			continue
		}
		if s, bs := pf.Steps(c), pf.Steps(best); s < bs || (s == bs && c.Before(best)) {
			best = c
		}
	}
	if !found {
		return Action{Kind: Stay}
	}

	step := pf.FirstStepToward(best)
	if inRange[step] {
		return Action{
			Kind:   MoveAndAttack,
			Dest:   step,
			Target: chooseDefender(step, attacker.Faction, b),
		}
	}
	return Action{Kind: Move, Dest: step}
}

// chooseDefender picks the opponent to strike from pos: lowest health first,
// reading order on ties.
func chooseDefender(pos game.Coordinate, attacker game.Faction, b *game.Battle) game.Coordinate {
	var best game.Coordinate
	var bestHealth int32
	found := false
	for _, n := range b.Arena.Adjacent(pos) {
		u, ok := b.Units[n]
		if !ok || !u.Faction.Opposes(attacker) {
			continue
		}
		if !found || u.Health < bestHealth || (u.Health == bestHealth && n.Before(best)) {
			best, bestHealth, found = n, u.Health, true
		}
	}
	if !found {
		panic(fmt.Sprintf("rules: no defender adjacent to %v", pos))
	}
	return best
}

// ApplyAttack resolves a strike by the unit at attacker against the unit at
// defender, flooring health at zero. It reports whether the defender died;
// dead units are the caller's to remove.
func ApplyAttack(attacker, defender game.Coordinate, b *game.Battle) bool {
	atk, ok := b.Units[attacker]
	if !ok {
		panic(fmt.Sprintf("rules: attack from empty cell %v", attacker))
	}
	def, ok := b.Units[defender]
	if !ok {
		panic(fmt.Sprintf("rules: attack against empty cell %v", defender))
	}
	if !atk.Faction.Opposes(def.Faction) {
		panic(fmt.Sprintf("rules: %v attacked own faction at %v", attacker, defender))
	}

	def.Health -= atk.Power
	if def.Health <= 0 {
		def.Health = 0
		return true
	}
	return false
}
