// Package rules implements deterministic turn resolution for battles. All
// transitions are pure functions of the battle state, so the same starting
// grid always replays to the same outcome.
package rules

import (
	"fmt"
	"sort"

	"github.com/mrail/skirmish/game"
)

// Outcome summarizes a finished battle.
type Outcome struct {
	Winner    game.Faction
	Rounds    int32
	HealthSum int32
	Score     int32
}

// Tick plays one round: every unit alive at the start of the round takes a
// turn in reading order of its starting position. It returns false once the
// battle is over, which happens on the first turn that begins with a single
// faction left. A round cut short that way does not count toward the score.
func Tick(b *game.Battle) bool {
	if b.FactionsRemaining() <= 1 {
		return false
	}

	type turn struct {
		id    int32
		coord game.Coordinate
	}

	// Snapshot turn order up front. Units act by identity, not position, so
	// a unit pushed around mid-round keeps its original slot and a unit that
	// dies mid-round forfeits the rest of its turn.
	order := make([]turn, 0, len(b.Units))
	for c, u := range b.Units {
		order = append(order, turn{id: u.ID, coord: c})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].coord.Before(order[j].coord) })

	for _, tn := range order {
		pos, alive := locate(b, tn.id)
		if !alive {
			continue
		}
		if b.FactionsRemaining() <= 1 {
			return false
		}

		action := Decide(pos, b)
		switch action.Kind {
		case Stay:
		case Move:
			moveUnit(b, pos, action.Dest)
		case Attack:
			resolveAttack(b, pos, action.Target)
		case MoveAndAttack:
			moveUnit(b, pos, action.Dest)
			resolveAttack(b, action.Dest, action.Target)
		}
	}

	b.Rounds++
	return true
}

// Run plays rounds until one faction remains. onRound, when non-nil, is
// called after every completed round, which is how recording and the watch
// TUI observe intermediate states.
func Run(b *game.Battle, onRound func(*game.Battle)) Outcome {
	for Tick(b) {
		if onRound != nil {
			onRound(b)
		}
	}

	var winner game.Faction
	for _, u := range b.Units {
		winner = u.Faction
		break
	}
	healthSum := b.HealthSum()
	return Outcome{
		Winner:    winner,
		Rounds:    b.Rounds,
		HealthSum: healthSum,
		Score:     b.Rounds * healthSum,
	}
}

func locate(b *game.Battle, id int32) (game.Coordinate, bool) {
	for c, u := range b.Units {
		if u.ID == id {
			return c, true
		}
	}
	return game.Coordinate{}, false
}

func moveUnit(b *game.Battle, from, to game.Coordinate) {
	u, ok := b.Units[from]
	if !ok {
		panic(fmt.Sprintf("rules: move from empty cell %v", from))
	}
	if _, taken := b.Units[to]; taken {
		panic(fmt.Sprintf("rules: move into occupied cell %v", to))
	}
	delete(b.Units, from)
	b.Units[to] = u
}

func resolveAttack(b *game.Battle, attacker, defender game.Coordinate) {
	if ApplyAttack(attacker, defender, b) {
		delete(b.Units, defender)
	}
}
