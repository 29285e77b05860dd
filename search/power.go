// Package search finds the smallest attack power a faction needs to win a
// battle without losing a single unit. Every candidate power replays the
// battle from scratch on its own clone, so runs never contaminate each other.
package search

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/mrail/skirmish/game"
	"github.com/mrail/skirmish/rules"
)

// ErrExhausted is returned when no power up to the ceiling produces a
// lossless win.
var ErrExhausted = errors.New("search: power ceiling reached without a lossless win")

// Options bound a power search. Zero values fall back to the defaults.
type Options struct {
	// Faction is the side that must win without losses.
	Faction game.Faction
	// MinPower is the first power tried. Defaults to one above the parsed
	// base power, since the base power is already known to fail or there
	// would be nothing to search for.
	MinPower int32
	// MaxPower is the last power tried before giving up. Defaults to 200.
	MaxPower int32
}

const defaultMaxPower = 200

// Result is a successful power search: the winning power and the outcome of
// the battle fought at it.
type Result struct {
	Power   int32
	Outcome rules.Outcome
}

func (o Options) bounds(b *game.Battle) (int32, int32) {
	min, max := o.MinPower, o.MaxPower
	if min == 0 {
		min = basePower(b, o.Faction) + 1
	}
	if max == 0 {
		max = defaultMaxPower
	}
	return min, max
}

func basePower(b *game.Battle, f game.Faction) int32 {
	for _, u := range b.Units {
		if u.Faction == f {
			return u.Power
		}
	}
	return game.DefaultPower
}

// MinPower tries each power in ascending order and returns the first one at
// which the faction wins with zero losses. The input battle is never mutated.
func MinPower(b *game.Battle, opts Options) (Result, error) {
	min, max := opts.bounds(b)
	for power := min; power <= max; power++ {
		if out, ok := attempt(b, opts.Faction, power); ok {
			return Result{Power: power, Outcome: out}, nil
		}
	}
	return Result{}, fmt.Errorf("powers %d through %d: %w", min, max, ErrExhausted)
}

// MinPowerParallel fans the candidate powers out over a worker pool and
// returns the lowest winner. It still answers exactly what MinPower answers;
// it just burns more cores to get there.
func MinPowerParallel(b *game.Battle, opts Options, workers int) (Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	min, max := opts.bounds(b)
	powers := make(chan int32)
	results := make(chan Result, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for power := range powers {
				if out, ok := attempt(b, opts.Faction, power); ok {
					results <- Result{Power: power, Outcome: out}
				}
			}
		}()
	}

	go func() {
		for power := min; power <= max; power++ {
			powers <- power
		}
		close(powers)
		wg.Wait()
		close(results)
	}()

	best := Result{Power: -1}
	for r := range results {
		if best.Power < 0 || r.Power < best.Power {
			best = r
		}
	}
	if best.Power < 0 {
		return Result{}, fmt.Errorf("powers %d through %d: %w", min, max, ErrExhausted)
	}
	return best, nil
}

// attempt replays the battle with the faction boosted to power and reports
// whether it won without losing anyone.
func attempt(b *game.Battle, f game.Faction, power int32) (rules.Outcome, bool) {
	trial := b.Clone()
	trial.SetPower(f, power)
	before := trial.Count(f)

	out := rules.Run(trial, nil)
	if out.Winner != f || trial.Count(f) != before {
		return rules.Outcome{}, false
	}
	return out, true
}
