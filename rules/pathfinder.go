package rules

import (
	"container/heap"
	"fmt"

	"github.com/mrail/skirmish/game"
)

// link records the best known predecessor of a cell: how many steps the
// predecessor is from the source, and where it sits. Links order by step
// count first and reading order second, which is what makes path tie-breaks
// deterministic.
type link struct {
	steps int32
	coord game.Coordinate
}

func (l link) less(other link) bool {
	if l.steps != other.steps {
		return l.steps < other.steps
	}
	return l.coord.Before(other.coord)
}

type linkQueue []link

func (q linkQueue) Len() int           { return len(q) }
func (q linkQueue) Less(i, j int) bool { return q[i].less(q[j]) }
func (q linkQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *linkQueue) Push(x any)        { *q = append(*q, x.(link)) }
func (q *linkQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// PathFinder holds shortest-path links from a single source across the open,
// unoccupied cells of a battle. All distances share one expansion, so a unit
// builds one PathFinder per turn and queries it for every candidate cell.
//
// When two paths to a cell tie on length, the one whose predecessor comes
// first in reading order wins. Walking the links back to the source then
// yields the first step the unit should take.
type PathFinder struct {
	source game.Coordinate
	links  map[game.Coordinate]link
}

// NewPathFinder expands shortest paths outward from source. Cells holding a
// unit block expansion; the source itself is treated as open so a unit never
// blocks its own search.
func NewPathFinder(source game.Coordinate, b *game.Battle) *PathFinder {
	pf := &PathFinder{
		source: source,
		links:  make(map[game.Coordinate]link),
	}

	queue := &linkQueue{{steps: 0, coord: source}}
	for queue.Len() > 0 {
		cur := heap.Pop(queue).(link)
		for _, next := range b.Arena.Adjacent(cur.coord) {
			if next == source {
				continue
			}
			if _, occupied := b.Units[next]; occupied {
				continue
			}
			if existing, seen := pf.links[next]; seen && !cur.less(existing) {
				continue
			}
			pf.links[next] = cur
			heap.Push(queue, link{steps: cur.steps + 1, coord: next})
		}
	}

	return pf
}

// Reachable reports whether c can be walked to from the source.
func (pf *PathFinder) Reachable(c game.Coordinate) bool {
	if c == pf.source {
		return true
	}
	_, ok := pf.links[c]
	return ok
}

// Steps returns the walking distance from the source to c.
func (pf *PathFinder) Steps(c game.Coordinate) int32 {
	if c == pf.source {
		return 0
	}
	l, ok := pf.links[c]
	if !ok {
		panic(fmt.Sprintf("rules: steps queried for unreachable cell %v", c))
	}
	return l.steps + 1
}

// FirstStepToward walks the predecessor links from dest back to the source
// and returns the first cell a unit at the source should move into.
func (pf *PathFinder) FirstStepToward(dest game.Coordinate) game.Coordinate {
	cur, ok := pf.links[dest]
	if !ok {
		panic(fmt.Sprintf("rules: first step queried for unreachable cell %v", dest))
	}
	at := dest
	for cur.steps > 0 {
		at = cur.coord
		cur = pf.links[at]
	}
	return at
}
