package game

import "golang.org/x/exp/constraints"

// Sum adds up a slice of any integer type.
func Sum[T constraints.Integer](xs []T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}
