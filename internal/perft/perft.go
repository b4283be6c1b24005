// Package perft counts leaf nodes of the legal-move tree to a fixed depth,
// the standard move-generator correctness check. See spec.md §8.
package perft

import (
	"github.com/tlindqvist/corvid/movegen"
	"github.com/tlindqvist/corvid/position"
)

// Perft returns the number of leaf positions reachable from b in exactly
// depth legal plies.
func Perft(b *position.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var list position.MoveList
	movegen.Legal(b, movegen.Normal, &list)

	if depth == 1 {
		return uint64(list.Len)
	}

	var nodes uint64
	for _, m := range list.Slice() {
		next := b.MakeMove(m)
		nodes += Perft(&next, depth-1)
	}
	return nodes
}

// Divide runs Perft one ply deep for every legal root move, returning the
// per-move subtree counts keyed by move (map order is unspecified); used to localize a
// move-generator bug by diffing against a reference engine's divide output.
func Divide(b *position.Board, depth int) map[position.Move]uint64 {
	var list position.MoveList
	movegen.Legal(b, movegen.Normal, &list)

	results := make(map[position.Move]uint64, list.Len)
	for _, m := range list.Slice() {
		next := b.MakeMove(m)
		if depth <= 1 {
			results[m] = 1
		} else {
			results[m] = Perft(&next, depth-1)
		}
	}
	return results
}
