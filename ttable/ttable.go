// Package ttable implements the transposition table: a flat, open-addressed
// array of 12-byte entries replacing each other under a depth/staleness
// policy. See spec.md §4.8.
package ttable

import (
	"github.com/op/go-logging"

	"github.com/tlindqvist/corvid/position"
)

var log = logging.MustGetLogger("corvid.ttable")

// Bound classifies which side of the true score an entry's stored score
// represents, from the perspective of the node it was recorded at.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

const entrySize = 12

// entry is the packed 12-byte transposition record of spec.md §3: score,
// best move, a 32-bit partial-hash collision check, a generation byte, and
// a flags byte (5-bit depth, 1 occupied bit, 2 bound bits).
type entry struct {
	partialHash uint32
	score       int16
	bestMove    position.Move
	generation  uint8
	flags       uint8
}

const (
	depthMask      = 0x1F
	occupiedBit    = 1 << 5
	boundShift     = 6
	staleThreshold = 5
)

func (e *entry) occupied() bool { return e.flags&occupiedBit != 0 }
func (e *entry) depth() int     { return int(e.flags & depthMask) }
func (e *entry) bound() Bound   { return Bound(e.flags >> boundShift) }

func packFlags(depth int, bound Bound, occupied bool) uint8 {
	f := uint8(depth & depthMask)
	if occupied {
		f |= occupiedBit
	}
	f |= uint8(bound) << boundShift
	return f
}

// Table is a fixed-size, open-addressed (direct-mapped, one entry per
// bucket) transposition table indexed by hash modulo its slot count.
type Table struct {
	slots      []entry
	generation uint8
}

// New allocates a table sized to fit within mibs mebibytes.
func New(mibs int) *Table {
	if mibs < 1 {
		mibs = 1
	}
	count := (mibs * 1024 * 1024) / entrySize
	if count < 1 {
		count = 1
	}
	return &Table{slots: make([]entry, count)}
}

func (t *Table) index(hash uint64) uint64 { return hash % uint64(len(t.slots)) }

// Probe reports the stored entry for hash, if any, and whether it is a
// genuine hit (the 32-bit partial hash matches, guarding against index
// collisions).
type Probe struct {
	Score    int16
	BestMove position.Move
	Depth    int
	Bound    Bound
}

func (t *Table) Probe(hash uint64) (Probe, bool) {
	e := &t.slots[t.index(hash)]
	if !e.occupied() || e.partialHash != uint32(hash) {
		return Probe{}, false
	}
	return Probe{Score: e.score, BestMove: e.bestMove, Depth: e.depth(), Bound: e.bound()}, true
}

// Usable reports whether the probed entry can resolve the current node
// without further search, per spec.md §4.8's usability rule.
func Usable(p Probe, remainingDepth int, alpha, beta int16) bool {
	if p.Depth < remainingDepth {
		return false
	}
	switch p.Bound {
	case BoundExact:
		return true
	case BoundLower:
		return p.Score >= beta
	case BoundUpper:
		return p.Score <= alpha
	}
	return false
}

// Store writes an entry for hash, applying the replacement policy: replace
// an unoccupied slot, a shallower-or-equal stored depth, or a stale slot
// (generation lag beyond staleThreshold, computed as a wrapped 8-bit
// difference).
func (t *Table) Store(hash uint64, score int16, best position.Move, depth int, bound Bound) {
	idx := t.index(hash)
	e := &t.slots[idx]

	if e.occupied() {
		stale := uint8(t.generation-e.generation) > staleThreshold
		if !stale && depth < e.depth() {
			return
		}
	}

	e.score = score
	e.bestMove = best
	e.partialHash = uint32(hash)
	e.generation = t.generation
	e.flags = packFlags(depth, bound, true)
}

// StartNewSearch bumps the generation counter, marking every existing entry
// one epoch older (and, eventually, stale).
func (t *Table) StartNewSearch() {
	t.generation++
	log.Debugf("ttable: new search epoch=%d", t.generation)
}

// Clear resets every slot to unoccupied.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i] = entry{}
	}
}

// Fullness estimates the fraction of occupied slots, sampling only the
// first 10k entries (or the whole table if smaller) to keep the probe
// cheap enough to call from a status line.
func (t *Table) Fullness() float64 {
	n := len(t.slots)
	if n > 10000 {
		n = 10000
	}
	if n == 0 {
		return 0
	}
	occupied := 0
	for i := 0; i < n; i++ {
		if t.slots[i].occupied() {
			occupied++
		}
	}
	return float64(occupied) / float64(n)
}
