// Package zobrist implements the key schedule used to maintain a running
// 64-bit hash of a position incrementally. See spec.md §4.3.
package zobrist

import "math/rand/v2"

// fiftyMoveTailLen is the number of trailing halfmove-clock values folded
// into the hash (spec.md §4.3: "a 50-move-tail table ... for the last K
// halfmove-clock values (K>=20)"). The window is the fiftyMoveTailLen clock
// values just below fiftyMoveDrawClock; clock values below the window all
// hash the same, which is fine: positions that are nowhere near the 50-move
// draw don't need to be distinguished by clock value in the transposition
// table.
const fiftyMoveTailLen = 24

// fiftyMoveDrawClock is the halfmove-clock value at which the 50-move draw
// applies.
const fiftyMoveDrawClock = 100

var (
	// PieceSquare[color][piece][square].
	PieceSquare [2][6][64]uint64
	EnPassant   [8]uint64 // indexed by file, not square
	NoEnPassant uint64
	Castling    [16]uint64
	SideToMove  uint64
	// FiftyMoveTail[halfmoveClock-(fiftyMoveDrawClock-fiftyMoveTailLen)],
	// clamped to the table's bounds.
	FiftyMoveTail [fiftyMoveTailLen]uint64
)

// Init populates every key table from a fixed seed, so hashes are
// reproducible across runs of the same binary (required for perft/test
// determinism; a production engine would want a non-deterministic seed,
// but test reproducibility wins here).
func Init() {
	rng := rand.New(rand.NewPCG(0x5be1b8a6c6a4f2c3, 0x9e3779b97f4a7c15))

	for c := range 2 {
		for p := range 6 {
			for sq := range 64 {
				PieceSquare[c][p][sq] = rng.Uint64()
			}
		}
	}
	for f := range 8 {
		EnPassant[f] = rng.Uint64()
	}
	NoEnPassant = 0
	for i := range 16 {
		Castling[i] = rng.Uint64()
	}
	SideToMove = rng.Uint64()
	for i := range fiftyMoveTailLen {
		FiftyMoveTail[i] = rng.Uint64()
	}
}

// FiftyMoveKey returns the hash contribution for a given halfmove-clock
// value: each clock value in the tail window gets its own key, every value
// below the window shares the first key, and every value past it (the draw
// threshold and beyond) shares the last.
func FiftyMoveKey(halfmoveClock int) uint64 {
	i := halfmoveClock - (fiftyMoveDrawClock - fiftyMoveTailLen)
	if i < 0 {
		i = 0
	}
	if i >= fiftyMoveTailLen {
		i = fiftyMoveTailLen - 1
	}
	return FiftyMoveTail[i]
}
