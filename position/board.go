// Package position implements the chessboard state (spec.md §3-§4.6): the
// Board type, its Zobrist-consistent copy-make move application, and the
// query operations the move generator and search depend on.
package position

import (
	"github.com/tlindqvist/corvid/attacks"
	"github.com/tlindqvist/corvid/bitutil"
	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/zobrist"
)

// Board is a chess position. Pieces are tracked per color as one bitboard
// per piece kind (Pawn..Queen); the king is tracked by square instead,
// since there is always exactly one (spec.md §3, resolving the "canonical
// piece order" open question as Pawn=0..Queen=4, King by square).
type Board struct {
	Pieces         [2][6]uint64
	KingSquare     [2]int
	SideToMove     enum.Color
	CastlingRights enum.CastlingRights
	EPTarget       int // enum.NoSquare if not set
	HalfmoveClock  int
	FullmoveNumber int
	Ply            int
	Hash           uint64
}

// Occupancy returns the union of every bitboard belonging to color.
func (b *Board) Occupancy(c enum.Color) uint64 {
	var occ uint64
	for p := range 6 {
		occ |= b.Pieces[c][p]
	}
	occ |= bitutil.SquareBB(b.KingSquare[c])
	return occ
}

// Occupied returns every occupied square on the board.
func (b *Board) Occupied() uint64 { return b.Occupancy(enum.White) | b.Occupancy(enum.Black) }

// PieceOn returns the piece kind and color occupying sq, or (enum.None, _)
// if the square is empty.
func (b *Board) PieceOn(sq int) (enum.Piece, enum.Color) {
	bb := bitutil.SquareBB(sq)
	for c := range 2 {
		if b.KingSquare[c] == sq {
			return enum.King, enum.Color(c)
		}
		for p := range 6 {
			if b.Pieces[c][p]&bb != 0 {
				return enum.Piece(p), enum.Color(c)
			}
		}
	}
	return enum.None, enum.White
}

// SquareAttackedBy reports whether any piece of color c attacks sq.
func (b *Board) SquareAttackedBy(sq int, c enum.Color) bool {
	occ := b.Occupied()

	if attacks.PawnAttacks(int(c.Other()), sq)&b.Pieces[c][enum.Pawn] != 0 {
		return true
	}
	if attacks.KnightAttacks(sq)&b.Pieces[c][enum.Knight] != 0 {
		return true
	}
	if attacks.KingAttacks(sq)&bitutil.SquareBB(b.KingSquare[c]) != 0 {
		return true
	}
	bishopsQueens := b.Pieces[c][enum.Bishop] | b.Pieces[c][enum.Queen]
	if attacks.BishopAttacks(sq, occ)&bishopsQueens != 0 {
		return true
	}
	rooksQueens := b.Pieces[c][enum.Rook] | b.Pieces[c][enum.Queen]
	if attacks.RookAttacks(sq, occ)&rooksQueens != 0 {
		return true
	}
	return false
}

// KingAttacked reports whether color c's king is currently in check.
func (b *Board) KingAttacked(c enum.Color) bool {
	return b.SquareAttackedBy(b.KingSquare[c], c.Other())
}

func (b *Board) placePiece(c enum.Color, p enum.Piece, sq int) {
	b.Pieces[c][p] |= bitutil.SquareBB(sq)
	b.Hash ^= zobrist.PieceSquare[c][p][sq]
}

func (b *Board) removePiece(c enum.Color, p enum.Piece, sq int) {
	b.Pieces[c][p] &^= bitutil.SquareBB(sq)
	b.Hash ^= zobrist.PieceSquare[c][p][sq]
}

// RecomputeHash rebuilds Hash from scratch, per spec.md §3's invariant and
// §9's requirement that a from-scratch recomputation remain available for
// tests and post-FEN-parse initialization.
func (b *Board) RecomputeHash() {
	var h uint64
	for c := range 2 {
		for p := range 6 {
			bb := b.Pieces[c][p]
			for bb != 0 {
				sq := bitutil.PopLSB(&bb)
				h ^= zobrist.PieceSquare[c][p][sq]
			}
		}
		h ^= zobrist.PieceSquare[c][enum.King][b.KingSquare[c]]
	}
	h ^= zobrist.Castling[b.CastlingRights]
	if b.EPTarget != enum.NoSquare {
		h ^= zobrist.EnPassant[bitutil.File(b.EPTarget)]
	}
	if b.SideToMove == enum.Black {
		h ^= zobrist.SideToMove
	}
	h ^= zobrist.FiftyMoveKey(b.HalfmoveClock)
	b.Hash = h
}

// RepeatableHash returns the part of Hash that identifies "the same
// position" for threefold-repetition purposes: the running hash with the
// en-passant and 50-move-tail components removed, per spec.md §3's Move
// list / Repetition history note (two positions differing only in
// halfmove clock or an unexercisable en-passant right are the same
// position for repetition).
func (b *Board) RepeatableHash() uint64 {
	h := b.Hash
	if b.EPTarget != enum.NoSquare {
		h ^= zobrist.EnPassant[bitutil.File(b.EPTarget)]
	}
	h ^= zobrist.FiftyMoveKey(b.HalfmoveClock)
	return h
}

// MakeMove applies m to a copy of b and returns the resulting position.
// There is no undo (copy-make, per spec.md §4.5/§9): the caller keeps the
// parent Board around if it needs to step back.
//
// It is the caller's responsibility to ensure m is at least pseudo-legal
// for b; MakeMove does not validate it.
func (b Board) MakeMove(m Move) Board {
	us := b.SideToMove
	them := us.Other()
	from, to := int(m.From), int(m.To)

	movedPiece, _ := b.PieceOn(from)

	oldCastling := b.CastlingRights
	oldEP := b.EPTarget
	oldClock := b.HalfmoveClock

	// 1. Remove the mover from its origin square.
	if movedPiece == enum.King {
		b.KingSquare[us] = -1 // placeholder cleared below by placement
		b.Hash ^= zobrist.PieceSquare[us][enum.King][from]
	} else {
		b.removePiece(us, movedPiece, from)
	}

	b.HalfmoveClock++

	// 2. Captures (en passant captures a square other than `to`).
	isEnPassant := movedPiece == enum.Pawn && m.IsCapture() && to == oldEP
	if isEnPassant {
		capSq := to - 8
		if us == enum.Black {
			capSq = to + 8
		}
		b.removePiece(them, enum.Pawn, capSq)
		b.HalfmoveClock = 0
	} else if m.IsCapture() {
		capturedPiece, _ := b.PieceOn(to)
		if capturedPiece == enum.Rook {
			b.clearRookCastling(them, to)
		}
		b.removePiece(them, capturedPiece, to)
		b.HalfmoveClock = 0
	}

	// 3. Place the arriving piece (m.Piece is the promoted-to kind for
	// promotions, the moved kind otherwise).
	if movedPiece == enum.King {
		b.KingSquare[us] = to
		b.Hash ^= zobrist.PieceSquare[us][enum.King][to]
	} else {
		b.placePiece(us, m.Piece, to)
	}

	// 4. Castling: relocate the rook.
	isCastle := movedPiece == enum.King && abs(to-from) == 2
	if isCastle {
		switch to {
		case enum.G1:
			b.removePiece(enum.White, enum.Rook, enum.H1)
			b.placePiece(enum.White, enum.Rook, enum.F1)
		case enum.C1:
			b.removePiece(enum.White, enum.Rook, enum.A1)
			b.placePiece(enum.White, enum.Rook, enum.D1)
		case enum.G8:
			b.removePiece(enum.Black, enum.Rook, enum.H8)
			b.placePiece(enum.Black, enum.Rook, enum.F8)
		case enum.C8:
			b.removePiece(enum.Black, enum.Rook, enum.A8)
			b.placePiece(enum.Black, enum.Rook, enum.D8)
		}
	}

	// 5. En-passant target for the new position.
	b.EPTarget = enum.NoSquare
	if movedPiece == enum.Pawn {
		b.HalfmoveClock = 0
		if to-from == 16 || from-to == 16 {
			candidate := (from + to) / 2
			if b.pawnAttacksTarget(candidate, them) {
				b.EPTarget = candidate
			}
		}
	}

	// 6. Castling-rights updates.
	switch movedPiece {
	case enum.King:
		if us == enum.White {
			b.CastlingRights &^= enum.CastleWhiteShort | enum.CastleWhiteLong
		} else {
			b.CastlingRights &^= enum.CastleBlackShort | enum.CastleBlackLong
		}
	case enum.Rook:
		b.clearRookCastling(us, from)
	}

	if b.SideToMove == enum.Black {
		b.FullmoveNumber++
	}
	b.SideToMove = them
	b.Ply++

	if b.CastlingRights != oldCastling {
		b.Hash ^= zobrist.Castling[oldCastling] ^ zobrist.Castling[b.CastlingRights]
	}
	if oldEP != enum.NoSquare {
		b.Hash ^= zobrist.EnPassant[bitutil.File(oldEP)]
	}
	if b.EPTarget != enum.NoSquare {
		b.Hash ^= zobrist.EnPassant[bitutil.File(b.EPTarget)]
	}
	b.Hash ^= zobrist.SideToMove
	b.Hash ^= zobrist.FiftyMoveKey(oldClock) ^ zobrist.FiftyMoveKey(b.HalfmoveClock)

	return b
}

func (b *Board) pawnAttacksTarget(sq int, attackerColor enum.Color) bool {
	return attacks.PawnAttacks(int(attackerColor.Other()), sq)&b.Pieces[attackerColor][enum.Pawn] != 0
}

func (b *Board) clearRookCastling(c enum.Color, sq int) {
	switch {
	case c == enum.White && sq == enum.A1:
		b.CastlingRights &^= enum.CastleWhiteLong
	case c == enum.White && sq == enum.H1:
		b.CastlingRights &^= enum.CastleWhiteShort
	case c == enum.Black && sq == enum.A8:
		b.CastlingRights &^= enum.CastleBlackLong
	case c == enum.Black && sq == enum.H8:
		b.CastlingRights &^= enum.CastleBlackShort
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
