// Package movegen generates pseudo-legal and legal moves for a position.
// See spec.md §4.4.
package movegen

import (
	"github.com/tlindqvist/corvid/attacks"
	"github.com/tlindqvist/corvid/bitutil"
	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/position"
)

// Mode selects which subset of pseudo-legal moves to produce: Normal for
// the full legal-move search at interior nodes, Quiescent for the
// captures/promotions-only set quiescence search walks.
type Mode int

const (
	Normal Mode = iota
	Quiescent
)

var promotionPieces = [4]enum.Piece{enum.Queen, enum.Rook, enum.Bishop, enum.Knight}

// Pseudo fills list with every pseudo-legal move for the side to move in
// b, per mode. Pseudo-legal moves may leave the mover's own king in check;
// Legal filters those out.
func Pseudo(b *position.Board, mode Mode, list *position.MoveList) {
	us := b.SideToMove
	them := us.Other()
	own := b.Occupancy(us)
	occ := own | b.Occupancy(them)
	enemy := b.Occupancy(them)

	genPawnMoves(b, us, occ, enemy, mode, list)
	genKnightMoves(b, us, own, enemy, mode, list)
	genSliderMoves(b, enum.Bishop, us, occ, own, enemy, mode, list)
	genSliderMoves(b, enum.Rook, us, occ, own, enemy, mode, list)
	genSliderMoves(b, enum.Queen, us, occ, own, enemy, mode, list)
	genKingMoves(b, us, own, enemy, mode, list)
	if mode == Normal {
		genCastling(b, us, occ, list)
	}
}

// Legal fills list with every legal move for the side to move in b: every
// pseudo-legal move that, once made, leaves the mover's own king safe.
func Legal(b *position.Board, mode Mode, list *position.MoveList) {
	var pseudo position.MoveList
	Pseudo(b, mode, &pseudo)

	us := b.SideToMove
	for _, m := range pseudo.Slice() {
		next := b.MakeMove(m)
		if !next.KingAttacked(us) {
			list.Push(m)
		}
	}
}

// HasLegalMove reports whether the side to move has at least one legal
// move, without materializing the full list (used for mate/stalemate
// detection, which only needs existence).
func HasLegalMove(b *position.Board) bool {
	var pseudo position.MoveList
	Pseudo(b, Normal, &pseudo)
	us := b.SideToMove
	for _, m := range pseudo.Slice() {
		next := b.MakeMove(m)
		if !next.KingAttacked(us) {
			return true
		}
	}
	return false
}

func genPawnMoves(b *position.Board, us enum.Color, occ, enemy uint64, mode Mode, list *position.MoveList) {
	pawns := b.Pieces[us][enum.Pawn]
	forward := 8
	startRank := bitutil.Rank2
	promoRank := bitutil.Rank8
	if us == enum.Black {
		forward = -8
		startRank = bitutil.Rank7
		promoRank = bitutil.Rank1
	}

	bb := pawns
	for bb != 0 {
		from := bitutil.PopLSB(&bb)
		fromBB := bitutil.SquareBB(from)
		to := from + forward

		if to >= 0 && to < 64 && occ&bitutil.SquareBB(to) == 0 {
			if bitutil.SquareBB(to)&promoRank != 0 {
				for _, promo := range promotionPieces {
					if mode == Quiescent && promo != enum.Queen {
						continue
					}
					list.Push(position.NewPromotion(from, to, promo, false))
				}
			} else {
				if mode == Normal {
					list.Push(position.NewMove(from, to, enum.Pawn, false))
				}
				if fromBB&startRank != 0 {
					to2 := to + forward
					if occ&bitutil.SquareBB(to2) == 0 && mode == Normal {
						list.Push(position.NewMove(from, to2, enum.Pawn, false))
					}
				}
			}
		}

		captures := attacks.PawnAttacks(int(us), from)
		targets := captures & enemy
		for targets != 0 {
			capTo := bitutil.PopLSB(&targets)
			if bitutil.SquareBB(capTo)&promoRank != 0 {
				for _, promo := range promotionPieces {
					if mode == Quiescent && promo != enum.Queen {
						continue
					}
					list.Push(position.NewPromotion(from, capTo, promo, true))
				}
			} else {
				list.Push(position.NewMove(from, capTo, enum.Pawn, true))
			}
		}

		if b.EPTarget != enum.NoSquare && captures&bitutil.SquareBB(b.EPTarget) != 0 {
			list.Push(position.NewMove(from, b.EPTarget, enum.Pawn, true))
		}
	}
}

func genKnightMoves(b *position.Board, us enum.Color, own, enemy uint64, mode Mode, list *position.MoveList) {
	bb := b.Pieces[us][enum.Knight]
	for bb != 0 {
		from := bitutil.PopLSB(&bb)
		targets := attacks.KnightAttacks(from) &^ own
		pushTargets(from, enum.Knight, targets, enemy, mode, list)
	}
}

func genKingMoves(b *position.Board, us enum.Color, own, enemy uint64, mode Mode, list *position.MoveList) {
	from := b.KingSquare[us]
	targets := attacks.KingAttacks(from) &^ own
	pushTargets(from, enum.King, targets, enemy, mode, list)
}

func genSliderMoves(b *position.Board, piece enum.Piece, us enum.Color, occ, own, enemy uint64, mode Mode, list *position.MoveList) {
	bb := b.Pieces[us][piece]
	for bb != 0 {
		from := bitutil.PopLSB(&bb)
		var targets uint64
		switch piece {
		case enum.Bishop:
			targets = attacks.BishopAttacks(from, occ)
		case enum.Rook:
			targets = attacks.RookAttacks(from, occ)
		case enum.Queen:
			targets = attacks.QueenAttacks(from, occ)
		}
		targets &^= own
		pushTargets(from, piece, targets, enemy, mode, list)
	}
}

func pushTargets(from int, piece enum.Piece, targets, enemy uint64, mode Mode, list *position.MoveList) {
	for targets != 0 {
		to := bitutil.PopLSB(&targets)
		isCapture := bitutil.SquareBB(to)&enemy != 0
		if mode == Quiescent && !isCapture {
			continue
		}
		list.Push(position.NewMove(from, to, piece, isCapture))
	}
}

// genCastling appends the (at most two) pseudo-legal castling moves for the
// side to move: the squares between king and rook must be empty, and the
// squares the king starts on, crosses, and lands on must not be attacked.
// The rook's own presence/rights are tracked via CastlingRights rather than
// re-derived from the board, matching spec.md's castling-rights data model.
func genCastling(b *position.Board, us enum.Color, occ uint64, list *position.MoveList) {
	from := b.KingSquare[us]

	var short, long enum.CastlingRights
	var shortSide, longSide int
	var kingTo [2]int
	if us == enum.White {
		short, long = enum.CastleWhiteShort, enum.CastleWhiteLong
		shortSide, longSide = 0, 1
		kingTo = [2]int{enum.G1, enum.C1}
	} else {
		short, long = enum.CastleBlackShort, enum.CastleBlackLong
		shortSide, longSide = 2, 3
		kingTo = [2]int{enum.G8, enum.C8}
	}

	if b.CastlingRights&short != 0 && occ&attacks.CastlingPath(shortSide) == 0 && pathSafe(b, us, shortSide) {
		list.Push(position.NewMove(from, kingTo[0], enum.King, false))
	}
	if b.CastlingRights&long != 0 && occ&attacks.CastlingPath(longSide) == 0 && pathSafe(b, us, longSide) {
		list.Push(position.NewMove(from, kingTo[1], enum.King, false))
	}
}

func pathSafe(b *position.Board, us enum.Color, side int) bool {
	them := us.Other()
	path := attacks.CastlingAttackPath(side)
	for path != 0 {
		sq := bitutil.PopLSB(&path)
		if b.SquareAttackedBy(sq, them) {
			return false
		}
	}
	return true
}
