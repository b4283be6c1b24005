// Package eval defines the Evaluator contract spec.md §4.13 requires of a
// static evaluation function, plus one concrete implementation. Only the
// interface is normative; Material's internal weights are not (spec.md §1).
package eval

import (
	"github.com/tlindqvist/corvid/bitutil"
	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/position"
)

// Max bounds the magnitude of any score an Evaluator may return, leaving
// headroom below the mate-score band search.MinMateScore guards.
const Max int16 = 4000

// Evaluator scores a position from the perspective of the side to move.
type Evaluator interface {
	Evaluate(b *position.Board) int16
}

// Material is a material + piece-square-table + pawn-structure evaluator,
// grounded on the zurichess-style evaluation in the corpus (evaluatePawns,
// evaluateSide): material and positional terms for each side, combined,
// then flipped to the side-to-move's perspective.
type Material struct{}

var pieceValue = [6]int16{100, 320, 330, 500, 900, 0}

// pst[piece][square] is a single (untapered) piece-square table, square
// indexed from White's perspective (a1=0); Black's terms mirror the square
// vertically.
var pst = [5][64]int16{
	// Pawn: discourage central pawns from staying put, reward advancement.
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	// Knight: penalize the rim.
	{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	// Bishop: favor long diagonals over corners.
	{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	// Rook: reward the 7th rank and open files.
	{
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	// Queen: mild central bonus.
	{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
}

const (
	doubledPawnPenalty  = 10
	isolatedPawnPenalty = 15
	bishopPairBonus     = 30
)

// Evaluate implements Evaluator.
func (Material) Evaluate(b *position.Board) int16 {
	white := sideScore(b, enum.White)
	black := sideScore(b, enum.Black)
	score := white - black
	if b.SideToMove == enum.Black {
		score = -score
	}
	if score > Max {
		score = Max
	}
	if score < -Max {
		score = -Max
	}
	return score
}

func sideScore(b *position.Board, c enum.Color) int16 {
	var score int16
	for p := range 5 {
		bb := b.Pieces[c][p]
		for bb != 0 {
			sq := bitutil.PopLSB(&bb)
			score += pieceValue[p]
			score += pstValue(enum.Piece(p), sq, c)
		}
	}
	score += pawnStructureScore(b, c)
	if bitutil.CountBits(b.Pieces[c][enum.Bishop]) >= 2 {
		score += bishopPairBonus
	}
	return score
}

func pstValue(piece enum.Piece, sq int, c enum.Color) int16 {
	if c == enum.Black {
		sq = flipSquare(sq)
	}
	return pst[piece][sq]
}

func flipSquare(sq int) int {
	rank := sq / 8
	file := sq % 8
	return (7-rank)*8 + file
}

// pawnStructureScore penalizes doubled and isolated pawns for color c.
func pawnStructureScore(b *position.Board, c enum.Color) int16 {
	pawns := b.Pieces[c][enum.Pawn]
	var fileCount [8]int
	bb := pawns
	for bb != 0 {
		sq := bitutil.PopLSB(&bb)
		fileCount[bitutil.File(sq)]++
	}

	var penalty int16
	for file := range 8 {
		if fileCount[file] > 1 {
			penalty += int16(fileCount[file]-1) * doubledPawnPenalty
		}
		if fileCount[file] > 0 {
			hasNeighbor := (file > 0 && fileCount[file-1] > 0) || (file < 7 && fileCount[file+1] > 0)
			if !hasNeighbor {
				penalty += isolatedPawnPenalty
			}
		}
	}
	return -penalty
}
