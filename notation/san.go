// Package notation implements Standard Algebraic Notation move formatting
// and Portable Game Notation game export, supplementing spec.md's wire
// interfaces with the human-readable notations engines conventionally
// support alongside UCI.
package notation

import (
	"strings"

	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/movegen"
	"github.com/tlindqvist/corvid/position"
)

var pieceLetter = [6]byte{0, 'N', 'B', 'R', 'Q', 'K'}

const files = "abcdefgh"

// FormatSAN encodes m, played from board (before the move is made), as a
// Standard Algebraic Notation string. legalMoves must be the full legal
// move list for board's side to move, used to resolve disambiguation.
func FormatSAN(board *position.Board, m position.Move, legalMoves []position.Move) string {
	from, to := int(m.From), int(m.To)
	movedPiece, _ := board.PieceOn(from)

	if movedPiece == enum.King && abs(to-from) == 2 {
		if to == enum.C1 || to == enum.C8 {
			return appendCheckSuffix(board, m, "O-O-O")
		}
		return appendCheckSuffix(board, m, "O-O")
	}

	var b strings.Builder
	b.Grow(7)

	if movedPiece != enum.Pawn {
		b.WriteByte(pieceLetter[movedPiece])
		if disambig := disambiguate(board, m, movedPiece, legalMoves); disambig != 0 {
			if disambig == 'F' || disambig == 'R' {
				// both file and rank needed
				b.WriteByte(files[from%8])
				b.WriteByte(byte('1' + from/8))
			} else {
				b.WriteByte(disambig)
			}
		}
	}

	if m.IsCapture() {
		if movedPiece == enum.Pawn {
			b.WriteByte(files[from%8])
		}
		b.WriteByte('x')
	}

	b.WriteString(enum.SquareString[to])

	if m.IsPromotion() {
		b.WriteByte('=')
		b.WriteByte(pieceLetter[m.Piece])
	}

	return appendCheckSuffix(board, m, b.String())
}

// appendCheckSuffix plays m and appends '+' or '#' if it gives check,
// '#' specifically if no legal reply exists.
func appendCheckSuffix(board *position.Board, m position.Move, san string) string {
	next := board.MakeMove(m)
	if !next.KingAttacked(next.SideToMove) {
		return san
	}
	if movegen.HasLegalMove(&next) {
		return san + "+"
	}
	return san + "#"
}

// disambiguate returns the extra file or rank letter needed to distinguish
// m from other legal moves of the same piece kind landing on the same
// square, or 0 if none is needed. It returns 'F' as a sentinel meaning
// "write both the file and rank of m.From" when neither alone suffices.
func disambiguate(board *position.Board, m position.Move, piece enum.Piece, legalMoves []position.Move) byte {
	from := int(m.From)
	conflictsOnFile, conflictsOnRank, any := false, false, false

	for _, other := range legalMoves {
		if other.From == m.From || other.To != m.To {
			continue
		}
		otherPiece, _ := board.PieceOn(int(other.From))
		if otherPiece != piece {
			continue
		}
		any = true
		if int(other.From)%8 == from%8 {
			conflictsOnFile = true
		}
		if int(other.From)/8 == from/8 {
			conflictsOnRank = true
		}
	}

	if !any {
		return 0
	}
	if !conflictsOnFile {
		return files[from%8]
	}
	if !conflictsOnRank {
		return byte('1' + from/8)
	}
	return 'F'
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
