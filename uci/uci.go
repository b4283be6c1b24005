// Package uci implements the move <-> long-algebraic-notation conversions
// used by the Universal Chess Interface protocol. See spec.md §6.
package uci

import (
	"fmt"
	"strings"

	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/movegen"
	"github.com/tlindqvist/corvid/position"
)

var promoSymbol = map[enum.Piece]byte{
	enum.Knight: 'n',
	enum.Bishop: 'b',
	enum.Rook:   'r',
	enum.Queen:  'q',
}

// FormatMove converts m into long algebraic notation: e2e4, e7e5, e1g1 for
// white short castling, e7e8q for a queen promotion.
func FormatMove(m position.Move) string {
	var b strings.Builder
	b.Grow(5)
	b.WriteString(enum.SquareString[m.From])
	b.WriteString(enum.SquareString[m.To])
	if m.IsPromotion() {
		b.WriteByte(promoSymbol[m.Piece])
	}
	return b.String()
}

// ParseMove resolves a long-algebraic-notation string against the set of
// legal moves in board, since the wire format alone doesn't say whether a
// move is a capture, a castle or an en-passant capture.
func ParseMove(board *position.Board, s string) (position.Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return position.Move{}, fmt.Errorf("uci: malformed move %q", s)
	}

	var list position.MoveList
	movegen.Legal(board, movegen.Normal, &list)

	for _, m := range list.Slice() {
		if FormatMove(m) == s {
			return m, nil
		}
	}
	return position.Move{}, fmt.Errorf("uci: %q is not a legal move", s)
}
