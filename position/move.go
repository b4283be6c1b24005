// move.go defines the packed move record and move list. See spec.md §3.
package position

import "github.com/tlindqvist/corvid/enum"

// Move-flag bits.
const (
	FlagCapture   uint8 = 1 << 0
	FlagPromotion uint8 = 1 << 1
)

// Move is the 4-byte move record spec.md §3 defines: origin and destination
// squares, the kind of piece arriving on To (for promotions, the promoted-to
// kind), and a two-bit flag set. There is deliberately no "move type" field:
// castling and en-passant are derived at make-time from (Piece, From, To,
// Flags), the same way the original program's move encoding works.
type Move struct {
	From  uint8
	To    uint8
	Piece enum.Piece
	Flags uint8
}

// NullMove is the sentinel "no move" value.
var NullMove = Move{From: 0, To: 0, Piece: enum.Pawn, Flags: 0}

// NewMove builds a quiet or capturing, non-promoting move.
func NewMove(from, to int, piece enum.Piece, capture bool) Move {
	var flags uint8
	if capture {
		flags |= FlagCapture
	}
	return Move{From: uint8(from), To: uint8(to), Piece: piece, Flags: flags}
}

// NewPromotion builds a promotion move, optionally also a capture.
func NewPromotion(from, to int, promoted enum.Piece, capture bool) Move {
	flags := FlagPromotion
	if capture {
		flags |= FlagCapture
	}
	return Move{From: uint8(from), To: uint8(to), Piece: promoted, Flags: flags}
}

// IsCapture reports whether the move captures a piece (including en passant).
func (m Move) IsCapture() bool { return m.Flags&FlagCapture != 0 }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.Flags&FlagPromotion != 0 }

// IsNull reports whether m is the null move.
func (m Move) IsNull() bool { return m == NullMove }

// Index returns the unique 15-bit key used to address auxiliary tables
// (the history heuristic, primarily): to | (from<<6) | (piece<<12).
func (m Move) Index() uint16 {
	return uint16(m.To) | uint16(m.From)<<6 | uint16(m.Piece)<<12
}

// MaxMoves bounds MoveList's fixed-capacity backing array. 218 is the
// largest legal move count known for any reachable chess position
// (https://www.talkchess.com/forum/viewtopic.php?t=61792); 256 leaves
// headroom without meaningfully growing the struct.
const MaxMoves = 256

// MoveList is a fixed-capacity, heap-free container for generated moves.
type MoveList struct {
	Moves [MaxMoves]Move
	Len   int
}

// Push appends a move to the list.
func (l *MoveList) Push(m Move) {
	l.Moves[l.Len] = m
	l.Len++
}

// Slice returns the populated prefix of the backing array.
func (l *MoveList) Slice() []Move { return l.Moves[:l.Len] }
