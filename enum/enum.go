// Package enum contains custom type declarations and predefined constants
// shared by every other package. Keeping them in one place avoids the
// "magic numbers" antipattern spread across the move generator, search and
// position packages.
package enum

// Piece is the kind of a chess piece, independent of color. King is tracked
// separately by square (see position.Board), so it never indexes a
// bitboard array sized by Piece.
type Piece int8

const (
	Pawn Piece = iota
	Knight
	Bishop
	Rook
	Queen
	King
	// None marks the absence of a piece on a square.
	None Piece = -1
)

// Color is White or Black. White moves first.
type Color int

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

// MoveType distinguishes the four move shapes the generator and move-make
// logic need to special-case.
type MoveType int

const (
	MoveNormal MoveType = iota
	MoveCastling
	MovePromotion
	MoveEnPassant
)

// CastlingRights is a 4-bit mask: bit0 white O-O, bit1 white O-O-O,
// bit2 black O-O, bit3 black O-O-O.
type CastlingRights uint8

const (
	CastleWhiteShort CastlingRights = 1 << iota
	CastleWhiteLong
	CastleBlackShort
	CastleBlackLong
)

// NoSquare marks the absence of an en-passant target.
const NoSquare = -1

// Result enumerates the possible outcomes of a finished or drawn game.
type Result int

const (
	ResultUnscored Result = iota
	ResultCheckmate
	ResultStalemate
	ResultInsufficientMaterial
	ResultFiftyMove
	ResultThreefoldRepetition
	ResultTimeout
	ResultResignation
)

// SquareString maps a square index (0 = a1 ... 63 = h8) to its algebraic name.
var SquareString = [64]string{
	"a1", "b1", "c1", "d1", "e1", "f1", "g1", "h1",
	"a2", "b2", "c2", "d2", "e2", "f2", "g2", "h2",
	"a3", "b3", "c3", "d3", "e3", "f3", "g3", "h3",
	"a4", "b4", "c4", "d4", "e4", "f4", "g4", "h4",
	"a5", "b5", "c5", "d5", "e5", "f5", "g5", "h5",
	"a6", "b6", "c6", "d6", "e6", "f6", "g6", "h6",
	"a7", "b7", "c7", "d7", "e7", "f7", "g7", "h7",
	"a8", "b8", "c8", "d8", "e8", "f8", "g8", "h8",
}

// PieceSymbols maps (color, piece) to its FEN letter, white upper-case.
var PieceSymbols = [2][6]byte{
	White: {'P', 'N', 'B', 'R', 'Q', 'K'},
	Black: {'p', 'n', 'b', 'r', 'q', 'k'},
}

// Square name constants, one per square (a1 = 0 ... h8 = 63).
const (
	A1, B1, C1, D1, E1, F1, G1, H1 = 0, 1, 2, 3, 4, 5, 6, 7
	A2, B2, C2, D2, E2, F2, G2, H2 = 8, 9, 10, 11, 12, 13, 14, 15
	A3, B3, C3, D3, E3, F3, G3, H3 = 16, 17, 18, 19, 20, 21, 22, 23
	A4, B4, C4, D4, E4, F4, G4, H4 = 24, 25, 26, 27, 28, 29, 30, 31
	A5, B5, C5, D5, E5, F5, G5, H5 = 32, 33, 34, 35, 36, 37, 38, 39
	A6, B6, C6, D6, E6, F6, G6, H6 = 40, 41, 42, 43, 44, 45, 46, 47
	A7, B7, C7, D7, E7, F7, G7, H7 = 48, 49, 50, 51, 52, 53, 54, 55
	A8, B8, C8, D8, E8, F8, G8, H8 = 56, 57, 58, 59, 60, 61, 62, 63
)
