// Package fen implements conversions between Forsyth-Edwards Notation
// strings and position.Board values. See spec.md §6.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tlindqvist/corvid/bitutil"
	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/position"
)

// Startpos is the standard starting position.
const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Parse parses fenStr into a Board. It returns an error instead of
// panicking on malformed input, since FEN strings routinely arrive over a
// UCI connection from an untrusted GUI.
func Parse(fenStr string) (position.Board, error) {
	var b position.Board
	b.KingSquare = [2]int{enum.NoSquare, enum.NoSquare}

	fields := strings.Fields(fenStr)
	if len(fields) != 6 {
		return b, fmt.Errorf("fen: expected 6 fields, got %d", len(fields))
	}

	if err := parsePlacement(fields[0], &b); err != nil {
		return b, err
	}
	if b.KingSquare[enum.White] == enum.NoSquare || b.KingSquare[enum.Black] == enum.NoSquare {
		return b, fmt.Errorf("fen: missing a king")
	}

	switch fields[1] {
	case "w":
		b.SideToMove = enum.White
	case "b":
		b.SideToMove = enum.Black
	default:
		return b, fmt.Errorf("fen: invalid active color %q", fields[1])
	}

	for _, c := range fields[2] {
		switch c {
		case 'K':
			b.CastlingRights |= enum.CastleWhiteShort
		case 'Q':
			b.CastlingRights |= enum.CastleWhiteLong
		case 'k':
			b.CastlingRights |= enum.CastleBlackShort
		case 'q':
			b.CastlingRights |= enum.CastleBlackLong
		case '-':
		default:
			return b, fmt.Errorf("fen: invalid castling field %q", fields[2])
		}
	}

	if fields[3] == "-" {
		b.EPTarget = enum.NoSquare
	} else {
		sq, err := squareFromString(fields[3])
		if err != nil {
			return b, err
		}
		b.EPTarget = sq
	}

	halfmove, err := strconv.Atoi(fields[4])
	if err != nil {
		return b, fmt.Errorf("fen: invalid halfmove clock %q", fields[4])
	}
	b.HalfmoveClock = halfmove

	fullmove, err := strconv.Atoi(fields[5])
	if err != nil {
		return b, fmt.Errorf("fen: invalid fullmove number %q", fields[5])
	}
	b.FullmoveNumber = fullmove
	b.Ply = 2 * (fullmove - 1)
	if b.SideToMove == enum.Black {
		b.Ply++
	}

	b.RecomputeHash()
	return b, nil
}

func parsePlacement(placement string, b *position.Board) error {
	sq := 56
	for _, c := range placement {
		switch {
		case c == '/':
			sq -= 16
		case c >= '1' && c <= '8':
			sq += int(c - '0')
		default:
			piece, color, err := pieceFromSymbol(byte(c))
			if err != nil {
				return err
			}
			if sq < 0 || sq > 63 {
				return fmt.Errorf("fen: piece placement overflows the board")
			}
			if piece == enum.King {
				b.KingSquare[color] = sq
			} else {
				b.Pieces[color][piece] |= bitutil.SquareBB(sq)
			}
			sq++
		}
	}
	return nil
}

func pieceFromSymbol(c byte) (enum.Piece, enum.Color, error) {
	color := enum.White
	if c >= 'a' && c <= 'z' {
		color = enum.Black
	}
	switch c {
	case 'P', 'p':
		return enum.Pawn, color, nil
	case 'N', 'n':
		return enum.Knight, color, nil
	case 'B', 'b':
		return enum.Bishop, color, nil
	case 'R', 'r':
		return enum.Rook, color, nil
	case 'Q', 'q':
		return enum.Queen, color, nil
	case 'K', 'k':
		return enum.King, color, nil
	default:
		return enum.None, color, fmt.Errorf("fen: invalid piece symbol %q", c)
	}
}

func squareFromString(s string) (int, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("fen: invalid square %q", s)
	}
	return int(s[0]-'a') + int(s[1]-'1')*8, nil
}

// Serialize converts b into its FEN string.
func Serialize(b *position.Board) string {
	var out strings.Builder
	out.Grow(64)

	out.WriteString(placementString(b))
	out.WriteByte(' ')
	if b.SideToMove == enum.White {
		out.WriteByte('w')
	} else {
		out.WriteByte('b')
	}
	out.WriteByte(' ')

	before := out.Len()
	if b.CastlingRights&enum.CastleWhiteShort != 0 {
		out.WriteByte('K')
	}
	if b.CastlingRights&enum.CastleWhiteLong != 0 {
		out.WriteByte('Q')
	}
	if b.CastlingRights&enum.CastleBlackShort != 0 {
		out.WriteByte('k')
	}
	if b.CastlingRights&enum.CastleBlackLong != 0 {
		out.WriteByte('q')
	}
	if out.Len() == before {
		out.WriteByte('-')
	}
	out.WriteByte(' ')

	if b.EPTarget == enum.NoSquare {
		out.WriteByte('-')
	} else {
		out.WriteString(enum.SquareString[b.EPTarget])
	}
	out.WriteByte(' ')

	out.WriteString(strconv.Itoa(b.HalfmoveClock))
	out.WriteByte(' ')
	out.WriteString(strconv.Itoa(b.FullmoveNumber))

	return out.String()
}

func placementString(b *position.Board) string {
	var board [64]byte
	for c := range 2 {
		for p := range 6 {
			bb := b.Pieces[c][p]
			for bb != 0 {
				sq := bitutil.PopLSB(&bb)
				board[sq] = enum.PieceSymbols[c][p]
			}
		}
		board[b.KingSquare[c]] = enum.PieceSymbols[c][enum.King]
	}

	var out strings.Builder
	out.Grow(72)
	for rank := 7; rank >= 0; rank-- {
		var empty byte
		for file := 0; file < 8; file++ {
			sq := rank*8 + file
			if board[sq] == 0 {
				empty++
				continue
			}
			if empty > 0 {
				out.WriteByte('0' + empty)
				empty = 0
			}
			out.WriteByte(board[sq])
		}
		if empty > 0 {
			out.WriteByte('0' + empty)
		}
		if rank != 0 {
			out.WriteByte('/')
		}
	}
	return out.String()
}
