package position

import (
	"strconv"
	"strings"
	"testing"

	"github.com/tlindqvist/corvid/attacks"
	"github.com/tlindqvist/corvid/bitutil"
	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/zobrist"
)

func init() {
	attacks.Init()
	zobrist.Init()
}

// parseFEN is a minimal FEN reader for this package's own tests; the real
// parser lives in package fen, which imports position and so cannot be
// imported back here without a cycle.
func parseFEN(t *testing.T, fenStr string) Board {
	t.Helper()

	var b Board
	b.KingSquare = [2]int{enum.NoSquare, enum.NoSquare}

	fields := strings.Fields(fenStr)
	if len(fields) != 6 {
		t.Fatalf("parseFEN(%q): expected 6 fields, got %d", fenStr, len(fields))
	}

	sq := 56
	for _, c := range fields[0] {
		switch {
		case c == '/':
			sq -= 16
		case c >= '1' && c <= '8':
			sq += int(c - '0')
		default:
			color := enum.White
			lower := c
			if c >= 'a' && c <= 'z' {
				color = enum.Black
				lower = c - 'a' + 'A'
			}
			var piece enum.Piece
			switch lower {
			case 'P':
				piece = enum.Pawn
			case 'N':
				piece = enum.Knight
			case 'B':
				piece = enum.Bishop
			case 'R':
				piece = enum.Rook
			case 'Q':
				piece = enum.Queen
			case 'K':
				piece = enum.King
			default:
				t.Fatalf("parseFEN(%q): bad piece symbol %q", fenStr, c)
			}
			if piece == enum.King {
				b.KingSquare[color] = sq
			} else {
				b.Pieces[color][piece] |= bitutil.SquareBB(sq)
			}
			sq++
		}
	}

	if fields[1] == "w" {
		b.SideToMove = enum.White
	} else {
		b.SideToMove = enum.Black
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
		}
	}

	b.EPTarget = enum.NoSquare
	if fields[3] != "-" {
		b.EPTarget = int(fields[3][0]-'a') + int(fields[3][1]-'1')*8
	}

	clock, err := strconv.Atoi(fields[4])
	if err != nil {
		t.Fatalf("parseFEN(%q): bad halfmove clock: %v", fenStr, err)
	}
	b.HalfmoveClock = clock

	full, err := strconv.Atoi(fields[5])
	if err != nil {
		t.Fatalf("parseFEN(%q): bad fullmove number: %v", fenStr, err)
	}
	b.FullmoveNumber = full

	b.RecomputeHash()
	return b
}

func TestMakeMoveHashMatchesRecompute(t *testing.T) {
	b := parseFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")

	moves := []Move{
		NewMove(enum.E2, enum.E4, enum.Pawn, false),
	}
	for _, m := range moves {
		b = b.MakeMove(m)
		before := b.Hash
		b.RecomputeHash()
		if b.Hash != before {
			t.Fatalf("hash after MakeMove (%#x) does not match RecomputeHash (%#x)", before, b.Hash)
		}
	}
}

func TestMakeMoveEnPassant(t *testing.T) {
	b := parseFEN(t, "rnbqkbnr/ppp1pppp/8/8/1Pp5/5N2/P1PP1PPP/RNBQK2R b KQkq b3 0 1")
	m := NewMove(enum.C4, enum.B3, enum.Pawn, true)
	next := b.MakeMove(m)

	if next.Pieces[enum.White][enum.Pawn]&(uint64(1)<<uint(enum.B4)) != 0 {
		t.Errorf("captured white pawn on b4 should be removed after en passant")
	}
	if next.Pieces[enum.Black][enum.Pawn]&(uint64(1)<<uint(enum.B3)) == 0 {
		t.Errorf("black pawn should have landed on b3")
	}
	if next.HalfmoveClock != 0 {
		t.Errorf("halfmove clock = %d, want 0 after a capture", next.HalfmoveClock)
	}

	before := next.Hash
	next.RecomputeHash()
	if next.Hash != before {
		t.Errorf("en-passant hash mismatch: got %#x, want %#x", before, next.Hash)
	}
}

func TestMakeMoveCastlingMovesRook(t *testing.T) {
	b := parseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m := NewMove(enum.E1, enum.G1, enum.King, false)
	next := b.MakeMove(m)

	if next.KingSquare[enum.White] != enum.G1 {
		t.Errorf("white king square = %d, want g1", next.KingSquare[enum.White])
	}
	if next.Pieces[enum.White][enum.Rook]&(uint64(1)<<uint(enum.F1)) == 0 {
		t.Errorf("rook should have relocated to f1")
	}
	if next.Pieces[enum.White][enum.Rook]&(uint64(1)<<uint(enum.H1)) != 0 {
		t.Errorf("rook should no longer be on h1")
	}
	if next.CastlingRights&(enum.CastleWhiteShort|enum.CastleWhiteLong) != 0 {
		t.Errorf("castling rights = %#x, white rights should be cleared", next.CastlingRights)
	}
}

func TestMakeMoveRookMoveClearsCastlingRights(t *testing.T) {
	b := parseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m := NewMove(enum.A1, enum.B1, enum.Rook, false)
	next := b.MakeMove(m)

	if next.CastlingRights&enum.CastleWhiteLong != 0 {
		t.Errorf("moving the a1 rook should clear white's long castling right")
	}
	if next.CastlingRights&enum.CastleWhiteShort == 0 {
		t.Errorf("moving the a1 rook should not affect white's short castling right")
	}
}

func TestMakeMovePromotion(t *testing.T) {
	b := parseFEN(t, "2bqkbnr/4pppp/8/8/8/3N1N2/PpPP1PPP/R1BQK2R b KQkq - 0 1")
	m := NewPromotion(enum.B2, enum.B1, enum.Queen, false)
	next := b.MakeMove(m)

	if next.Pieces[enum.Black][enum.Queen]&(uint64(1)<<uint(enum.B1)) == 0 {
		t.Errorf("promoted queen should be on b1")
	}
	if next.Pieces[enum.Black][enum.Pawn]&(uint64(1)<<uint(enum.B2)) != 0 {
		t.Errorf("pawn should no longer be on b2")
	}
}

func TestRepeatableHashIgnoresEnPassantAndClock(t *testing.T) {
	withEP := parseFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	noEP := parseFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 7 1")

	if withEP.RepeatableHash() != noEP.RepeatableHash() {
		t.Errorf("RepeatableHash should ignore the en-passant target and halfmove clock")
	}
	if withEP.Hash == noEP.Hash {
		t.Errorf("full Hash should differ when the en-passant target differs")
	}
}

func TestKingAttacked(t *testing.T) {
	b := parseFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !b.KingAttacked(enum.White) {
		t.Errorf("white king on e1 should be in check from the queen on h4")
	}
	if b.KingAttacked(enum.Black) {
		t.Errorf("black king should not be in check")
	}
}
