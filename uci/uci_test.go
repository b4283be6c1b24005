package uci

import (
	"strconv"
	"strings"
	"testing"

	"github.com/tlindqvist/corvid/attacks"
	"github.com/tlindqvist/corvid/bitutil"
	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/position"
	"github.com/tlindqvist/corvid/zobrist"
)

func init() {
	attacks.Init()
	zobrist.Init()
}

func parseFEN(t *testing.T, fenStr string) position.Board {
	t.Helper()
	var b position.Board
	b.KingSquare = [2]int{enum.NoSquare, enum.NoSquare}

	fields := strings.Fields(fenStr)
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
	b.HalfmoveClock, _ = strconv.Atoi(fields[4])
	b.FullmoveNumber, _ = strconv.Atoi(fields[5])
	b.RecomputeHash()
	return b
}

func TestFormatMove(t *testing.T) {
	cases := []struct {
		m    position.Move
		want string
	}{
		{position.NewMove(enum.E2, enum.E4, enum.Pawn, false), "e2e4"},
		{position.NewMove(enum.E1, enum.G1, enum.King, false), "e1g1"},
		{position.NewPromotion(enum.E7, enum.E8, enum.Queen, false), "e7e8q"},
		{position.NewPromotion(enum.A7, enum.B8, enum.Knight, true), "a7b8n"},
	}
	for _, c := range cases {
		if got := FormatMove(c.m); got != c.want {
			t.Errorf("FormatMove(%+v) = %q, want %q", c.m, got, c.want)
		}
	}
}

func TestParseMoveRoundTrip(t *testing.T) {
	b := parseFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	m, err := ParseMove(&b, "e2e4")
	if err != nil {
		t.Fatalf("ParseMove(e2e4): %v", err)
	}
	if FormatMove(m) != "e2e4" {
		t.Errorf("round trip mismatch: got %q", FormatMove(m))
	}
}

func TestParseMoveRejectsIllegal(t *testing.T) {
	b := parseFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if _, err := ParseMove(&b, "e2e5"); err == nil {
		t.Errorf("ParseMove(e2e5) from the startpos should be illegal")
	}
}

func TestParseMoveRejectsMalformed(t *testing.T) {
	b := parseFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	for _, s := range []string{"", "e2", "e2e4q5", "zz9z"} {
		if _, err := ParseMove(&b, s); err == nil {
			t.Errorf("ParseMove(%q) should return an error", s)
		}
	}
}

func TestParseMoveResolvesPromotion(t *testing.T) {
	b := parseFEN(t, "r1bqkbnr/pPpppppp/8/8/8/8/P1PPPPPP/RNBQKBNR w KQkq - 0 1")
	m, err := ParseMove(&b, "b7a8q")
	if err != nil {
		t.Fatalf("ParseMove(b7a8q): %v", err)
	}
	if !m.IsPromotion() || m.Piece != enum.Queen || !m.IsCapture() {
		t.Errorf("resolved move = %+v, want a capturing queen promotion", m)
	}
}
