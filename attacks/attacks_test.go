package attacks

import (
	"testing"

	"github.com/tlindqvist/corvid/bitutil"
	"github.com/tlindqvist/corvid/enum"
)

func init() {
	Init()
}

func TestKnightAttacksCorner(t *testing.T) {
	got := KnightAttacks(enum.A1)
	want := bitutil.SquareBB(enum.B3) | bitutil.SquareBB(enum.C2)
	if got != want {
		t.Errorf("KnightAttacks(a1) = %#x, want %#x", got, want)
	}
}

func TestKingAttacksCenter(t *testing.T) {
	got := KingAttacks(enum.E4)
	if bitutil.CountBits(got) != 8 {
		t.Errorf("KingAttacks(e4) has %d squares, want 8", bitutil.CountBits(got))
	}
}

func TestPawnAttacksDirection(t *testing.T) {
	white := PawnAttacks(0, enum.E4)
	want := bitutil.SquareBB(enum.D5) | bitutil.SquareBB(enum.F5)
	if white != want {
		t.Errorf("PawnAttacks(white, e4) = %#x, want %#x", white, want)
	}

	black := PawnAttacks(1, enum.E4)
	want = bitutil.SquareBB(enum.D3) | bitutil.SquareBB(enum.F3)
	if black != want {
		t.Errorf("PawnAttacks(black, e4) = %#x, want %#x", black, want)
	}
}

func TestRookAttacksStopsAtBlocker(t *testing.T) {
	occ := bitutil.SquareBB(enum.D4) | bitutil.SquareBB(enum.D6)
	got := RookAttacks(enum.D4, occ)

	if got&bitutil.SquareBB(enum.D5) == 0 {
		t.Errorf("rook on d4 should attack d5")
	}
	if got&bitutil.SquareBB(enum.D6) == 0 {
		t.Errorf("rook on d4 should attack the blocker square d6")
	}
	if got&bitutil.SquareBB(enum.D7) != 0 {
		t.Errorf("rook on d4 should not see past the blocker on d6")
	}
}

func TestBishopAttacksStopsAtBlocker(t *testing.T) {
	occ := bitutil.SquareBB(enum.D4) | bitutil.SquareBB(enum.F6)
	got := BishopAttacks(enum.D4, occ)

	if got&bitutil.SquareBB(enum.E5) == 0 {
		t.Errorf("bishop on d4 should attack e5")
	}
	if got&bitutil.SquareBB(enum.F6) == 0 {
		t.Errorf("bishop on d4 should attack the blocker square f6")
	}
	if got&bitutil.SquareBB(enum.G7) != 0 {
		t.Errorf("bishop on d4 should not see past the blocker on f6")
	}
}

func TestQueenAttacksUnionsRookAndBishop(t *testing.T) {
	occ := bitutil.SquareBB(enum.D4)
	got := QueenAttacks(enum.D4, occ)
	want := RookAttacks(enum.D4, occ) | BishopAttacks(enum.D4, occ)
	if got != want {
		t.Errorf("QueenAttacks(d4) did not equal the union of rook and bishop attacks")
	}
}

func TestCastlingPathSquaresAreEmptyRequirement(t *testing.T) {
	// White short castling: f1 and g1 must be empty.
	path := CastlingPath(0)
	if path&bitutil.SquareBB(enum.F1) == 0 || path&bitutil.SquareBB(enum.G1) == 0 {
		t.Errorf("white short castling path = %#x, should include f1 and g1", path)
	}
	if path&bitutil.SquareBB(enum.E1) != 0 {
		t.Errorf("white short castling path should not include e1 (the king's own square)")
	}
}

func TestInitIsIdempotent(t *testing.T) {
	before := KnightAttacks(enum.D4)
	Init()
	Init()
	after := KnightAttacks(enum.D4)
	if before != after {
		t.Errorf("calling Init() more than once should not change the tables")
	}
}
