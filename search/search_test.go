package search

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/tlindqvist/corvid/attacks"
	"github.com/tlindqvist/corvid/bitutil"
	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/eval"
	"github.com/tlindqvist/corvid/position"
	"github.com/tlindqvist/corvid/repetition"
	"github.com/tlindqvist/corvid/ttable"
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

func newSearcher() *Searcher {
	tt := ttable.New(1)
	repeats := repetition.NewHistory()
	return NewSearcher(tt, repeats, eval.Material{})
}

func TestIterativeDeepeningFindsMateInOne(t *testing.T) {
	s := newSearcher()
	b := parseFEN(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")

	move, score, stats := s.IterativeDeepening(b, 500*time.Millisecond)

	if int(move.From) != enum.A1 || int(move.To) != enum.A8 {
		t.Fatalf("best move = %+v, want Ra1-a8", move)
	}
	if !stats.Mate || stats.MateInPlys != 1 {
		t.Errorf("stats = %+v, want Mate=true MateInPlys=1", stats)
	}
	if score <= 0 {
		t.Errorf("score = %d, should be a large positive mate score", score)
	}
}

func TestIterativeDeepeningStalemateReturnsNoMove(t *testing.T) {
	s := newSearcher()
	b := parseFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	move, _, stats := s.IterativeDeepening(b, 200*time.Millisecond)

	if !move.IsNull() {
		t.Errorf("stalemate position should return the null move, got %+v", move)
	}
	if stats.Mate {
		t.Errorf("stalemate is not checkmate, Mate should be false")
	}
}

func TestIterativeDeepeningRespectsFiftyMoveDraw(t *testing.T) {
	s := newSearcher()
	b := parseFEN(t, "8/8/8/4k3/8/4K3/8/8 w - - 99 50")

	_, score, _ := s.IterativeDeepening(b, 200*time.Millisecond)

	// One more ply without a capture or pawn move reaches the 100-halfmove
	// threshold; negamax must score that line as a draw (0), so with no
	// mating material at all the root score should settle at 0.
	if score != 0 {
		t.Errorf("score in a bare-kings fifty-move-rule position = %d, want 0", score)
	}
}

func TestMateScoreRoundTrip(t *testing.T) {
	for d := 0; d < 20; d++ {
		for _, s := range []int16{MinMateScore, MinMateScore + 1, ScoreMax, -MinMateScore, -ScoreMax} {
			local := toLocal(s, d)
			root := toRoot(local, d)
			if root != s {
				t.Errorf("toRoot(toLocal(%d, %d), %d) = %d, want %d", s, d, d, root, s)
			}
		}
	}
}

func TestIsMateScoreThreshold(t *testing.T) {
	if isMateScore(MinMateScore - 1) {
		t.Errorf("a score just below MinMateScore should not be classified as a mate score")
	}
	if !isMateScore(MinMateScore) {
		t.Errorf("MinMateScore itself should be classified as a mate score")
	}
	if !isMateScore(-MinMateScore) {
		t.Errorf("a negative score at -MinMateScore should be classified as a mate score")
	}
}

func TestQuiescenceClassifiesFailLowAsUpperBound(t *testing.T) {
	// White has only a king and a pawn against black's full army; the pawn
	// can capture on e5 but the position remains hopelessly lost for white,
	// so quiescence must fail low against any reasonable alpha.
	s := newSearcher()
	b := parseFEN(t, "rnbqkbnr/pppp1ppp/8/4p3/3P4/8/8/4K3 w - - 0 1")

	alpha := int16(0)
	beta := int16(10000)
	score := s.quiescence(&b, 0, 4, alpha, beta)
	if score >= alpha {
		t.Fatalf("fixture should fail low (score=%d should be < alpha=%d)", score, alpha)
	}

	probe, hit := s.TT.Probe(b.Hash)
	if !hit {
		t.Fatalf("expected quiescence to store a TT entry for the root position")
	}
	if probe.Bound != ttable.BoundUpper {
		t.Errorf("fail-low quiescence result should be stored as BoundUpper, got %v", probe.Bound)
	}
}
