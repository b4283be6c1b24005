// Package ordering scores and sorts a move list so that the search explores
// the most promising moves first. See spec.md §4.9.
package ordering

import (
	"sort"

	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/position"
)

// pieceValue is used only for the MVV-LVA capture score, not evaluation.
var pieceValue = [6]int32{100, 320, 330, 500, 900, 20000}

const (
	quietBand    = int32(0)
	nonQuietBand = int32(1_000_000)
	promoBonus   = int32(900_000)
	historyMax   = int32(400_000)
)

// History is the process-wide quiet-move scoring table: a depth²-weighted
// count of beta-cutoffs, keyed by each move's 15-bit index. It persists
// across depths within one iterative-deepening call (and may conservatively
// be kept across calls).
type History struct {
	table [1 << 15]int32
}

// NewHistory returns a zeroed history table.
func NewHistory() *History { return &History{} }

// Bonus registers a beta-cutoff for m at remainingDepth, adding depth² to
// its score and saturating at historyMax so a quiet move can never outrank
// a capture.
func (h *History) Bonus(m position.Move, remainingDepth int) {
	idx := m.Index()
	bonus := int32(remainingDepth) * int32(remainingDepth)
	h.table[idx] += bonus
	if h.table[idx] > historyMax {
		h.table[idx] = historyMax
	}
}

// Clear zeroes every history entry, e.g. at the start of a new game.
func (h *History) Clear() { h.table = [1 << 15]int32{} }

func (h *History) score(m position.Move) int32 { return h.table[m.Index()] }

type scoredMove struct {
	move  position.Move
	score int32
}

// Order sorts moves in place, descending by score: the TT best move first
// (if present among them), then queen promotions, then MVV-LVA captures,
// then quiet moves by history score.
func Order(moves []position.Move, board *position.Board, ttMove position.Move, history *History) {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: score(m, board, ttMove, history)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	for i, sm := range scored {
		moves[i] = sm.move
	}
}

func score(m position.Move, board *position.Board, ttMove position.Move, history *History) int32 {
	if !ttMove.IsNull() && m == ttMove {
		return nonQuietBand + promoBonus + pieceValue[enum.Queen]
	}
	if m.IsPromotion() && m.Piece == enum.Queen {
		return nonQuietBand + promoBonus
	}
	if m.IsCapture() {
		victim, _ := board.PieceOn(int(m.To))
		if victim == enum.None {
			victim = enum.Pawn // en passant: victim is a pawn not standing on m.To
		}
		attacker, _ := board.PieceOn(int(m.From))
		v := pieceValue[victim]
		a := pieceValue[attacker]
		return nonQuietBand + v + (v-a)/50
	}
	return quietBand + history.score(m)
}
