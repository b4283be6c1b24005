// Package engine glues the position, search, transposition, and repetition
// packages behind the command set spec.md §6 defines. See SPEC_FULL.md
// §4.15.
package engine

import (
	"fmt"
	"time"

	"github.com/op/go-logging"

	"github.com/tlindqvist/corvid/attacks"
	"github.com/tlindqvist/corvid/enum"
	"github.com/tlindqvist/corvid/eval"
	"github.com/tlindqvist/corvid/fen"
	"github.com/tlindqvist/corvid/internal/perft"
	"github.com/tlindqvist/corvid/movegen"
	"github.com/tlindqvist/corvid/position"
	"github.com/tlindqvist/corvid/repetition"
	"github.com/tlindqvist/corvid/search"
	"github.com/tlindqvist/corvid/ttable"
	"github.com/tlindqvist/corvid/uci"
	"github.com/tlindqvist/corvid/zobrist"
)

var log = logging.MustGetLogger("corvid.engine")

// Engine owns the one root Board, the transposition table, the repetition
// history, and the Searcher, per SPEC_FULL.md §4.15.
type Engine struct {
	board     position.Board
	tt        *ttable.Table
	repeats   *repetition.History
	searcher  *search.Searcher
	evaluator eval.Evaluator
}

// New builds an Engine with a transposition table sized to ttMiBs mebibytes.
// ttMiBs must be positive; a non-positive value is a configuration
// invariant violation and panics at construction, per spec.md §7.
func New(ttMiBs int) *Engine {
	if ttMiBs <= 0 {
		panic(fmt.Sprintf("engine: invalid transposition table size %d MiB", ttMiBs))
	}

	attacks.Init()
	zobrist.Init()

	board, err := fen.Parse(fen.Startpos)
	if err != nil {
		panic("engine: startpos FEN failed to parse: " + err.Error())
	}

	tt := ttable.New(ttMiBs)
	repeats := repetition.NewHistory()
	repeats.Push(board.RepeatableHash())
	evaluator := eval.Material{}

	return &Engine{
		board:     board,
		tt:        tt,
		repeats:   repeats,
		searcher:  search.NewSearcher(tt, repeats, evaluator),
		evaluator: evaluator,
	}
}

// SetPosition replaces the root position, clearing the transposition table
// and repetition history before pushing the new position.
func (e *Engine) SetPosition(fenStr string) error {
	b, err := fen.Parse(fenStr)
	if err != nil {
		return fmt.Errorf("setPosition: %w", err)
	}
	e.board = b
	e.tt.Clear()
	e.repeats.Clear()
	e.repeats.Push(e.board.RepeatableHash())
	return nil
}

// GetPosition returns the current root position's FEN.
func (e *Engine) GetPosition() string { return fen.Serialize(&e.board) }

// MakeMove applies a UCI move string to the root position if it is legal.
func (e *Engine) MakeMove(moveStr string) error {
	m, err := uci.ParseMove(&e.board, moveStr)
	if err != nil {
		return fmt.Errorf("makeMove: %w", err)
	}

	resetsClock := m.IsCapture() || movedPieceIsPawn(&e.board, m)
	e.board = e.board.MakeMove(m)

	if resetsClock {
		e.repeats.Clear()
	}
	e.repeats.Push(e.board.RepeatableHash())
	return nil
}

func movedPieceIsPawn(b *position.Board, m position.Move) bool {
	piece, _ := b.PieceOn(int(m.From))
	return piece == enum.Pawn
}

// BestMoveResult is the outcome of a bestMove/go search.
type BestMoveResult struct {
	Move  string
	Eval  string
	Nodes int64
	Depth int
}

// BestMove runs iterative deepening for the given duration and returns the
// best move found along with a formatted evaluation string.
func (e *Engine) BestMove(think time.Duration) BestMoveResult {
	move, score, stats := e.searcher.IterativeDeepening(e.board, think)
	return BestMoveResult{
		Move:  formatMoveOrNone(move),
		Eval:  formatEval(score, stats),
		Nodes: stats.Nodes,
		Depth: stats.Depth,
	}
}

// Go runs the time-manager-computed search for a UCI-style "go wtime ..."
// command, per spec.md §4.13.
func (e *Engine) Go(wtimeMs, btimeMs, wincMs, bincMs, moveNumber int) BestMoveResult {
	budget := computeBudget(&e.board, wtimeMs, btimeMs, wincMs, bincMs, moveNumber)
	return e.BestMove(budget)
}

const averageGameMoves = 45

func computeBudget(b *position.Board, wtimeMs, btimeMs, wincMs, bincMs, moveNumber int) time.Duration {
	tUs, iUs := wtimeMs, wincMs
	if b.SideToMove == enum.Black {
		tUs, iUs = btimeMs, bincMs
	}

	denom := averageGameMoves - moveNumber
	if denom < 1 {
		denom = 1
	}
	budgetMs := tUs/denom + iUs
	if max := tUs / 10; budgetMs > max {
		budgetMs = max
	}
	if budgetMs < 1 {
		budgetMs = 1
	}
	return time.Duration(budgetMs) * time.Millisecond
}

// Bench runs a fixed-depth search (the real alpha-beta/quiescence/TT
// pipeline, not a move-generation leaf count) and returns the node count
// and elapsed time.
func (e *Engine) Bench(depth int) (nodes uint64, elapsed time.Duration) {
	start := time.Now()
	_, _, searched := e.searcher.FixedDepthSearch(e.board, depth)
	elapsed = time.Since(start)
	nodes = uint64(searched)
	log.Infof("bench depth=%d nodes=%d elapsed=%s", depth, nodes, elapsed)
	return nodes, elapsed
}

// Perft runs a pure legal-move-generation leaf count to the given depth,
// used by the "perft" command to validate move generation independently
// of search/evaluation.
func (e *Engine) Perft(depth int) (nodes uint64, elapsed time.Duration) {
	start := time.Now()
	nodes = perft.Perft(&e.board, depth)
	elapsed = time.Since(start)
	return nodes, elapsed
}

// ShowBoard returns the current position's FEN (the spec's "show" output).
func (e *Engine) ShowBoard() string { return e.GetPosition() }

// LegalMoveCount reports how many legal moves the side to move has, useful
// for the UI and for the stalemate/checkmate testable properties.
func (e *Engine) LegalMoveCount() int {
	var list position.MoveList
	movegen.Legal(&e.board, movegen.Normal, &list)
	return list.Len
}

func formatMoveOrNone(m position.Move) string {
	if m.IsNull() {
		return "(none)"
	}
	return uci.FormatMove(m)
}

func formatEval(score int16, stats search.Stats) string {
	if stats.Mate {
		sign := "+"
		if score < 0 {
			sign = "-"
		}
		moves := (stats.MateInPlys + 1) / 2
		return fmt.Sprintf("%sM%d", sign, moves)
	}
	return fmt.Sprintf("%d", score)
}
