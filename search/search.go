// Package search implements iterative-deepening PVS with quiescence,
// transposition-table-backed cutoffs, and move ordering. See spec.md
// §4.10-§4.13.
package search

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"github.com/tlindqvist/corvid/eval"
	"github.com/tlindqvist/corvid/movegen"
	"github.com/tlindqvist/corvid/ordering"
	"github.com/tlindqvist/corvid/position"
	"github.com/tlindqvist/corvid/repetition"
	"github.com/tlindqvist/corvid/ttable"
)

var log = logging.MustGetLogger("corvid.search")

// Score bounds, per spec.md §4.10: score is 16-bit signed and SCORE_MAX
// leaves -SCORE_MAX representable.
const (
	ScoreMax     int16 = math.MaxInt16 - 1
	MinMateScore int16 = ScoreMax - 1000
	mateBase     int16 = ScoreMax
)

// absoluteDepthCap bounds the iterative-deepening loop regardless of time
// budget, as a last-resort safety net against runaway iteration.
const absoluteDepthCap = 64

// Stats summarizes one iterative_deepening call for the UI/logs.
type Stats struct {
	Depth      int
	Nodes      int64
	Elapsed    time.Duration
	Mate       bool
	MateInPlys int
}

// Searcher owns the mutable state a search needs across the lifetime of an
// engine: the transposition table, repetition history, history heuristic
// table, and evaluator. It is reused across searches; none of its fields
// are safe for concurrent use by more than one search at a time (spec.md
// §5: single searching goroutine).
type Searcher struct {
	TT        *ttable.Table
	Repeats   *repetition.History
	History   *ordering.History
	Evaluator eval.Evaluator

	stopped      atomic.Bool
	cancelTimer  atomic.Bool
	nodes        int64
	minDepth     int
	maxQDepth    int
}

// NewSearcher builds a Searcher around the given table, repetition history,
// and evaluator, with a fresh move-ordering history table.
func NewSearcher(tt *ttable.Table, repeats *repetition.History, evaluator eval.Evaluator) *Searcher {
	return &Searcher{
		TT:        tt,
		Repeats:   repeats,
		History:   ordering.NewHistory(),
		Evaluator: evaluator,
	}
}

// Stop requests the current search to abort as soon as it next checks the
// stop flag.
func (s *Searcher) Stop() { s.stopped.Store(true) }

// IterativeDeepening runs the outer iterative-deepening loop for up to
// thinkTime, returning the best move found, its score (root-relative), and
// summary stats. See spec.md §4.10.
func (s *Searcher) IterativeDeepening(board position.Board, thinkTime time.Duration) (position.Move, int16, Stats) {
	s.stopped.Store(false)
	s.cancelTimer.Store(false)
	s.nodes = 0
	s.TT.StartNewSearch()

	s.minDepth, s.maxQDepth = initialDepths(thinkTime)

	start := time.Now()
	var g errgroup.Group
	g.Go(func() error {
		s.runTimer(thinkTime)
		return nil
	})

	var bestMove position.Move
	var bestScore int16
	depth := 0

	for !s.stopped.Load() && s.maxQDepth < absoluteDepthCap {
		s.minDepth++
		s.maxQDepth++

		move, score, ok := s.searchRoot(&board)
		if !ok {
			break
		}
		bestMove, bestScore, depth = move, score, s.minDepth
		log.Infof("depth=%d score=%d move=%s nodes=%d", depth, bestScore, moveString(bestMove), s.nodes)

		if isMateScore(bestScore) && matePlies(bestScore) <= s.minDepth {
			break
		}
	}

	s.cancelTimer.Store(true)
	_ = g.Wait()

	stats := Stats{Depth: depth, Nodes: s.nodes, Elapsed: time.Since(start)}
	if isMateScore(bestScore) {
		stats.Mate = true
		stats.MateInPlys = matePlies(bestScore)
	}
	return bestMove, bestScore, stats
}

// FixedDepthSearch runs a single search to the given depth with no time
// limit, for benchmarking: unlike IterativeDeepening it does not walk
// shallower depths first and cannot be stopped early, so it is only
// suitable for offline bench/profiling use, not interactive play.
func (s *Searcher) FixedDepthSearch(board position.Board, depth int) (position.Move, int16, int64) {
	s.stopped.Store(false)
	s.nodes = 0
	s.TT.StartNewSearch()
	s.minDepth = depth
	s.maxQDepth = depth

	move, score, ok := s.searchRoot(&board)
	if !ok {
		return position.Move{}, 0, s.nodes
	}
	return move, score, s.nodes
}

func (s *Searcher) runTimer(budget time.Duration) {
	deadline := time.Now().Add(budget)
	const pollInterval = 50 * time.Millisecond
	for {
		if s.cancelTimer.Load() {
			return
		}
		if time.Now().After(deadline) {
			s.stopped.Store(true)
			return
		}
		time.Sleep(pollInterval)
	}
}

// initialDepths computes the sub-linear (min_depth, max_q_depth) schedule
// of spec.md §4.10 from the think-time budget.
func initialDepths(thinkTime time.Duration) (int, int) {
	seconds := thinkTime.Seconds()
	minDepth := int(0.5 * math.Sqrt(seconds))
	if minDepth > 4 {
		minDepth = 4
	}
	if minDepth < 1 {
		minDepth = 1
	}
	maxQDepth := int(2 * math.Sqrt(seconds))
	if maxQDepth < 3 {
		maxQDepth = 3
	}
	if maxQDepth > 12 {
		maxQDepth = 12
	}
	// Decremented once here since the outer loop increments both before
	// its first iteration.
	return minDepth - 1, maxQDepth - 1
}

func isMateScore(score int16) bool {
	if score < 0 {
		score = -score
	}
	return score >= MinMateScore
}

func matePlies(score int16) int {
	if score < 0 {
		score = -score
	}
	return int(mateBase - score)
}

func moveString(m position.Move) string {
	if m.IsNull() {
		return "(none)"
	}
	return positionMoveUCI(m)
}

// positionMoveUCI avoids importing the uci package (which imports movegen,
// which would create no cycle here, but keeping search decoupled from the
// wire-format package keeps the dependency graph shallow).
func positionMoveUCI(m position.Move) string {
	from := int(m.From)
	to := int(m.To)
	return squareName(from) + squareName(to)
}

func squareName(sq int) string {
	file := byte('a' + sq%8)
	rank := byte('1' + sq/8)
	return string([]byte{file, rank})
}

// searchRoot runs one full iterative-deepening iteration at the current
// (minDepth, maxQDepth) and returns the best root move, unless the stop
// flag fired mid-iteration, in which case ok is false and the caller must
// discard the partial result.
func (s *Searcher) searchRoot(board *position.Board) (position.Move, int16, bool) {
	var list position.MoveList
	movegen.Pseudo(board, movegen.Normal, &list)
	moves := list.Slice()

	var ttMove position.Move
	if probe, hit := s.TT.Probe(board.Hash); hit {
		ttMove = probe.BestMove
	}
	ordering.Order(moves, board, ttMove, s.History)

	alpha, beta := -ScoreMax, ScoreMax
	originalAlpha := alpha
	var best position.Move
	bestScore := -ScoreMax
	legalSeen := false

	s.Repeats.Push(board.RepeatableHash())
	defer s.Repeats.Pop()

	for _, m := range moves {
		next := board.MakeMove(m)
		if next.KingAttacked(board.SideToMove) {
			continue
		}

		var score int16
		if !legalSeen {
			score = -s.negamax(&next, s.minDepth-1, 1, -beta, -alpha)
		} else {
			score = -s.negamax(&next, s.minDepth-1, 1, -alpha-1, -alpha)
			if score > alpha && beta-alpha > 1 {
				score = -s.negamax(&next, s.minDepth-1, 1, -beta, -alpha)
			}
		}
		legalSeen = true

		if s.stopped.Load() {
			return position.Move{}, 0, false
		}

		if score > bestScore {
			bestScore = score
			best = m
		}
		if bestScore > alpha {
			alpha = bestScore
		}
		if alpha >= beta {
			break
		}
	}

	if !legalSeen {
		return position.Move{}, 0, false
	}

	bound := ttable.BoundExact
	if bestScore > beta {
		bound = ttable.BoundLower
	} else if bestScore < originalAlpha {
		bound = ttable.BoundUpper
	}
	s.TT.Store(board.Hash, toLocal(bestScore, 0), best, s.minDepth, bound)

	return best, bestScore, true
}

// negamax is the inner recursive search: cutoffs, horizon dispatch to
// quiescence, TT probe, and the PVS move loop, per spec.md §4.10.
func (s *Searcher) negamax(board *position.Board, remainingDepth, currentDepth int, alpha, beta int16) int16 {
	s.nodes++

	if s.stopped.Load() {
		return 0
	}

	if repetition.FiftyMoveDraw(board.HalfmoveClock) || s.Repeats.IsRepeated(board.RepeatableHash()) {
		return 0
	}

	if remainingDepth <= 0 {
		return s.quiescence(board, currentDepth, s.maxQDepth, alpha, beta)
	}

	originalAlpha := alpha

	if probe, hit := s.TT.Probe(board.Hash); hit && ttable.Usable(probe, remainingDepth, alpha, beta) {
		return toRoot(probe.Score, currentDepth)
	}

	var list position.MoveList
	movegen.Pseudo(board, movegen.Normal, &list)
	moves := list.Slice()

	var ttMove position.Move
	if probe, hit := s.TT.Probe(board.Hash); hit {
		ttMove = probe.BestMove
	}
	ordering.Order(moves, board, ttMove, s.History)

	s.Repeats.Push(board.RepeatableHash())
	defer s.Repeats.Pop()

	best := -ScoreMax
	var bestMove position.Move
	legalSeen := false

	for _, m := range moves {
		next := board.MakeMove(m)
		if next.KingAttacked(board.SideToMove) {
			continue
		}

		var score int16
		if !legalSeen {
			score = -s.negamax(&next, remainingDepth-1, currentDepth+1, -beta, -alpha)
		} else {
			score = -s.negamax(&next, remainingDepth-1, currentDepth+1, -alpha-1, -alpha)
			if score > alpha && beta-alpha > 1 {
				score = -s.negamax(&next, remainingDepth-1, currentDepth+1, -beta, -alpha)
			}
		}
		legalSeen = true

		if s.stopped.Load() {
			return 0
		}

		if score > best {
			best = score
			bestMove = m
		}
		if best > beta {
			s.History.Bonus(m, remainingDepth)
			break
		}
		if best > alpha {
			alpha = best
		}
	}

	if !legalSeen {
		if board.KingAttacked(board.SideToMove) {
			return -(mateBase - int16(currentDepth))
		}
		return 0
	}

	bound := ttable.BoundExact
	if best > beta {
		bound = ttable.BoundLower
	} else if best < originalAlpha {
		bound = ttable.BoundUpper
	}
	s.TT.Store(board.Hash, toLocal(best, currentDepth), bestMove, remainingDepth, bound)

	return best
}

// quiescence extends the search with captures/queen-promotions only, per
// spec.md §4.11.
func (s *Searcher) quiescence(board *position.Board, currentDepth, maxQDepth int, alpha, beta int16) int16 {
	s.nodes++

	if s.stopped.Load() {
		return 0
	}

	originalAlpha := alpha

	standPat := s.Evaluator.Evaluate(board)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if currentDepth >= maxQDepth {
		return alpha
	}

	if probe, hit := s.TT.Probe(board.Hash); hit && ttable.Usable(probe, 0, alpha, beta) {
		return toRoot(probe.Score, currentDepth)
	}

	var list position.MoveList
	movegen.Pseudo(board, movegen.Quiescent, &list)
	moves := list.Slice()
	ordering.Order(moves, board, position.Move{}, s.History)

	best := standPat
	var bestMove position.Move

	for _, m := range moves {
		next := board.MakeMove(m)
		if next.KingAttacked(board.SideToMove) {
			continue
		}

		score := -s.quiescence(&next, currentDepth+1, maxQDepth, -beta, -alpha)

		if s.stopped.Load() {
			return 0
		}

		if score > best {
			best = score
			bestMove = m
		}
		if best > beta {
			break
		}
		if best > alpha {
			alpha = best
		}
	}

	bound := ttable.BoundExact
	if best > beta {
		bound = ttable.BoundLower
	} else if best < originalAlpha {
		bound = ttable.BoundUpper
	}
	s.TT.Store(board.Hash, toLocal(best, currentDepth), bestMove, 0, bound)

	return best
}

// toLocal converts a root-relative mate score to the local form stored in
// the TT, per spec.md §4.12: to_local(s, d) = s + sign(s)*d.
func toLocal(score int16, currentDepth int) int16 {
	if score >= MinMateScore {
		return score + int16(currentDepth)
	}
	if score <= -MinMateScore {
		return score - int16(currentDepth)
	}
	return score
}

// toRoot converts a local-form stored mate score back to root-relative
// form: to_root(s, d) = s - sign(s)*d.
func toRoot(score int16, currentDepth int) int16 {
	if score >= MinMateScore {
		return score - int16(currentDepth)
	}
	if score <= -MinMateScore {
		return score + int16(currentDepth)
	}
	return score
}
