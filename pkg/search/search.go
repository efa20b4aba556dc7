// Package search implements the move-tree search: a negamax alpha-beta core with a
// transposition table, killer moves, compound move ordering, a forced-mate solver and a
// capture-horizon/check-extension leaf resolution.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
)

// ErrHalted indicates the search was stopped before it completed a full iteration.
var ErrHalted = errors.New("search halted")

// PV represents the principal variation found for some search depth, from the searching
// side's own point of view (matching the UCI convention of reporting scores from "the
// engine's point of view").
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1], if used.
}

func (p PV) String() string {
	pv := board.FormatMoves(p.Moves, func(m board.Move) string { return m.String() })
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%.0f%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, 100*p.Hash, pv)
}

// Context carries the state a Search needs beyond the position itself: the search window,
// the transposition table and killer slots (both search-local), and evaluation noise.
type Context struct {
	Alpha, Beta eval.Score
	TT          TranspositionTable
	Killers     *Killers
	Noise       eval.Random

	// RootMoves, if non-empty, restricts the moves considered at the search root.
	RootMoves []board.Move

	// OnRootBest, if set, is invoked whenever the best move changes at the search root, so
	// the caller can stream a "best so far" before the iteration completes.
	OnRootBest func(board.Move)
}

// Search implements search of the game tree to a given depth, starting from g's current
// position. g is exclusively owned by the caller for the duration of the call.
type Search interface {
	Search(ctx context.Context, sctx *Context, g *board.Game, maxDepth int) (uint64, eval.Score, []board.Move, error)
}

// EndgameScore returns the mover-relative score for a position whose Game has already
// recorded a terminal Result: a large negative value if the side to move has been mated
// (negation up the recursion restores the correct sign for every ancestor), zero otherwise.
func EndgameScore(result board.Result, ply int) eval.Score {
	if result.Outcome == board.Mate {
		return eval.New(eval.MatBlack, ply, ply)
	}
	return eval.New(eval.Draw, ply, ply)
}

// staticEval returns pos's evaluation from the side-to-move's point of view, with noise
// applied, folding eval.Static's White-relative convention into the negamax convention used
// throughout this package.
func staticEval(g *board.Game, sctx *Context) int {
	v := eval.Static(g.Position(), g.Ply()) + sctx.Noise.Noise()
	if g.Turn() == board.Black {
		v = -v
	}
	return v
}

// givesCheck reports whether playing m would put the opponent in check, via a simulated
// make/unmake probe.
func givesCheck(pos *board.Position, turn board.Color, m board.Move) bool {
	u := pos.MakeMove(turn, m)
	check := pos.IsChecked(turn.Opponent())
	pos.UnmakeMove(turn, m, u)
	return check
}
