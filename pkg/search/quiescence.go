package search

import (
	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
)

// quiesceCaptures resolves the capture horizon extension: from a leaf reached because
// the move just made was a capture on target, recurse only into further captures retaking on
// that same square, continuing until none remain. This is narrower than full quiescence
// search (no other squares are explored) and applies no exchange-evaluation gate.
func quiesceCaptures(sctx *Context, g *board.Game, target board.Square, alpha, beta eval.Score, ply int) (uint64, eval.Score) {
	var nodes uint64 = 1

	standPat := eval.New(staticEval(g, sctx), ply, ply)
	if !g.Result().None() {
		standPat = EndgameScore(g.Result(), ply)
	}
	if standPat.Value >= beta.Value {
		return nodes, standPat
	}
	if standPat.Value > alpha.Value {
		alpha = standPat
	}

	best := standPat
	for _, m := range g.LegalMoves() {
		if !m.IsCapture() || m.To != target {
			continue
		}

		g.PushLegalMove(m)
		n, score := quiesceCaptures(sctx, g, target, beta.Negate(), alpha.Negate(), ply+1)
		g.PopMove()
		nodes += n
		score = score.NegateAt(ply)

		if score.Value > best.Value {
			best = score
		}
		if best.Value > alpha.Value {
			alpha = best
		}
		if alpha.Value >= beta.Value {
			break
		}
	}

	return nodes, best
}
