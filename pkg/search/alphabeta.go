package search

import (
	"context"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// halfPawn is the null-move-window threshold used by allowNullMove, expressed in the
// millipawn scale eval.Static returns (one pawn = 1000).
const halfPawn = 500

// nullMoveMinRemaining is the minimum remaining depth null-move pruning requires.
const nullMoveMinRemaining = 4

// checkExtensionBudget caps the number of consecutive check-extension plies below max depth,
// so a perpetual-check sequence at the horizon cannot recurse without bound; not named by the
// ordering/extension rules directly, but required for termination.
const checkExtensionBudget = 6

// AlphaBeta implements the negamax-flavored α/β search core, with a transposition table,
// killer moves, compound move ordering, null-move pruning, late move reductions, and the
// capture-horizon/check-extension leaf resolution.
type AlphaBeta struct{}

func (AlphaBeta) Search(ctx context.Context, sctx *Context, g *board.Game, maxDepth int) (uint64, eval.Score, []board.Move, error) {
	r := &run{
		tt:         sctx.TT,
		killers:    sctx.Killers,
		noise:      sctx.Noise,
		rootMoves:  sctx.RootMoves,
		onRootBest: sctx.OnRootBest,
		g:          g,
	}

	alpha, beta := sctx.Alpha, sctx.Beta
	score, moves := r.search(ctx, 0, maxDepth, alpha, beta, false)
	if contextx.IsCancelled(ctx) {
		return r.nodes, eval.Score{}, nil, ErrHalted
	}
	return r.nodes, score, moves, nil
}

type run struct {
	tt         TranspositionTable
	killers    *Killers
	noise      eval.Random
	rootMoves  []board.Move
	onRootBest func(board.Move)
	g          *board.Game
	nodes      uint64
}

// search implements a single α/β node. ply is the distance from the search root
// (used for killer slots and mate-distance bookkeeping); remaining is the depth budget still
// to spend below this node, independently reducible via null-move pruning and LMR.
func (r *run) search(ctx context.Context, ply, remaining int, alpha, beta eval.Score, lastWasNull bool) (eval.Score, []board.Move) {
	if contextx.IsCancelled(ctx) {
		return eval.New(eval.Draw, ply, ply), nil
	}

	if !r.g.Result().None() {
		return EndgameScore(r.g.Result(), ply), nil
	}

	hash := r.g.Hash()
	var ttCurrent, ttPrevious board.Move
	var ttCurrentOK, ttPreviousOK bool
	if bound, depth, score, move, ok := r.tt.Read(hash); ok {
		switch {
		case depth >= remaining:
			ttCurrent, ttCurrentOK = move, true
			switch bound {
			case ExactBound:
				return score, firstAsPV(move)
			case LowerBound:
				if score.Value >= beta.Value {
					return score, firstAsPV(move)
				}
			case UpperBound:
				if score.Value <= alpha.Value {
					return score, firstAsPV(move)
				}
			}
		default:
			ttPrevious, ttPreviousOK = move, true
		}
	}

	if remaining <= 0 {
		return r.resolveLeaf(ctx, ply, alpha, beta, 0)
	}

	r.nodes++

	pos := r.g.Position()
	turn := r.g.Turn()
	inCheck := pos.IsChecked(turn)

	if allowNullMove(r.g, remaining, inCheck, lastWasNull, alpha, beta) {
		u := r.g.MakeNullMove()
		reduced := remaining - (remaining / 6) - 2
		nullAlpha := beta.Negate()
		nullBeta := eval.New(nullAlpha.Value+1, nullAlpha.CurrentDepth, nullAlpha.MaxDepth)
		score, _ := r.search(ctx, ply+1, reduced, nullAlpha, nullBeta, true)
		score = score.Negate()
		r.g.UnmakeNullMove(u)

		if score.Value >= beta.Value {
			return beta, nil
		}
	}

	moves := r.g.LegalMoves()
	if ply == 0 && len(r.rootMoves) > 0 {
		moves = restrictMoves(moves, r.rootMoves)
	}

	var lastTo board.Square
	var lastToOK bool
	if last, ok := r.g.LastMove(); ok && last.IsCapture() {
		lastTo, lastToOK = last.To, true
	}
	info := orderingInfo{
		pos: pos, turn: turn,
		ttMove: ttCurrent, ttOK: ttCurrentOK,
		ttPrev: ttPrevious, ttPrevOK: ttPreviousOK,
		killers: r.killers, ply: ply,
		recapture: lastTo, recaptureOK: lastToOK,
	}

	list := orderMoves(moves, info)

	var best board.Move
	var pv []board.Move
	bound := UpperBound
	idx := 0

	for {
		m, ok := list.Next()
		if !ok {
			break
		}

		childRemaining := remaining - 1
		if ply > 3 && idx > 2 && !isSpecialMove(m, info) && !inCheck {
			childRemaining = remaining - 2
		}

		r.g.PushLegalMove(m)
		score, rem := r.search(ctx, ply+1, childRemaining, beta.Negate(), alpha.Negate(), false)
		score = score.NegateAt(ply)

		if childRemaining == remaining-2 && score.Value > alpha.Value {
			// Fail-high on the reduced search: re-search at full depth.
			score, rem = r.search(ctx, ply+1, remaining-1, beta.Negate(), alpha.Negate(), false)
			score = score.NegateAt(ply)
		}
		r.g.PopMove()

		idx++

		// Less also breaks equal mate values on path length, so the faster mate wins.
		if alpha.Less(score, true) {
			alpha = score
			best = m
			pv = append([]board.Move{m}, rem...)
			bound = ExactBound

			if ply == 0 && r.onRootBest != nil {
				r.onRootBest(m)
			}
		}

		if alpha.Value >= beta.Value {
			if m.IsQuiet() && r.killers != nil {
				r.killers.Add(ply, m)
			}
			bound = LowerBound
			break
		}
	}

	r.tt.Write(hash, bound, remaining, alpha, best)
	return alpha, pv
}

// resolveLeaf evaluates a node at the search horizon, applying the capture-horizon and
// check-extension rules.
func (r *run) resolveLeaf(ctx context.Context, ply int, alpha, beta eval.Score, checkExtensions int) (eval.Score, []board.Move) {
	r.nodes++

	if !r.g.Result().None() {
		return EndgameScore(r.g.Result(), ply), nil
	}

	turn := r.g.Turn()
	if r.g.Position().IsChecked(turn) && checkExtensions < checkExtensionBudget {
		return r.searchCheckExtension(ctx, ply, alpha, beta, checkExtensions+1)
	}

	if last, ok := r.g.LastMove(); ok && last.IsCapture() {
		nodes, score := quiesceCaptures(&Context{Noise: r.noise}, r.g, last.To, alpha, beta, ply)
		r.nodes += nodes
		return score, nil
	}

	return eval.New(staticEval(r.g, &Context{Noise: r.noise}), ply, ply), nil
}

// searchCheckExtension extends the search by one ply when the side to move is in check at
// the horizon.
func (r *run) searchCheckExtension(ctx context.Context, ply int, alpha, beta eval.Score, checkExtensions int) (eval.Score, []board.Move) {
	moves := r.g.LegalMoves()
	if len(moves) == 0 {
		return EndgameScore(r.g.Result(), ply), nil
	}

	info := orderingInfo{pos: r.g.Position(), turn: r.g.Turn()}
	list := orderMoves(moves, info)

	var best []board.Move
	for {
		m, ok := list.Next()
		if !ok {
			break
		}

		r.g.PushLegalMove(m)
		score, rem := r.resolveLeaf(ctx, ply+1, beta.Negate(), alpha.Negate(), checkExtensions)
		score = score.NegateAt(ply)
		r.g.PopMove()

		if alpha.Less(score, true) {
			alpha = score
			best = append([]board.Move{m}, rem...)
		}
		if alpha.Value >= beta.Value {
			break
		}
	}
	return alpha, best
}

// allowNullMove reports whether null-move pruning applies at this node: not in
// check, not near the end-game by material, sufficient remaining depth, a window wide enough
// to make the reduced search meaningful, the previous move was not itself a null move, and the
// side to move has at least one legal non-capture to make (otherwise a null move cannot stand
// for a real alternative).
func allowNullMove(g *board.Game, remaining int, inCheck, lastWasNull bool, alpha, beta eval.Score) bool {
	if inCheck || lastWasNull || remaining <= nullMoveMinRemaining-1 {
		return false
	}
	if beta.Value-alpha.Value < halfPawn {
		return false
	}
	if beta.Value >= eval.MatWhite-1 || beta.Value <= eval.MatBlack+1 {
		return false
	}

	turn := g.Turn()
	if !g.Position().CanWin(turn) {
		return false
	}

	for _, m := range g.LegalMoves() {
		if !m.IsCapture() {
			return true
		}
	}
	return false
}

// restrictMoves filters legal to the moves also present in allowed, which may carry only
// From/To/Promotion. Returns legal unchanged if nothing matches, so a bogus searchmoves list
// degrades to a full search rather than an empty one.
func restrictMoves(legal, allowed []board.Move) []board.Move {
	var ret []board.Move
	for _, m := range legal {
		for _, a := range allowed {
			if m.Equals(a) {
				ret = append(ret, m)
				break
			}
		}
	}
	if len(ret) == 0 {
		return legal
	}
	return ret
}

func firstAsPV(m board.Move) []board.Move {
	if (m == board.Move{}) {
		return nil
	}
	return []board.Move{m}
}
