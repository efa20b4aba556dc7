package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
	"github.com/corvidchess/mindline/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// aspirationWindow is the half-pawn width the driver narrows the window to around the previous
// iteration's score, in the millipawn scale eval.Static returns (one pawn = 1000).
const aspirationWindow = 500

// maxIterativeDepth bounds the ply depth of killer-move bookkeeping; iterative deepening stops
// well before this in practice, but the slice must be sized up front.
const maxIterativeDepth = 128

// Iterative is a search harness implementing the IDDFS driver: a capped mate-solver
// fast path, then full-width/aspiration-windowed iterative deepening with cooperative halting.
type Iterative struct {
	Root search.Search

	// Noise perturbs leaf evaluations; the zero value applies none.
	Noise eval.Random
}

func (it *Iterative) Launch(ctx context.Context, g *board.Game, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, it.Root, it.Noise, g, tt, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, noise eval.Random, g *board.Game, tt search.TranspositionTable, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	g = g.Clone()

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, g.Turn())

	if capPlies, ok := opt.MateSearchPlies.V(); ok && capPlies > 0 && len(opt.SearchMoves) == 0 {
		if m, plies, found := search.SolveMate(g, int(capPlies)); found {
			pv := search.PV{Depth: plies, Moves: []board.Move{m}, Score: eval.New(eval.MatWhite, 0, plies)}
			h.publish(pv, out)
			return
		}
	}

	killers := search.NewKillers(maxIterativeDepth)
	tt.NewGeneration()

	var prevScore eval.Score
	haveScore := false

	searchStart := time.Now()
	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		alpha, beta := eval.NegInfScore, eval.PosInfScore
		if haveScore {
			alpha = eval.New(prevScore.Value-aspirationWindow, 0, depth)
			beta = eval.New(prevScore.Value+aspirationWindow, 0, depth)
		}

		// Stream root-level "best so far" improvements, so a halt mid-iteration still has a
		// move to report.
		onRootBest := func(m board.Move) {
			h.publish(search.PV{Depth: depth, Moves: []board.Move{m}}, out)
		}

		sctx := &search.Context{Alpha: alpha, Beta: beta, TT: tt, Killers: killers, Noise: noise, RootMoves: opt.SearchMoves, OnRootBest: onRootBest}
		nodes, score, moves, err := root.Search(wctx, sctx, g, depth)
		if err == search.ErrHalted {
			return
		}
		if err != nil {
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", g, depth, err)
			return
		}

		if haveScore && (score.Value <= alpha.Value || score.Value >= beta.Value) {
			// Aspiration window fallout: re-search this depth full-width.
			sctx = &search.Context{Alpha: eval.NegInfScore, Beta: eval.PosInfScore, TT: tt, Killers: killers, Noise: noise, RootMoves: opt.SearchMoves, OnRootBest: onRootBest}
			nodes, score, moves, err = root.Search(wctx, sctx, g, depth)
			if err == search.ErrHalted {
				return
			}
			if err != nil {
				logw.Errorf(ctx, "Re-search failed on %v at depth=%v: %v", g, depth, err)
				return
			}
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Used()
		}

		logw.Debugf(ctx, "Searched %v: %v", g.Position(), pv)
		h.publish(pv, out)

		prevScore, haveScore = score, true

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return
		}
		if md, ok := score.MateDistance(); ok && md <= depth {
			return
		}
		if useSoft && soft < time.Since(searchStart) {
			return
		}
		depth++
	}
}

func (h *handle) publish(pv search.PV, out chan search.PV) {
	h.mu.Lock()
	h.pv = pv
	h.mu.Unlock()

	select {
	case <-out:
	default:
	}
	out <- pv

	h.init.Close()
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
