package mcts

import (
	"context"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
	"github.com/corvidchess/mindline/pkg/search"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// defaultIterationsPerDepth scales the iterative-deepening depth budget to a playout budget.
const defaultIterationsPerDepth = 250

// Search adapts the Monte Carlo tree to the search.Search interface, so the engine can run
// either core behind the same launcher. The nominal depth budget is interpreted as an
// iteration budget, since MCTS has no horizon.
type Search struct {
	// Seed seeds playout randomness.
	Seed int64
	// Exploration is the UCB1 constant c. Defaults to sqrt(2) if zero.
	Exploration float64
	// Playouts is the number of random games per simulation (K). Defaults to 1.
	Playouts int
	// IterationsPerDepth converts the depth budget to iterations. Defaults to 250.
	IterationsPerDepth int
}

func (s Search) Search(ctx context.Context, sctx *search.Context, g *board.Game, maxDepth int) (uint64, eval.Score, []board.Move, error) {
	per := s.IterationsPerDepth
	if per == 0 {
		per = defaultIterationsPerDepth
	}

	t := NewTree(g, s.Seed)
	t.Exploration = s.Exploration
	t.Playouts = s.Playouts

	iterations := maxDepth * per
	m, ok := t.Run(ctx, iterations)
	if contextx.IsCancelled(ctx) {
		return uint64(iterations), eval.Score{}, nil, search.ErrHalted
	}
	if !ok {
		return uint64(iterations), search.EndgameScore(g.Result(), 0), nil, nil
	}

	// Fold the root win rate onto the centipawn-ish scale the launcher reports: 0 for an even
	// position, +/-1000 for a certain win/loss for the side to move.
	rate := t.RootWinRate()
	value := int(2000*rate) - 1000

	return uint64(iterations), eval.New(value, 0, maxDepth), []board.Move{m}, nil
}
