package search_test

import (
	"context"
	"strings"
	"testing"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
	"github.com/corvidchess/mindline/pkg/format/fen"
	"github.com/corvidchess/mindline/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zt = board.NewZobristTable(1)

// game builds a Game from a FEN and applies the space-separated moves in long algebraic
// notation.
func game(t *testing.T, position, moves string) *board.Game {
	t.Helper()

	pos, turn, halfMove, fullMoves, err := fen.Decode(position)
	require.NoError(t, err)

	g := board.NewGame(zt, pos, turn, halfMove, fullMoves)
	for _, str := range strings.Fields(moves) {
		m, err := board.ParseMove(str)
		require.NoError(t, err)
		require.True(t, g.PushMove(m), "illegal move %v", str)
	}
	return g
}

// run searches g to the given depth with a fresh search context.
func run(t *testing.T, g *board.Game, depth int) (eval.Score, []board.Move) {
	t.Helper()

	ctx := context.Background()
	sctx := &search.Context{
		Alpha:   eval.NegInfScore,
		Beta:    eval.PosInfScore,
		TT:      search.NewTranspositionTable(ctx, 1<<20),
		Killers: search.NewKillers(64),
	}

	_, score, moves, err := search.AlphaBeta{}.Search(ctx, sctx, g, depth)
	require.NoError(t, err)
	return score, moves
}

func TestAlphaBeta(t *testing.T) {

	t.Run("mate-in-1", func(t *testing.T) {
		// Back-rank mate: Ra8#.
		g := game(t, "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", "")

		score, moves := run(t, g, 3)
		require.NotEmpty(t, moves)
		assert.Equal(t, "a1a8", moves[0].String())
		assert.Equal(t, eval.MatWhite, score.Value)
	})

	t.Run("mate-in-2", func(t *testing.T) {
		// King and rook mate: 1.Kb6 Kb8 (forced) 2.Rh8#.
		g := game(t, "k7/8/2K5/8/8/8/8/7R w - - 0 1", "")

		score, moves := run(t, g, 4)
		require.NotEmpty(t, moves)
		assert.Equal(t, eval.MatWhite, score.Value)
		assert.LessOrEqual(t, score.PathLength(), 3)
	})

	t.Run("hanging-queen", func(t *testing.T) {
		// Black's queen hangs on d5: any reasonable search takes it.
		g := game(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1", "")

		_, moves := run(t, g, 3)
		require.NotEmpty(t, moves)
		assert.Equal(t, "d2d5", moves[0].String())
	})

	t.Run("mated-root", func(t *testing.T) {
		// The side to move is already mated: no moves, mate score against the mover.
		g := game(t, "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", "a1a8")

		score, moves := run(t, g, 3)
		assert.Empty(t, moves)
		assert.Equal(t, eval.MatBlack, score.Value)
	})

	t.Run("stalemate-is-draw", func(t *testing.T) {
		// White must not "win" a stalemate: searching the stalemating line scores zero.
		g := game(t, "k7/7R/1R6/8/8/8/8/7K w - - 0 1", "h1g1")

		score, moves := run(t, g, 3)
		assert.Empty(t, moves)
		assert.Equal(t, eval.Draw, score.Value)
	})

	t.Run("root-restriction", func(t *testing.T) {
		// With the best capture excluded, the search must pick among the allowed moves.
		g := game(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1", "")

		ctx := context.Background()
		sctx := &search.Context{
			Alpha:     eval.NegInfScore,
			Beta:      eval.PosInfScore,
			TT:        search.NoTranspositionTable{},
			Killers:   search.NewKillers(64),
			RootMoves: []board.Move{{From: board.E1, To: board.F1}, {From: board.E1, To: board.F2}},
		}

		_, _, moves, err := search.AlphaBeta{}.Search(ctx, sctx, g, 2)
		require.NoError(t, err)
		require.NotEmpty(t, moves)
		assert.Equal(t, board.E1, moves[0].From)
	})

	t.Run("halted", func(t *testing.T) {
		g := game(t, fen.Initial, "")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sctx := &search.Context{
			Alpha:   eval.NegInfScore,
			Beta:    eval.PosInfScore,
			TT:      search.NoTranspositionTable{},
			Killers: search.NewKillers(64),
		}

		_, _, _, err := search.AlphaBeta{}.Search(ctx, sctx, g, 5)
		assert.Equal(t, search.ErrHalted, err)
	})

	t.Run("restores-game", func(t *testing.T) {
		// The search leaves the game exactly as it found it.
		g := game(t, "r1bqkb1r/pppp1ppp/2n5/3np3/4P3/2N2N2/PPPP1PPP/R1BQKB1R w KQkq - 0 1", "")

		before := g.Position().String()
		hash := g.Hash()

		run(t, g, 3)

		assert.Equal(t, before, g.Position().String())
		assert.Equal(t, hash, g.Hash())
	})
}
