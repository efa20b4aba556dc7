package eval_test

import (
	"testing"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
	"github.com/corvidchess/mindline/pkg/format/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) *board.Position {
	t.Helper()

	pos, _, _, _, err := fen.Decode(s)
	require.NoError(t, err)
	return pos
}

func TestStatic(t *testing.T) {

	t.Run("balanced", func(t *testing.T) {
		// The starting position is mirror-symmetric: zero.
		pos := decode(t, fen.Initial)
		assert.Equal(t, 0, eval.Static(pos, 0))
	})

	t.Run("material", func(t *testing.T) {
		// White is a queen up: at least ten pawns' worth, regardless of square control.
		pos := decode(t, "4k3/pppppppp/8/8/8/8/PPPPPPPP/Q3K3 w - - 0 1")
		assert.Greater(t, eval.Static(pos, 40), 9000)

		// Black is a rook up.
		pos = decode(t, "r3k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 b - - 0 1")
		assert.Less(t, eval.Static(pos, 40), -4000)
	})

	t.Run("cannot-win", func(t *testing.T) {
		// Neither side can win: dead draw regardless of anything else.
		pos := decode(t, "k7/8/8/8/8/8/8/6BK w - - 0 1")
		assert.Equal(t, 0, eval.Static(pos, 40))

		// Only White can win: large bonus on top of the material edge.
		pos = decode(t, "k7/8/8/8/8/8/8/6RK w - - 0 1")
		assert.Greater(t, eval.Static(pos, 40), 100000)

		// Only Black can win.
		pos = decode(t, "kr6/8/8/8/8/8/8/7K w - - 0 1")
		assert.Less(t, eval.Static(pos, 40), -100000)
	})

	t.Run("square-control", func(t *testing.T) {
		// Same material, but the developed white queen controls far more squares.
		developed := decode(t, "4k3/8/8/8/3Q4/8/8/4K3 w - - 0 1")
		cornered := decode(t, "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
		assert.Greater(t, eval.Static(developed, 40), eval.Static(cornered, 40))
	})

	t.Run("nominal", func(t *testing.T) {
		assert.Equal(t, 1, eval.NominalValue(board.Pawn))
		assert.Equal(t, 3, eval.NominalValue(board.Knight))
		assert.Equal(t, 3, eval.NominalValue(board.Bishop))
		assert.Equal(t, 5, eval.NominalValue(board.Rook))
		assert.Equal(t, 10, eval.NominalValue(board.Queen))
		assert.Equal(t, 0, eval.NominalValue(board.King))
	})
}

func TestScore(t *testing.T) {

	t.Run("path-length", func(t *testing.T) {
		s := eval.New(100, 2, 6)
		assert.Equal(t, 4, s.PathLength())
		assert.False(t, s.IsMate())

		_, ok := s.MateDistance()
		assert.False(t, ok)
	})

	t.Run("mate", func(t *testing.T) {
		s := eval.New(eval.MatWhite, 0, 3)
		assert.True(t, s.IsMate())

		d, ok := s.MateDistance()
		require.True(t, ok)
		assert.Equal(t, 3, d)
	})

	t.Run("negate", func(t *testing.T) {
		s := eval.New(eval.MatBlack, 5, 5)
		n := s.NegateAt(4)
		assert.Equal(t, eval.MatWhite, n.Value)
		assert.Equal(t, 4, n.CurrentDepth)
		assert.Equal(t, 5, n.MaxDepth)
		assert.Equal(t, 1, n.PathLength())
	})

	t.Run("less", func(t *testing.T) {
		// Plain values compare by value.
		assert.True(t, eval.New(100, 0, 4).Less(eval.New(200, 0, 4), true))
		assert.False(t, eval.New(200, 0, 4).Less(eval.New(100, 0, 4), true))

		// Equal mate values break ties on path length: the maximizer prefers the faster
		// mate, the minimizer the slower one.
		fast := eval.New(eval.MatWhite, 0, 3)
		slow := eval.New(eval.MatWhite, 0, 7)
		assert.True(t, slow.Less(fast, true))
		assert.False(t, fast.Less(slow, true))
		assert.True(t, fast.Less(slow, false))

		// Equal non-mate values are not ordered.
		assert.False(t, eval.New(100, 0, 3).Less(eval.New(100, 0, 7), true))
	})

	t.Run("best", func(t *testing.T) {
		a, b := eval.New(100, 0, 4), eval.New(200, 0, 4)
		assert.Equal(t, b, eval.Best(a, b, true))
		assert.Equal(t, b, eval.Best(b, a, true))
	})
}

func TestRandom(t *testing.T) {

	t.Run("zero", func(t *testing.T) {
		var n eval.Random
		for i := 0; i < 10; i++ {
			assert.Equal(t, 0, n.Noise())
		}
	})

	t.Run("bounded", func(t *testing.T) {
		n := eval.NewRandom(100, 1)
		for i := 0; i < 1000; i++ {
			v := n.Noise()
			assert.GreaterOrEqual(t, v, -50)
			assert.Less(t, v, 50)
		}
	})
}
