package board_test

import (
	"testing"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestBitboard(t *testing.T) {

	t.Run("popcount", func(t *testing.T) {
		tests := []struct {
			bb       board.Bitboard
			expected int
		}{
			{board.EmptyBitboard, 0},
			{board.BitMask(board.G4), 1},
			{board.BitMask(board.G3) | board.BitMask(board.G4), 2},
			{board.BitRank(board.Rank2), 8},
			{^board.EmptyBitboard, 64},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.bb.PopCount())
		}
	})

	t.Run("lsb-msb", func(t *testing.T) {
		bb := board.BitMask(board.C2) | board.BitMask(board.F7)
		assert.Equal(t, board.C2, bb.LSB())
		assert.Equal(t, board.F7, bb.MSB())

		assert.Equal(t, board.C2, bb.PopLSB())
		assert.Equal(t, board.F7, bb.PopLSB())
		assert.True(t, bb.Empty())
	})

	t.Run("onebitsetmax", func(t *testing.T) {
		assert.True(t, board.EmptyBitboard.OneBitSetMax())
		assert.True(t, board.BitMask(board.A1).OneBitSetMax())
		assert.False(t, (board.BitMask(board.A1) | board.BitMask(board.H8)).OneBitSetMax())
	})

	t.Run("string", func(t *testing.T) {
		tests := []struct {
			bb       board.Bitboard
			expected string
		}{
			{board.EmptyBitboard, "--------/--------/--------/--------/--------/--------/--------/--------"},
			{board.BitMask(board.H1), "--------/--------/--------/--------/--------/--------/--------/-------X"},
			{board.BitMask(board.G3) | board.BitMask(board.G4), "--------/--------/--------/--------/------X-/------X-/--------/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.bb.String())
		}
	})

	t.Run("king", func(t *testing.T) {
		tests := []struct {
			sq       board.Square
			expected string
		}{
			{board.H1, "--------/--------/--------/--------/--------/--------/------XX/------X-"},
			{board.D1, "--------/--------/--------/--------/--------/--------/--XXX---/--X-X---"},
			{board.D3, "--------/--------/--------/--------/--XXX---/--X-X---/--XXX---/--------"},
			{board.A3, "--------/--------/--------/--------/XX------/-X------/XX------/--------"},
			{board.B7, "XXX-----/X-X-----/XXX-----/--------/--------/--------/--------/--------"},
			{board.A8, "-X------/XX------/--------/--------/--------/--------/--------/--------"},
			{board.H8, "------X-/------XX/--------/--------/--------/--------/--------/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, board.KingAttackboard(tt.sq).String())
		}
	})

	// The king attack counts quantify the boundary behavior: 3 in a corner, 5 on an edge, 8
	// in the center.
	t.Run("king-counts", func(t *testing.T) {
		for _, sq := range []board.Square{board.A1, board.A8, board.H1, board.H8} {
			assert.Equal(t, 3, board.KingAttackboard(sq).PopCount(), "corner %v", sq)
		}
		for _, sq := range []board.Square{board.A4, board.H5, board.D1, board.E8} {
			assert.Equal(t, 5, board.KingAttackboard(sq).PopCount(), "edge %v", sq)
		}
		for _, sq := range []board.Square{board.D4, board.E5, board.C6} {
			assert.Equal(t, 8, board.KingAttackboard(sq).PopCount(), "center %v", sq)
		}
	})

	t.Run("knight", func(t *testing.T) {
		tests := []struct {
			sq       board.Square
			expected string
		}{
			{board.H1, "--------/--------/--------/--------/--------/------X-/-----X--/--------"},
			{board.D1, "--------/--------/--------/--------/--------/--X-X---/-X---X--/--------"},
			{board.D3, "--------/--------/--------/--X-X---/-X---X--/--------/-X---X--/--X-X---"},
			{board.A3, "--------/--------/--------/-X------/--X-----/--------/--X-----/-X------"},
			{board.B7, "---X----/--------/---X----/X-X-----/--------/--------/--------/--------"},
			{board.A8, "--------/--X-----/-X------/--------/--------/--------/--------/--------"},
			{board.H8, "--------/-----X--/------X-/--------/--------/--------/--------/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, board.KnightAttackboard(tt.sq).String())
		}
	})

	t.Run("knight-counts", func(t *testing.T) {
		for _, sq := range []board.Square{board.A1, board.A8, board.H1, board.H8} {
			assert.Equal(t, 2, board.KnightAttackboard(sq).PopCount(), "corner %v", sq)
		}
		for _, sq := range []board.Square{board.A4, board.B1, board.H6, board.G8} {
			assert.LessOrEqual(t, board.KnightAttackboard(sq).PopCount(), 4, "rim %v", sq)
		}
		for _, sq := range []board.Square{board.C3, board.D4, board.E5, board.F6} {
			assert.Equal(t, 8, board.KnightAttackboard(sq).PopCount(), "center %v", sq)
		}
	})

	t.Run("rook", func(t *testing.T) {
		tests := []struct {
			sq       board.Square
			occ      board.Bitboard
			expected string
		}{
			{ // Open board: full rank and file.
				board.D4, board.EmptyBitboard,
				"---X----/---X----/---X----/---X----/XXX-XXXX/---X----/---X----/---X----",
			},
			{ // Blockers halt the ray at and including the first obstruction.
				board.D4, board.BitMask(board.D6) | board.BitMask(board.F4) | board.BitMask(board.D2),
				"--------/--------/---X----/---X----/XXX-XX--/---X----/---X----/--------",
			},
			{ // Corner.
				board.A1, board.EmptyBitboard,
				"X-------/X-------/X-------/X-------/X-------/X-------/X-------/-XXXXXXX",
			},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, board.RookAttackboard(tt.occ, tt.sq).String())
		}
	})

	t.Run("bishop", func(t *testing.T) {
		tests := []struct {
			sq       board.Square
			occ      board.Bitboard
			expected string
		}{
			{ // Open board: both diagonals.
				board.D4, board.EmptyBitboard,
				"-------X/X-----X-/-X---X--/--X-X---/--------/--X-X---/-X---X--/X-----X-",
			},
			{ // Blockers on two of the four half-diagonals.
				board.D4, board.BitMask(board.F6) | board.BitMask(board.B2),
				"--------/X-------/-X---X--/--X-X---/--------/--X-X---/-X---X--/------X-",
			},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, board.BishopAttackboard(tt.occ, tt.sq).String())
		}
	})

	t.Run("pawns", func(t *testing.T) {
		white := board.BitMask(board.E2)
		assert.True(t, board.PawnCaptureboard(board.White, white).IsSet(board.D3))
		assert.True(t, board.PawnCaptureboard(board.White, white).IsSet(board.F3))
		assert.Equal(t, 2, board.PawnCaptureboard(board.White, white).PopCount())

		// Edge pawns do not wrap around the board.
		edge := board.BitMask(board.A2) | board.BitMask(board.H2)
		captures := board.PawnCaptureboard(board.White, edge)
		assert.Equal(t, 2, captures.PopCount())
		assert.True(t, captures.IsSet(board.B3))
		assert.True(t, captures.IsSet(board.G3))

		black := board.BitMask(board.D5)
		assert.True(t, board.PawnCaptureboard(board.Black, black).IsSet(board.C4))
		assert.True(t, board.PawnCaptureboard(board.Black, black).IsSet(board.E4))

		// Single-step moves are masked by occupancy.
		blocked := board.PawnMoveboard(board.BitMask(board.E3), board.White, white)
		assert.True(t, blocked.Empty())
	})
}
