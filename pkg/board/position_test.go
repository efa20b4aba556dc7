package board_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/format/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode parses a FEN and returns the position and side to move.
func decode(t *testing.T, s string) (*board.Position, board.Color) {
	t.Helper()

	pos, turn, _, _, err := fen.Decode(s)
	require.NoError(t, err)
	return pos, turn
}

func printMoves(moves []board.Move) string {
	var ret []string
	for _, m := range moves {
		ret = append(ret, m.String())
	}
	sort.Strings(ret)
	return strings.Join(ret, " ")
}

func TestLegalMoves(t *testing.T) {

	t.Run("king-boundary", func(t *testing.T) {
		tests := []struct {
			fen      string
			expected int
		}{
			{"7k/8/8/8/8/8/8/K7 w - - 0 1", 3},
			{"K6k/8/8/8/8/8/8/8 w - - 0 1", 3},
			{"k7/8/8/8/8/8/8/7K w - - 0 1", 3},
			{"k6K/8/8/8/8/8/8/8 w - - 0 1", 3},
			{"7k/8/8/K7/8/8/8/8 w - - 0 1", 5},  // edge file
			{"7k/8/8/8/3K4/8/8/8 w - - 0 1", 8}, // center
		}

		for _, tt := range tests {
			pos, turn := decode(t, tt.fen)
			assert.Len(t, pos.LegalMoves(turn), tt.expected, tt.fen)
		}
	})

	t.Run("pawn-counts", func(t *testing.T) {
		// A pawn on its home rank with an empty file has exactly two non-capture moves.
		pos, turn := decode(t, "7k/8/8/8/8/8/4P3/K7 w - - 0 1")
		var pawnMoves []board.Move
		for _, m := range pos.LegalMoves(turn) {
			if m.Piece == board.Pawn {
				pawnMoves = append(pawnMoves, m)
			}
		}
		assert.Equal(t, "e2e3 e2e4", printMoves(pawnMoves))

		// Blocked two squares ahead: one move.
		pos, turn = decode(t, "7k/8/8/8/4r3/8/4P3/K7 w - - 0 1")
		pawnMoves = nil
		for _, m := range pos.LegalMoves(turn) {
			if m.Piece == board.Pawn {
				pawnMoves = append(pawnMoves, m)
			}
		}
		assert.Equal(t, "e2e3", printMoves(pawnMoves))
	})

	t.Run("promotion", func(t *testing.T) {
		// A promoting push yields exactly four moves, one per promotion piece.
		pos, turn := decode(t, "7k/P7/8/8/8/8/8/K7 w - - 0 1")
		var promos []board.Move
		for _, m := range pos.LegalMoves(turn) {
			if m.IsPromotion() {
				promos = append(promos, m)
			}
		}
		assert.Equal(t, "a7a8b a7a8n a7a8q a7a8r", printMoves(promos))

		// A promoting capture likewise.
		pos, turn = decode(t, "1r5k/P7/8/8/8/8/8/K7 w - - 0 1")
		promos = nil
		for _, m := range pos.LegalMoves(turn) {
			if m.IsPromotion() && m.IsCapture() {
				promos = append(promos, m)
			}
		}
		assert.Equal(t, "a7b8b a7b8n a7b8q a7b8r", printMoves(promos))
	})

	t.Run("en-passant", func(t *testing.T) {
		pos, turn := decode(t, "7k/8/8/3pP3/8/8/8/K7 w - d6 0 1")
		var found bool
		for _, m := range pos.LegalMoves(turn) {
			if m.Type == board.EnPassant {
				found = true
				assert.Equal(t, board.E5, m.From)
				assert.Equal(t, board.D6, m.To)
				epc, ok := m.EnPassantCapture()
				require.True(t, ok)
				assert.Equal(t, board.D5, epc)
			}
		}
		assert.True(t, found)
	})

	t.Run("en-passant-pin", func(t *testing.T) {
		// Capturing en passant here removes both pawns from the fifth rank and exposes the
		// white king to the rook: the move must be filtered out.
		pos, turn := decode(t, "7k/8/8/K2pP2r/8/8/8/8 w - d6 0 1")
		for _, m := range pos.LegalMoves(turn) {
			assert.NotEqual(t, board.EnPassant, m.Type)
		}
	})

	t.Run("pin", func(t *testing.T) {
		// The e2 bishop is pinned against the king by the e8 rook: it has no legal moves.
		pos, turn := decode(t, "4r2k/8/8/8/8/8/4B3/4K3 w - - 0 1")
		for _, m := range pos.LegalMoves(turn) {
			assert.NotEqual(t, board.E2, m.From, "pinned bishop moved: %v", m)
		}
	})

	t.Run("simple-check", func(t *testing.T) {
		// Rook checks along the e-file. Legal responses: block, capture the checker, or move
		// the king off the file.
		pos, turn := decode(t, "4r2k/8/8/8/8/8/1B6/4K2R w - - 0 1")
		status, attacker := pos.Check(turn)
		assert.Equal(t, board.SimpleCheck, status)
		assert.Equal(t, board.E8, attacker)

		// Block with Be5, or step the king off the file.
		assert.Equal(t, "b2e5 e1d1 e1d2 e1f1 e1f2", printMoves(pos.LegalMoves(turn)))
	})

	t.Run("double-check", func(t *testing.T) {
		// Rook and bishop both attack the king: only king moves are legal.
		pos, turn := decode(t, "4r2k/8/8/b7/8/8/1R6/4K3 w - - 0 1")
		status, _ := pos.Check(turn)
		assert.Equal(t, board.DoubleCheck, status)

		for _, m := range pos.LegalMoves(turn) {
			assert.Equal(t, board.King, m.Piece)
		}
	})

	t.Run("castling", func(t *testing.T) {
		// Both white castles available.
		pos, turn := decode(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		assert.Equal(t, 2, countCastles(pos.LegalMoves(turn)))

		// The f1 pass-through square is attacked: king-side castling is disallowed, while
		// queen-side remains.
		pos, turn = decode(t, "r3k2r/8/8/1b6/8/8/8/R3K2R w KQkq - 0 1")
		moves := pos.LegalMoves(turn)
		assert.Equal(t, 1, countCastles(moves))
		for _, m := range moves {
			assert.NotEqual(t, board.KingSideCastle, m.Type)
		}

		// In check: no castling at all.
		pos, turn = decode(t, "r3k2r/8/8/8/8/4q3/8/R3K2R w KQkq - 0 1")
		assert.Equal(t, 0, countCastles(pos.LegalMoves(turn)))

		// Occupied between king and rook.
		pos, turn = decode(t, "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1")
		for _, m := range pos.LegalMoves(turn) {
			assert.NotEqual(t, board.KingSideCastle, m.Type)
		}
	})

	t.Run("no-own-check", func(t *testing.T) {
		// No legal move may leave the own king in check, from a handful of tactical middle
		// game positions.
		fens := []string{
			fen.Initial,
			"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
			"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
			"4r2k/8/8/8/8/8/1B6/4K2R w - - 0 1",
		}

		for _, f := range fens {
			pos, turn := decode(t, f)
			for _, m := range pos.LegalMoves(turn) {
				u := pos.MakeMove(turn, m)
				assert.False(t, pos.IsChecked(turn), "%v leaves own king in check: %v", m, f)
				pos.UnmakeMove(turn, m, u)
			}
		}
	})
}

func countCastles(moves []board.Move) int {
	count := 0
	for _, m := range moves {
		if m.IsCastle() {
			count++
		}
	}
	return count
}

func TestMakeUnmake(t *testing.T) {

	t.Run("roundtrip", func(t *testing.T) {
		// Making and unmaking every legal move restores the exact position, two plies deep
		// from a castling/en-passant-rich position.
		pos, turn := decode(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

		before := pos.String()
		for _, m := range pos.LegalMoves(turn) {
			u := pos.MakeMove(turn, m)

			opp := turn.Opponent()
			inner := pos.String()
			for _, m2 := range pos.LegalMoves(opp) {
				u2 := pos.MakeMove(opp, m2)
				pos.UnmakeMove(opp, m2, u2)
				require.Equal(t, inner, pos.String(), "inner roundtrip failed: %v %v", m, m2)
			}

			pos.UnmakeMove(turn, m, u)
			require.Equal(t, before, pos.String(), "roundtrip failed: %v", m)
		}
	})

	t.Run("castling-rights", func(t *testing.T) {
		pos, turn := decode(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

		// A king move loses both rights for that side.
		m := board.Move{Type: board.Normal, Piece: board.King, From: board.E1, To: board.E2}
		u := pos.MakeMove(turn, m)
		assert.False(t, pos.Castling().IsAllowed(board.WhiteKingSideCastle))
		assert.False(t, pos.Castling().IsAllowed(board.WhiteQueenSideCastle))
		assert.True(t, pos.Castling().IsAllowed(board.BlackKingSideCastle))
		pos.UnmakeMove(turn, m, u)
		assert.Equal(t, board.FullCastingRights, pos.Castling())

		// A rook move loses that side's single right.
		m = board.Move{Type: board.Normal, Piece: board.Rook, From: board.H1, To: board.H5}
		u = pos.MakeMove(turn, m)
		assert.False(t, pos.Castling().IsAllowed(board.WhiteKingSideCastle))
		assert.True(t, pos.Castling().IsAllowed(board.WhiteQueenSideCastle))
		pos.UnmakeMove(turn, m, u)

		// A capture on the rook's home square loses the right too.
		pos, turn = decode(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
		m = board.Move{Type: board.Capture, Piece: board.Rook, From: board.A8, To: board.A1, Capture: board.Rook}
		u = pos.MakeMove(turn, m)
		assert.False(t, pos.Castling().IsAllowed(board.WhiteQueenSideCastle))
		assert.False(t, pos.Castling().IsAllowed(board.BlackQueenSideCastle))
		pos.UnmakeMove(turn, m, u)
	})
}

func TestMaterial(t *testing.T) {

	t.Run("insufficient", func(t *testing.T) {
		tests := []struct {
			fen      string
			expected bool
		}{
			{"k7/8/8/8/8/8/8/7K b - - 0 1", true},    // K vs K
			{"k7/8/8/8/8/8/8/6BK b - - 0 1", true},   // K vs K+B
			{"kn6/8/8/8/8/8/8/6BK b - - 0 1", false}, // K+N vs K+B: both sides keep a minor
			{"kn6/n7/8/8/8/8/8/7K b - - 0 1", false}, // two minors
			{"k7/p7/8/8/8/8/8/7K b - - 0 1", false},  // pawn
			{"k7/8/8/8/8/8/8/6RK b - - 0 1", false},  // rook
			{fen.Initial, false},
		}

		for _, tt := range tests {
			pos, _ := decode(t, tt.fen)
			assert.Equal(t, tt.expected, pos.IsInsufficientMaterial(), tt.fen)
		}
	})

	t.Run("canwin", func(t *testing.T) {
		tests := []struct {
			fen      string
			color    board.Color
			expected bool
		}{
			{"k7/8/8/8/8/8/8/7K w - - 0 1", board.White, false},
			{"k7/8/8/8/8/8/8/6BK w - - 0 1", board.White, false}, // single minor
			{"k7/8/8/8/8/8/8/5NBK w - - 0 1", board.White, true}, // two minors
			{"k7/8/8/8/8/8/8/6RK w - - 0 1", board.White, true},
			{"k7/8/8/8/8/8/P7/7K w - - 0 1", board.White, true},
			{"kq6/8/8/8/8/8/8/7K w - - 0 1", board.Black, true},
		}

		for _, tt := range tests {
			pos, _ := decode(t, tt.fen)
			assert.Equal(t, tt.expected, pos.CanWin(tt.color), tt.fen)
		}
	})
}
