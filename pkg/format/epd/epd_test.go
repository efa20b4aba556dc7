package epd_test

import (
	"testing"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/format/epd"
	"github.com/corvidchess/mindline/pkg/format/san"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {

	t.Run("bm", func(t *testing.T) {
		r, err := epd.Decode(san.English, `rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - bm Nf3; id "open game";`)
		require.NoError(t, err)

		assert.Equal(t, board.White, r.Turn)
		require.Len(t, r.BestMoves, 1)
		assert.Equal(t, "g1f3", r.BestMoves[0].String())

		require.Len(t, r.Ops, 2)
		assert.Equal(t, epd.Operation{Code: "bm", Operand: "Nf3"}, r.Ops[0])
		assert.Equal(t, epd.Operation{Code: "id", Operand: "open game"}, r.Ops[1])
	})

	t.Run("am", func(t *testing.T) {
		r, err := epd.Decode(san.English, `rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - am Ke2;`)
		require.NoError(t, err)

		require.Len(t, r.AvoidMoves, 1)
		assert.Equal(t, "e1e2", r.AvoidMoves[0].String())
	})

	t.Run("errors", func(t *testing.T) {
		tests := []string{
			"",
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq",           // too few fields
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - bm Nf6;", // illegal SAN
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - bm Nf3",  // unterminated
			`rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - id "x;`,  // unterminated quote
		}

		for _, tt := range tests {
			_, err := epd.Decode(san.English, tt)
			assert.Error(t, err, "%q", tt)
		}
	})
}

func TestEncode(t *testing.T) {

	t.Run("roundtrip", func(t *testing.T) {
		// Decode then encode yields the canonical form with operations in their original
		// order.
		tests := []string{
			`rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - bm Nf3; id "open game";`,
			`rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - id "a"; bm Nf3; am Ke2;`,
			`r3k2r/8/8/8/8/8/8/R3K2R w KQkq - bm O-O;`,
		}

		for _, tt := range tests {
			r, err := epd.Decode(san.English, tt)
			require.NoError(t, err)
			assert.Equal(t, tt, epd.Encode(san.English, r))
		}
	})
}
