package eval

import "github.com/corvidchess/mindline/pkg/board"

const (
	materialFactor = 1000
	controlFactor  = 10
	cannotWinBonus = 100000

	openingPlyLimit = 20
)

var pieceWeight = map[board.Piece]int{
	board.Pawn:   1,
	board.Knight: 3,
	board.Bishop: 3,
	board.Rook:   5,
	board.Queen:  10,
	board.King:   0,
}

var centralSquares = buildCentralMask()

func buildCentralMask() board.Bitboard {
	var mask board.Bitboard
	for f := board.FileC; f <= board.FileF; f++ {
		for r := board.Rank3; r <= board.Rank6; r++ {
			mask |= board.BitMask(board.NewSquare(f, r))
		}
	}
	return mask
}

// Static returns the centipawn-scale evaluation of pos from White's perspective, at the given
// ply count since the game start (used to gate the opening-only central control weighting):
// material, dynamic square control, and the cannot-win override.
func Static(pos *board.Position, plyCount int) int {
	material := materialScore(pos)
	control := controlScore(pos, plyCount)
	score := material*materialFactor + control*controlFactor

	whiteCanWin := pos.CanWin(board.White)
	blackCanWin := pos.CanWin(board.Black)
	switch {
	case !whiteCanWin && !blackCanWin:
		return 0
	case whiteCanWin && !blackCanWin:
		return score + cannotWinBonus
	case blackCanWin && !whiteCanWin:
		return score - cannotWinBonus
	default:
		return score
	}
}

// NominalValue returns the nominal {P:1, N:3, B:3, R:5, Q:10, K:0} weight of a piece, used by
// move ordering for MVV-LVA and promotion ranking.
func NominalValue(p board.Piece) int {
	return pieceWeight[p]
}

func materialScore(pos *board.Position) int {
	var white, black int
	for piece, weight := range pieceWeight {
		white += pos.PieceOccupancy(board.White, piece).PopCount() * weight
		black += pos.PieceOccupancy(board.Black, piece).PopCount() * weight
	}
	return white - black
}

// controlScore counts attacked squares per side: pawn attacks count once, other pieces' attacks
// count twice, and central squares are weighted extra only during the opening.
func controlScore(pos *board.Position, plyCount int) int {
	return sideControl(pos, board.White, plyCount) - sideControl(pos, board.Black, plyCount)
}

func sideControl(pos *board.Position, c Color, plyCount int) int {
	total := 0

	pawnAttacks := board.PawnCaptureboard(c, pos.PieceOccupancy(c, board.Pawn))
	total += weightedCount(pawnAttacks, plyCount, 1)

	occ := pos.Occupancy()
	for _, piece := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		pieces := pos.PieceOccupancy(c, piece)
		for pieces != 0 {
			sq := pieces.PopLSB()
			attacks := board.Attackboard(occ, sq, piece)
			total += weightedCount(attacks, plyCount, 2)
		}
	}
	return total
}

func weightedCount(attacks board.Bitboard, plyCount, multiplier int) int {
	if plyCount >= openingPlyLimit {
		return attacks.PopCount() * multiplier
	}

	central := attacks & centralSquares
	other := attacks &^ centralSquares
	return (central.PopCount()*2 + other.PopCount()) * multiplier
}

// Color is a local alias to keep call sites in this file terse.
type Color = board.Color
