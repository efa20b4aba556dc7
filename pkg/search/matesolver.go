package search

import "github.com/corvidchess/mindline/pkg/board"

// SolveMate runs a forced-mate search bounded by capPlies. At even plies (the side
// to move at the root, the "attacker") only check-giving moves are considered; at odd plies
// (the "defender") every legal reply is considered, and the attacker's move is only credited
// with a forced mate if every defender reply eventually leads to mate within the cap. Returns
// the attacker's move, the number of plies to mate, and whether a mate was found.
func SolveMate(g *board.Game, capPlies int) (board.Move, int, bool) {
	return attackerSearch(g, 0, capPlies)
}

// attackerSearch finds the shortest forced mate starting with an attacker move at ply, trying
// only moves that give check. ply is the absolute distance from the root.
func attackerSearch(g *board.Game, ply, capPlies int) (board.Move, int, bool) {
	if ply >= capPlies {
		return board.Move{}, 0, false
	}

	var best board.Move
	bestLen := 0
	found := false

	for _, m := range g.LegalMoves() {
		if !givesCheck(g.Position(), g.Turn(), m) {
			continue
		}

		g.PushLegalMove(m)
		mateLen, ok := resolveAfterAttackerMove(g, ply, capPlies)
		g.PopMove()

		if !ok {
			continue
		}
		if !found || mateLen < bestLen {
			best, bestLen, found = m, mateLen, true
		}
	}

	return best, bestLen, found
}

// resolveAfterAttackerMove evaluates the position immediately after an attacker move played at
// ply: an immediate mate, a dead end (stalemate or other draw), or, if the game continues, a
// defender node that must be escape-free within the cap.
func resolveAfterAttackerMove(g *board.Game, ply, capPlies int) (int, bool) {
	switch g.Result().Outcome {
	case board.Mate:
		return ply + 1, true
	case board.NoOutcome:
		return defenderSearch(g, ply+1, capPlies)
	default:
		return 0, false // stalemate or other draw: this line does not mate
	}
}

// defenderSearch requires every legal defender reply at ply to lead to a forced mate within the
// cap; the defender is credited with the reply that delays mate the longest, since a single
// escaping reply defeats the whole attacker line.
func defenderSearch(g *board.Game, ply, capPlies int) (int, bool) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		// Should not happen: a true mate/stalemate here was already resolved by the caller.
		return 0, false
	}
	if ply >= capPlies {
		return 0, false
	}

	worst := 0
	for _, m := range moves {
		g.PushLegalMove(m)
		_, mateLen, ok := attackerSearch(g, ply+1, capPlies)
		g.PopMove()

		if !ok {
			return 0, false // defender escapes via this reply
		}
		if mateLen > worst {
			worst = mateLen
		}
	}
	return worst, true
}
