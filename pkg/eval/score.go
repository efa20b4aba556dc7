// Package eval computes centipawn-scale position scores from White's perspective.
package eval

import "math"

// Score is a search value paired with the depth information needed to break ties between mate
// lines: {value, current_depth, max_depth}. Positive values favor White.
type Score struct {
	Value        int
	CurrentDepth int
	MaxDepth     int
}

const (
	// MatWhite and MatBlack are the reserved extreme values representing "White/Black delivers
	// mate". Kept well clear of any real material/positional sum.
	MatWhite = math.MaxInt32 / 2
	MatBlack = -MatWhite

	// Draw is the neutral value returned by cancelled/interrupted search nodes.
	Draw = 0

	// negInf and posInf bound the root search window. They sit strictly outside the mate
	// constants so they are never themselves mistaken for a forced mate by IsMate.
	negInf = MatBlack - 1
	posInf = MatWhite + 1
)

// NegInfScore and PosInfScore are the widest possible root search window, used to start a
// full-width search (e.g. the first IDDFS iteration, before any aspiration window exists).
var (
	NegInfScore = Score{Value: negInf}
	PosInfScore = Score{Value: posInf}
)

func New(value, currentDepth, maxDepth int) Score {
	return Score{Value: value, CurrentDepth: currentDepth, MaxDepth: maxDepth}
}

// PathLength is the number of plies from the current node to the leaf that produced this score.
func (s Score) PathLength() int {
	return s.MaxDepth - s.CurrentDepth
}

// IsMate reports whether the score represents a forced mate for either side.
func (s Score) IsMate() bool {
	return s.Value == MatWhite || s.Value == MatBlack
}

// MateDistance returns the number of plies to the forced mate this score represents, and
// whether it represents one at all. Used by the IDDFS driver to stop deepening once a mate has
// been found within the current depth.
func (s Score) MateDistance() (int, bool) {
	if !s.IsMate() {
		return 0, false
	}
	return s.PathLength(), true
}

// Negate flips the score to the opponent's perspective, preserving depth bookkeeping -- the
// negamax convention used throughout the α/β core.
func (s Score) Negate() Score {
	return Score{Value: -s.Value, CurrentDepth: s.CurrentDepth, MaxDepth: s.MaxDepth}
}

// NegateAt flips the score to the opponent's perspective and records ply as the current node's
// depth, leaving MaxDepth -- the ply a mate score was actually produced at -- unchanged. This is
// how mate distance accumulates as a score is returned up the recursion: PathLength grows by one
// per frame without ever touching Value, so a mate score's magnitude stays exactly MatWhite or
// MatBlack all the way to the root (the reason Score carries depth alongside value at all).
func (s Score) NegateAt(ply int) Score {
	return Score{Value: -s.Value, CurrentDepth: ply, MaxDepth: s.MaxDepth}
}

// Less reports whether s is strictly worse than o from the maximizing side's point of view, with
// mate-score path-length tie-breaking: among equal-value mate scores, the maximizer prefers the
// shorter path (faster mate) and the minimizer prefers the longer one (slower to be mated).
func (s Score) Less(o Score, maximizing bool) bool {
	if s.Value != o.Value {
		return s.Value < o.Value
	}
	if !s.IsMate() {
		return false
	}
	if maximizing {
		return s.PathLength() > o.PathLength()
	}
	return s.PathLength() < o.PathLength()
}

// Best returns the better of s and o for the given side.
func Best(s, o Score, maximizing bool) Score {
	if s.Less(o, maximizing) {
		return o
	}
	return s
}
