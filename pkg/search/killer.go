package search

import "github.com/corvidchess/mindline/pkg/board"

// killersPerPly is the number of killer-move slots kept at each ply.
const killersPerPly = 2

// Killers records quiet moves that caused a beta cutoff at a given search ply, so they can be
// tried early the next time that ply is reached via a different path. Indexed by ply rather
// than by position, per the standard killer-move heuristic; search-local, not shared
// across goroutines.
type Killers struct {
	slots [][killersPerPly]board.Move
}

func NewKillers(maxPly int) *Killers {
	if maxPly < 1 {
		maxPly = 1
	}
	return &Killers{slots: make([][killersPerPly]board.Move, maxPly)}
}

// Add records m as a killer at ply, evicting the oldest slot. No-op if m is already the most
// recent killer at that ply.
func (k *Killers) Add(ply int, m board.Move) {
	if ply < 0 || ply >= len(k.slots) {
		return
	}
	if k.slots[ply][0].Equals(m) {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = m
}

// Is reports whether m is a recorded killer at ply.
func (k *Killers) Is(ply int, m board.Move) bool {
	return k.Slot(ply, m) >= 0
}

// Slot returns the killer slot index (0 = most recent) of m at ply, or -1 if m is not a killer
// there. Used to rank the two killer slots relative to each other within the killer tier of move ordering.
func (k *Killers) Slot(ply int, m board.Move) int {
	if ply < 0 || ply >= len(k.slots) {
		return -1
	}
	for i, cand := range k.slots[ply] {
		if cand.Equals(m) {
			return i
		}
	}
	return -1
}
