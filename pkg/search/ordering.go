package search

import (
	"container/heap"
	"fmt"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/eval"
)

// Priority is a move-ordering key: higher sorts first. The tiers below are spaced far
// enough apart that the per-tier tie-break bonus never crosses into the next tier.
type Priority int32

const (
	tierTTCurrent   Priority = 9000
	tierKillerTop   Priority = 8000
	tierKillerOther Priority = 7900
	tierTTPrevious  Priority = 7000
	tierPromotion   Priority = 6000
	tierCheck       Priority = 5000
	tierCaptureWin  Priority = 4000
	tierQuiet       Priority = 1000
	tierCaptureLoss Priority = 0
)

// orderingInfo is the per-node context priority() needs to classify a move.
type orderingInfo struct {
	pos  *board.Position
	turn board.Color

	ttMove   board.Move
	ttOK     bool
	ttPrev   board.Move
	ttPrevOK bool

	killers *Killers
	ply     int

	recapture   board.Square
	recaptureOK bool
}

// priority computes the compound move-ordering key: TT best-move at the
// current depth, then killers, then TT best-move from a shallower iteration, then promotions,
// checks, MVV-LVA captures (winning captures before quiet moves, losing captures after), then
// quiet moves.
func priority(m board.Move, info orderingInfo) Priority {
	if info.ttOK && m.Equals(info.ttMove) {
		return tierTTCurrent
	}
	if info.killers != nil {
		switch info.killers.Slot(info.ply, m) {
		case 0:
			return tierKillerTop
		case 1:
			return tierKillerOther
		}
	}
	if info.ttPrevOK && m.Equals(info.ttPrev) {
		return tierTTPrevious
	}
	if m.IsPromotion() {
		return tierPromotion + Priority(eval.NominalValue(m.Promotion))
	}
	if givesCheck(info.pos, info.turn, m) {
		return tierCheck
	}
	if m.IsCapture() {
		delta := mvvlvaDelta(m, info)
		if delta >= 0 {
			return tierCaptureWin + Priority(delta)
		}
		return tierCaptureLoss + Priority(delta)
	}
	return tierQuiet
}

// mvvlvaDelta computes value(captured) - value(mover).9; ties are broken in favor of
// recapturing the piece the opponent's last move placed on the destination square by doubling
// and incrementing the delta, which preserves sign and strictly separates recaptures from
// otherwise-equal captures.
func mvvlvaDelta(m board.Move, info orderingInfo) int {
	delta := eval.NominalValue(m.Capture) - eval.NominalValue(m.Piece)
	if info.recaptureOK && m.To == info.recapture {
		delta = 2*delta + 1
	}
	return delta
}

// isSpecialMove reports whether m is exempt from Late Move Reductions: a promotion,
// a check, a TT or killer move, or a capture with non-negative MVV-LVA delta.
func isSpecialMove(m board.Move, info orderingInfo) bool {
	if m.IsPromotion() {
		return true
	}
	if info.ttOK && m.Equals(info.ttMove) {
		return true
	}
	if info.ttPrevOK && m.Equals(info.ttPrev) {
		return true
	}
	if info.killers != nil && info.killers.Is(info.ply, m) {
		return true
	}
	if givesCheck(info.pos, info.turn, m) {
		return true
	}
	if m.IsCapture() && mvvlvaDelta(m, info) >= 0 {
		return true
	}
	return false
}

// orderMoves builds a priority-ordered MoveList from moves, highest priority first.
func orderMoves(moves []board.Move, info orderingInfo) *MoveList {
	return NewMoveList(moves, func(m board.Move) Priority { return priority(m, info) })
}

// MoveList is a move priority queue for move ordering, backed by a fixed-size binary heap.
type MoveList struct {
	h moveHeap
}

// NewMoveList returns a new move list with the given priorities.
func NewMoveList(moves []board.Move, fn func(move board.Move) Priority) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next returns the highest-priority remaining move, if any.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.Size() == 0 {
		return board.Move{}, false
	}
	ret := heap.Pop(&ml.h).(elm)
	return ret.m, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   board.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int           { return len(h) }
func (h moveHeap) Less(i, j int) bool { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *moveHeap) Push(x interface{}) {
	*h = append(*h, x.(elm))
}

func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ret := old[n-1]
	*h = old[:n-1]
	return ret
}
