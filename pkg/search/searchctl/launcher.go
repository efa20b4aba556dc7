// Package searchctl drives a Search through iterative deepening, time control and cooperative
// cancellation.
package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options. The user may change these on a particular search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth. Zero means no limit.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
	// MateSearchPlies caps the forced-mate solver invoked before the main search.
	// Zero disables the mate solver.
	MateSearchPlies lang.Optional[uint]
	// SearchMoves, if non-empty, restricts the root of the search to the given moves, per the
	// UCI "go searchmoves" clause. The moves may be bare From/To/Promotion as parsed from long
	// algebraic notation.
	SearchMoves []board.Move
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	if v, ok := o.MateSearchPlies.V(); ok {
		ret = append(ret, fmt.Sprintf("mate<=%v", v))
	}
	if len(o.SearchMoves) > 0 {
		ret = append(ret, fmt.Sprintf("searchmoves=%v", board.FormatMoves(o.SearchMoves, board.Move.String)))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages searches started from a given game, each one owning the game exclusively
// (via Clone) for the duration of the search.
type Launcher interface {
	// Launch starts a new search from g (which the launcher clones internally) and returns a
	// handle to stop it plus a channel of progressively deeper PVs. The channel is closed once
	// the search is exhausted.
	Launch(ctx context.Context, g *board.Game, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the caller manage a running search: stop it (idempotent) and retrieve its best
// result so far.
type Handle interface {
	// Halt stops the search, if running, and returns the last PV produced.
	Halt() search.PV
}
