package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl represents the clock state communicated by the UCI "go" command.
type TimeControl struct {
	White, Black                   time.Duration
	WhiteIncrement, BlackIncrement time.Duration
	Moves                          int // 0 == rest of game
}

// Limits returns a soft and hard time budget for the side to move: after the soft limit no new
// iteration is started; the hard limit forcibly halts an iteration in progress.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder, inc := t.White, t.WhiteIncrement
	if c == board.Black {
		remainder, inc = t.Black, t.BlackIncrement
	}

	// Assume 40 moves remain if the control did not say otherwise.
	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft := remainder/(2*moves) + inc/2
	hard := 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// EnforceTimeControl schedules a hard halt and returns the soft limit, if a time control is set.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() {
		h.Halt()
	})

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
