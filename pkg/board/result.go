package board

// Outcome represents the kind of game-ending (or non-ending) result produced by the end-game
// detector.
type Outcome uint8

const (
	NoOutcome Outcome = iota
	Mate
	Stalemate
	DrawFiftyMove
	DrawInsufficientMaterial
	DrawThreefold
	DrawTimeoutInsufficient
	LossOnTime
)

// Result is the outcome of a position, plus the side it concerns where relevant: the mated side
// for Mate, the flagged side for LossOnTime.
type Result struct {
	Outcome Outcome
	Side    Color
}

// None reports whether the result represents an undecided, still-playable position.
func (r Result) None() bool {
	return r.Outcome == NoOutcome
}

// IsDraw reports whether the result is a drawn game.
func (r Result) IsDraw() bool {
	switch r.Outcome {
	case Stalemate, DrawFiftyMove, DrawInsufficientMaterial, DrawThreefold, DrawTimeoutInsufficient:
		return true
	default:
		return false
	}
}

// Winner returns the winning color and true, if the result is decisive.
func (r Result) Winner() (Color, bool) {
	switch r.Outcome {
	case Mate:
		return r.Side.Opponent(), true
	case LossOnTime:
		return r.Side.Opponent(), true
	default:
		return ZeroColor, false
	}
}

func (r Result) String() string {
	switch r.Outcome {
	case NoOutcome:
		return "none"
	case Mate:
		return "mate(" + r.Side.String() + ")"
	case Stalemate:
		return "stalemate"
	case DrawFiftyMove:
		return "draw(50-move)"
	case DrawInsufficientMaterial:
		return "draw(insufficient-material)"
	case DrawThreefold:
		return "draw(3-fold)"
	case DrawTimeoutInsufficient:
		return "draw(timeout, insufficient material)"
	case LossOnTime:
		return "loss-on-time(" + r.Side.String() + ")"
	default:
		return "?"
	}
}
