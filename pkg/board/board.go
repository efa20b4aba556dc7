// Package board contains chess board representation and utilities: bitboards, squares, moves,
// positions, legal move generation and the zobrist-hashed game history needed to adjudicate
// draws.
package board

import "fmt"

const (
	repetitionLimit    = 3
	halfMoveClockLimit = 100
)

type historyEntry struct {
	move          Move
	undo          Undo
	hash          ZobristHash
	halfMoveClock int
}

// Game represents a chess game: a position plus the metadata and history needed to correctly
// adjudicate results, notably the various draw conditions. Moves are applied and reversed via
// make/unmake against a single mutable Position rather than by cloning positions per move; Not
// thread-safe.
type Game struct {
	zt          *ZobristTable
	pos         *Position
	turn        Color
	hash        ZobristHash
	halfMove    int // half-move (ply) clock since the last pawn move or capture.
	fullMoves   int
	repetitions map[ZobristHash]int
	result      Result
	history     []historyEntry
}

// NewGame starts a game tracker rooted at the given position.
func NewGame(zt *ZobristTable, pos *Position, turn Color, halfMove, fullMoves int) *Game {
	hash := zt.Hash(pos, turn)
	g := &Game{
		zt:          zt,
		pos:         pos,
		turn:        turn,
		hash:        hash,
		halfMove:    halfMove,
		fullMoves:   fullMoves,
		repetitions: map[ZobristHash]int{hash: 1},
	}
	g.result = g.adjudicate()
	return g
}

// Clone returns an independent copy of the game, suitable for handing to a search worker that
// owns its board exclusively for the duration of a search.
func (g *Game) Clone() *Game {
	repetitions := make(map[ZobristHash]int, len(g.repetitions))
	for k, v := range g.repetitions {
		repetitions[k] = v
	}
	history := make([]historyEntry, len(g.history))
	copy(history, g.history)

	return &Game{
		zt:          g.zt,
		pos:         g.pos.Clone(),
		turn:        g.turn,
		hash:        g.hash,
		halfMove:    g.halfMove,
		fullMoves:   g.fullMoves,
		repetitions: repetitions,
		result:      g.result,
		history:     history,
	}
}

func (g *Game) Position() *Position {
	return g.pos
}

func (g *Game) Turn() Color {
	return g.turn
}

func (g *Game) HalfMoveClock() int {
	return g.halfMove
}

func (g *Game) FullMoves() int {
	return g.fullMoves
}

func (g *Game) Hash() ZobristHash {
	return g.hash
}

// Ply returns the number of half-moves played since the start of the game, derived from the
// move number so that positions set up mid-game (e.g. from FEN) report their true game ply.
// Used to gate opening-only evaluation features.
func (g *Game) Ply() int {
	ply := 2 * (g.fullMoves - 1)
	if g.turn == Black {
		ply++
	}
	return ply
}

func (g *Game) Result() Result {
	return g.result
}

// LegalMoves returns the legal moves for the side to move in the current position.
func (g *Game) LegalMoves() []Move {
	return g.pos.LegalMoves(g.turn)
}

// PushMove looks up m (which may carry only From/To/Promotion, as parsed from long algebraic
// notation) among the legal moves and, if found, applies the fully-classified move. Returns
// false if the move is illegal or the game has already ended.
func (g *Game) PushMove(m Move) bool {
	if !g.result.None() {
		return false
	}

	var full Move
	var found bool
	for _, cand := range g.LegalMoves() {
		if cand.Equals(m) {
			full, found = cand, true
			break
		}
	}
	if !found {
		return false
	}

	g.pushLegalMove(full)
	return true
}

// PushLegalMove applies a move already obtained from LegalMoves, skipping the lookup that
// PushMove performs. Intended for search internals, which already enumerate legal moves and
// would otherwise pay for the lookup on every node.
func (g *Game) PushLegalMove(m Move) {
	g.pushLegalMove(m)
}

// pushLegalMove applies a move already known to be legal and fully classified.
func (g *Game) pushLegalMove(m Move) {
	entry := historyEntry{
		move:          m,
		hash:          g.hash,
		halfMoveClock: g.halfMove,
	}
	g.hash = g.zt.Move(g.hash, g.pos, g.turn, m)
	entry.undo = g.pos.MakeMove(g.turn, m)
	if m.ResetsHalfMoveClock() {
		g.halfMove = 0
	} else {
		g.halfMove++
	}
	g.turn = g.turn.Opponent()
	if g.turn == White {
		g.fullMoves++
	}
	g.repetitions[g.hash]++
	g.history = append(g.history, entry)

	g.result = g.adjudicate()
}

// PopMove reverses the most recent move. Returns false if there is no history to pop.
func (g *Game) PopMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}

	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	g.repetitions[g.hash]--
	if g.repetitions[g.hash] == 0 {
		delete(g.repetitions, g.hash)
	}

	g.turn = g.turn.Opponent()
	if g.turn == Black {
		g.fullMoves--
	}
	g.pos.UnmakeMove(g.turn, last.move, last.undo)

	g.hash = last.hash
	g.halfMove = last.halfMoveClock
	g.result = Result{}

	return last.move, true
}

// adjudicate runs the end-game detector against the current position and history.
func (g *Game) adjudicate() Result {
	if len(g.LegalMoves()) == 0 {
		if g.pos.IsChecked(g.turn) {
			return Result{Outcome: Mate, Side: g.turn}
		}
		return Result{Outcome: Stalemate}
	}
	if g.halfMove >= halfMoveClockLimit {
		return Result{Outcome: DrawFiftyMove}
	}
	if g.pos.IsInsufficientMaterial() {
		return Result{Outcome: DrawInsufficientMaterial}
	}
	if g.repetitions[g.hash] >= repetitionLimit && g.countIdenticalWithinClock() >= repetitionLimit {
		return Result{Outcome: DrawThreefold}
	}
	return Result{}
}

// countIdenticalWithinClock counts occurrences of the current hash within the last halfMove
// plies of history, guarding against zobrist collisions across unrelated positions outside the
// no-progress window.
func (g *Game) countIdenticalWithinClock() int {
	count := 1
	n := len(g.history)
	for i := 1; i <= g.halfMove && n-i >= 0; i++ {
		idx := n - i
		if idx < 0 || idx >= len(g.history) {
			break
		}
		if g.history[idx].hash == g.hash {
			count++
		}
	}
	return count
}

// AdjudicateTimeout resolves a flagged timeout: a draw if the opponent has only a king or
// king+minor, otherwise a loss for the flagged side.
func (g *Game) AdjudicateTimeout(flagged Color) Result {
	if !g.pos.CanWin(flagged.Opponent()) {
		g.result = Result{Outcome: DrawTimeoutInsufficient}
	} else {
		g.result = Result{Outcome: LossOnTime, Side: flagged}
	}
	return g.result
}

// NullUndo reverses a MakeNullMove.
type NullUndo struct {
	turn Color
	hash ZobristHash
	ep   Square
}

// MakeNullMove passes the turn without playing a move, for null-move pruning. Not
// legal if the side to move is in check; callers are expected to guard against that.
func (g *Game) MakeNullMove() NullUndo {
	u := NullUndo{turn: g.turn, hash: g.hash, ep: g.pos.clearEnPassant()}
	g.turn = g.turn.Opponent()
	g.hash = g.zt.Hash(g.pos, g.turn)
	return u
}

// UnmakeNullMove reverses a prior MakeNullMove.
func (g *Game) UnmakeNullMove(u NullUndo) {
	g.turn = u.turn
	g.hash = u.hash
	g.pos.restoreEnPassant(u.ep)
}

// LastMove returns the last move played, if any.
func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1].move, true
}

// HasCastled reports whether the color has castled at any point in the game.
func (g *Game) HasCastled(c Color) bool {
	t := g.turn.Opponent()
	for i := len(g.history) - 1; i >= 0; i-- {
		if t == c && g.history[i].move.IsCastle() {
			return true
		}
		t = t.Opponent()
	}
	return false
}

func (g *Game) String() string {
	return fmt.Sprintf("game{pos=%v, turn=%v, hash=%x, halfmove=%v, fullmoves=%v, result=%v}",
		g.pos, g.turn, g.hash, g.halfMove, g.fullMoves, g.result)
}
