// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/corvidchess/mindline/pkg/board"
	"github.com/corvidchess/mindline/pkg/engine"
	"github.com/corvidchess/mindline/pkg/eval"
	"github.com/corvidchess/mindline/pkg/format/fen"
	"github.com/corvidchess/mindline/pkg/search"
	"github.com/corvidchess/mindline/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Driver implements a UCI driver for an engine. It is activated if sent "uci".
type Driver struct {
	e *engine.Engine

	out chan<- string

	active       atomic.Bool    // user is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last position line (empty if no last position)

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	// "uci" was already consumed by the caller. Identify the engine, advertise the options it
	// supports, and acknowledge with "uciok".

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	d.out <- fmt.Sprintf("option name Hash type spin default %v min 0 max 4096", d.e.Options().Hash)
	d.out <- fmt.Sprintf("option name Noise type spin default %v min 0 max 10000", d.e.Options().Noise)

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				// Synchronization ping. Must always be answered with "readyok", even while a
				// search is running.

				d.out <- "readyok"

			case "debug":
				// Debug mode toggles extra "info string" output. Not supported.

			case "setoption":
				// setoption name <id> [value <x>]

				var name, value string
				if len(args) > 1 {
					name = args[1]
				}
				if len(args) > 3 {
					value = args[3]
				}

				switch name {
				case "Hash":
					if mb, err := strconv.Atoi(value); err == nil && mb >= 0 {
						d.e.SetHash(uint(mb))
					}
				case "Noise":
					if mp, err := strconv.Atoi(value); err == nil && mp >= 0 {
						d.e.SetNoise(uint(mp))
					}
				}

			case "register":
				// Engine registration. Not supported.

			case "ucinewgame":
				// The next position/go is from a different game. Drop the continuation state so
				// the next "position" performs a full reset.

				d.ensureInactive(ctx)
				d.lastPosition = ""

			case "position":
				// position [fen <fenstring> | startpos ] moves <move1> ... <movei>

				d.ensureInactive(ctx)

				if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
					// Continuation of game: apply only the new moves.

					moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
					for _, arg := range strings.Split(moves, " ") {
						if arg == "moves" || arg == "" {
							continue
						}

						if err := d.e.Move(ctx, arg); err != nil {
							logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
							return
						}
					}

					d.lastPosition = line
					break
				}

				// New position.

				position := fen.Initial
				if len(args) >= 7 && args[0] == "fen" {
					position = strings.Join(args[1:7], " ")
				}

				if err := d.e.Reset(ctx, position); err != nil {
					logw.Errorf(ctx, "Invalid position: %v", line)
					return
				}

				move := false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}

					if err := d.e.Move(ctx, arg); err != nil {
						logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
						return
					}
				}
				d.lastPosition = line

			case "go":
				// go [wtime N] [btime N] [winc N] [binc N] [movestogo N] [depth N] [mate N]
				//    [movetime N] [infinite] [searchmoves <move1> ...]

				d.ensureInactive(ctx)

				var opt searchctl.Options
				var tc searchctl.TimeControl
				useTC := false
				infinite := false
				searchmoves := false
				timeout := time.Duration(0)

				for i := 0; i < len(args); i++ {
					cmd := args[i]
					switch cmd {
					case "wtime", "btime", "winc", "binc", "movestogo", "depth", "mate", "movetime":
						// Next argument is an int.

						searchmoves = false
						i++
						if i == len(args) {
							logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
							return
						}
						n, err := strconv.Atoi(args[i])
						if err != nil {
							logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
							return
						}

						switch cmd {
						case "depth":
							opt.DepthLimit = lang.Some(uint(n))
						case "mate":
							// Mate in n moves is at most 2n-1 plies for the attacker.
							if n > 0 {
								opt.MateSearchPlies = lang.Some(uint(2*n - 1))
							}
						case "wtime":
							tc.White, useTC = time.Millisecond*time.Duration(n), true
						case "btime":
							tc.Black, useTC = time.Millisecond*time.Duration(n), true
						case "winc":
							tc.WhiteIncrement, useTC = time.Millisecond*time.Duration(n), true
						case "binc":
							tc.BlackIncrement, useTC = time.Millisecond*time.Duration(n), true
						case "movestogo":
							tc.Moves, useTC = n, true
						case "movetime":
							timeout = time.Millisecond * time.Duration(n)
						}

					case "infinite":
						searchmoves = false
						infinite = true

					case "searchmoves":
						searchmoves = true

					default:
						if searchmoves {
							m, err := board.ParseMove(cmd)
							if err != nil {
								logw.Errorf(ctx, "Invalid searchmoves move '%v': %v", cmd, line)
								return
							}
							opt.SearchMoves = append(opt.SearchMoves, m)
						}
						// else: silently ignore anything not handled.
					}
				}

				if useTC {
					opt.TimeControl = lang.Some(tc)
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					return
				}
				d.active.Store(true)

				// Forward search info as it arrives. Complete the search if it ends on its own,
				// unless infinite: in that mode only "stop" may produce the bestmove.

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.ponder <- pv
					}
					if !infinite {
						d.searchCompleted(ctx, last)
					}
				}()

				// Enforce move time limit, if set.

				if timeout > 0 {
					time.AfterFunc(timeout, func() {
						_, _ = d.e.Halt(ctx)
					})
				}

			case "stop":
				// Stop calculating and report the bestmove found.

				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// Pondering is not supported.

			case "quit":
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case pv := <-d.ponder:
			// Stream "best so far" info lines while a search is active.

			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

// searchCompleted emits the final "bestmove" line exactly once per search, after any info
// lines.
func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", printMove(pv.Moves[0]))
		} else {
			// No PV: the position is checkmate or stalemate. Send the null move.

			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	// "info depth 2 score cp 214 nodes 2124 time 1242 nps 1710 pv e2e4 e7e5 g1f3"

	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if plies, ok := pv.Score.MateDistance(); ok {
		moves := (plies + 1) / 2
		if pv.Score.Value < 0 {
			moves = -moves
		}
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", centipawns(pv.Score)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if pv.Hash > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %v", int(1000*pv.Hash)))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv")
		parts = append(parts, board.FormatMoves(pv.Moves, printMove))
	}

	return strings.Join(parts, " ")
}

// centipawns folds the evaluation's material-factor units down to the centipawn scale UCI
// "score cp" expects.
func centipawns(s eval.Score) int {
	return s.Value / 10
}

func printMove(m board.Move) string {
	return fmt.Sprintf("%v%v%v", m.From, m.To, printPromoPiece(m.Promotion))
}

func printPromoPiece(p board.Piece) string {
	switch p {
	case board.Queen:
		return "q"
	case board.Rook:
		return "r"
	case board.Knight:
		return "n"
	case board.Bishop:
		return "b"
	default:
		return ""
	}
}
