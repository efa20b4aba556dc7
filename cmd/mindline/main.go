package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/corvidchess/mindline/pkg/engine"
	"github.com/corvidchess/mindline/pkg/engine/uci"
	"github.com/corvidchess/mindline/pkg/search"
	"github.com/corvidchess/mindline/pkg/search/mcts"
	"github.com/seekerror/logw"
)

var (
	core  = flag.String("search", "alphabeta", "Search core to use: alphabeta or mcts")
	hash  = flag.Uint("hash", 64, "Transposition table size in MB (zero to disable)")
	depth = flag.Uint("depth", 0, "Search depth limit in plies (zero if unlimited)")
	mate  = flag.Uint("matesolver", 6, "Forced-mate pre-search cap in plies (zero to disable)")
	noise = flag.Uint("noise", 0, "Evaluation noise in millipawns (zero if deterministic)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: mindline [options]

MINDLINE is a bitboard UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	var s search.Search
	switch *core {
	case "alphabeta":
		s = search.AlphaBeta{}
	case "mcts":
		s = mcts.Search{Seed: time.Now().UnixNano()}
	default:
		flag.Usage()
		logw.Exitf(ctx, "Unknown search core: %v", *core)
	}

	e := engine.New(ctx, "mindline", "corvidchess", s,
		engine.WithOptions(engine.Options{
			Depth:           *depth,
			Hash:            *hash,
			Noise:           *noise,
			MateSearchPlies: *mate,
		}),
		engine.WithZobrist(time.Now().UnixNano()),
	)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
