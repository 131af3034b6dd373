// Command enginectl is a small operator CLI around the engine façade: a
// one-shot "think about this FEN" mode and a fixed-depth benchmarking
// mode, both narrated through a logw-backed Logger, plus a -version flag
// stamped by seekerror/build. The interactive UCI bridge lives in
// zurichess/uci.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/zurichess/engine/engine"
)

var version = build.NewVersion(0, 1, 0)

var (
	mode      = flag.String("mode", "think", "think | bench")
	fen       = flag.String("fen", "startpos", "position to search, or \"startpos\"")
	depth     = flag.Int("depth", 6, "maximum search depth")
	movetime  = flag.Uint("movetime", 0, "search time budget in milliseconds, 0 = depth-limited only")
	ttSize    = flag.Int("tt_size", 1<<20, "transposition table size in entries")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: enginectl [options]\n\nenginectl %v drives the engine façade outside of UCI.\nOptions:\n", version)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	if *showVersion {
		fmt.Printf("enginectl %v\n", version)
		return
	}

	if *fen == "startpos" {
		*fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	}
	b, err := engine.ParseFEN(*fen)
	if err != nil {
		logw.Exitf(ctx, "invalid --fen: %v", err)
	}

	e := engine.NewEngine(engine.Config{TTSize: *ttSize, Logger: engine.NewLogwLogger(ctx)}, nil)
	e.SetPosition(uiPositionFromBoard(b))

	switch *mode {
	case "bench":
		start := time.Now()
		result := e.Bench(int8(*depth), uint32(*movetime))
		elapsed := time.Since(start)
		logw.Infof(ctx, "bench: depth=%d nodes=%d elapsed=%v knps=%.1f",
			result.Depth, result.Nodes, elapsed, float64(result.Nodes)/elapsed.Seconds()/1e3)
	case "think":
		move := e.Think(int8(*depth), uint32(*movetime))
		fmt.Println(formatUIMove(move))
	default:
		logw.Exitf(ctx, "unknown --mode %q", *mode)
	}
}

// uiPositionFromBoard mirrors the façade's own row/column convention
// (row 0 == rank 8), needed here since NewEngine only accepts a
// UIPosition, not a *engine.Board, and enginectl drives positions from
// FEN rather than from a UI's own move history.
func uiPositionFromBoard(b *engine.Board) engine.UIPosition {
	var out engine.UIPosition
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := engine.RC(7-r, f)
			p := b.PieceAt(sq)
			var v int8
			if p != engine.NoPiece && p != engine.PieceOffBoard {
				v = int8(p.Type())
				if p.Color() == engine.Black {
					v = -v
				}
			}
			out.Board[r][f] = v
		}
	}
	out.WhiteToMove = b.Side() == engine.White
	out.Castling = b.Castling()
	if ep := b.EPSquare(); ep != engine.SquareNone {
		out.EPRow = 7 - ep.Row()
		out.EPCol = ep.File()
	} else {
		out.EPRow, out.EPCol = -1, -1
	}
	out.Halfmove = b.Halfmove()
	out.Fullmove = b.Fullmove()
	return out
}

func formatUIMove(m engine.UIMove) string {
	if m == (engine.UIMove{FromRow: -1}) {
		return "(none)"
	}
	from := engine.RC(7-m.FromRow, m.FromCol)
	to := engine.RC(7-m.ToRow, m.ToCol)
	return from.String() + to.String()
}
