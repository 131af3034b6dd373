// Perft is a move-generator correctness and benchmarking tool.
//
// Perft counts the number of leaf nodes, captures, en-passant captures,
// castles and promotions reachable from a position at a given depth, the
// standard move-generator cross-check:
//
//	https://www.chessprogramming.org/Perft
//
// Examples:
//
//	$ go run ./perft --fen startpos --max_depth 6
//	$ go run ./perft --fen kiwipete --max_depth 5 --split 1
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zurichess/engine/engine"
)

var (
	fen        = flag.String("fen", "startpos", "position to search; accepts a FEN or one of the known names below")
	minDepth   = flag.Int("min_depth", 1, "minimum depth to search (inclusive)")
	maxDepth   = flag.Int("max_depth", 5, "maximum depth to search (inclusive)")
	depth      = flag.Int("depth", 0, "if non-zero, searches only this depth")
	splitDepth = flag.Int("split", 0, "print a per-root-move node count breakdown at this depth")
)

// counters tallies leaf-node properties at the bottom of a perft walk.
type counters struct {
	nodes      uint64
	captures   uint64
	enpassant  uint64
	castles    uint64
	promotions uint64
}

func (c *counters) add(o counters) {
	c.nodes += o.nodes
	c.captures += o.captures
	c.enpassant += o.enpassant
	c.castles += o.castles
	c.promotions += o.promotions
}

type hashEntry struct {
	hash     uint64
	depth    int
	counters counters
}

var (
	startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	duplain  = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"

	known = map[string]string{
		"startpos": startpos,
		"kiwipete": kiwipete,
		"duplain":  duplain,
	}

	// Node counts per depth (index == depth), verified against the
	// published reference values for these three positions.
	expected = map[string][]counters{
		startpos: {
			{1, 0, 0, 0, 0},
			{20, 0, 0, 0, 0},
			{400, 0, 0, 0, 0},
			{8902, 34, 0, 0, 0},
			{197281, 1576, 0, 0, 0},
			{4865609, 82719, 258, 0, 0},
			{119060324, 2812008, 5248, 0, 0},
		},
		kiwipete: {
			{1, 0, 0, 0, 0},
			{48, 8, 0, 2, 0},
			{2039, 351, 1, 91, 0},
			{97862, 17102, 45, 3162, 0},
			{4085603, 757163, 1929, 128013, 15172},
		},
		duplain: {
			{1, 0, 0, 0, 0},
			{14, 1, 0, 0, 0},
			{191, 14, 0, 0, 0},
			{2812, 209, 2, 0, 0},
			{43238, 3348, 123, 0, 0},
		},
	}

	hashSize  = 1 << 20
	hashTable = make([]hashEntry, hashSize)
)

// walk counts leaves below b at depth, using an always-replace hash
// table keyed by the board's Zobrist hash to skip already-seen
// subtrees, the way the teacher's own perft tool does.
func walk(b *engine.Board, depth int, ht []hashEntry) counters {
	if depth == 0 {
		return counters{nodes: 1}
	}

	var index uint64
	if ht != nil {
		index = b.Hash() % uint64(len(ht))
		if ht[index].depth == depth && ht[index].hash == b.Hash() {
			return ht[index].counters
		}
	}

	var r counters
	var buf [engine.MaxMoves]engine.Move
	moves := b.AppendMoves(buf[:0], engine.GenAll)
	for _, m := range moves {
		u := b.Make(m)
		if !b.WasLegal() {
			b.Unmake(m, u)
			continue
		}

		if depth == 1 {
			if m.Flags&engine.FlagCapture != 0 {
				r.captures++
			}
			if m.Flags&engine.FlagEnPassant != 0 {
				r.enpassant++
			}
			if m.Flags&engine.FlagCastle != 0 {
				r.castles++
			}
			if m.Flags&engine.FlagPromotion != 0 {
				r.promotions++
			}
		}

		r.add(walk(b, depth-1, ht))
		b.Unmake(m, u)
	}

	if ht != nil {
		ht[index] = hashEntry{hash: b.Hash(), depth: depth, counters: r}
	}
	return r
}

func split(b *engine.Board, depth, splitDepth int, trail []string) counters {
	if depth == 0 || splitDepth == 0 {
		return walk(b, depth, hashTable)
	}

	var r counters
	var buf [engine.MaxMoves]engine.Move
	moves := b.AppendMoves(buf[:0], engine.GenAll)
	for _, m := range moves {
		u := b.Make(m)
		if b.WasLegal() {
			sub := split(b, depth-1, splitDepth-1, append(trail, m.String()))
			r.add(sub)
			fmt.Printf("   %2d %12d %10d %9d %9d %10d %s\n",
				depth, sub.nodes, sub.captures, sub.enpassant, sub.castles, sub.promotions,
				strings.Join(append(trail, m.String()), " "))
		}
		b.Unmake(m, u)
	}
	return r
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	if s, ok := known[*fen]; ok {
		*fen = s
	}
	if *depth != 0 {
		*minDepth, *maxDepth = *depth, *depth
	}

	b, err := engine.ParseFEN(*fen)
	if err != nil {
		log.Fatalln("cannot parse --fen:", err)
	}

	want := expected[*fen]

	fmt.Printf("Searching FEN %q\n", *fen)
	fmt.Printf("depth        nodes   captures enpassant castles   promotions eval  KNps   elapsed\n")
	fmt.Printf("-----+------------+----------+---------+---------+----------+-----+------+-------\n")

	for d := *minDepth; d <= *maxDepth; d++ {
		start := time.Now()
		c := split(b, d, *splitDepth, nil)
		elapsed := time.Since(start)

		status := ""
		if d < len(want) {
			if c == want[d] {
				status = "good"
			} else {
				status = "bad"
			}
		}

		knps := float64(c.nodes) / elapsed.Seconds() / 1e3
		fmt.Printf("   %2d %12d %10d %9d %9d %10d %-4s %6.f %v\n",
			d, c.nodes, c.captures, c.enpassant, c.castles, c.promotions, status, knps, elapsed)

		if status == "bad" {
			e := want[d]
			fmt.Printf("   %2d %12d %10d %9d %9d %10d expected\n",
				d, e.nodes, e.captures, e.enpassant, e.castles, e.promotions)
			break
		}
	}
}
