package main

import (
	"testing"

	"github.com/zurichess/engine/engine"
)

func testHelper(t *testing.T, fen string, want []counters) {
	t.Helper()
	for depth, w := range want {
		if testing.Short() && w.nodes > 200000 {
			return
		}
		b, err := engine.ParseFEN(fen)
		if err != nil {
			t.Fatalf("invalid FEN %q: %v", fen, err)
		}
		got := walk(b, depth, nil)
		if got != w {
			t.Errorf("%s at depth %d: got %+v, want %+v", fen, depth, got, w)
		}
	}
}

func TestPerftStartpos(t *testing.T) {
	testHelper(t, startpos, expected[startpos][:6])
}

func TestPerftKiwipete(t *testing.T) {
	testHelper(t, kiwipete, expected[kiwipete][:5])
}

func TestPerftDuplain(t *testing.T) {
	testHelper(t, duplain, expected[duplain][:5])
}

func benchHelper(b *testing.B, fen string, depth int) {
	pos, err := engine.ParseFEN(fen)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		walk(pos, depth, nil)
	}
}

func BenchmarkPerftStartpos(b *testing.B) { benchHelper(b, startpos, 4) }
func BenchmarkPerftKiwipete(b *testing.B) { benchHelper(b, kiwipete, 3) }
func BenchmarkPerftDuplain(b *testing.B)  { benchHelper(b, duplain, 4) }
