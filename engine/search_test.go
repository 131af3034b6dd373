// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "testing"

func TestSearchFindsMateInOne(t *testing.T) {
	// Fool's mate: after 1.f3 e5 2.g4, black mates with Qh4#.
	b, err := ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq g3 0 2")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(1024)
	result := s.Go(b, Limits{MaxDepth: 4})

	from, err := SquareFromString("d8")
	if err != nil {
		t.Fatal(err)
	}
	to, err := SquareFromString("h4")
	if err != nil {
		t.Fatal(err)
	}
	if result.BestMove.From != from || result.BestMove.To != to {
		t.Errorf("expected Qd8h4, got %v (score %d)", result.BestMove, result.Score)
	}
	if !IsMateScore(result.Score) || result.Score <= 0 {
		t.Errorf("expected a winning mate score, got %d", result.Score)
	}
}

func TestSearchAvoidsAHangingMate(t *testing.T) {
	// One move before fool's mate: after 1.f3 e5, white to move. Playing
	// g4 loses instantly to Qh4#, but white has plenty of moves that
	// don't; a reasonable search must not walk into the mate net.
	b, err := ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 2")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(1024)
	result := s.Go(b, Limits{MaxDepth: 3})

	g2, err := SquareFromString("g2")
	if err != nil {
		t.Fatal(err)
	}
	g4, err := SquareFromString("g4")
	if err != nil {
		t.Fatal(err)
	}
	if result.BestMove.From == g2 && result.BestMove.To == g4 {
		t.Errorf("search chose g2g4, which hangs mate in one to Qh4#")
	}
	if IsMateScore(result.Score) && result.Score < 0 {
		t.Errorf("search should not conclude it is already losing by force, got score %d", result.Score)
	}
}

func TestSearchDetectsStalemateAsDraw(t *testing.T) {
	// Classic stalemate: black king a8 has no moves, not in check.
	b, err := ParseFEN("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(1024)
	result := s.Go(b, Limits{MaxDepth: 2})
	if !result.BestMove.IsZero() {
		t.Errorf("expected no legal move from a stalemated position, got %v", result.BestMove)
	}
}

func TestSearchIterativeDeepeningRespectsMaxDepth(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(1024)
	result := s.Go(b, Limits{MaxDepth: 3})
	if result.BestMove.IsZero() {
		t.Fatal("expected a move from the startpos search")
	}
	if result.Depth > 3 {
		t.Errorf("result.Depth = %d, want <= 3", result.Depth)
	}
	if result.Nodes == 0 {
		t.Errorf("expected a nonzero node count")
	}
}

func TestSearchRespectsMaxNodes(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(1024)
	result := s.Go(b, Limits{MaxNodes: 500})
	if result.Nodes == 0 {
		t.Fatal("expected the search to have visited some nodes")
	}
	if result.BestMove.IsZero() {
		t.Fatal("expected a move even under a tight node budget")
	}
}

func TestSearchHonorsTimeFuncDeadline(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(1024)
	calls := uint32(0)
	clock := func() uint32 {
		calls++
		return calls * 50
	}
	result := s.Go(b, Limits{MaxDepth: MaxPly - 1, MaxTimeMS: 1, TimeFunc: clock})
	if result.BestMove.IsZero() {
		t.Errorf("expected a fallback move even when time runs out almost immediately")
	}
}
