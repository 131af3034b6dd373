// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "testing"

func TestScoreMovesTTMoveFirst(t *testing.T) {
	b, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	moves := b.AppendMoves(buf[:0], GenAll)
	if len(moves) == 0 {
		t.Fatal("expected at least one move")
	}
	ttMove := moves[len(moves)/2]

	var killers killerTable
	var history historyTable
	scores := make([]int32, len(moves))
	scoreMoves(b, moves, scores, 0, ttMove, &killers, &history)

	for i, m := range moves {
		if sameMoveIgnoringTags(m, ttMove) {
			if scores[i] != scoreTTMove {
				t.Errorf("tt move %v scored %d, want %d", m, scores[i], scoreTTMove)
			}
		} else if scores[i] >= scoreTTMove {
			t.Errorf("non-tt move %v scored %d, which is >= scoreTTMove", m, scores[i])
		}
	}
}

func TestScoreMovesCapturesOutscoreQuiets(t *testing.T) {
	b, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	moves := b.AppendMoves(buf[:0], GenAll)

	var killers killerTable
	var history historyTable
	scores := make([]int32, len(moves))
	scoreMoves(b, moves, scores, 0, NoMove, &killers, &history)

	var sawCapture, sawQuiet bool
	var minCaptureScore, maxQuietScore int32 = 1 << 30, -(1 << 30)
	for i, m := range moves {
		if m.Flags&FlagCapture != 0 {
			sawCapture = true
			if scores[i] < minCaptureScore {
				minCaptureScore = scores[i]
			}
		} else if m.Flags&FlagPromotion == 0 {
			sawQuiet = true
			if scores[i] > maxQuietScore {
				maxQuietScore = scores[i]
			}
		}
	}
	if sawCapture && sawQuiet && minCaptureScore <= maxQuietScore {
		t.Errorf("expected every capture to outscore every plain quiet move, got min capture %d, max quiet %d", minCaptureScore, maxQuietScore)
	}
}

func TestScoreMovesMVVLVAOrdersByVictim(t *testing.T) {
	pawnCapture := uint8(mvvLva[Pawn-1][Pawn-1])
	queenCapture := uint8(mvvLva[Queen-1][Pawn-1])
	if queenCapture <= pawnCapture {
		t.Errorf("capturing a queen (%d) should score higher than capturing a pawn (%d) for the same attacker", queenCapture, pawnCapture)
	}
}

func TestScoreMovesKillers(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	moves := b.AppendMoves(buf[:0], GenAll)

	quietIdx := -1
	for i, m := range moves {
		if m.Flags&(FlagCapture|FlagPromotion) == 0 {
			quietIdx = i
			break
		}
	}
	if quietIdx < 0 {
		t.Fatal("expected a quiet move in the startpos move list")
	}

	var killers killerTable
	killers.update(0, moves[quietIdx])

	var history historyTable
	scores := make([]int32, len(moves))
	scoreMoves(b, moves, scores, 0, NoMove, &killers, &history)

	if scores[quietIdx] != scoreKiller1 {
		t.Errorf("killer move scored %d, want %d", scores[quietIdx], scoreKiller1)
	}
}

func TestKillerTableUpdateKeepsTwoDistinct(t *testing.T) {
	var k killerTable
	m1 := Move{From: RC(1, 0), To: RC(2, 0)}
	m2 := Move{From: RC(1, 1), To: RC(2, 1)}

	k.update(3, m1)
	k.update(3, m2)
	if k[3][0] != m2 || k[3][1] != m1 {
		t.Errorf("expected killers [%v, %v], got [%v, %v]", m2, m1, k[3][0], k[3][1])
	}

	// Re-inserting the current first killer must not duplicate it into slot two.
	k.update(3, m2)
	if k[3][0] != m2 || k[3][1] != m1 {
		t.Errorf("re-inserting existing killer 1 corrupted the table: got [%v, %v]", k[3][0], k[3][1])
	}
}

func TestHistoryTableUpdateGrowsThenSaturates(t *testing.T) {
	var h historyTable
	m := Move{From: RC(1, 0), To: RC(3, 0)}

	h.update(White, m, 4)
	first := h[White][m.To]
	if first <= 0 {
		t.Fatalf("expected a positive history score after one update, got %d", first)
	}

	for i := 0; i < 1000; i++ {
		h.update(White, m, 10)
	}
	saturated := h[White][m.To]
	if saturated > 4000 || saturated < -4000 {
		t.Errorf("history score %d escaped the [-4000, 4000] clamp", saturated)
	}
}

func TestPickMoveSelectsHighestRemainingScore(t *testing.T) {
	moves := make([]Move, 5)
	for i := range moves {
		moves[i] = Move{From: RC(0, i), To: RC(1, i)}
	}
	scores := []int32{3, 1, 5, 4, 2}

	for i := range moves {
		pickMove(moves, scores, i)
		if i > 0 && scores[i] > scores[i-1] {
			t.Fatalf("pickMove left scores out of order at index %d: %v", i, scores)
		}
	}
	if scores[0] != 5 || scores[len(scores)-1] != 1 {
		t.Errorf("expected descending 5..1, got %v", scores)
	}
}

func TestScoreCaptureMovesOnlyRewardsCaptures(t *testing.T) {
	b, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	moves := b.AppendMoves(buf[:0], GenCaptures)
	if len(moves) == 0 {
		t.Fatal("expected at least one capture in this position")
	}
	scores := make([]int32, len(moves))
	scoreCaptureMoves(b, moves, scores)

	for i, m := range moves {
		if m.Flags&FlagCapture == 0 {
			continue
		}
		if scores[i] < scoreCaptureBase {
			t.Errorf("capture %v scored %d, below scoreCaptureBase %d", m, scores[i], scoreCaptureBase)
		}
	}
}
