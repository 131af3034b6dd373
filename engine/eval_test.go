// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "testing"

func TestEvaluateSymmetricPositionIsTempoOnly(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pc := &pawnCache{}
	if got := Evaluate(b, pc); got != tempoMG {
		// Startpos is materially and positionally symmetric; the only
		// asymmetry left is the side-to-move tempo bonus.
		t.Errorf("Evaluate(startpos) = %d, want tempo bonus only", got)
	}
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	// White is up a whole rook with an otherwise bare, symmetric board.
	b, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pc := &pawnCache{}
	if got := Evaluate(b, pc); got <= 0 {
		t.Errorf("Evaluate(white up a rook) = %d, want a clearly positive score", got)
	}
}

func TestEvaluateIsSideToMoveRelative(t *testing.T) {
	white, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	black, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pc := &pawnCache{}
	ws := Evaluate(white, pc)
	bs := Evaluate(black, pc)
	if ws != -bs {
		t.Errorf("Evaluate should be side-to-move relative: white-to-move %d, black-to-move %d", ws, bs)
	}
}

func TestEvaluateBishopPairBonus(t *testing.T) {
	withPair, err := ParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	oneBishop, err := ParseFEN("4k3/8/8/8/8/8/8/3BK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pc := &pawnCache{}
	pairScore := Evaluate(withPair, pc)
	singleScore := Evaluate(oneBishop, pc)
	// One extra minor plus the bishop-pair bonus should clearly outscore
	// just the material difference of a single extra minor.
	if pairScore <= singleScore {
		t.Errorf("two bishops (%d) should score higher than a single bishop (%d)", pairScore, singleScore)
	}
}

func TestPieceSquareScoreMirrorsAcrossColors(t *testing.T) {
	wMg, wEg := pieceSquareScore(MakePiece(White, Knight), RC(0, 1))
	bMg, bEg := pieceSquareScore(MakePiece(Black, Knight), RC(7, 1))
	if wMg != bMg || wEg != bEg {
		t.Errorf("mirrored knight placement should score identically: white (%d,%d) vs black (%d,%d)", wMg, wEg, bMg, bEg)
	}
}
