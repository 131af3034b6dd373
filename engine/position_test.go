// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "testing"

// walkMakeUnmake recurses depth plies deep, checking after every Make that
// incrementally maintained hash/pawnHash/lock agree with a from-scratch
// computeHash, and after every Unmake that the hashes and every square
// are restored.
func walkMakeUnmake(t *testing.T, b *Board, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}

	var buf [MaxMoves]Move
	moves := b.AppendMoves(buf[:0], GenAll)
	for _, m := range moves {
		beforeHash, beforePawn, beforeLock := b.Hash(), b.PawnHash(), b.Lock()
		beforeSquares := b.squares

		u := b.Make(m)
		if !b.WasLegal() {
			b.Unmake(m, u)
			continue
		}

		gotHash, gotPawn, gotLock := b.Hash(), b.PawnHash(), b.Lock()
		b.computeHash()
		if b.Hash() != gotHash || b.PawnHash() != gotPawn || b.Lock() != gotLock {
			t.Fatalf("move %v: incremental hash drifted from computeHash (hash %d vs %d, pawnHash %d vs %d, lock %d vs %d)",
				m, gotHash, b.Hash(), gotPawn, b.PawnHash(), gotLock, b.Lock())
		}

		walkMakeUnmake(t, b, depth-1)

		b.Unmake(m, u)
		if b.Hash() != beforeHash || b.PawnHash() != beforePawn || b.Lock() != beforeLock {
			t.Fatalf("move %v: Unmake left hash/pawnHash/lock different from before Make", m)
		}
		if b.squares != beforeSquares {
			t.Fatalf("move %v: Unmake left squares different from before Make", m)
		}
	}
}

func TestMakeUnmakeHashConsistency(t *testing.T) {
	for _, fen := range testFENs {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("%s: %v", fen, err)
		}
		walkMakeUnmake(t, b, 3)
	}
}

func TestSetStartpos(t *testing.T) {
	b := NewBoard()
	b.SetStartpos()
	if b.Side() != White {
		t.Errorf("expected White to move")
	}
	if b.Castling() != CastleAll {
		t.Errorf("expected all castling rights, got %v", b.Castling())
	}
	if got := b.FEN(); got != testFENs[0] {
		t.Errorf("expected startpos FEN %q, got %q", testFENs[0], got)
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	b, err := ParseFEN(testFENs[4])
	if err != nil {
		t.Fatal(err)
	}
	if b.EPSquare() == SquareNone {
		t.Fatal("test fixture expected to have an en-passant square")
	}
	side := b.Side()
	hash := b.Hash()

	u := b.MakeNull()
	if b.Side() == side {
		t.Errorf("MakeNull did not flip side to move")
	}
	if b.EPSquare() != SquareNone {
		t.Errorf("MakeNull left an en-passant square set")
	}

	b.UnmakeNull(u)
	if b.Side() != side || b.Hash() != hash {
		t.Errorf("UnmakeNull did not restore side/hash")
	}
}
