// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// legality.go computes a cheap check/pin summary once per node so the
// search driver can skip a full make-and-test-for-check legality probe
// on the vast majority of candidate moves: only king moves, en-passant
// captures, moves of a pinned piece, or any move at all while already in
// check actually need the expensive test.

package engine

// WasLegal reports whether the side that just moved (b.side.Opposite(),
// since Make already flipped the side to move) left its own king safe.
// Called immediately after Make whenever moveNeedsLegalityCheck said the
// cheap summary wasn't enough to be sure.
func (b *Board) WasLegal() bool {
	mover := b.side.Opposite()
	ksq := b.kingSq[mover]
	if ksq == SquareNone {
		return true
	}
	return !b.IsAttacked(ksq, b.side)
}

// legalInfo summarizes, from the side-to-move's king, who is giving
// check and which of the side's own pieces are pinned against it.
type legalInfo struct {
	inCheck     bool
	numCheckers uint8
	checkerSq   [2]Square
	pinnedCount uint8
	pinnedSq    [8]Square
}

func (li *legalInfo) addChecker(sq Square) {
	if li.numCheckers < 2 {
		li.checkerSq[li.numCheckers] = sq
	}
	li.numCheckers++
	li.inCheck = true
}

func (li *legalInfo) isPinned(sq Square) bool {
	for i := uint8(0); i < li.pinnedCount; i++ {
		if li.pinnedSq[i] == sq {
			return true
		}
	}
	return false
}

// computeLegalInfo walks the king's knight/pawn/adjacent-king attackers
// and its eight rays, in that order, exactly once per node.
func computeLegalInfo(b *Board) legalInfo {
	var li legalInfo

	side := b.side
	opp := side.Opposite()
	kingSq := b.kingSq[side]
	if kingSq == SquareNone {
		return li
	}

	for _, off := range knightOffsets {
		target := Square(int(kingSq) + off)
		if !target.Valid() {
			continue
		}
		if p := b.squares[target]; p != NoPiece && p.Color() == opp && p.Type() == Knight {
			li.addChecker(target)
		}
	}

	// A pawn of colour opp moving with forward direction attackerDir
	// attacks s+attackerDir-1 and s+attackerDir+1; solve for s such
	// that one of those lands on kingSq.
	attackerDir := 16
	if opp == Black {
		attackerDir = -16
	}
	pawn := MakePiece(opp, Pawn)
	if target := Square(int(kingSq) - attackerDir - 1); target.Valid() && b.squares[target] == pawn {
		li.addChecker(target)
	}
	if target := Square(int(kingSq) - attackerDir + 1); target.Valid() && b.squares[target] == pawn {
		li.addChecker(target)
	}

	// Adjacent enemy king: unreachable in a legal position, kept for
	// robustness against hand-built test positions.
	for _, off := range kingOffsets {
		target := Square(int(kingSq) + off)
		if !target.Valid() {
			continue
		}
		if p := b.squares[target]; p != NoPiece && p.Color() == opp && p.Type() == King {
			li.addChecker(target)
		}
	}

	for _, dir := range kingOffsets {
		isOrth := dir == -16 || dir == -1 || dir == 1 || dir == 16
		pinnedSq := SquareNone

		target := Square(int(kingSq) + dir)
		p := b.squares[target]
		for p == NoPiece {
			target = Square(int(target) + dir)
			p = b.squares[target]
		}
		if p == PieceOffBoard {
			continue
		}

		if p.Color() != opp {
			pinnedSq = target
			target = Square(int(target) + dir)
			p = b.squares[target]
			for p == NoPiece {
				target = Square(int(target) + dir)
				p = b.squares[target]
			}
			if p == PieceOffBoard {
				continue
			}
		}

		if p.Color() == opp {
			var slider bool
			if isOrth {
				slider = p.Type() == Rook || p.Type() == Queen
			} else {
				slider = p.Type() == Bishop || p.Type() == Queen
			}
			if slider {
				if pinnedSq == SquareNone {
					li.addChecker(target)
				} else if li.pinnedCount < 8 {
					li.pinnedSq[li.pinnedCount] = pinnedSq
					li.pinnedCount++
				}
			}
		}
	}

	return li
}

// moveNeedsLegalityCheck reports whether m might leave the mover's own
// king in check and so needs a full make/IsAttacked/unmake probe: true
// whenever already in check, for en-passant (it can expose the king
// along the vacated rank), for king moves, and for moves of a pinned
// piece.
func moveNeedsLegalityCheck(b *Board, li *legalInfo, m Move) bool {
	if li.inCheck {
		return true
	}
	if m.Flags&FlagEnPassant != 0 {
		return true
	}
	if b.squares[m.From].Type() == King {
		return true
	}
	return li.isPinned(m.From)
}

// rayDirBetween returns the 0x88 direction stepping from one square to
// the other, or 0 if they don't share a rank, file or diagonal. Walks
// through occupied squares too, since this answers a geometry question,
// not an attack one; only the off-board sentinel stops it.
func rayDirBetween(b *Board, from, to Square) int {
	for _, dir := range kingOffsets {
		for sq := Square(int(from) + dir); b.squares[sq] != PieceOffBoard; sq = Square(int(sq) + dir) {
			if sq == to {
				return dir
			}
		}
	}
	return 0
}

// isEvasionCandidate is a cheap pre-filter for in-check nodes: it keeps
// king moves, captures of the single checker, and (for a single sliding
// checker) blocks on the king-checker ray, and rejects everything else
// before the move is even tried.
func isEvasionCandidate(b *Board, li *legalInfo, m Move) bool {
	if !li.inCheck {
		return true
	}
	if b.squares[m.From].Type() == King {
		return true
	}
	if li.numCheckers >= 2 {
		return false
	}

	checkerSq := li.checkerSq[0]
	if m.To == checkerSq {
		return true
	}
	if m.Flags&FlagEnPassant != 0 && epCaptureSquare(m.To, b.side) == checkerSq {
		return true
	}

	switch b.squares[checkerSq].Type() {
	case Bishop, Rook, Queen:
	default:
		return false
	}

	dir := rayDirBetween(b, b.kingSq[b.side], checkerSq)
	if dir == 0 {
		return false
	}
	for sq := Square(int(b.kingSq[b.side]) + dir); b.squares[sq] != PieceOffBoard; sq = Square(int(sq) + dir) {
		if sq == m.To {
			return true
		}
		if sq == checkerSq {
			break
		}
	}
	return false
}
