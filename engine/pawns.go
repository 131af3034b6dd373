// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// pawns.go contains the pawn-structure terms folded into the pawn cache:
// doubled, isolated and connected pawns, and passed pawns. Everything
// here is direction-sensitive because this package numbers squares with
// row 0 = rank 1 (white's side), so "ahead" and "behind" differ by
// colour in ways a row-reversed table wouldn't need to care about.

package engine

// connectedBonusMG/EG and passedMG/EG are indexed by relative rank minus
// two: a pawn on its own second rank (relative rank 1) never qualifies,
// so the table only needs to cover relative ranks 2 through 7.
var connectedBonusMG = [6]int32{0, 9, 10, 16, 39, 65}
var connectedBonusEG = [6]int32{0, 9, 10, 16, 39, 65}
var passedMG = [6]int32{0, 0, 0, 7, 43, 85}
var passedEG = [6]int32{13, 27, 41, 67, 131, 229}

const (
	doubledMG  int32 = 12
	doubledEG  int32 = 3
	isolatedMG int32 = 12
	isolatedEG int32 = 17
)

// relativeRank returns how far a pawn of colour c on row has advanced
// from its own second rank: 1 at the start, 7 on the promotion rank.
func relativeRank(c Color, row int) int {
	if c == White {
		return row
	}
	return 7 - row
}

// pawnAheadMask returns a rank bitmask (bit r set means rank r+1) of the
// ranks strictly ahead of a pawn on row, up to and including its
// promotion rank.
func pawnAheadMask(c Color, row int) uint8 {
	if c == White {
		return ^uint8((1 << uint(row+1)) - 1)
	}
	return uint8((1 << uint(row)) - 1)
}

// buildPawnCache scans every pawn once, filling e's file bitmasks, attack
// bitmap, and the net (white-minus-black) doubled/isolated/connected/
// passed contribution.
func buildPawnCache(b *Board, e *pawnCacheEntry) {
	*e = pawnCacheEntry{key: b.pawnHash}

	var whiteSq, blackSq []Square
	for _, sq := range b.PieceSquares(White) {
		if b.PieceAt(sq).Type() == Pawn {
			whiteSq = append(whiteSq, sq)
			e.wPawns[sq.File()] |= 1 << uint(sq.Row())
			if a := Square(int(sq) + 15); a.Valid() {
				e.atk[a] |= 1
			}
			if a := Square(int(sq) + 17); a.Valid() {
				e.atk[a] |= 1
			}
		}
	}
	for _, sq := range b.PieceSquares(Black) {
		if b.PieceAt(sq).Type() == Pawn {
			blackSq = append(blackSq, sq)
			e.bPawns[sq.File()] |= 1 << uint(sq.Row())
			if a := Square(int(sq) - 15); a.Valid() {
				e.atk[a] |= 2
			}
			if a := Square(int(sq) - 17); a.Valid() {
				e.atk[a] |= 2
			}
		}
	}

	var mg, eg int32
	mg, eg = pawnStructureTerms(b, White, whiteSq, e.wPawns, e.bPawns)
	e.mg += mg
	e.eg += eg
	mg, eg = pawnStructureTerms(b, Black, blackSq, e.bPawns, e.wPawns)
	e.mg -= mg
	e.eg -= eg
}

// pawnStructureTerms computes colour c's own doubled/isolated/connected/
// passed contribution in isolation; the caller applies the sign.
func pawnStructureTerms(b *Board, c Color, pawns []Square, own, enemy [8]uint8) (mg, eg int32) {
	supportOffsets := [2]int{-15, -17}
	if c == Black {
		supportOffsets = [2]int{15, 17}
	}
	supportPiece := MakePiece(c, Pawn)

	for _, sq := range pawns {
		row, file := sq.Row(), sq.File()

		if own[file]&^(1<<uint(row)) != 0 {
			mg -= doubledMG
			eg -= doubledEG
		}

		var adjacent uint8
		if file > 0 {
			adjacent |= own[file-1]
		}
		if file < 7 {
			adjacent |= own[file+1]
		}
		if adjacent == 0 {
			mg -= isolatedMG
			eg -= isolatedEG
		}

		rel := relativeRank(c, row)
		if rel < 2 {
			continue
		}
		ri := rel - 2

		supported := false
		for _, off := range supportOffsets {
			if a := Square(int(sq) + off); a.Valid() && b.PieceAt(a) == supportPiece {
				supported = true
			}
		}
		if supported {
			mg += connectedBonusMG[ri]
			eg += connectedBonusEG[ri]
		}

		ahead := pawnAheadMask(c, row)
		blocked := enemy[file]&ahead != 0
		if !blocked && file > 0 {
			blocked = enemy[file-1]&ahead != 0
		}
		if !blocked && file < 7 {
			blocked = enemy[file+1]&ahead != 0
		}
		if !blocked {
			mg += passedMG[ri]
			eg += passedEG[ri]
		}
	}
	return mg, eg
}
