// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// eval.go assembles the static evaluator from the incrementally
// maintained material/PST scores (material.go), the pawn structure cache
// (pawns.go, pawn_table.go) and the remaining terms that need to look at
// piece placement directly: bishop pair, tempo, rook file bonuses,
// knight/bishop mobility and king pawn shield.

package engine

const (
	bishopPairMG int32 = 19
	bishopPairEG int32 = 58
	tempoMG      int32 = 10
	tempoEG      int32 = 9

	rookOpenMG     int32 = 38
	rookOpenEG     int32 = 24
	rookSemiOpenMG int32 = 23
	rookSemiOpenEG int32 = 11

	shieldMG int32 = 6
	shieldEG int32 = 0
)

var knightMobilityMG = [9]int32{-19, -13, -6, 0, 6, 13, 16, 17, 19}
var knightMobilityEG = [9]int32{-61, -43, -24, -2, 13, 26, 41, 45, 50}
var bishopMobilityMG = [14]int32{-12, -6, 2, 9, 11, 16, 18, 21, 25, 27, 29, 30, 32, 37}
var bishopMobilityEG = [14]int32{-17, -9, -1, 7, 12, 17, 23, 27, 32, 35, 37, 39, 41, 40}

var knightOffsets = [8]int{-33, -31, -18, -14, 14, 18, 31, 33}
var bishopRayOffsets = [4]int{-17, -15, 15, 17}

// enemyPawnAttackBit returns the bit in a pawnCacheEntry.atk map set by
// colour enemy's pawns, so "is dest covered by an enemy pawn" can be checked
// with a single mask against the opposing side's bit.
func enemyPawnAttackBit(enemy Color) uint8 {
	if enemy == White {
		return 1
	}
	return 2
}

// Evaluate returns the static score of b from the side-to-move's
// perspective, in centipawns. pc is the caller's pawn cache; callers that
// don't otherwise own one (tests, one-off analysis) can pass a fresh
// &pawnCache{}.
func Evaluate(b *Board, pc *pawnCache) int32 {
	mg := b.mg[White] - b.mg[Black]
	eg := b.eg[White] - b.eg[Black]

	if b.bishopCount[White] >= 2 {
		mg += bishopPairMG
		eg += bishopPairEG
	}
	if b.bishopCount[Black] >= 2 {
		mg -= bishopPairMG
		eg -= bishopPairEG
	}

	if b.side == White {
		mg += tempoMG
		eg += tempoEG
	} else {
		mg -= tempoMG
		eg -= tempoEG
	}

	entry := pc.probe(b)
	mg += entry.mg
	eg += entry.eg

	mgRook, egRook := rookFileTerms(b, entry)
	mg += mgRook
	eg += egRook

	mgMob, egMob := mobilityTerms(b, entry)
	mg += mgMob
	eg += egMob

	mgShield, egShield := shieldTerms(b)
	mg += mgShield
	eg += egShield

	phase := b.phase
	if phase > PhaseMax {
		phase = PhaseMax
	}
	score := (mg*phase + eg*(PhaseMax-phase)) / PhaseMax

	if b.side == White {
		return score
	}
	return -score
}

func rookFileTerms(b *Board, e *pawnCacheEntry) (mg, eg int32) {
	for _, sq := range b.PieceSquares(White) {
		if b.PieceAt(sq).Type() != Rook {
			continue
		}
		f := sq.File()
		switch {
		case e.wPawns[f] == 0 && e.bPawns[f] == 0:
			mg += rookOpenMG
			eg += rookOpenEG
		case e.wPawns[f] == 0:
			mg += rookSemiOpenMG
			eg += rookSemiOpenEG
		}
	}
	for _, sq := range b.PieceSquares(Black) {
		if b.PieceAt(sq).Type() != Rook {
			continue
		}
		f := sq.File()
		switch {
		case e.bPawns[f] == 0 && e.wPawns[f] == 0:
			mg -= rookOpenMG
			eg -= rookOpenEG
		case e.bPawns[f] == 0:
			mg -= rookSemiOpenMG
			eg -= rookSemiOpenEG
		}
	}
	return mg, eg
}

func mobilityTerms(b *Board, e *pawnCacheEntry) (mg, eg int32) {
	for _, c := range [2]Color{White, Black} {
		sign := int32(1)
		if c == Black {
			sign = -1
		}
		enemyBit := enemyPawnAttackBit(c.Opposite())
		for _, sq := range b.PieceSquares(c) {
			switch b.PieceAt(sq).Type() {
			case Knight:
				mob := 0
				for _, off := range knightOffsets {
					dest := Square(int(sq) + off)
					if !dest.Valid() {
						continue
					}
					occ := b.PieceAt(dest)
					if occ != NoPiece && occ.Color() == c {
						continue
					}
					if e.atk[dest]&enemyBit != 0 {
						continue
					}
					mob++
				}
				if mob > 8 {
					mob = 8
				}
				mg += sign * knightMobilityMG[mob]
				eg += sign * knightMobilityEG[mob]
			case Bishop:
				mob := 0
				for _, off := range bishopRayOffsets {
					dest := Square(int(sq) + off)
					for b.PieceAt(dest) == NoPiece {
						if e.atk[dest]&enemyBit == 0 {
							mob++
						}
						dest = Square(int(dest) + off)
					}
					if occ := b.PieceAt(dest); occ != PieceOffBoard {
						if occ.Color() != c && e.atk[dest]&enemyBit == 0 {
							mob++
						}
					}
				}
				if mob > 13 {
					mob = 13
				}
				mg += sign * bishopMobilityMG[mob]
				eg += sign * bishopMobilityEG[mob]
			}
		}
	}
	return mg, eg
}

func shieldTerms(b *Board) (mg, eg int32) {
	whiteShield := kingShieldCount(b, White)
	mg += int32(whiteShield) * shieldMG
	eg += int32(whiteShield) * shieldEG

	blackShield := kingShieldCount(b, Black)
	mg -= int32(blackShield) * shieldMG
	eg -= int32(blackShield) * shieldEG
	return mg, eg
}

func kingShieldCount(b *Board, c Color) int {
	ksq := b.kingSq[c]
	if ksq == SquareNone {
		return 0
	}
	row, col := ksq.Row(), ksq.File()
	shieldRow := row + 1
	if c == Black {
		shieldRow = row - 1
	}
	if shieldRow < 0 || shieldRow > 7 {
		return 0
	}
	pawn := MakePiece(c, Pawn)
	count := 0
	for f := col - 1; f <= col+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		if b.PieceAt(RC(shieldRow, f)) == pawn {
			count++
		}
	}
	return count
}
