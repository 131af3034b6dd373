// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// move_ordering.go scores and orders a ply's generated moves so
// alpha-beta sees the moves most likely to cause a cutoff first: the TT
// hint, then captures by MVV-LVA, then killers, then everything else by
// history. killerTable and historyTable are owned by a Searcher, not
// package globals, so concurrent Searchers never race on them.

package engine

import "github.com/seekerror/stdlib/pkg/util/mathx"

// mvvLva is indexed [victim-1][attacker-1] (both 0-based over Pawn..King)
// and biases toward capturing the most valuable piece with the least
// valuable one; these small values are added on top of scoreCaptureBase.
var mvvLva = [6][6]uint8{
	{15, 14, 13, 12, 11, 10}, // victim pawn
	{25, 24, 23, 22, 21, 20}, // victim knight
	{25, 24, 23, 22, 21, 20}, // victim bishop
	{35, 34, 33, 32, 31, 30}, // victim rook
	{45, 44, 43, 42, 41, 40}, // victim queen
	{0, 0, 0, 0, 0, 0},       // victim king: unreachable, kept for indexing
}

const (
	scoreTTMove      int32 = 30000
	scoreCaptureBase int32 = 10000
	scoreKiller1     int32 = 9000
	scoreKiller2     int32 = 8000

	promoQueenBonus int32 = 5000
	promoMinorBonus int32 = 1000
)

// killerTable holds two quiet-move killers per ply.
type killerTable [MaxPly][2]Move

func (k *killerTable) update(ply int, m Move) {
	if ply >= MaxPly {
		return
	}
	if k[ply][0] != m {
		k[ply][1] = k[ply][0]
		k[ply][0] = m
	}
}

// historyTable scores quiet moves by side and destination square, with a
// gravity update that decays toward zero instead of growing unboundedly.
type historyTable [ColorArraySize][128]int32

func (h *historyTable) update(side Color, m Move, depth int8) {
	bonus := int32(depth) * int32(depth)
	val := h[side][m.To]
	val += bonus - val*bonus/16384
	h[side][m.To] = mathx.Max(-4000, mathx.Min(4000, val))
}

// sameMoveIgnoringTags compares the fields a packed TT move preserves:
// from, to and promotion kind, but not capture/castle/en-passant/
// double-push, which a round trip through packMove/unpackMove loses.
func sameMoveIgnoringTags(a, b Move) bool {
	return a.From == b.From && a.To == b.To &&
		(a.Flags&(FlagPromotion|FlagPromoMask)) == (b.Flags&(FlagPromotion|FlagPromoMask))
}

// scoreMoves assigns an ordering score to every move in moves, for the
// captures-and-quiets staged generation negamax uses.
func scoreMoves(b *Board, moves []Move, scores []int32, ply int, ttMove Move, killers *killerTable, history *historyTable) {
	for i, m := range moves {
		switch {
		case !ttMove.IsZero() && sameMoveIgnoringTags(m, ttMove):
			scores[i] = scoreTTMove
			continue
		case m.Flags&FlagCapture != 0:
			victim := b.squares[m.To].Type()
			if m.Flags&FlagEnPassant != 0 {
				victim = Pawn
			}
			attacker := b.squares[m.From].Type()
			scores[i] = scoreCaptureBase + int32(mvvLva[victim-1][attacker-1])
		case ply < MaxPly && m == killers[ply][0]:
			scores[i] = scoreKiller1
		case ply < MaxPly && m == killers[ply][1]:
			scores[i] = scoreKiller2
		default:
			scores[i] = history[b.side][m.To]
		}

		if m.Flags&FlagPromotion != 0 {
			if m.Flags&FlagPromoMask == FlagPromoQ {
				scores[i] += promoQueenBonus
			} else {
				scores[i] += promoMinorBonus
			}
		}
	}
}

// scoreCaptureMoves scores a captures-only move list for quiescence,
// where there's no TT hint, no killers, and quiet moves never appear.
func scoreCaptureMoves(b *Board, moves []Move, scores []int32) {
	for i, m := range moves {
		score := scoreCaptureBase
		if m.Flags&FlagCapture != 0 {
			victim := b.squares[m.To].Type()
			if m.Flags&FlagEnPassant != 0 {
				victim = Pawn
			}
			attacker := b.squares[m.From].Type()
			score += int32(mvvLva[victim-1][attacker-1])
		}
		if m.Flags&FlagPromotion != 0 {
			if m.Flags&FlagPromoMask == FlagPromoQ {
				score += promoQueenBonus
			} else {
				score += promoMinorBonus
			}
		}
		scores[i] = score
	}
}

// pickMove selection-sorts the best-scoring remaining move into index,
// swapping it into place. Called once per move instead of sorting the
// whole slice up front, since alpha-beta cutoffs often mean only a
// handful of moves at the front are ever examined.
func pickMove(moves []Move, scores []int32, index int) {
	best := index
	bestScore := scores[index]
	for i := index + 1; i < len(moves); i++ {
		if scores[i] > bestScore {
			best = i
			bestScore = scores[i]
		}
	}
	if best != index {
		moves[index], moves[best] = moves[best], moves[index]
		scores[index], scores[best] = scores[best], scores[index]
	}
}
