// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// moves.go generates pseudo-legal moves on the 0x88 board and answers
// square-attacked queries. Move generation never consults legality
// (check, pins); callers filter with IsAttacked/InCheck after Make, or
// via the cheaper check-and-pin precomputation in legality.go.

package engine

// GenMode selects which subset of a piece's pseudo-legal moves to emit,
// matching the staged captures-then-quiets order the search driver uses.
type GenMode uint8

const (
	GenAll GenMode = iota
	GenCaptures
	GenQuiets
)

var rookOffsets = [4]int{-16, -1, 1, 16}
var kingOffsets = [8]int{-17, -16, -15, -1, 1, 15, 16, 17}

func isEnemy(p Piece, side Color) bool {
	return p != NoPiece && p != PieceOffBoard && p.Color() != side
}

// AppendMoves appends every pseudo-legal move for the side to move onto
// dst and returns the grown slice.
func (b *Board) AppendMoves(dst []Move, mode GenMode) []Move {
	side := b.side
	for _, sq := range b.PieceSquares(side) {
		dst = b.appendPieceMoves(dst, sq, side, mode)
	}
	return dst
}

// AppendMovesFrom appends every pseudo-legal move originating at from,
// or returns dst unchanged if from holds no piece belonging to the side
// to move.
func (b *Board) AppendMovesFrom(dst []Move, from Square) []Move {
	p := b.squares[from]
	if p == NoPiece || p == PieceOffBoard || p.Color() != b.side {
		return dst
	}
	return b.appendPieceMoves(dst, from, b.side, GenAll)
}

func (b *Board) appendPieceMoves(dst []Move, sq Square, side Color, mode GenMode) []Move {
	switch b.squares[sq].Type() {
	case Pawn:
		return b.appendPawnMoves(dst, sq, side, mode)
	case Knight:
		return b.appendStepMoves(dst, sq, side, mode, knightOffsets[:])
	case Bishop:
		return b.appendSlideMoves(dst, sq, side, mode, bishopRayOffsets[:])
	case Rook:
		return b.appendSlideMoves(dst, sq, side, mode, rookOffsets[:])
	case Queen:
		dst = b.appendSlideMoves(dst, sq, side, mode, bishopRayOffsets[:])
		dst = b.appendSlideMoves(dst, sq, side, mode, rookOffsets[:])
		return dst
	case King:
		dst = b.appendStepMoves(dst, sq, side, mode, kingOffsets[:])
		return b.appendCastleMoves(dst, sq, side, mode)
	}
	return dst
}

func (b *Board) appendPawnMoves(dst []Move, sq Square, side Color, mode GenMode) []Move {
	dir, startRow, promoRow := 16, 1, 7
	if side == Black {
		dir, startRow, promoRow = -16, 6, 0
	}

	if mode != GenCaptures {
		target := Square(int(sq) + dir)
		if target.Valid() && b.squares[target] == NoPiece {
			if target.Row() == promoRow {
				dst = appendPromotions(dst, sq, target, 0)
			} else {
				dst = append(dst, Move{From: sq, To: target})
			}
			if sq.Row() == startRow {
				target2 := Square(int(sq) + 2*dir)
				if target2.Valid() && b.squares[target2] == NoPiece {
					dst = append(dst, Move{From: sq, To: target2, Flags: FlagDoublePush})
				}
			}
		}
	}

	if mode != GenQuiets {
		for _, d := range [2]int{dir - 1, dir + 1} {
			target := Square(int(sq) + d)
			if !target.Valid() {
				continue
			}
			occ := b.squares[target]
			if isEnemy(occ, side) {
				if target.Row() == promoRow {
					dst = appendPromotions(dst, sq, target, FlagCapture)
				} else {
					dst = append(dst, Move{From: sq, To: target, Flags: FlagCapture})
				}
			} else if target == b.epSquare {
				dst = append(dst, Move{From: sq, To: target, Flags: FlagCapture | FlagEnPassant})
			}
		}
	}
	return dst
}

func appendPromotions(dst []Move, from, to Square, base MoveFlags) []Move {
	for _, promo := range [4]MoveFlags{FlagPromoQ, FlagPromoR, FlagPromoB, FlagPromoN} {
		dst = append(dst, Move{From: from, To: to, Flags: base | FlagPromotion | promo})
	}
	return dst
}

func (b *Board) appendStepMoves(dst []Move, sq Square, side Color, mode GenMode, offsets []int) []Move {
	for _, off := range offsets {
		target := Square(int(sq) + off)
		if !target.Valid() {
			continue
		}
		occ := b.squares[target]
		if occ == NoPiece {
			if mode != GenCaptures {
				dst = append(dst, Move{From: sq, To: target})
			}
		} else if isEnemy(occ, side) && mode != GenQuiets {
			dst = append(dst, Move{From: sq, To: target, Flags: FlagCapture})
		}
	}
	return dst
}

func (b *Board) appendSlideMoves(dst []Move, sq Square, side Color, mode GenMode, offsets []int) []Move {
	for _, dir := range offsets {
		target := Square(int(sq) + dir)
		for occ := b.squares[target]; occ != PieceOffBoard; occ = b.squares[target] {
			if occ == NoPiece {
				if mode != GenCaptures {
					dst = append(dst, Move{From: sq, To: target})
				}
				target = Square(int(target) + dir)
				continue
			}
			if isEnemy(occ, side) && mode != GenQuiets {
				dst = append(dst, Move{From: sq, To: target, Flags: FlagCapture})
			}
			break
		}
	}
	return dst
}

func (b *Board) appendCastleMoves(dst []Move, sq Square, side Color, mode GenMode) []Move {
	if mode == GenCaptures {
		return dst
	}
	if side == White {
		if sq != RC(0, 4) || b.castling&(CastleWK|CastleWQ) == 0 {
			return dst
		}
		if b.IsAttacked(RC(0, 4), Black) {
			return dst
		}
		if b.castling&CastleWK != 0 &&
			b.squares[RC(0, 7)] == MakePiece(White, Rook) &&
			b.squares[RC(0, 5)] == NoPiece && b.squares[RC(0, 6)] == NoPiece &&
			!b.IsAttacked(RC(0, 5), Black) && !b.IsAttacked(RC(0, 6), Black) {
			dst = append(dst, Move{From: sq, To: RC(0, 6), Flags: FlagCastle})
		}
		if b.castling&CastleWQ != 0 &&
			b.squares[RC(0, 0)] == MakePiece(White, Rook) &&
			b.squares[RC(0, 1)] == NoPiece && b.squares[RC(0, 2)] == NoPiece && b.squares[RC(0, 3)] == NoPiece &&
			!b.IsAttacked(RC(0, 2), Black) && !b.IsAttacked(RC(0, 3), Black) {
			dst = append(dst, Move{From: sq, To: RC(0, 2), Flags: FlagCastle})
		}
		return dst
	}

	if sq != RC(7, 4) || b.castling&(CastleBK|CastleBQ) == 0 {
		return dst
	}
	if b.IsAttacked(RC(7, 4), White) {
		return dst
	}
	if b.castling&CastleBK != 0 &&
		b.squares[RC(7, 7)] == MakePiece(Black, Rook) &&
		b.squares[RC(7, 5)] == NoPiece && b.squares[RC(7, 6)] == NoPiece &&
		!b.IsAttacked(RC(7, 5), White) && !b.IsAttacked(RC(7, 6), White) {
		dst = append(dst, Move{From: sq, To: RC(7, 6), Flags: FlagCastle})
	}
	if b.castling&CastleBQ != 0 &&
		b.squares[RC(7, 0)] == MakePiece(Black, Rook) &&
		b.squares[RC(7, 1)] == NoPiece && b.squares[RC(7, 2)] == NoPiece && b.squares[RC(7, 3)] == NoPiece &&
		!b.IsAttacked(RC(7, 2), White) && !b.IsAttacked(RC(7, 3), White) {
		dst = append(dst, Move{From: sq, To: RC(7, 2), Flags: FlagCastle})
	}
	return dst
}

// IsAttacked reports whether sq is attacked by any piece of colour by.
func (b *Board) IsAttacked(sq Square, by Color) bool {
	for _, off := range knightOffsets {
		if t := Square(int(sq) + off); t.Valid() {
			if p := b.squares[t]; p.Type() == Knight && p != NoPiece && p.Color() == by {
				return true
			}
		}
	}

	pawnDir := -16
	if by == Black {
		pawnDir = 16
	}
	pawn := MakePiece(by, Pawn)
	if t := Square(int(sq) + pawnDir - 1); t.Valid() && b.squares[t] == pawn {
		return true
	}
	if t := Square(int(sq) + pawnDir + 1); t.Valid() && b.squares[t] == pawn {
		return true
	}

	for _, off := range kingOffsets {
		if t := Square(int(sq) + off); t.Valid() {
			if p := b.squares[t]; p.Type() == King && p != NoPiece && p.Color() == by {
				return true
			}
		}
	}

	for _, dir := range bishopRayOffsets {
		t := Square(int(sq) + dir)
		for p := b.squares[t]; p != PieceOffBoard; p = b.squares[t] {
			if p != NoPiece {
				if p.Color() == by && (p.Type() == Bishop || p.Type() == Queen) {
					return true
				}
				break
			}
			t = Square(int(t) + dir)
		}
	}

	for _, dir := range rookOffsets {
		t := Square(int(sq) + dir)
		for p := b.squares[t]; p != PieceOffBoard; p = b.squares[t] {
			if p != NoPiece {
				if p.Color() == by && (p.Type() == Rook || p.Type() == Queen) {
					return true
				}
				break
			}
			t = Square(int(t) + dir)
		}
	}

	return false
}

// InCheck reports whether c's king is currently attacked.
func (b *Board) InCheck(c Color) bool {
	ksq := b.kingSq[c]
	if ksq == SquareNone {
		return false
	}
	return b.IsAttacked(ksq, c.Opposite())
}
