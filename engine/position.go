// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// pieceIndexNone marks a square with no entry in the owning side's piece
// list. Distinct from the zero index so square 0 isn't mistaken for "empty".
const pieceIndexNone = 0xFF

// castlingMask is ANDed into castling rights whenever a move touches the
// square it's indexed by. Every square preserves all rights except the
// six corner/king-home squares that retire them.
var castlingMask [128]Castle

func init() {
	for sq := 0; sq < 128; sq++ {
		castlingMask[sq] = CastleAll
	}
	castlingMask[RC(0, 0)] = CastleAll &^ CastleWQ
	castlingMask[RC(0, 4)] = CastleAll &^ (CastleWK | CastleWQ)
	castlingMask[RC(0, 7)] = CastleAll &^ CastleWK
	castlingMask[RC(7, 0)] = CastleAll &^ CastleBQ
	castlingMask[RC(7, 4)] = CastleAll &^ (CastleBK | CastleBQ)
	castlingMask[RC(7, 7)] = CastleAll &^ CastleBK
}

// Board is a mutable 0x88 chess position. Every mutation goes through Make
// and Unmake; there is no copy-on-move here, so the same Board instance is
// pushed and popped through an entire search tree.
type Board struct {
	// squares spans the full 0-255 range addressable by a Square (uint8)
	// rather than just the 128-cell 0x88 board, so a ray walk that steps
	// one square past the true edge (where the 0x88 arithmetic wraps a
	// negative offset into the upper half of the byte) still lands on a
	// real array slot instead of panicking. Every index outside the 64
	// playable squares, in that full range, holds the PieceOffBoard
	// sentinel so ray loops can terminate on a loaded byte alone.
	squares [256]Piece

	pieceList  [ColorArraySize][16]Square
	pieceIndex [128]uint8
	pieceCount [ColorArraySize]uint8

	bishopCount [ColorArraySize]uint8
	kingSq      [ColorArraySize]Square

	side     Color
	castling Castle
	epSquare Square
	halfmove uint8
	fullmove uint16

	pawnHash uint64
	hash     uint64
	lock     uint16

	mg    [ColorArraySize]int32
	eg    [ColorArraySize]int32
	phase int32
}

// Undo captures everything Make doesn't leave recoverable by inspecting the
// board after the fact: the irreversible bits (castling, en-passant square,
// clocks, hashes) are snapshotted verbatim and restored directly, while
// piece placement, scores and phase are unwound by mirroring Make's
// incremental updates in reverse.
type Undo struct {
	Captured   Piece
	Castling   Castle
	EPSquare   Square
	Halfmove   uint8
	Fullmove   uint16
	PawnHash   uint64
	Hash       uint64
	Lock       uint16
	MovedPiece Piece
	Flags      MoveFlags
}

// NewBoard returns an empty, initialized board with no pieces placed.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset clears the board to the empty position: no pieces, white to move,
// no castling rights, no en-passant square.
func (b *Board) Reset() {
	*b = Board{}
	for sq := 0; sq < 256; sq++ {
		if sq&0x88 != 0 {
			b.squares[sq] = PieceOffBoard
		}
	}
	for i := range b.pieceIndex {
		b.pieceIndex[i] = pieceIndexNone
	}
	b.epSquare = SquareNone
	b.kingSq[White] = SquareNone
	b.kingSq[Black] = SquareNone
}

// Side returns the side to move.
func (b *Board) Side() Color { return b.side }

// Castling returns the current castling rights.
func (b *Board) Castling() Castle { return b.castling }

// EPSquare returns the current en-passant target square, or SquareNone.
func (b *Board) EPSquare() Square { return b.epSquare }

// Halfmove returns the halfmove clock (plies since the last capture or
// pawn move), saturating at 255.
func (b *Board) Halfmove() uint8 { return b.halfmove }

// Fullmove returns the fullmove counter.
func (b *Board) Fullmove() uint16 { return b.fullmove }

// Hash returns the full 64-bit Zobrist hash.
func (b *Board) Hash() uint64 { return b.hash }

// Lock returns the 16-bit verification lock carried alongside Hash.
func (b *Board) Lock() uint16 { return b.lock }

// PawnHash returns the Zobrist hash of pawns only, used to key the pawn
// structure cache.
func (b *Board) PawnHash() uint64 { return b.pawnHash }

// PieceAt returns the piece occupying sq, or NoPiece if empty. sq must be
// a valid on-board square; off-board squares carry the PieceOffBoard
// sentinel so callers that forget to check Valid() still terminate rays.
func (b *Board) PieceAt(sq Square) Piece { return b.squares[sq] }

// KingSquare returns the square of c's king, or SquareNone if it hasn't
// been placed.
func (b *Board) KingSquare(c Color) Square { return b.kingSq[c] }

// PieceCount returns the number of pieces of colour c on the board.
func (b *Board) PieceCount(c Color) int { return int(b.pieceCount[c]) }

// PieceSquares returns the live slice of squares occupied by colour c's
// pieces. The slice aliases Board's internal storage; callers must not
// retain it across a Make/Unmake call.
func (b *Board) PieceSquares(c Color) []Square {
	return b.pieceList[c][:b.pieceCount[c]]
}

// BishopCount returns how many bishops colour c has, used by the
// insufficient-material and bishop-pair checks.
func (b *Board) BishopCount(c Color) int { return int(b.bishopCount[c]) }

// MGScore and EGScore return the incrementally maintained material plus
// piece-square contribution for colour c, in centipawns.
func (b *Board) MGScore(c Color) int32 { return b.mg[c] }
func (b *Board) EGScore(c Color) int32 { return b.eg[c] }

// Phase returns the game-phase counter, 0 (all major/minor pieces traded
// off) to PhaseMax (full material).
func (b *Board) Phase() int32 { return b.phase }

func (b *Board) addPiece(sq Square, p Piece) {
	c := p.Color()
	idx := b.pieceCount[c]
	b.squares[sq] = p
	b.pieceList[c][idx] = sq
	b.pieceIndex[sq] = idx
	b.pieceCount[c] = idx + 1
	if p.Type() == Bishop {
		b.bishopCount[c]++
	}
	if p.Type() == King {
		b.kingSq[c] = sq
	}
	mg, eg := pieceSquareScore(p, sq)
	b.mg[c] += mg
	b.eg[c] += eg
	b.phase += phaseWeight[p.Type()]
}

// removePiece clears sq and drops it from its owner's piece list, using
// swap-with-last so the list stays dense without shifting.
func (b *Board) removePiece(sq Square) {
	p := b.squares[sq]
	c := p.Color()
	idx := b.pieceIndex[sq]
	last := b.pieceCount[c] - 1
	lastSq := b.pieceList[c][last]
	b.pieceCount[c] = last
	if idx != last {
		b.pieceList[c][idx] = lastSq
		b.pieceIndex[lastSq] = idx
	}
	b.pieceIndex[sq] = pieceIndexNone
	b.squares[sq] = NoPiece
	if p.Type() == Bishop {
		b.bishopCount[c]--
	}
	mg, eg := pieceSquareScore(p, sq)
	b.mg[c] -= mg
	b.eg[c] -= eg
	b.phase -= phaseWeight[p.Type()]
}

// appendPiece re-adds a piece taken off the board by removePiece, placing
// it at the tail of its side's piece list. Used only by Unmake to restore
// a capture; the square is guaranteed free and the list entry it grew into
// existence in Make is no longer around to reuse.
func (b *Board) appendPiece(sq Square, p Piece) {
	c := p.Color()
	idx := b.pieceCount[c]
	b.squares[sq] = p
	b.pieceList[c][idx] = sq
	b.pieceIndex[sq] = idx
	b.pieceCount[c] = idx + 1
	if p.Type() == Bishop {
		b.bishopCount[c]++
	}
	mg, eg := pieceSquareScore(p, sq)
	b.mg[c] += mg
	b.eg[c] += eg
	b.phase += phaseWeight[p.Type()]
}

// movePiece relocates a piece already on the board from one square to
// another, updating squares/piece list/king square but not score or hash;
// callers are responsible for those.
func (b *Board) movePiece(from, to Square, p Piece) {
	c := p.Color()
	idx := b.pieceIndex[from]
	b.squares[from] = NoPiece
	b.squares[to] = p
	b.pieceList[c][idx] = to
	b.pieceIndex[to] = idx
	b.pieceIndex[from] = pieceIndexNone
	if p.Type() == King {
		b.kingSq[c] = to
	}
}

func epCaptureSquare(to Square, side Color) Square {
	if side == White {
		return RC(to.Row()-1, to.File())
	}
	return RC(to.Row()+1, to.File())
}

// Make applies m to the board and returns the state needed to undo it.
// The caller must already know m is at least pseudo-legal; Make performs
// no legality checking.
func (b *Board) Make(m Move) Undo {
	from, to, flags := m.From, m.To, m.Flags
	piece := b.squares[from]
	side := b.side
	opp := side.Opposite()
	captured := b.squares[to]

	u := Undo{
		Captured:   captured,
		Castling:   b.castling,
		EPSquare:   b.epSquare,
		Halfmove:   b.halfmove,
		Fullmove:   b.fullmove,
		PawnHash:   b.pawnHash,
		Hash:       b.hash,
		Lock:       b.lock,
		MovedPiece: piece,
		Flags:      flags,
	}

	if piece.Type() == Pawn || flags&FlagCapture != 0 {
		b.halfmove = 0
	} else if b.halfmove < 255 {
		b.halfmove++
	}

	b.xorOut(piece, from)

	switch {
	case flags&FlagEnPassant != 0:
		capSq := epCaptureSquare(to, side)
		capPiece := b.squares[capSq]
		u.Captured = capPiece
		if capPiece != NoPiece {
			b.xorOut(capPiece, capSq)
			b.removePiece(capSq)
		}
	case captured != NoPiece:
		b.xorOut(captured, to)
		b.removePiece(to)
	}

	b.movePiece(from, to, piece)
	b.xorIn(piece, to)
	mgFrom, egFrom := pieceSquareScore(piece, from)
	mgTo, egTo := pieceSquareScore(piece, to)
	b.mg[side] += mgTo - mgFrom
	b.eg[side] += egTo - egFrom

	if flags&FlagPromotion != 0 {
		promoted := MakePiece(side, flags.PromotionType())
		b.xorOut(piece, to)
		mgQ, egQ := pieceSquareScore(promoted, to)
		b.mg[side] += mgQ - mgTo
		b.eg[side] += egQ - egTo
		b.phase += phaseWeight[promoted.Type()] - phaseWeight[piece.Type()]
		b.squares[to] = promoted
		if promoted.Type() == Bishop {
			b.bishopCount[side]++
		}
		b.xorIn(promoted, to)
	}

	if flags&FlagCastle != 0 {
		row := from.Row()
		var rookFrom, rookTo Square
		if to.File() > from.File() {
			rookFrom, rookTo = RC(row, 7), RC(row, 5)
		} else {
			rookFrom, rookTo = RC(row, 0), RC(row, 3)
		}
		rook := b.squares[rookFrom]
		b.xorOut(rook, rookFrom)
		b.movePiece(rookFrom, rookTo, rook)
		b.xorIn(rook, rookTo)
		mgRF, egRF := pieceSquareScore(rook, rookFrom)
		mgRT, egRT := pieceSquareScore(rook, rookTo)
		b.mg[side] += mgRT - mgRF
		b.eg[side] += egRT - egRF
	}

	oldCastling := b.castling
	b.castling &= castlingMask[from] & castlingMask[to]
	if oldCastling != b.castling {
		b.hash ^= zobristCastle[oldCastling] ^ zobristCastle[b.castling]
		b.lock ^= lockCastle[oldCastling] ^ lockCastle[b.castling]
	}

	oldEP := b.epSquare
	if flags&FlagDoublePush != 0 {
		b.epSquare = RC((from.Row()+to.Row())/2, from.File())
	} else {
		b.epSquare = SquareNone
	}
	if oldEP != SquareNone {
		b.hash ^= zobristEPFile[oldEP.File()]
		b.lock ^= lockEPFile[oldEP.File()]
	}
	if b.epSquare != SquareNone {
		b.hash ^= zobristEPFile[b.epSquare.File()]
		b.lock ^= lockEPFile[b.epSquare.File()]
	}

	b.side = opp
	b.hash ^= zobristSide
	b.lock ^= lockSide
	if side == Black {
		b.fullmove++
	}

	return u
}

// Unmake reverses the effect of Make(m), restoring the board to the state
// it was in immediately before m was played. u must be the Undo returned
// by the matching Make call; Unmake does not validate this.
func (b *Board) Unmake(m Move, u Undo) {
	from, to, flags := m.From, m.To, u.Flags
	piece := u.MovedPiece

	b.side = b.side.Opposite()
	side := b.side

	if flags&FlagPromotion != 0 {
		promoted := b.squares[to]
		if promoted.Type() == Bishop {
			b.bishopCount[side]--
		}
		mgP, egP := pieceSquareScore(promoted, to)
		b.mg[side] -= mgP
		b.eg[side] -= egP
		b.phase -= phaseWeight[promoted.Type()]
		b.squares[to] = piece
		mgQ, egQ := pieceSquareScore(piece, to)
		b.mg[side] += mgQ
		b.eg[side] += egQ
		b.phase += phaseWeight[piece.Type()]
	}

	mgTo, egTo := pieceSquareScore(piece, to)
	mgFrom, egFrom := pieceSquareScore(piece, from)
	b.mg[side] += mgFrom - mgTo
	b.eg[side] += egFrom - egTo

	b.squares[from] = piece
	b.squares[to] = NoPiece
	b.movePiece(to, from, piece)

	if flags&FlagCastle != 0 {
		row := from.Row()
		var rookFrom, rookTo Square
		if to.File() > from.File() {
			rookFrom, rookTo = RC(row, 7), RC(row, 5)
		} else {
			rookFrom, rookTo = RC(row, 0), RC(row, 3)
		}
		rook := b.squares[rookTo]
		mgRF, egRF := pieceSquareScore(rook, rookFrom)
		mgRT, egRT := pieceSquareScore(rook, rookTo)
		b.mg[side] += mgRF - mgRT
		b.eg[side] += egRF - egRT
		b.squares[rookFrom] = rook
		b.squares[rookTo] = NoPiece
		b.movePiece(rookTo, rookFrom, rook)
	}

	if flags&FlagEnPassant != 0 {
		capSq := epCaptureSquare(to, side)
		if u.Captured != NoPiece {
			b.appendPiece(capSq, u.Captured)
		}
	} else if u.Captured != NoPiece {
		b.appendPiece(to, u.Captured)
	}

	b.castling = u.Castling
	b.epSquare = u.EPSquare
	b.halfmove = u.Halfmove
	b.fullmove = u.Fullmove
	b.pawnHash = u.PawnHash
	b.hash = u.Hash
	b.lock = u.Lock
}

// nullUndo captures what MakeNull touches, for UnmakeNull to restore.
type nullUndo struct {
	EPSquare Square
	Hash     uint64
	Lock     uint16
}

// MakeNull plays a null move: flips the side to move and clears the
// en-passant square, updating hash and lock to match; nothing else
// changes. Used only by null-move
// pruning in search, never as part of a real game's move list.
func (b *Board) MakeNull() nullUndo {
	u := nullUndo{EPSquare: b.epSquare, Hash: b.hash, Lock: b.lock}
	b.side = b.side.Opposite()
	b.hash ^= zobristSide
	b.lock ^= lockSide
	if b.epSquare != SquareNone {
		b.hash ^= zobristEPFile[b.epSquare.File()]
		b.lock ^= lockEPFile[b.epSquare.File()]
	}
	b.epSquare = SquareNone
	return u
}

// UnmakeNull reverses MakeNull.
func (b *Board) UnmakeNull(u nullUndo) {
	b.side = b.side.Opposite()
	b.hash = u.Hash
	b.lock = u.Lock
	b.epSquare = u.EPSquare
}

func (b *Board) xorOut(p Piece, sq Square) {
	idx := pieceZobristIndex(p)
	sq64 := sq.SQ64()
	b.hash ^= zobristPiece[idx][sq64]
	b.lock ^= lockPiece[idx][sq64]
	if p.Type() == Pawn {
		b.pawnHash ^= zobristPiece[idx][sq64]
	}
}

func (b *Board) xorIn(p Piece, sq Square) {
	b.xorOut(p, sq) // XOR is its own inverse; in and out are the same op.
}

// SetStartpos resets the board to the standard chess starting position.
func (b *Board) SetStartpos() {
	layout := [8][8]PieceType{
		{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook},
		{Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn},
		{}, {}, {}, {},
		{Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn},
		{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook},
	}
	b.Reset()
	for r := 0; r < 8; r++ {
		color := Black
		if r >= 6 {
			color = White
		}
		for f := 0; f < 8; f++ {
			if layout[r][f] != NoPieceType {
				b.addPiece(RC(7-r, f), MakePiece(color, layout[r][f]))
			}
		}
	}
	b.side = White
	b.castling = CastleAll
	b.halfmove = 0
	b.fullmove = 1
	b.computeHash()
}

// SetFromUI rebuilds the board from the raw UI representation: a signed
// piece grid (positive for white, negative for black, PieceType value in
// the magnitude), side to move, castling rights, en-passant row/column
// (use row == -1 for none), and the two move counters. Matches the shape
// of the engine façade's position setter.
func (b *Board) SetFromUI(grid [8][8]int8, whiteToMove bool, castling Castle, epRow, epCol int, halfmove uint8, fullmove uint16) {
	b.Reset()
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			v := grid[r][f]
			if v == 0 {
				continue
			}
			pt := PieceType(v)
			color := White
			if v < 0 {
				pt = PieceType(-v)
				color = Black
			}
			b.addPiece(RC(7-r, f), MakePiece(color, pt))
		}
	}
	if whiteToMove {
		b.side = White
	} else {
		b.side = Black
	}
	b.castling = castling
	b.halfmove = halfmove
	b.fullmove = fullmove
	if epRow >= 0 && epCol >= 0 {
		b.epSquare = RC(7-epRow, epCol)
	}
	b.computeHash()
}

// computeHash recomputes hash, pawnHash and lock from scratch. Used after
// bulk position setup and by tests asserting the incremental maintenance
// in Make/Unmake never drifts from a from-scratch recomputation.
func (b *Board) computeHash() {
	var h, ph uint64
	var l uint16
	for sq := 0; sq < 128; sq++ {
		if sq&0x88 != 0 {
			continue
		}
		p := b.squares[sq]
		if p == NoPiece {
			continue
		}
		idx := pieceZobristIndex(p)
		sq64 := Square(sq).SQ64()
		h ^= zobristPiece[idx][sq64]
		l ^= lockPiece[idx][sq64]
		if p.Type() == Pawn {
			ph ^= zobristPiece[idx][sq64]
		}
	}
	h ^= zobristCastle[b.castling]
	l ^= lockCastle[b.castling]
	if b.epSquare != SquareNone {
		h ^= zobristEPFile[b.epSquare.File()]
		l ^= lockEPFile[b.epSquare.File()]
	}
	if b.side == Black {
		h ^= zobristSide
		l ^= lockSide
	}
	b.pawnHash, b.hash, b.lock = ph, h, l
}
