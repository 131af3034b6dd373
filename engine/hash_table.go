// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hash_table.go implements the always-replace transposition table search
// probes before expanding a node and stores into after. Entries are eight
// bytes: a 16-bit verification lock (the hash itself picks the slot and is
// never stored), a 16-bit packed move, a 16-bit score, a signed depth and a
// bound kind. Mate-score ply adjustment is the caller's job, matching the
// original's tt_probe/tt_store which are ply-agnostic.

package engine

// ttBound classifies what an entry's stored score means relative to the
// window it was produced with.
type ttBound uint8

const (
	ttBoundNone ttBound = iota
	ttExact
	ttAlpha // score <= alpha when stored: an upper bound
	ttBeta  // score >= beta when stored: a lower bound
)

const ttMoveNone uint16 = 0xFFFF

// packMove squeezes a move's from/to squares and promotion kind into 15
// bits. Capture/castle/en-passant/double-push flags don't survive the
// round trip, so a TT move is only ever used as an ordering hint and must
// be re-validated against the generator's own moves before being played.
func packMove(m Move) uint16 {
	if m.IsZero() {
		return ttMoveNone
	}
	v := uint16(m.From.SQ64()) | uint16(m.To.SQ64())<<6
	if m.Flags&FlagPromotion != 0 {
		v |= 1 << 12
		switch m.Flags.PromotionType() {
		case Rook:
			v |= 1 << 13
		case Bishop:
			v |= 2 << 13
		case Knight:
			v |= 3 << 13
		}
	}
	return v
}

// unpackMove inverts packMove. The returned move never carries
// capture/castle/en-passant/double-push bits.
func unpackMove(v uint16) Move {
	if v == ttMoveNone {
		return NoMove
	}
	m := Move{
		From: SQ64ToSquare(int(v & 0x3F)),
		To:   SQ64ToSquare(int((v >> 6) & 0x3F)),
	}
	if v&(1<<12) != 0 {
		m.Flags |= FlagPromotion
		switch (v >> 13) & 0x3 {
		case 1:
			m.Flags |= FlagPromoR
		case 2:
			m.Flags |= FlagPromoB
		case 3:
			m.Flags |= FlagPromoN
		default:
			m.Flags |= FlagPromoQ
		}
	}
	return m
}

type ttEntry struct {
	lock  uint16
	move  uint16
	score int16
	depth int8
	bound ttBound
}

// HashTable is a fixed-size, always-replace transposition table. Each
// Engine owns one; it is not a package global, so concurrent engines (e.g.
// concurrent perft/bench runs) never share or race on table state.
type HashTable struct {
	entries []ttEntry
	mask    uint64
}

// NewHashTable builds a table with room for at least size entries, rounded
// up to the next power of two (minimum 16).
func NewHashTable(size int) *HashTable {
	n := 16
	for n < size {
		n <<= 1
	}
	return &HashTable{
		entries: make([]ttEntry, n),
		mask:    uint64(n - 1),
	}
}

// Clear discards every stored entry.
func (t *HashTable) Clear() {
	for i := range t.entries {
		t.entries[i] = ttEntry{}
	}
}

// Size returns the number of entries the table holds.
func (t *HashTable) Size() int { return len(t.entries) }

// Probe looks up hash, verifying the match with lock. ok is false on a
// miss (index occupied by a different position, or never written).
func (t *HashTable) Probe(hash uint64, lock uint16) (score int32, move Move, depth int8, bound ttBound, ok bool) {
	e := &t.entries[hash&t.mask]
	if e.bound == ttBoundNone || e.lock != lock {
		return 0, NoMove, 0, ttBoundNone, false
	}
	return int32(e.score), unpackMove(e.move), e.depth, e.bound, true
}

// Store always overwrites whatever currently occupies hash's slot.
func (t *HashTable) Store(hash uint64, lock uint16, score int32, move Move, depth int8, bound ttBound) {
	t.entries[hash&t.mask] = ttEntry{
		lock:  lock,
		move:  packMove(move),
		score: int16(score),
		depth: depth,
		bound: bound,
	}
}
