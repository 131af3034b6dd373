// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "testing"

func TestPackUnpackMove(t *testing.T) {
	moves := []Move{
		{From: RC(0, 0), To: RC(7, 7)},
		{From: RC(1, 4), To: RC(3, 4), Flags: FlagDoublePush},
		{From: RC(6, 3), To: RC(7, 3), Flags: FlagPromotion | FlagPromoQ},
		{From: RC(6, 3), To: RC(7, 2), Flags: FlagCapture | FlagPromotion | FlagPromoN},
	}
	for _, m := range moves {
		got := unpackMove(packMove(m))
		if got.From != m.From || got.To != m.To {
			t.Errorf("packMove/unpackMove(%v): from/to mismatch, got %v", m, got)
		}
		if m.Flags&FlagPromotion != 0 {
			if got.Flags&FlagPromoMask != m.Flags&FlagPromoMask {
				t.Errorf("packMove/unpackMove(%v): promotion kind mismatch, got %v", m, got)
			}
		}
	}
}

func TestHashTableProbeStore(t *testing.T) {
	tt := NewHashTable(16)
	if tt.Size() < 16 {
		t.Fatalf("expected size >= 16, got %d", tt.Size())
	}

	hash := uint64(0x1234567890abcdef)
	lock := uint16(0xbeef)
	move := Move{From: RC(1, 1), To: RC(2, 2)}

	if _, _, _, _, ok := tt.Probe(hash, lock); ok {
		t.Fatalf("expected miss on empty table")
	}

	tt.Store(hash, lock, 123, move, 4, ttExact)
	score, got, depth, bound, ok := tt.Probe(hash, lock)
	if !ok {
		t.Fatalf("expected hit after store")
	}
	if score != 123 || depth != 4 || bound != ttExact {
		t.Errorf("got score=%d depth=%d bound=%v, want 123/4/exact", score, depth, bound)
	}
	if !sameMoveIgnoringTags(got, move) {
		t.Errorf("got move %v, want %v", got, move)
	}

	if _, _, _, _, ok := tt.Probe(hash, lock+1); ok {
		t.Errorf("expected miss on lock mismatch")
	}
}

func TestNewHashTableRoundsToPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 3, 17, 100} {
		tt := NewHashTable(n)
		size := tt.Size()
		if size&(size-1) != 0 {
			t.Errorf("NewHashTable(%d).Size() = %d, not a power of two", n, size)
		}
	}
}
