// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "testing"

func TestThinkingTimeSpreadsOverMovesToGo(t *testing.T) {
	if got := thinkingTime(60000, 0, 30); got != 2000 {
		t.Errorf("thinkingTime(60000, 0, 30) = %d, want 2000", got)
	}
	if got := thinkingTime(1000, 0, 0); got != 1000 {
		t.Errorf("thinkingTime with movesToGo=0 should treat it as 1, got %d", got)
	}
}

func TestTimeControlAllocateUsesSideToMovesClock(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	tc := NewTimeControl(b)
	tc.WTimeMS = 600000
	tc.BTimeMS = 1000
	tc.MovesToGo = 30

	budget := tc.Allocate()
	if budget == 0 {
		t.Fatal("expected a nonzero budget")
	}
	if budget >= tc.BTimeMS {
		t.Errorf("budget %d should be a small fraction of the %d ms remaining", budget, tc.BTimeMS)
	}
}

func TestTimeControlAllocateGrowsAsMovesToGoShrinks(t *testing.T) {
	// With fewer moves left to cover, each one gets a larger share of
	// the remaining clock, even after the branch-factor safety margin.
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	tc := NewTimeControl(b)
	tc.WTimeMS = 100000
	tc.MovesToGo = 40
	early := tc.Allocate()

	tc.MovesToGo = 1
	last := tc.Allocate()
	if last <= early {
		t.Errorf("with 1 move to go (%d) the per-move budget should exceed 40 moves to go (%d)", last, early)
	}
}
