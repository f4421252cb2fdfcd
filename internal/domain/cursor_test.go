// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/gohncena/lading/internal/domain"
)

func checkCursorInvariant(t *testing.T, c domain.Cursor) {
	t.Helper()

	if c.Total == 0 {
		if c.Selection != -1 || c.Offset != 0 {
			t.Fatalf("empty list: Selection=%d Offset=%d, want -1/0", c.Selection, c.Offset)
		}

		return
	}

	if c.Selection < 0 || c.Selection >= c.Total {
		t.Fatalf("Selection %d out of [0,%d)", c.Selection, c.Total)
	}

	maxOffset := c.Total - c.Visible
	if maxOffset < 0 {
		maxOffset = 0
	}

	if c.Offset < 0 || c.Offset > maxOffset {
		t.Fatalf("Offset %d out of [0,%d]", c.Offset, maxOffset)
	}
}

func TestCursorMoveScrollsWithSelection(t *testing.T) {
	t.Parallel()

	cursor := domain.NewCursor(10, 3)

	for range 4 {
		cursor.MoveDown()
	}

	if cursor.Selection != 4 {
		t.Fatalf("Selection = %d, want 4", cursor.Selection)
	}
	// Selection left the three-row window twice, dragging the offset along.
	if cursor.Offset != 2 {
		t.Fatalf("Offset = %d, want 2", cursor.Offset)
	}

	for range 4 {
		cursor.MoveUp()
	}

	if cursor.Selection != 0 || cursor.Offset != 0 {
		t.Fatalf("Selection/Offset = %d/%d, want 0/0", cursor.Selection, cursor.Offset)
	}

	cursor.MoveUp()

	if cursor.Selection != 0 {
		t.Fatalf("MoveUp at top moved selection to %d", cursor.Selection)
	}
}

func TestCursorPageCommands(t *testing.T) {
	t.Parallel()

	cursor := domain.NewCursor(20, 5)

	cursor.PageDown()

	if cursor.Selection != 5 || cursor.Offset != 5 {
		t.Fatalf("after PageDown: %d/%d, want 5/5", cursor.Selection, cursor.Offset)
	}

	cursor.End()
	cursor.PageDown()

	// Both fields clamp independently at the bottom edge.
	if cursor.Selection != 19 || cursor.Offset != 15 {
		t.Fatalf("after End+PageDown: %d/%d, want 19/15", cursor.Selection, cursor.Offset)
	}

	cursor.PageUp()

	if cursor.Selection != 14 || cursor.Offset != 10 {
		t.Fatalf("after PageUp: %d/%d, want 14/10", cursor.Selection, cursor.Offset)
	}
}

func TestCursorPageShortList(t *testing.T) {
	t.Parallel()

	cursor := domain.NewCursor(3, 10)

	cursor.PageDown()

	if cursor.Selection != 2 {
		t.Fatalf("Selection = %d, want 2", cursor.Selection)
	}
	// A list shorter than the viewport never scrolls.
	if cursor.Offset != 0 {
		t.Fatalf("Offset = %d, want 0", cursor.Offset)
	}

	checkCursorInvariant(t, cursor)
}

func TestCursorHomeEnd(t *testing.T) {
	t.Parallel()

	cursor := domain.NewCursor(12, 4)

	cursor.End()

	if cursor.Selection != 11 || cursor.Offset != 8 {
		t.Fatalf("after End: %d/%d, want 11/8", cursor.Selection, cursor.Offset)
	}

	cursor.Home()

	if cursor.Selection != 0 || cursor.Offset != 0 {
		t.Fatalf("after Home: %d/%d, want 0/0", cursor.Selection, cursor.Offset)
	}
}

func TestCursorJumpToKeepsMargin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		total      int
		visible    int
		jump       int
		wantIndex  int
		wantOffset int
	}{
		{name: "deep_hit_sits_below_top", total: 100, visible: 10, jump: 50, wantIndex: 50, wantOffset: 45},
		{name: "near_top_clamps_to_zero", total: 100, visible: 10, jump: 2, wantIndex: 2, wantOffset: 0},
		{name: "near_bottom_clamps_to_max", total: 100, visible: 10, jump: 99, wantIndex: 99, wantOffset: 90},
		{name: "out_of_range_clamps", total: 5, visible: 10, jump: 40, wantIndex: 4, wantOffset: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cursor := domain.NewCursor(testCase.total, testCase.visible)
			cursor.JumpTo(testCase.jump)

			if cursor.Selection != testCase.wantIndex || cursor.Offset != testCase.wantOffset {
				t.Errorf("JumpTo(%d) = %d/%d, want %d/%d",
					testCase.jump, cursor.Selection, cursor.Offset, testCase.wantIndex, testCase.wantOffset)
			}

			checkCursorInvariant(t, cursor)
		})
	}
}

func TestCursorResize(t *testing.T) {
	t.Parallel()

	cursor := domain.NewCursor(30, 10)
	cursor.End()

	cursor.Resize(5)

	checkCursorInvariant(t, cursor)

	if cursor.Selection != 29 {
		t.Fatalf("resize moved selection to %d", cursor.Selection)
	}

	if cursor.Offset != 25 {
		t.Fatalf("Offset = %d, want 25", cursor.Offset)
	}

	cursor.Resize(0)

	checkCursorInvariant(t, cursor)
}

func TestCursorEmptyList(t *testing.T) {
	t.Parallel()

	cursor := domain.NewCursor(0, 10)

	checkCursorInvariant(t, cursor)

	cursor.MoveDown()
	cursor.PageDown()
	cursor.End()
	cursor.JumpTo(3)

	checkCursorInvariant(t, cursor)

	// Growing the list makes the first entry current again.
	cursor.SetTotal(4)

	if cursor.Selection != 0 || cursor.Offset != 0 {
		t.Fatalf("after SetTotal(4): %d/%d, want 0/0", cursor.Selection, cursor.Offset)
	}
}

func TestCursorSetTotalShrink(t *testing.T) {
	t.Parallel()

	cursor := domain.NewCursor(50, 10)
	cursor.End()

	cursor.SetTotal(7)

	checkCursorInvariant(t, cursor)

	if cursor.Selection != 6 || cursor.Offset != 0 {
		t.Fatalf("after shrink: %d/%d, want 6/0", cursor.Selection, cursor.Offset)
	}

	cursor.SetTotal(0)
	checkCursorInvariant(t, cursor)
}

// TestCursorInvariantUnderRandomCommands drives random command sequences over
// random list lengths and viewport sizes; the cursor invariant must hold
// after every single transition.
func TestCursorInvariantUnderRandomCommands(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 1))

	for run := range 50 {
		total := rng.IntN(60)
		visible := rng.IntN(25)
		cursor := domain.NewCursor(total, visible)

		t.Run(fmt.Sprintf("run_%d_total_%d_visible_%d", run, total, visible), func(t *testing.T) {
			checkCursorInvariant(t, cursor)

			for range 200 {
				switch rng.IntN(9) {
				case 0:
					cursor.MoveUp()
				case 1:
					cursor.MoveDown()
				case 2:
					cursor.PageUp()
				case 3:
					cursor.PageDown()
				case 4:
					cursor.Home()
				case 5:
					cursor.End()
				case 6:
					cursor.JumpTo(rng.IntN(70) - 5)
				case 7:
					cursor.Resize(rng.IntN(25))
				case 8:
					cursor.SetTotal(rng.IntN(60))
				}

				checkCursorInvariant(t, cursor)
			}
		})
	}
}
