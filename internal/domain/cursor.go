// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

// searchScrollMargin is how far from the top of the viewport a search hit is
// positioned after a jump.
const searchScrollMargin = 5

// Cursor tracks the selected row and the scroll offset of the package list
// viewport. Every command re-establishes the invariant
// 0 <= Offset <= max(0, Total-Visible) and 0 <= Selection < Total;
// Selection is -1 and Offset is 0 while the list is empty.
type Cursor struct {
	Selection int
	Offset    int
	Visible   int
	Total     int
}

// NewCursor returns a cursor over total entries seen through a viewport of
// the given height.
func NewCursor(total, visible int) Cursor {
	cursor := Cursor{Visible: visible, Total: total}
	cursor.clamp()

	return cursor
}

// MoveUp moves the selection one row up, scrolling when it leaves the window.
func (c *Cursor) MoveUp() {
	if c.Selection > 0 {
		c.Selection--
	}

	c.clamp()
	c.ensureVisible()
}

// MoveDown moves the selection one row down, scrolling when it leaves the window.
func (c *Cursor) MoveDown() {
	if c.Selection < c.Total-1 {
		c.Selection++
	}

	c.clamp()
	c.ensureVisible()
}

// PageUp shifts selection and offset up by one viewport height. The two are
// clamped independently, so they may move by different amounts near the top.
func (c *Cursor) PageUp() {
	c.Selection -= c.Visible
	c.Offset -= c.Visible
	c.clamp()
}

// PageDown shifts selection and offset down by one viewport height, each
// independently clamped, mirroring PageUp.
func (c *Cursor) PageDown() {
	c.Selection += c.Visible
	c.Offset += c.Visible
	c.clamp()
}

// Home moves to the first entry.
func (c *Cursor) Home() {
	c.Selection = 0
	c.Offset = 0
	c.clamp()
}

// End moves to the last entry with the tail of the list filling the viewport.
func (c *Cursor) End() {
	c.Selection = c.Total - 1
	c.Offset = c.Total - c.Visible
	c.clamp()
}

// JumpTo places the selection on index, scrolling so the hit sits a small
// margin below the top of the viewport when possible.
func (c *Cursor) JumpTo(index int) {
	c.Selection = index
	c.Offset = index - searchScrollMargin
	c.clamp()
}

// Resize records a new viewport height and keeps the selection in view.
func (c *Cursor) Resize(visible int) {
	c.Visible = visible
	c.clamp()
	c.ensureVisible()
}

// SetTotal records a new list length after a catalog rebuild, keeping the
// position when it is still valid.
func (c *Cursor) SetTotal(total int) {
	c.Total = total
	c.clamp()
	c.ensureVisible()
}

// maxOffset is the largest offset that still fills the viewport.
func (c *Cursor) maxOffset() int {
	if c.Total <= c.Visible {
		return 0
	}

	return c.Total - c.Visible
}

// clamp forces both fields back into their valid ranges.
func (c *Cursor) clamp() {
	if c.Visible < 1 {
		c.Visible = 1
	}

	if c.Total < 0 {
		c.Total = 0
	}

	if c.Total == 0 {
		c.Selection = -1
		c.Offset = 0

		return
	}

	c.Selection = clampInt(c.Selection, 0, c.Total-1)
	c.Offset = clampInt(c.Offset, 0, c.maxOffset())
}

// ensureVisible scrolls the minimum distance that brings the selection back
// inside the viewport.
func (c *Cursor) ensureVisible() {
	if c.Total == 0 {
		return
	}

	if c.Selection < c.Offset {
		c.Offset = c.Selection
	}

	if c.Selection >= c.Offset+c.Visible {
		c.Offset = c.Selection - c.Visible + 1
	}
}

func clampInt(value, low, high int) int {
	if high < low {
		return low
	}

	if value < low {
		return low
	}

	if value > high {
		return high
	}

	return value
}
