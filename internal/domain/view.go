// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Column widths of the package list.
const (
	nameColumnWidth    = 20
	versionColumnWidth = 12
	columnGutterWidth  = 6
)

// Row is one renderable line of the package list.
type Row struct {
	Glyph       rune
	Name        string
	Version     string
	Description string
	Installed   bool
	Action      ActionState
	Selected    bool
}

// FormatLine lays the row out as fixed columns within the given width,
// truncating the description to whatever space remains.
func (r Row) FormatLine(width int) string {
	name := padColumn(r.Name, nameColumnWidth)
	version := padColumn(r.Version, versionColumnWidth)

	description := ""
	if descWidth := width - nameColumnWidth - versionColumnWidth - columnGutterWidth; descWidth > 0 {
		description = runewidth.Truncate(r.Description, descWidth, "")
	}

	return fmt.Sprintf("%c %s %s %s", r.Glyph, name, version, description)
}

func padColumn(text string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(text, width, ""), width)
}

// View is the read-only projection of catalog, cursor, and pending actions
// that the display renders.
type View struct {
	Rows      []Row
	Total     int
	Selection int
	Detail    string
}

// BuildView projects the visible window of the catalog through the cursor.
func BuildView(c *Catalog, cursor Cursor) View {
	view := View{Total: c.Len(), Selection: cursor.Selection}
	if c.Len() == 0 || cursor.Selection < 0 {
		view.Selection = -1

		return view
	}

	start := clampInt(cursor.Offset, 0, c.Len()-1)

	end := start + cursor.Visible
	if end > c.Len() {
		end = c.Len()
	}

	view.Rows = make([]Row, 0, end-start)

	for i := start; i < end; i++ {
		entry := c.entries[i]
		view.Rows = append(view.Rows, Row{
			Glyph:       entry.StatusGlyph(),
			Name:        entry.Record.Name,
			Version:     entry.Record.Version,
			Description: entry.Record.Description,
			Installed:   entry.Installed,
			Action:      entry.Pending,
			Selected:    i == cursor.Selection,
		})
	}

	if selected := c.Entry(cursor.Selection); selected != nil {
		view.Detail = detailLine(*selected)
	}

	return view
}

// detailLine renders "name version - status" for the selected entry.
func detailLine(entry CatalogEntry) string {
	status := "Not installed"

	switch {
	case entry.Pending == ActionInstall:
		status = "Will be installed"
	case entry.Pending == ActionRemove:
		status = "Will be removed"
	case entry.Pending == ActionPurge:
		status = "Will be purged"
	case entry.Installed:
		status = "Installed"
	}

	return fmt.Sprintf("%s %s - %s", entry.Record.Name, entry.Record.Version, status)
}
