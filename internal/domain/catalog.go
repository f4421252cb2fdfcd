// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"slices"
	"strings"

	"github.com/gohncena/lading/internal/stringutil"
)

// CatalogEntry pairs one package record with its local state.
type CatalogEntry struct {
	Record    PackageRecord
	Installed bool
	Pending   ActionState
}

// Catalog is the merged, name-sorted list of every known package together
// with its installed and pending-action state. It is rebuilt wholesale on
// load and refresh; a rebuild discards pending actions.
type Catalog struct {
	entries []CatalogEntry
}

// BuildCatalog merges the source records with the ledger snapshot. Every name
// present in either input appears exactly once; source metadata wins for
// names present in both; ledger-only packages keep the record the ledger
// stored. Installed is true iff the name exists in the snapshot.
func BuildCatalog(source []PackageRecord, installed map[string]PackageRecord) *Catalog {
	entries := make([]CatalogEntry, 0, len(source)+len(installed))
	seen := make(map[string]bool, len(source))

	for _, rec := range source {
		if !rec.IsValid() || seen[rec.Name] {
			continue
		}

		seen[rec.Name] = true
		_, inLedger := installed[rec.Name]
		entries = append(entries, CatalogEntry{Record: rec, Installed: inLedger})
	}

	for name, rec := range installed {
		if seen[name] {
			continue
		}

		entries = append(entries, CatalogEntry{Record: rec, Installed: true})
	}

	slices.SortFunc(entries, func(a, b CatalogEntry) int {
		return strings.Compare(a.Record.Name, b.Record.Name)
	})

	return &Catalog{entries: entries}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entry returns the entry at index, or nil when the index is out of range.
func (c *Catalog) Entry(index int) *CatalogEntry {
	if index < 0 || index >= len(c.entries) {
		return nil
	}

	return &c.entries[index]
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []CatalogEntry {
	return slices.Clone(c.entries)
}

// Names returns every package name in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, entry := range c.entries {
		names[i] = entry.Record.Name
	}

	return names
}

// IndexOf locates the named package via binary search over the sorted entries.
func (c *Catalog) IndexOf(name string) (int, bool) {
	return slices.BinarySearchFunc(c.entries, name, func(e CatalogEntry, target string) int {
		return strings.Compare(e.Record.Name, target)
	})
}

// FindByQuery scans forward from startAfter+1, wrapping past the end, for the
// first entry whose name or description contains the query, case-insensitive.
// The entry at startAfter itself is checked last, after a full wrap. Pass -1
// to scan from the top.
func (c *Catalog) FindByQuery(query string, startAfter int) (int, bool) {
	if len(c.entries) == 0 || query == "" {
		return 0, false
	}

	for step := 1; step <= len(c.entries); step++ {
		index := (startAfter + step) % len(c.entries)
		if index < 0 {
			index += len(c.entries)
		}

		entry := c.entries[index]
		if stringutil.ContainsIgnoreCase(entry.Record.Name, query) ||
			stringutil.ContainsIgnoreCase(entry.Record.Description, query) {
			return index, true
		}
	}

	return 0, false
}

// Matches returns the indexes of every entry whose name or description
// contains the query, case-insensitive, in catalog order.
func (c *Catalog) Matches(query string) []int {
	if query == "" {
		return nil
	}

	var indexes []int

	for i, entry := range c.entries {
		if stringutil.ContainsIgnoreCase(entry.Record.Name, query) ||
			stringutil.ContainsIgnoreCase(entry.Record.Description, query) {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

// InstalledCount returns how many entries are currently installed.
func (c *Catalog) InstalledCount() int {
	var count int

	for _, entry := range c.entries {
		if entry.Installed {
			count++
		}
	}

	return count
}
