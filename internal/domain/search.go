// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggestionMaxDistance is the largest edit distance still offered as a
// "did you mean" candidate.
const suggestionMaxDistance = 2

// SearchStatus classifies the outcome of a search request.
type SearchStatus int

// Search outcomes. A cancelled search (empty query) is distinct from a query
// that matched nothing.
const (
	SearchFound SearchStatus = iota
	SearchNoMatch
	SearchCancelled
)

// SearchResult reports where a query landed. Suggestion carries the closest
// package name when nothing matched.
type SearchResult struct {
	Index      int
	Status     SearchStatus
	Suggestion string
}

// ResolveSearch finds the next entry matching the query after the given
// index, wrapping past the end. The caller jumps the cursor on SearchFound.
func ResolveSearch(c *Catalog, query string, after int) SearchResult {
	if strings.TrimSpace(query) == "" {
		return SearchResult{Index: -1, Status: SearchCancelled}
	}

	if index, found := c.FindByQuery(query, after); found {
		return SearchResult{Index: index, Status: SearchFound}
	}

	return SearchResult{Index: -1, Status: SearchNoMatch, Suggestion: closestName(c, query)}
}

// closestName returns the catalog name within suggestionMaxDistance edits of
// the query, preferring earlier catalog entries on ties, or empty when
// nothing is close.
func closestName(c *Catalog, query string) string {
	lowered := strings.ToLower(query)
	best := ""
	bestDistance := suggestionMaxDistance + 1

	for i := range c.entries {
		name := c.entries[i].Record.Name

		distance := levenshtein.ComputeDistance(lowered, strings.ToLower(name))
		if distance < bestDistance {
			best = name
			bestDistance = distance
		}
	}

	return best
}
