// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohncena/lading/internal/domain"
)

func TestBuildViewWindowsCatalog(t *testing.T) {
	t.Parallel()

	installed := map[string]domain.PackageRecord{
		"htop": {Name: "htop", Version: "3.3.0"},
	}
	catalog := domain.BuildCatalog(sourceRecords(), installed)

	cursor := domain.NewCursor(catalog.Len(), 2)
	cursor.MoveDown()
	cursor.MoveDown()

	view := domain.BuildView(catalog, cursor)

	require.Equal(t, 3, view.Total)
	require.Equal(t, 2, view.Selection)
	require.Len(t, view.Rows, 2)

	// Window slid down by one, so the rows are sl and zsh.
	require.Equal(t, "sl", view.Rows[0].Name)
	require.Equal(t, "zsh", view.Rows[1].Name)
	require.False(t, view.Rows[0].Selected)
	require.True(t, view.Rows[1].Selected)
}

func TestBuildViewGlyphsFollowEntryState(t *testing.T) {
	t.Parallel()

	installed := map[string]domain.PackageRecord{
		"htop": {Name: "htop", Version: "3.3.0"},
		"zsh":  {Name: "zsh", Version: "5.9"},
	}
	catalog := domain.BuildCatalog(sourceRecords(), installed)

	require.NoError(t, catalog.Entry(1).MarkInstall())
	require.NoError(t, catalog.Entry(2).MarkRemove())

	view := domain.BuildView(catalog, domain.NewCursor(catalog.Len(), 10))

	require.Equal(t, 'i', view.Rows[0].Glyph) // installed
	require.Equal(t, 'i', view.Rows[1].Glyph) // marked for install
	require.Equal(t, 'd', view.Rows[2].Glyph) // marked for removal
}

func TestBuildViewEmptyCatalog(t *testing.T) {
	t.Parallel()

	view := domain.BuildView(domain.BuildCatalog(nil, nil), domain.NewCursor(0, 10))

	require.Zero(t, view.Total)
	require.Equal(t, -1, view.Selection)
	require.Empty(t, view.Rows)
	require.Empty(t, view.Detail)
}

func TestBuildViewDetailLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		installed  bool
		mark       func(*domain.CatalogEntry) error
		wantDetail string
	}{
		{
			name:       "not_installed",
			wantDetail: "sl 5.0.2 - Not installed",
		},
		{
			name:       "installed",
			installed:  true,
			wantDetail: "sl 5.0.2 - Installed",
		},
		{
			name:       "will_be_installed",
			mark:       (*domain.CatalogEntry).MarkInstall,
			wantDetail: "sl 5.0.2 - Will be installed",
		},
		{
			name:       "will_be_removed",
			installed:  true,
			mark:       (*domain.CatalogEntry).MarkRemove,
			wantDetail: "sl 5.0.2 - Will be removed",
		},
		{
			name:       "will_be_purged",
			installed:  true,
			mark:       (*domain.CatalogEntry).MarkPurge,
			wantDetail: "sl 5.0.2 - Will be purged",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var installed map[string]domain.PackageRecord
			if testCase.installed {
				installed = map[string]domain.PackageRecord{
					"sl": {Name: "sl", Version: "5.0.2"},
				}
			}

			catalog := domain.BuildCatalog([]domain.PackageRecord{
				{Name: "sl", Version: "5.0.2", Description: "Steam Locomotive"},
			}, installed)

			if testCase.mark != nil {
				require.NoError(t, testCase.mark(catalog.Entry(0)))
			}

			view := domain.BuildView(catalog, domain.NewCursor(1, 10))

			require.Equal(t, testCase.wantDetail, view.Detail)
		})
	}
}

func TestFormatLine(t *testing.T) {
	t.Parallel()

	row := domain.Row{
		Glyph:       'i',
		Name:        "htop",
		Version:     "3.3.0",
		Description: "Interactive process viewer",
	}

	line := row.FormatLine(80)

	require.Equal(t, "i htop                 3.3.0        Interactive process viewer", line)
}

func TestFormatLineTruncates(t *testing.T) {
	t.Parallel()

	row := domain.Row{
		Glyph:       ' ',
		Name:        "a-package-with-a-very-long-name",
		Version:     "10.20.30-beta.4+meta",
		Description: strings.Repeat("x", 100),
	}

	line := row.FormatLine(50)

	require.Equal(t, "  a-package-with-a-ver 10.20.30-bet "+strings.Repeat("x", 12), line)
}

func TestFormatLineNarrowWidthDropsDescription(t *testing.T) {
	t.Parallel()

	row := domain.Row{
		Glyph:       'd',
		Name:        "sl",
		Version:     "5.0.2",
		Description: "Steam Locomotive",
	}

	line := row.FormatLine(30)

	require.Equal(t, "d sl                   5.0.2        ", line)
}
