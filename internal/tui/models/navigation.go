// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models defines shared navigation messages between UI screens.
package models

// NavigateMsg is a message sent to request navigation to a specific screen.
type NavigateMsg struct {
	Screen int
	Data   any // Optional data to pass to the new screen
}

// Screen constants for navigation.
const (
	BrowseScreen = iota
	ApplyScreen
	HelpScreen
)

// RefreshCatalogData, carried in NavigateMsg.Data, asks the browse screen to
// rebuild its catalog after the navigation lands.
const RefreshCatalogData = "refresh_catalog"

// CatalogReloadMsg tells the browse screen to reload the package catalog.
type CatalogReloadMsg struct{}
