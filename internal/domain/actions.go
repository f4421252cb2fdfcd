// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "encoding/json"

// ActionState is the pending operation recorded against a catalog entry.
type ActionState int

// Pending-action states. A rebuild of the catalog resets every entry to
// ActionNone; there is no unmark command.
const (
	ActionNone ActionState = iota
	ActionInstall
	ActionRemove
	ActionPurge
)

// String returns the lower-case action name.
func (a ActionState) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionRemove:
		return "remove"
	case ActionPurge:
		return "purge"
	case ActionNone:
		return "none"
	default:
		return "none"
	}
}

// MarshalJSON encodes the action as its lower-case name.
func (a ActionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an action from its lower-case name. Unknown names
// decode as ActionNone.
func (a *ActionState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch name {
	case "install":
		*a = ActionInstall
	case "remove":
		*a = ActionRemove
	case "purge":
		*a = ActionPurge
	default:
		*a = ActionNone
	}

	return nil
}

// StatusGlyph returns the single-character list marker: 'i' for installed or
// marked for install, 'd' for marked for removal, 'p' for marked for purge,
// and a space for an untouched, uninstalled entry.
func (e CatalogEntry) StatusGlyph() rune {
	switch {
	case e.Pending == ActionInstall:
		return 'i'
	case e.Pending == ActionRemove:
		return 'd'
	case e.Pending == ActionPurge:
		return 'p'
	case e.Installed:
		return 'i'
	default:
		return ' '
	}
}

// MarkInstall requests installation of the entry. Marking an installed entry
// is rejected with ErrAlreadyInstalled and leaves the pending state untouched.
func (e *CatalogEntry) MarkInstall() error {
	if e.Installed {
		return ErrAlreadyInstalled
	}

	e.Pending = ActionInstall

	return nil
}

// MarkRemove requests removal of the entry. Marking an entry that is not
// installed is rejected with ErrNotInstalled and leaves the pending state
// untouched.
func (e *CatalogEntry) MarkRemove() error {
	if !e.Installed {
		return ErrNotInstalled
	}

	e.Pending = ActionRemove

	return nil
}

// MarkPurge requests removal including every version's residual files. The
// precondition matches MarkRemove.
func (e *CatalogEntry) MarkPurge() error {
	if !e.Installed {
		return ErrNotInstalled
	}

	e.Pending = ActionPurge

	return nil
}
