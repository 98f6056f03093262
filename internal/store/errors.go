// Package store owns the application state: templates, the streamer roster,
// groups, generation history, the active language and settings. Every
// mutation goes through a Store method so the collection invariants are
// enforced in one place, and every successful mutation is persisted as a
// whole document.
//
// Errors in this file are returned by Store methods and mapped to
// user-facing codes by the HTTP and CLI layers.
package store

import "errors"

var (
	// ErrEmptyName is returned when a name that must be non-empty is blank
	// after trimming.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyField is returned when a required template field is blank.
	ErrEmptyField = errors.New("required field is empty")

	// ErrDuplicateStreamer is returned when a streamer name already exists
	// (compared case-insensitively) on a different roster entry.
	ErrDuplicateStreamer = errors.New("streamer already exists")

	// ErrEmptyGroup is returned when a group would have no members.
	ErrEmptyGroup = errors.New("group must contain at least one streamer")

	// ErrUnsupportedLanguage is returned for language codes without a
	// LanguageConfig.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidSetting is returned when a settings value is outside its
	// allowed set (theme, date/time format, custom color).
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrPersist wraps a failed save. The in-memory state already reflects
	// the mutation and stays authoritative for the rest of the session.
	ErrPersist = errors.New("persist document")
)
