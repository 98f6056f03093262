// Package services implements the shoutout manager's use cases on top of
// the store: catalog management, command generation, history replay,
// platform lookups and settings. The HTTP handlers and the CLI only talk to
// this layer.
//
// This file centralizes service-level error values. Translation into HTTP
// status codes or CLI messages happens in the calling layer.
package services

import "errors"

// Generation errors.
var (
	// ErrTemplateRequired is returned when Generate has no template to use.
	ErrTemplateRequired = errors.New("please select a template")

	// ErrEmptySelection is returned when Generate is called with no streamer
	// selected.
	ErrEmptySelection = errors.New("please select at least one streamer")
)

// Lookup errors.
var (
	// ErrTemplateNotFound indicates that the referenced template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrStreamerNotFound indicates that the referenced streamer does not exist.
	ErrStreamerNotFound = errors.New("streamer not found")

	// ErrGroupNotFound indicates that the referenced group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrHistoryNotFound indicates that the referenced history entry does not exist.
	ErrHistoryNotFound = errors.New("history entry not found")

	// ErrTemplateDeleted is returned when a history entry is replayed whose
	// template was deleted since.
	ErrTemplateDeleted = errors.New("template deleted")
)
