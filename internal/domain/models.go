// Package domain defines the persisted data model of the shoutout manager:
// command templates, the streamer roster, streamer groups, the generation
// history, and the user settings. All of them live in a single Document that
// is loaded and saved as a whole.
package domain

import "time"

// HistoryLimit caps the number of history entries kept in a Document.
const HistoryLimit = 50

// Template is a reusable chat-bot command pattern.
//
// Fields:
//   - ID: opaque unique identifier.
//   - Name: display label shown in pickers.
//   - Command: bare command keyword without the leading "!".
//   - FirstArg: optional literal token inserted right after the keyword.
//   - Text: body containing zero or more case-insensitive {streamer} placeholders.
type Template struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Command  string `json:"command"`
	FirstArg string `json:"firstArg"`
	Text     string `json:"text"`
}

// Streamer is a roster entry; Name is the platform username without "@".
type Streamer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group is a saved, named subset of the roster used for bulk selection.
// StreamerIDs may reference streamers that were deleted later; such ids are
// filtered out wherever the group is expanded.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	StreamerIDs []string `json:"streamerIds"`
}

// HistoryEntry is an immutable record of a past generation. It stores
// snapshots of ids only; names are resolved again when the entry is shown
// or reused.
type HistoryEntry struct {
	ID          string   `json:"id"`
	Timestamp   int64    `json:"timestamp"` // unix milliseconds
	TemplateID  string   `json:"templateId"`
	StreamerIDs []string `json:"streamerIds"`
	Language    string   `json:"language"`
}

// Time returns the entry timestamp in the local time zone, which is what
// history rows are displayed in.
func (h HistoryEntry) Time() time.Time {
	return time.UnixMilli(h.Timestamp).In(time.Local)
}

// Settings holds user preferences and platform credentials.
type Settings struct {
	TwitchClientID     string `json:"twitchClientId"`
	TwitchClientSecret string `json:"twitchClientSecret"`
	Theme              string `json:"theme"`
	CustomColor        string `json:"customColor,omitempty"`
	SidebarCollapsed   bool   `json:"sidebarCollapsed"`
	DateFormat         string `json:"dateFormat"`
	TimeFormat         string `json:"timeFormat"`
}

// Document is the whole persisted application state.
type Document struct {
	Version   int            `json:"version"`
	Templates []Template     `json:"templates"`
	Streamers []Streamer     `json:"streamers"`
	Groups    []Group        `json:"groups"`
	History   []HistoryEntry `json:"history"`
	Language  string         `json:"language"`
	Settings  Settings       `json:"settings"`
}

// Clone returns a deep copy of d so callers can hand it out or persist it
// without sharing slices with the live state.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Version:   d.Version,
		Templates: append([]Template(nil), d.Templates...),
		Streamers: append([]Streamer(nil), d.Streamers...),
		Groups:    make([]Group, len(d.Groups)),
		History:   make([]HistoryEntry, len(d.History)),
		Language:  d.Language,
		Settings:  d.Settings,
	}
	for i, g := range d.Groups {
		g.StreamerIDs = append([]string(nil), g.StreamerIDs...)
		out.Groups[i] = g
	}
	for i, h := range d.History {
		h.StreamerIDs = append([]string(nil), h.StreamerIDs...)
		out.History[i] = h
	}
	if out.Templates == nil {
		out.Templates = []Template{}
	}
	if out.Streamers == nil {
		out.Streamers = []Streamer{}
	}
	return out
}

// DocumentRecord is the single-row table used by the SQLite backend. The
// document body is stored as JSON text so both backends share one schema
// and one migration path (Normalize).
type DocumentRecord struct {
	ID        uint      `gorm:"primaryKey"` // always 1
	Version   int       `gorm:"not null;default:1"`
	Body      string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name for DocumentRecord.
func (DocumentRecord) TableName() string { return "documents" }
