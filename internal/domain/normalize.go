package domain

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 1

// Default settings values, also used when fields are missing on load.
const (
	DefaultTheme      = "twitch-dark"
	DefaultDateFormat = "system"
	DefaultTimeFormat = "system"
)

// NewDocument returns an empty, fully populated Document.
func NewDocument() *Document {
	d := &Document{}
	Normalize(d)
	return d
}

// Normalize migrates a freshly decoded document in place so that every
// collection is non-nil and every setting carries its documented default.
// It runs exactly once, right after deserialization.
//
// Defaults:
//   - templates, streamers, groups, history: empty lists
//   - language: DefaultLanguage (unknown codes are reset as well)
//   - settings.theme: DefaultTheme
//   - settings.dateFormat / settings.timeFormat: "system"
//   - settings.sidebarCollapsed: false (zero value)
//   - version: CurrentVersion
//
// History beyond HistoryLimit is truncated, keeping the newest entries.
func Normalize(d *Document) {
	if d.Templates == nil {
		d.Templates = []Template{}
	}
	if d.Streamers == nil {
		d.Streamers = []Streamer{}
	}
	if d.Groups == nil {
		d.Groups = []Group{}
	}
	for i := range d.Groups {
		if d.Groups[i].StreamerIDs == nil {
			d.Groups[i].StreamerIDs = []string{}
		}
	}
	if d.History == nil {
		d.History = []HistoryEntry{}
	}
	for i := range d.History {
		if d.History[i].StreamerIDs == nil {
			d.History[i].StreamerIDs = []string{}
		}
	}
	if len(d.History) > HistoryLimit {
		d.History = d.History[:HistoryLimit]
	}

	if IsSupportedLanguage(d.Language) {
		d.Language = Language(d.Language).Code
	} else {
		d.Language = DefaultLanguage
	}

	if d.Settings.Theme == "" {
		d.Settings.Theme = DefaultTheme
	}
	if d.Settings.DateFormat == "" {
		d.Settings.DateFormat = DefaultDateFormat
	}
	if d.Settings.TimeFormat == "" {
		d.Settings.TimeFormat = DefaultTimeFormat
	}

	if d.Version < CurrentVersion {
		d.Version = CurrentVersion
	}
}
