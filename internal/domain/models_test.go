package domain

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestDocument_JSONFieldNames(t *testing.T) {
	d := NewDocument()
	d.Templates = append(d.Templates, Template{ID: "t1", Name: "SO", Command: "so", FirstArg: "x", Text: "hi {streamer}"})
	d.Groups = append(d.Groups, Group{ID: "g1", Name: "crew", StreamerIDs: []string{"s1"}})
	d.History = append(d.History, HistoryEntry{ID: "h1", Timestamp: 1, TemplateID: "t1", StreamerIDs: []string{"s1"}, Language: "en"})
	d.Settings.CustomColor = "#112233"

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"version", "templates", "streamers", "groups", "history", "language", "settings"} {
		if _, ok := raw[k]; !ok {
			t.Fatalf("missing top-level key %q in %s", k, b)
		}
	}
	settings := raw["settings"].(map[string]any)
	for _, k := range []string{"twitchClientId", "twitchClientSecret", "theme", "customColor", "sidebarCollapsed", "dateFormat", "timeFormat"} {
		if _, ok := settings[k]; !ok {
			t.Fatalf("missing settings key %q", k)
		}
	}
	tpl := raw["templates"].([]any)[0].(map[string]any)
	if tpl["firstArg"] != "x" {
		t.Fatalf("firstArg = %v", tpl["firstArg"])
	}
	h := raw["history"].([]any)[0].(map[string]any)
	if _, ok := h["templateId"]; !ok {
		t.Fatalf("history templateId missing: %v", h)
	}
}

func TestDocument_CustomColorOmittedWhenEmpty(t *testing.T) {
	b, err := json.Marshal(NewDocument().Settings)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	_ = json.Unmarshal(b, &raw)
	if _, ok := raw["customColor"]; ok {
		t.Fatalf("customColor should be omitted: %s", b)
	}
}

func TestDocument_CloneIsDeep(t *testing.T) {
	d := NewDocument()
	d.Groups = []Group{{ID: "g", StreamerIDs: []string{"a", "b"}}}
	d.History = []HistoryEntry{{ID: "h", StreamerIDs: []string{"a"}}}
	d.Streamers = []Streamer{{ID: "a", Name: "alice"}}

	c := d.Clone()
	if !reflect.DeepEqual(c, d) {
		t.Fatalf("clone differs:\n%#v\n%#v", c, d)
	}

	c.Groups[0].StreamerIDs[0] = "zzz"
	c.History[0].StreamerIDs[0] = "zzz"
	c.Streamers[0].Name = "changed"
	if d.Groups[0].StreamerIDs[0] != "a" || d.History[0].StreamerIDs[0] != "a" || d.Streamers[0].Name != "alice" {
		t.Fatalf("mutating clone leaked into original: %+v", d)
	}

	var nilDoc *Document
	if nilDoc.Clone() != nil {
		t.Fatalf("nil clone should be nil")
	}
}

func TestHistoryEntry_Time(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	h := HistoryEntry{Timestamp: ts.UnixMilli()}
	if !h.Time().Equal(ts) {
		t.Fatalf("Time() = %v; want %v", h.Time(), ts)
	}
	if h.Time().Location() != time.Local {
		t.Fatalf("Time() location = %v; want Local", h.Time().Location())
	}
}

func TestDocumentRecord_TableName(t *testing.T) {
	if (DocumentRecord{}).TableName() != "documents" {
		t.Fatalf("unexpected table name")
	}
}
