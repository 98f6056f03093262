package domain

import (
	"regexp"
	"strings"
)

// ThemeCustom is selected automatically when a custom accent color is applied.
const ThemeCustom = "custom"

// Themes lists the selectable color schemes.
var Themes = []string{"twitch-dark", "midnight", "cyber", "forest", "crimson", "ocean", "sunset", ThemeCustom}

var hexColorRE = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsTheme reports whether name is one of Themes.
func IsTheme(name string) bool { return contains(Themes, name) }

// NormalizeHexColor prefixes a missing "#" and lower-cases the value. It
// reports false when the result is not a "#RRGGBB" color.
func NormalizeHexColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if !hexColorRE.MatchString(s) {
		return "", false
	}
	return strings.ToLower(s), true
}
