package domain

import (
	"fmt"
	"time"
)

// Supported date and time display formats. "system" is rendered with an
// ISO-like layout because a backend has no UI locale to follow.
var (
	DateFormats = []string{"system", "DD.MM.YYYY", "MM/DD/YYYY", "YYYY-MM-DD", "DD MMM YYYY"}
	TimeFormats = []string{"system", "HH:mm", "HH:mm:ss", "hh:mm A", "hh:mm:ss A"}
)

// IsDateFormat reports whether f is one of DateFormats.
func IsDateFormat(f string) bool { return contains(DateFormats, f) }

// IsTimeFormat reports whether f is one of TimeFormats.
func IsTimeFormat(f string) bool { return contains(TimeFormats, f) }

// FormatDateTime renders t as "<date> <time>" using the given display formats.
// Unknown formats fall back to "system".
func FormatDateTime(t time.Time, dateFormat, timeFormat string) string {
	return formatDate(t, dateFormat) + " " + formatTime(t, timeFormat)
}

func formatDate(t time.Time, f string) string {
	switch f {
	case "DD.MM.YYYY":
		return t.Format("02.01.2006")
	case "MM/DD/YYYY":
		return t.Format("01/02/2006")
	case "YYYY-MM-DD":
		return t.Format("2006-01-02")
	case "DD MMM YYYY":
		return t.Format("02 Jan 2006")
	default:
		return t.Format("2006-01-02")
	}
}

func formatTime(t time.Time, f string) string {
	h12 := t.Hour() % 12
	if h12 == 0 {
		h12 = 12
	}
	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	switch f {
	case "HH:mm":
		return t.Format("15:04")
	case "HH:mm:ss":
		return t.Format("15:04:05")
	case "hh:mm A":
		return fmt.Sprintf("%02d:%02d %s", h12, t.Minute(), ampm)
	case "hh:mm:ss A":
		return fmt.Sprintf("%02d:%02d:%02d %s", h12, t.Minute(), t.Second(), ampm)
	default:
		return t.Format("15:04:05")
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
