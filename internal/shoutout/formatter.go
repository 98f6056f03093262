// Package shoutout turns templates and streamer names into chat-bot
// commands. It holds no state: the same inputs always produce the same
// output, and caller-owned slices are never modified.
package shoutout

import (
	"strings"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// Join renders names as a natural-language list for the given language.
//
//	[]                -> ""
//	[a]               -> "a"
//	[a b]             -> "a <conj> b"
//	[a b c], Oxford   -> "a, b, <conj> c"
//	[a b c], no Oxford-> "a, b <conj> c"
//
// Names are used verbatim; escaping is the presentation layer's concern.
func Join(names []string, cfg domain.LanguageConfig) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " " + cfg.Conjunction + " " + names[1]
	}

	head, last := names[:len(names)-1], names[len(names)-1]

	var b strings.Builder
	b.WriteString(strings.Join(head, ", "))
	if cfg.OxfordComma {
		b.WriteByte(',')
	}
	b.WriteByte(' ')
	b.WriteString(cfg.Conjunction)
	b.WriteByte(' ')
	b.WriteString(last)
	return b.String()
}

// Mention prefixes a platform username with "@".
func Mention(name string) string { return "@" + name }

// Mentions maps every streamer to its "@name" form, preserving order.
func Mentions(streamers []domain.Streamer) []string {
	out := make([]string, 0, len(streamers))
	for _, s := range streamers {
		out = append(out, Mention(s.Name))
	}
	return out
}
