package shoutout

import (
	"regexp"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// Placeholder is the canonical spelling of the streamer-list token.
const Placeholder = "{streamer}"

// placeholderRE matches the token in any letter case.
var placeholderRE = regexp.MustCompile(`(?i)\{streamer\}`)

// Result is a generated command in its two copyable forms.
type Result struct {
	// Command is the full bot command, e.g. "!so arg Check out @a and @b!".
	Command string `json:"command"`
	// TextOnly is the substituted body without the leading "!command [arg]".
	TextOnly string `json:"textOnly"`
}

// Build substitutes every placeholder in t.Text with the joined names and
// assembles the bot command. An empty names list replaces the placeholder
// with an empty string rather than failing.
func Build(t domain.Template, names []string, cfg domain.LanguageConfig) Result {
	text := placeholderRE.ReplaceAllLiteralString(t.Text, Join(names, cfg))
	return Result{
		Command:  prefix(t) + " " + text,
		TextOnly: text,
	}
}

// Preview renders the command structure of t with placeholders left in
// place (normalized to Placeholder) so a UI can highlight them.
func Preview(t domain.Template) string {
	return prefix(t) + " " + placeholderRE.ReplaceAllLiteralString(t.Text, Placeholder)
}

// HasPlaceholder reports whether text contains at least one placeholder.
func HasPlaceholder(text string) bool {
	return placeholderRE.MatchString(text)
}

func prefix(t domain.Template) string {
	cmd := "!" + t.Command
	if t.FirstArg != "" {
		cmd += " " + t.FirstArg
	}
	return cmd
}
