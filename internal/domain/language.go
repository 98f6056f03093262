package domain

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used whenever a language code is missing or unknown.
const DefaultLanguage = "de"

// LanguageConfig controls how a list of names is joined in one language.
type LanguageConfig struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Tag         language.Tag `json:"-"`
	Conjunction string       `json:"conjunction"`
	OxfordComma bool         `json:"oxfordComma"`
}

var languages = map[string]LanguageConfig{
	"de": {Code: "de", Name: "Deutsch", Tag: language.German, Conjunction: "und", OxfordComma: false},
	"en": {Code: "en", Name: "English", Tag: language.English, Conjunction: "and", OxfordComma: true},
}

// canonicalCode reduces codes such as "en-US" or "DE" to their base language.
func canonicalCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}

// IsSupportedLanguage reports whether code maps to a configured language.
func IsSupportedLanguage(code string) bool {
	_, ok := languages[canonicalCode(code)]
	return ok
}

// Language returns the configuration for code, falling back to
// DefaultLanguage for unknown codes.
func Language(code string) LanguageConfig {
	if cfg, ok := languages[canonicalCode(code)]; ok {
		return cfg
	}
	return languages[DefaultLanguage]
}

// Languages lists the configured languages, default first.
func Languages() []LanguageConfig {
	return []LanguageConfig{languages["de"], languages["en"]}
}
