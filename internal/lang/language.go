// Package lang resolves target-language codes and checks whether generated
// text is written in the script of the target language.
package lang

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Default is the target language when none is configured.
const Default = "ja"

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(lang string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
}

// Validate checks that lang is a BCP 47 tag with a known base language.
// Accepts ISO 639-1 codes (e.g., "ja", "fr") and locales (e.g., "pt-BR", "zh-TW").
func Validate(lang string) error {
	if strings.TrimSpace(lang) == "" {
		return fmt.Errorf("empty language code: %w", ErrInvalid)
	}
	tag, err := language.Parse(Normalize(lang))
	if err != nil {
		return fmt.Errorf("invalid language code %q (use codes like 'ja', 'en', 'pt-BR'): %w", lang, ErrInvalid)
	}
	if _, conf := tag.Base(); conf == language.No {
		return fmt.Errorf("unknown language %q: %w", lang, ErrInvalid)
	}
	return nil
}

// BaseCode extracts the base language code from a locale.
// Examples: "pt-BR" -> "pt", "zh-TW" -> "zh", "ja" -> "ja"
func BaseCode(lang string) string {
	normalized := Normalize(lang)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// DisplayName returns the English name of a language for use in prompts.
// Falls back to the code itself for unparseable input.
func DisplayName(lang string) string {
	tag, err := language.Parse(Normalize(lang))
	if err != nil {
		return lang
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return lang
}
