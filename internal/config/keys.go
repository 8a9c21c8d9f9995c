package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Config keys. They double as flag names and config file keys.
const (
	KeyOutputDir         = "output-dir"
	KeyFormat            = "format"
	KeyLLM               = "llm"
	KeyModel             = "model"
	KeyCommand           = "cmd"
	KeyLanguage          = "language"
	KeySinglePass        = "single-pass"
	KeySplit             = "split"
	KeyChunkSize         = "chunk-size"
	KeyOverlap           = "overlap"
	KeyMaxBullets        = "max-bullets"
	KeyChunkMaxBullets   = "chunk-max-bullets"
	KeyMergeMaxBullets   = "merge-max-bullets"
	KeyIncludeActions    = "include-actions"
	KeyIncludeRisks      = "include-risks"
	KeyEnsureLanguage    = "ensure-language"
	KeyLanguageRetries   = "language-retries"
	KeyTimeout           = "timeout"
	KeySystemPrompt      = "system-prompt"
	KeySummaryPromptFile = "summary-prompt-file"
	KeyChunkPromptFile   = "chunk-prompt-file"
	KeyMergePromptFile   = "merge-prompt-file"
	KeyPromptFile        = "prompt-file"
)

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
	kindDuration
)

// setting describes one configurable value.
type setting struct {
	key  string
	kind kind
	def  any
	// env lists the environment variables read for the key, in priority order.
	env []string
}

var settings = []setting{
	{KeyOutputDir, kindString, "", []string{"PDFSUMMARY_OUTPUT_DIR"}},
	{KeyFormat, kindString, "md", []string{"PDFSUMMARY_FORMAT"}},
	{KeyLLM, kindString, "auto", []string{"PDFSUMMARY_LLM"}},
	{KeyModel, kindString, "", []string{"PDFSUMMARY_MODEL"}},
	{KeyCommand, kindString, "", []string{"PDFSUMMARY_LLM_CMD"}},
	{KeyLanguage, kindString, "ja", []string{"PDFSUMMARY_LANGUAGE"}},
	{KeySinglePass, kindBool, false, []string{"PDFSUMMARY_SINGLE_PASS"}},
	{KeySplit, kindString, "window", []string{"PDFSUMMARY_SPLIT"}},
	{KeyChunkSize, kindInt, 8000, []string{"PDFSUMMARY_CHUNK_SIZE"}},
	{KeyOverlap, kindInt, 400, []string{"PDFSUMMARY_OVERLAP"}},
	{KeyMaxBullets, kindInt, 10, []string{"PDFSUMMARY_MAX_BULLETS"}},
	{KeyChunkMaxBullets, kindInt, 5, []string{"PDFSUMMARY_CHUNK_MAX_BULLETS", "CHUNK_MAX_BULLETS"}},
	{KeyMergeMaxBullets, kindInt, 10, []string{"PDFSUMMARY_MERGE_MAX_BULLETS", "MERGE_MAX_BULLETS"}},
	{KeyIncludeActions, kindBool, true, []string{"PDFSUMMARY_INCLUDE_ACTIONS", "INCLUDE_ACTIONS"}},
	{KeyIncludeRisks, kindBool, true, []string{"PDFSUMMARY_INCLUDE_RISKS", "INCLUDE_RISKS"}},
	{KeyEnsureLanguage, kindBool, true, []string{"PDFSUMMARY_ENSURE_LANGUAGE", "PDFSUMMARY_ENSURE_JA"}},
	{KeyLanguageRetries, kindInt, 1, []string{"PDFSUMMARY_LANGUAGE_RETRIES", "PDFSUMMARY_JA_RETRIES"}},
	{KeyTimeout, kindDuration, 300 * time.Second, []string{"PDFSUMMARY_TIMEOUT"}},
	{KeySystemPrompt, kindString, "", []string{"PDFSUMMARY_SYSTEM_PROMPT"}},
	{KeySummaryPromptFile, kindString, "", []string{"PDFSUMMARY_SUMMARY_PROMPT_FILE", "SUMMARY_PROMPT_FILE"}},
	{KeyChunkPromptFile, kindString, "", []string{"PDFSUMMARY_CHUNK_PROMPT_FILE", "CHUNK_PROMPT_FILE"}},
	{KeyMergePromptFile, kindString, "", []string{"PDFSUMMARY_MERGE_PROMPT_FILE", "MERGE_PROMPT_FILE"}},
	{KeyPromptFile, kindString, "", []string{"PDFSUMMARY_PROMPT_FILE"}},
}

func lookup(key string) (setting, bool) {
	i := slices.IndexFunc(settings, func(s setting) bool { return s.key == key })
	if i < 0 {
		return setting{}, false
	}
	return settings[i], true
}

// Keys returns every config key in declaration order.
func Keys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	return keys
}

// EnvNames returns the environment variables read for key, in priority order.
func EnvNames(key string) []string {
	s, _ := lookup(key)
	return slices.Clone(s.env)
}

// Default returns the built-in default of key rendered as a string.
func Default(key string) string {
	s, ok := lookup(key)
	if !ok {
		return ""
	}
	return cast.ToString(s.def)
}

// coerce converts a raw value from any layer into the key's type.
func (s setting) coerce(raw any) (any, error) {
	var (
		v   any
		err error
	)
	switch s.kind {
	case kindInt:
		v, err = cast.ToIntE(trimString(raw))
	case kindBool:
		v, err = parseBool(raw)
	case kindDuration:
		v, err = parseTimeout(raw)
	default:
		v, err = cast.ToStringE(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: invalid value %q: %w", s.key, cast.ToString(raw), ErrInvalidValue)
	}
	return v, nil
}

func trimString(raw any) any {
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return raw
}

// parseBool accepts the usual switch words on top of strconv.ParseBool forms.
func parseBool(raw any) (bool, error) {
	if s, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
	}
	return cast.ToBoolE(trimString(raw))
}

// parseTimeout accepts a bare number of seconds ("300") or a Go duration ("5m").
func parseTimeout(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case int, int64, float64:
		return time.Duration(cast.ToFloat64(v) * float64(time.Second)), nil
	}
	s := strings.TrimSpace(cast.ToString(raw))
	if secs, err := cast.ToFloat64E(s); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d, nil
}
