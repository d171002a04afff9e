package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// TrimAndNormalize trims surrounding whitespace and collapses internal
// whitespace runs into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeDescription(description string) string {
	return TrimAndNormalize(description)
}

// NormalizeUsername lowercases in addition to whitespace normalization so
// lookups are case-insensitive.
func NormalizeUsername(username string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
	}
	return p.Apply(username)
}
