// Package extract pulls structured fields out of messy pricelist text:
// manufacturer model codes and monetary values.
package extract

import (
	"regexp"
	"strings"
)

// ModelPattern is one entry in the ordered extraction cascade. Patterns run
// against the uppercased input; the first capture group is the candidate code.
type ModelPattern struct {
	Name string
	Re   *regexp.Regexp
}

// defaultPatterns runs brand-specific shapes before the generic fallback so
// that "Denon AVR-X1800H 7.2 Channel" yields AVR-X1800H and not X1800H.
var defaultPatterns = []ModelPattern{
	{"denon-avr", regexp.MustCompile(`\b(AV[RC][-_ ]?[A-Z]?\d{3,4}[A-Z]*)\b`)},
	{"pioneer-cdj", regexp.MustCompile(`\b(CDJ[-_ ]?\d{3,4}[A-Z]*)\b`)},
	{"akg-c", regexp.MustCompile(`\b(C\d{3}[A-Z]*(?:[-_][A-Z0-9]+)?)\b`)},
	{"generic", regexp.MustCompile(`\b([A-Z0-9]+(?:[-_][A-Z0-9]+)+|[A-Z]+\d+[A-Z0-9]*|\d+[A-Z]+[A-Z0-9]*)\b`)},
}

// ModelExtractor extracts model codes from product names via an ordered
// pattern table. The zero value is not usable; use NewModelExtractor.
type ModelExtractor struct {
	patterns []ModelPattern
	minLen   int
}

// Option configures a ModelExtractor.
type Option func(*ModelExtractor)

// WithMinLength overrides the minimum accepted token length (default 3).
func WithMinLength(n int) Option {
	return func(e *ModelExtractor) {
		if n > 0 {
			e.minLen = n
		}
	}
}

// WithPatterns prepends extra patterns, which run before the defaults.
func WithPatterns(ps ...ModelPattern) Option {
	return func(e *ModelExtractor) {
		e.patterns = append(append([]ModelPattern{}, ps...), e.patterns...)
	}
}

// NewModelExtractor builds an extractor with the default pattern cascade.
func NewModelExtractor(opts ...Option) *ModelExtractor {
	e := &ModelExtractor{
		patterns: defaultPatterns,
		minLen:   3,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ModelToken returns the first plausible model code found in text, normalized
// to uppercase with "-" separators, or "" when nothing qualifies.
func (e *ModelExtractor) ModelToken(text string) string {
	if text == "" {
		return ""
	}
	upper := strings.ToUpper(text)

	for _, p := range e.patterns {
		for _, m := range p.Re.FindAllStringSubmatch(upper, -1) {
			tok := normalizeToken(m[1])
			if e.valid(tok) {
				return tok
			}
		}
	}
	return ""
}

// valid accepts tokens long enough to be a real code that mix letters and
// digits adjacently (separators ignored). Pure words and pure numbers are
// rejected so "PRO" or "2024" never become model codes.
func (e *ModelExtractor) valid(tok string) bool {
	if len(tok) < e.minLen {
		return false
	}

	var prev rune
	for _, r := range tok {
		if r == '-' {
			continue
		}
		if prev != 0 && letterDigitTransition(prev, r) {
			return true
		}
		prev = r
	}
	return false
}

func letterDigitTransition(a, b rune) bool {
	return (isLetter(a) && isDigit(b)) || (isDigit(a) && isLetter(b))
}

func isLetter(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }

func normalizeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "_", "-")
	tok = strings.ReplaceAll(tok, " ", "-")
	return strings.Trim(tok, "-")
}
